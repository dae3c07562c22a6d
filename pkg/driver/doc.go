// Package driver loads the output tables into a Neo4j graph and answers simple
// kinship lookups from it.
//
// Persons and nationalities become nodes keyed by their entity id:
//
//	(:Person {key, name, gender, birthdate, deathdate, description})
//	(:Nationality {key, name})
//
// Each person-to-person edge becomes (a)-[:RELATIVE {type}]->(b), read "a is type
// of b", and each person-to-nationality edge becomes (p)-[:NATIONALITY]->(n). Edge
// endpoints without a row of their own are created as bare nodes.
//
// # Thread Safety
//
// Neo4jDriver is safe for concurrent use. Sessions are opened per call.
package driver
