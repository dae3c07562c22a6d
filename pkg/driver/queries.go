package driver

import (
	"github.com/akngs/k-families-data/pkg/types"
)

// DefaultBatchSize is the number of rows sent per UNWIND statement.
const DefaultBatchSize = 1000

// Schema statements, run before loading.
var constraintQueries = []string{
	"CREATE CONSTRAINT person_key IF NOT EXISTS FOR (p:Person) REQUIRE p.key IS UNIQUE",
	"CREATE CONSTRAINT nationality_key IF NOT EXISTS FOR (n:Nationality) REQUIRE n.key IS UNIQUE",
}

const (
	clearQuery = `
		MATCH (n) WHERE n:Person OR n:Nationality
		DETACH DELETE n`

	mergePersonsQuery = `
		UNWIND $rows AS row
		MERGE (p:Person {key: row.key})
		SET p.name = row.name,
			p.gender = row.gender,
			p.birthdate = row.birthdate,
			p.deathdate = row.deathdate,
			p.description = row.description`

	mergeNationalitiesQuery = `
		UNWIND $rows AS row
		MERGE (n:Nationality {key: row.key})
		SET n.name = row.name`

	mergeRelationsQuery = `
		UNWIND $rows AS row
		MERGE (a:Person {key: row.a})
		MERGE (b:Person {key: row.b})
		MERGE (a)-[:RELATIVE {type: row.reltype}]->(b)`

	mergePersonNationalitiesQuery = `
		UNWIND $rows AS row
		MERGE (p:Person {key: row.person})
		MERGE (n:Nationality {key: row.nationality})
		MERGE (p)-[:NATIONALITY]->(n)`

	relativesQuery = `
		MATCH (a:Person)-[r:RELATIVE]->(b:Person {key: $key})
		RETURN a.key AS a, b.key AS b, r.type AS reltype
		ORDER BY a, reltype`

	countsQuery = `
		CALL { MATCH (p:Person) RETURN count(p) AS persons }
		CALL { MATCH (n:Nationality) RETURN count(n) AS nationalities }
		CALL { MATCH ()-[r:RELATIVE]->() RETURN count(r) AS relations }
		CALL { MATCH ()-[r:NATIONALITY]->() RETURN count(r) AS person_nationalities }
		RETURN persons, nationalities, relations, person_nationalities`
)

// loadStep is one UNWIND statement with its parameter rows.
type loadStep struct {
	name  string
	query string
	rows  []map[string]any
}

// loadSteps turns a dataset into statements. Nodes come before the edges that
// reference them. Absent fields become null properties.
func loadSteps(ds *types.Dataset) []loadStep {
	persons := make([]map[string]any, 0, len(ds.Persons))
	for _, p := range ds.Persons {
		persons = append(persons, map[string]any{
			"key":         p.Key,
			"name":        nullable(p.Name),
			"gender":      nullable(string(p.Gender)),
			"birthdate":   nullable(p.Birthdate),
			"deathdate":   nullable(p.Deathdate),
			"description": nullable(p.Description),
		})
	}

	nationalities := make([]map[string]any, 0, len(ds.Nationalities))
	for _, n := range ds.Nationalities {
		nationalities = append(nationalities, map[string]any{"key": n.Key, "name": nullable(n.Name)})
	}

	relations := make([]map[string]any, 0, len(ds.PersonRelations))
	for _, e := range ds.PersonRelations {
		relations = append(relations, map[string]any{"a": e.A, "b": e.B, "reltype": string(e.RelType)})
	}

	memberships := make([]map[string]any, 0, len(ds.PersonNationalities))
	for _, e := range ds.PersonNationalities {
		memberships = append(memberships, map[string]any{"person": e.Person, "nationality": e.Nationality})
	}

	return []loadStep{
		{name: types.TablePersons, query: mergePersonsQuery, rows: persons},
		{name: types.TableNationalities, query: mergeNationalitiesQuery, rows: nationalities},
		{name: types.TablePersonRelations, query: mergeRelationsQuery, rows: relations},
		{name: types.TablePersonNationalities, query: mergePersonNationalitiesQuery, rows: memberships},
	}
}

// batches splits rows into chunks of at most size.
func batches[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]T
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		out = append(out, rows[start:end])
	}
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
