// Package pipeline wires the stages together: Fetch runs the SPARQL queries and
// stores raw extracts, Cleanse turns the extracts into the four output tables.
//
// Both stages are fail-fast. The first error cancels the remaining work and no
// output file is replaced, because every file is staged and committed together
// only after all of them were written.
package pipeline
