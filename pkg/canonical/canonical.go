// Package canonical merges normalized records into the four output relations.
//
// Records are consumed in source-concatenation order. Entities are folded into
// key-indexed snapshots where the last occurrence of a key wins; edges are derived
// afterwards against those final snapshots, so the relation chosen for a subject
// never depends on where its record sits in the input.
package canonical

import (
	"github.com/akngs/k-families-data/pkg/kinship"
	"github.com/akngs/k-families-data/pkg/rowset"
	"github.com/akngs/k-families-data/pkg/types"
)

// PersonIndex is an immutable key -> person snapshot.
type PersonIndex struct {
	byKey map[string]types.Person
}

// Get returns the person stored under key.
func (idx PersonIndex) Get(key string) (types.Person, bool) {
	p, ok := idx.byKey[key]
	return p, ok
}

// Gender returns the gender of the person stored under key, or GenderUnknown.
func (idx PersonIndex) Gender(key string) types.Gender {
	return idx.byKey[key].Gender
}

// Len returns the number of distinct persons.
func (idx PersonIndex) Len() int {
	return len(idx.byKey)
}

// Rows returns the persons in unspecified order.
func (idx PersonIndex) Rows() []types.Person {
	rows := make([]types.Person, 0, len(idx.byKey))
	for _, p := range idx.byKey {
		rows = append(rows, p)
	}
	return rows
}

// FoldPersons builds the person index. For a key seen more than once, the attributes
// of its last record replace earlier ones entirely. Records without a key are skipped.
func FoldPersons(records []types.NormalizedRecord) PersonIndex {
	byKey := make(map[string]types.Person)
	for _, rec := range records {
		if !rec.HasKey() {
			continue
		}
		byKey[rec.Key] = rec.Person()
	}
	return PersonIndex{byKey: byKey}
}

// FoldNationalities builds the key -> nationality snapshot, last label wins.
func FoldNationalities(records []types.NormalizedRecord) map[string]types.Nationality {
	byKey := make(map[string]types.Nationality)
	for _, rec := range records {
		if rec.NationalityKey == "" {
			continue
		}
		byKey[rec.NationalityKey] = rec.Nationality()
	}
	return byKey
}

// RelationEdges emits both directions of every recognized relation. The subject's
// gender comes from the final person index.
func RelationEdges(records []types.NormalizedRecord, persons PersonIndex) []types.PersonRelation {
	var edges []types.PersonRelation
	for _, rec := range records {
		if !rec.HasRelation() {
			continue
		}
		edges = append(edges, kinship.Edges(rec.Key, persons.Gender(rec.Key), rec.Relative, rec.InvRelType)...)
	}
	return edges
}

// NationalityEdges emits one person -> nationality link per record carrying both.
func NationalityEdges(records []types.NormalizedRecord) []types.PersonNationality {
	var edges []types.PersonNationality
	for _, rec := range records {
		if !rec.HasNationality() {
			continue
		}
		edges = append(edges, types.PersonNationality{Person: rec.Key, Nationality: rec.NationalityKey})
	}
	return edges
}

// Canonicalize produces the sorted, duplicate-free dataset for records.
func Canonicalize(records []types.NormalizedRecord) *types.Dataset {
	persons := FoldPersons(records)

	nationalityMap := FoldNationalities(records)
	nationalities := make([]types.Nationality, 0, len(nationalityMap))
	for _, n := range nationalityMap {
		nationalities = append(nationalities, n)
	}

	return &types.Dataset{
		Persons:             rowset.Canonicalize(persons.Rows()),
		Nationalities:       rowset.Canonicalize(nationalities),
		PersonRelations:     rowset.Canonicalize(RelationEdges(records, persons)),
		PersonNationalities: rowset.Canonicalize(NationalityEdges(records)),
	}
}
