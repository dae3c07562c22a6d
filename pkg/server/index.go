package server

import (
	"sort"

	"github.com/akngs/k-families-data/pkg/types"
)

// Index answers dataset lookups from memory. It is built once and never modified,
// so it is safe for concurrent readers.
type Index struct {
	persons       map[string]types.Person
	nationalities map[string]types.Nationality
	nationList    []types.Nationality
	relativesOf   map[string][]types.PersonRelation
	nationsOf     map[string][]string
	membersOf     map[string][]string
	known         map[string]bool
	counts        map[string]int
}

// NewIndex indexes ds. Edge lists keep the dataset's canonical order.
func NewIndex(ds *types.Dataset) *Index {
	idx := &Index{
		persons:       make(map[string]types.Person, len(ds.Persons)),
		nationalities: make(map[string]types.Nationality, len(ds.Nationalities)),
		nationList:    ds.Nationalities,
		relativesOf:   make(map[string][]types.PersonRelation),
		nationsOf:     make(map[string][]string),
		membersOf:     make(map[string][]string),
		known:         make(map[string]bool),
		counts:        ds.Counts(),
	}
	for _, p := range ds.Persons {
		idx.persons[p.Key] = p
		idx.known[p.Key] = true
	}
	for _, n := range ds.Nationalities {
		idx.nationalities[n.Key] = n
	}
	for _, e := range ds.PersonRelations {
		idx.relativesOf[e.B] = append(idx.relativesOf[e.B], e)
		idx.known[e.A] = true
		idx.known[e.B] = true
	}
	for _, e := range ds.PersonNationalities {
		idx.nationsOf[e.Person] = append(idx.nationsOf[e.Person], e.Nationality)
		idx.membersOf[e.Nationality] = append(idx.membersOf[e.Nationality], e.Person)
		idx.known[e.Person] = true
	}
	for _, members := range idx.membersOf {
		sort.Strings(members)
	}
	if idx.nationList == nil {
		idx.nationList = []types.Nationality{}
	}
	return idx
}

// Person returns the person row for key.
func (i *Index) Person(key string) (types.Person, bool) {
	p, ok := i.persons[key]
	return p, ok
}

// HasPerson reports whether key has a person row or appears in any person edge.
func (i *Index) HasPerson(key string) bool {
	return i.known[key]
}

// Relatives returns the edges (a, key, r), meaning a is r of key.
func (i *Index) Relatives(key string) []types.PersonRelation {
	return i.relativesOf[key]
}

// NationalitiesOf returns the nationality keys of a person.
func (i *Index) NationalitiesOf(key string) []string {
	return i.nationsOf[key]
}

// Nationality returns the nationality row for key.
func (i *Index) Nationality(key string) (types.Nationality, bool) {
	n, ok := i.nationalities[key]
	return n, ok
}

// Nationalities returns every nationality in key order.
func (i *Index) Nationalities() []types.Nationality {
	return i.nationList
}

// Members returns the person keys holding a nationality, sorted.
func (i *Index) Members(key string) []string {
	return i.membersOf[key]
}

// Counts returns row counts per table.
func (i *Index) Counts() map[string]int {
	return i.counts
}
