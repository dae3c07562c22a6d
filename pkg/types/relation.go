package types

// RelationType is a canonical kinship label used in person-to-person edges.
//
// An edge (a, b, r) reads "a is r of b".
type RelationType string

const (
	// RelationUnknown marks an absent or unrecognized relation.
	RelationUnknown     RelationType = ""
	RelationFather      RelationType = "father"
	RelationMother      RelationType = "mother"
	RelationSpouse      RelationType = "spouse"
	RelationChild       RelationType = "child"
	RelationSibling     RelationType = "sibling"
	RelationGrandfather RelationType = "grandfather"
	RelationGrandmother RelationType = "grandmother"
	// RelationGrandchild is never stated by a source; it only appears as an inverse.
	RelationGrandchild  RelationType = "grandchild"
)

// relationByEntityID maps knowledge-base property and item ids to relation tags.
var relationByEntityID = map[string]RelationType{
	"P22":      RelationFather,
	"P25":      RelationMother,
	"P26":      RelationSpouse,
	"P40":      RelationChild,
	"P3373":    RelationSibling,
	"Q31184":   RelationSibling, // brother or sister
	"Q9238344": RelationGrandfather,
	"Q9235758": RelationGrandmother,
}

// RelationFromEntityID looks up the relation tag for an entity id.
func RelationFromEntityID(id string) (RelationType, bool) {
	r, ok := relationByEntityID[id]
	return r, ok
}

// KnownRelations lists every relation tag the pipeline can emit, in a fixed order.
func KnownRelations() []RelationType {
	return []RelationType{
		RelationFather,
		RelationMother,
		RelationSpouse,
		RelationChild,
		RelationSibling,
		RelationGrandfather,
		RelationGrandmother,
		RelationGrandchild,
	}
}

// IsKnown reports whether r is one of the canonical relation tags.
func (r RelationType) IsKnown() bool {
	for _, known := range KnownRelations() {
		if r == known {
			return true
		}
	}
	return false
}

func (r RelationType) String() string {
	return string(r)
}
