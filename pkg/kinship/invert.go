// Package kinship computes the inverse side of a stated kinship relation.
package kinship

import "github.com/akngs/k-families-data/pkg/types"

// inverseOf holds the gender-independent inversions.
var inverseOf = map[types.RelationType]types.RelationType{
	types.RelationFather:      types.RelationChild,
	types.RelationMother:      types.RelationChild,
	types.RelationGrandfather: types.RelationGrandchild,
	types.RelationGrandmother: types.RelationGrandchild,
	types.RelationSpouse:      types.RelationSpouse,
	types.RelationSibling:     types.RelationSibling,
}

// Invert returns what the subject is to the relative, given what the relative is to
// the subject (stated) and the subject's gender.
//
// child and grandchild resolve to the male label only for male-coded genders (m, tm).
// Every other gender, including absent and non-binary, gets the female label. This
// binary fallback is a known limitation of the dataset's relation vocabulary, which
// has no neutral parent or grandparent tag.
//
// Unrecognized relations invert to RelationUnknown.
func Invert(subject types.Gender, stated types.RelationType) types.RelationType {
	switch stated {
	case types.RelationChild:
		if subject.IsMaleCoded() {
			return types.RelationFather
		}
		return types.RelationMother
	case types.RelationGrandchild:
		if subject.IsMaleCoded() {
			return types.RelationGrandfather
		}
		return types.RelationGrandmother
	}

	if inv, ok := inverseOf[stated]; ok {
		return inv
	}
	return types.RelationUnknown
}

// Edges returns both directions of a stated relation between subject and relative:
// (subject, relative, Invert(...)) followed by (relative, subject, stated).
// It returns nil when the relation is not recognized.
func Edges(subject string, subjectGender types.Gender, relative string, stated types.RelationType) []types.PersonRelation {
	inverse := Invert(subjectGender, stated)
	if inverse == types.RelationUnknown {
		return nil
	}
	return []types.PersonRelation{
		{A: subject, B: relative, RelType: inverse},
		{A: relative, B: subject, RelType: stated},
	}
}
