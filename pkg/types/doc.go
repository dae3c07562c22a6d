// Package types defines the data model shared by the k-families pipeline.
//
// It holds the controlled vocabularies and the records that flow between stages:
//   - Gender and RelationType: closed vocabularies mapped from knowledge-base entity ids
//   - RawRecord: one row of a raw source, keyed by column name
//   - NormalizedRecord: a raw row after field normalization
//   - Person, Nationality, PersonRelation, PersonNationality: the four output relations
//   - Dataset: the four row sets of one run
//
// # Vocabularies
//
// Each vocabulary keeps its lookup table next to the type definition, so adding a code
// is a one-line edit:
//
//	g, ok := types.GenderFromEntityID("Q6581072") // GenderFemale, true
//	r, ok := types.RelationFromEntityID("P40")    // RelationChild, true
//
// # Absent values
//
// Absent fields are represented by the zero value of their type ("" for ids, dates and
// labels, GenderUnknown and RelationUnknown for the vocabularies). Output rows render an
// absent field as an empty column.
package types
