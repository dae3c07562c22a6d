package normalize

import (
	"regexp"

	"github.com/akngs/k-families-data/pkg/types"
)

var (
	entityURIPattern = regexp.MustCompile(`^https?://.+?/([QP]\d+)$`)
	datePattern      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
)

// EntityID extracts the trailing entity id (e.g. Q6581072) from an entity URI.
// An empty input is absent and returns "" with no error.
func EntityID(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	m := entityURIPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", &FieldError{Kind: ErrInvalidEntityURI, Value: raw}
	}
	return m[1], nil
}

// Date renders a value starting with YYYY-MM-DD as YYYYMMDD, dropping anything after
// the day (typically a time component).
func Date(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	m := datePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", &FieldError{Kind: ErrInvalidDate, Value: raw}
	}
	return m[1] + m[2] + m[3], nil
}

// Gender maps a gender entity URI to its vocabulary tag.
func Gender(raw string) (types.Gender, error) {
	id, err := EntityID(raw)
	if err != nil || id == "" {
		return types.GenderUnknown, err
	}

	g, ok := types.GenderFromEntityID(id)
	if !ok {
		return types.GenderUnknown, &FieldError{Kind: ErrUnknownGender, Value: id}
	}
	return g, nil
}

// RelationType maps a relation property or item URI to its relation tag.
func RelationType(raw string) (types.RelationType, error) {
	id, err := EntityID(raw)
	if err != nil || id == "" {
		return types.RelationUnknown, err
	}

	r, ok := types.RelationFromEntityID(id)
	if !ok {
		return types.RelationUnknown, &FieldError{Kind: ErrUnknownRelation, Value: id}
	}
	return r, nil
}
