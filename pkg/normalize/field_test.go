package normalize

import (
	"errors"
	"testing"

	"github.com/akngs/k-families-data/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityID(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		err      error
	}{
		{"item", "http://www.wikidata.org/entity/Q6581072", "Q6581072", nil},
		{"property over https", "https://www.wikidata.org/prop/direct/P40", "P40", nil},
		{"absent", "", "", nil},
		{"lexeme prefix", "http://www.wikidata.org/entity/L123", "", ErrInvalidEntityURI},
		{"blank node", "_:b0", "", ErrInvalidEntityURI},
		{"trailing slash", "http://www.wikidata.org/entity/Q1/", "", ErrInvalidEntityURI},
		{"no path", "http://Q1", "", ErrInvalidEntityURI},
		{"free text", "Ada Lovelace", "", ErrInvalidEntityURI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := EntityID(tt.raw)
			assert.Equal(t, tt.expected, id)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err))

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.raw, fe.Value)
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		err      error
	}{
		{"1815-12-10T00:00:00Z", "18151210", nil},
		{"1900-01-01", "19000101", nil},
		{"", "", nil},
		{"circa 1900", "", ErrInvalidDate},
		{"1900", "", ErrInvalidDate},
		{"-0500-01-01T00:00:00Z", "", ErrInvalidDate},
		{"http://www.wikidata.org/.well-known/genid/abc", "", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, err := Date(tt.raw)
			assert.Equal(t, tt.expected, d)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestGender(t *testing.T) {
	g, err := Gender("http://www.wikidata.org/entity/Q6581097")
	require.NoError(t, err)
	assert.Equal(t, types.GenderMale, g)

	g, err = Gender("")
	assert.NoError(t, err, "absent gender is not a diagnostic")
	assert.Equal(t, types.GenderUnknown, g)

	g, err = Gender("http://www.wikidata.org/entity/Q1097630")
	assert.ErrorIs(t, err, ErrUnknownGender)
	assert.Equal(t, types.GenderUnknown, g)
	assert.Contains(t, err.Error(), "Q1097630")

	g, err = Gender("female")
	assert.ErrorIs(t, err, ErrInvalidEntityURI)
	assert.Equal(t, types.GenderUnknown, g)
}

func TestRelationType(t *testing.T) {
	r, err := RelationType("http://www.wikidata.org/prop/direct/P40")
	require.NoError(t, err)
	assert.Equal(t, types.RelationChild, r)

	r, err = RelationType("http://www.wikidata.org/entity/Q31184")
	require.NoError(t, err)
	assert.Equal(t, types.RelationSibling, r)

	r, err = RelationType("")
	assert.NoError(t, err)
	assert.Equal(t, types.RelationUnknown, r)

	r, err = RelationType("http://www.wikidata.org/prop/direct/P1038")
	assert.ErrorIs(t, err, ErrUnknownRelation)
	assert.Equal(t, types.RelationUnknown, r)
}
