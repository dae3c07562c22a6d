package tabular

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akngs/k-families-data/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawRelatives = `human,humanLabel,gender,relative,invReltype
http://www.wikidata.org/entity/Q1,Ada,http://www.wikidata.org/entity/Q6581072,http://www.wikidata.org/entity/Q2,http://www.wikidata.org/prop/direct/P40
http://www.wikidata.org/entity/Q3,"Kim, Jr.",,,
`

func TestReadRaw(t *testing.T) {
	records, err := ReadRaw(strings.NewReader(rawRelatives))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Ada", records[0].Get(types.ColumnHumanLabel))
	assert.Equal(t, "http://www.wikidata.org/prop/direct/P40", records[0].Get(types.ColumnInvRelType))
	assert.Equal(t, "Kim, Jr.", records[1].Get(types.ColumnHumanLabel))

	// Missing columns and empty cells both read as absent.
	assert.Empty(t, records[0].Get(types.ColumnBirthdate))
	_, present := records[1][types.ColumnGender]
	assert.False(t, present)
}

func TestReadRawEmpty(t *testing.T) {
	records, err := ReadRaw(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = ReadRaw(strings.NewReader("human,humanLabel\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRawStripsBOM(t *testing.T) {
	records, err := ReadRaw(strings.NewReader("\ufeffhuman\nhttp://www.wikidata.org/entity/Q1\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "http://www.wikidata.org/entity/Q1", records[0].Get(types.ColumnHuman))
}

func TestReadRawFileMissing(t *testing.T) {
	_, err := ReadRawFile(filepath.Join(t.TempDir(), "raw-persons.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func sampleDataset() *types.Dataset {
	return &types.Dataset{
		Persons: []types.Person{
			{Key: "Q1", Name: "Ada", Gender: types.GenderFemale, Birthdate: "18151210", Description: "poet, \"mathematician\""},
			{Key: "Q2", Name: "Byron"},
		},
		Nationalities: []types.Nationality{{Key: "Q145", Name: "United Kingdom"}},
		PersonRelations: []types.PersonRelation{
			{A: "Q1", B: "Q2", RelType: types.RelationChild},
			{A: "Q2", B: "Q1", RelType: types.RelationFather},
		},
		PersonNationalities: []types.PersonNationality{{Person: "Q1", Nationality: "Q145"}},
	}
}

func TestWriteCSV(t *testing.T) {
	tables := FromDataset(sampleDataset())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tables[0]))

	assert.Equal(t,
		"key,name,gender,birthdate,deathdate,description\n"+
			"Q1,Ada,f,18151210,,\"poet, \"\"mathematician\"\"\"\n"+
			"Q2,Byron,,,,\n",
		buf.String())
}

func TestCSVTablesLoadBack(t *testing.T) {
	dir := t.TempDir()
	ds := sampleDataset()

	for _, table := range FromDataset(ds) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, table))
		require.NoError(t, os.WriteFile(filepath.Join(dir, CSVFileName(table.Name)), buf.Bytes(), 0644))
	}

	loaded, err := ReadDatasetDir(dir)
	require.NoError(t, err)
	assert.Equal(t, ds, loaded)
}

func TestReadCSVRejectsWrongHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b,type\nQ1,Q2,child\n"), types.TablePersonRelations)
	assert.ErrorIs(t, err, ErrHeaderMismatch)

	_, err = ReadCSV(strings.NewReader("key,name\n"), "families")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("key,name\n"), types.TableNationalities)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestToDatasetRejectsShortRows(t *testing.T) {
	_, err := ToDataset([]Table{{
		Name:   types.TableNationalities,
		Header: []string{"key", "name"},
		Rows:   [][]string{{"Q1"}},
	}})
	assert.ErrorIs(t, err, ErrFieldCount)
}

func TestHeader(t *testing.T) {
	h, err := Header(types.TablePersons)
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "name", "gender", "birthdate", "deathdate", "description"}, h)

	h[0] = "mutated"
	again, _ := Header(types.TablePersons)
	assert.Equal(t, "key", again[0])
}
