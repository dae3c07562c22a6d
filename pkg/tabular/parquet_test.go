package tabular

import (
	"bytes"
	"testing"

	"github.com/akngs/k-families-data/pkg/types"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteParquetPersons(t *testing.T) {
	tables := FromDataset(sampleDataset())

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, tables[0]))

	rows, err := parquet.Read[ParquetPerson](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Q1", rows[0].Key)
	require.NotNil(t, rows[0].Gender)
	assert.Equal(t, "f", *rows[0].Gender)
	assert.Nil(t, rows[0].Deathdate, "absent fields are stored as nulls")
	assert.Nil(t, rows[1].Gender)
}

func TestWriteParquetEdges(t *testing.T) {
	tables := FromDataset(sampleDataset())

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, tables[2]))

	rows, err := parquet.Read[ParquetPersonRelation](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, []ParquetPersonRelation{
		{A: "Q1", B: "Q2", RelType: string(types.RelationChild)},
		{A: "Q2", B: "Q1", RelType: string(types.RelationFather)},
	}, rows)
}

func TestWriteParquetUnknownTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteParquet(&buf, Table{Name: "families"})
	assert.ErrorIs(t, err, ErrUnknownTable)
}
