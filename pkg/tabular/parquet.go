package tabular

import (
	"fmt"
	"io"

	"github.com/akngs/k-families-data/pkg/types"
	"github.com/parquet-go/parquet-go"
)

// ParquetPerson is the parquet schema of the persons table.
type ParquetPerson struct {
	Key         string  `parquet:"key"`
	Name        *string `parquet:"name,optional"`
	Gender      *string `parquet:"gender,optional"`
	Birthdate   *string `parquet:"birthdate,optional"`
	Deathdate   *string `parquet:"deathdate,optional"`
	Description *string `parquet:"description,optional"`
}

// ParquetNationality is the parquet schema of the nationalities table.
type ParquetNationality struct {
	Key  string  `parquet:"key"`
	Name *string `parquet:"name,optional"`
}

// ParquetPersonRelation is the parquet schema of the person2person table.
type ParquetPersonRelation struct {
	A       string `parquet:"a"`
	B       string `parquet:"b"`
	RelType string `parquet:"reltype"`
}

// ParquetPersonNationality is the parquet schema of the person2nationality table.
type ParquetPersonNationality struct {
	Person      string `parquet:"person"`
	Nationality string `parquet:"nationality"`
}

// ParquetFileName returns the file name of a table's parquet copy.
func ParquetFileName(name string) string {
	return name + ".parquet"
}

// WriteParquet writes a table in its typed parquet schema. Empty fields of nullable
// columns are stored as nulls.
func WriteParquet(w io.Writer, t Table) error {
	var err error
	switch t.Name {
	case types.TablePersons:
		rows := make([]ParquetPerson, 0, len(t.Rows))
		for _, r := range t.Rows {
			rows = append(rows, ParquetPerson{
				Key:         r[0],
				Name:        nullable(r[1]),
				Gender:      nullable(r[2]),
				Birthdate:   nullable(r[3]),
				Deathdate:   nullable(r[4]),
				Description: nullable(r[5]),
			})
		}
		err = parquet.Write(w, rows)
	case types.TableNationalities:
		rows := make([]ParquetNationality, 0, len(t.Rows))
		for _, r := range t.Rows {
			rows = append(rows, ParquetNationality{Key: r[0], Name: nullable(r[1])})
		}
		err = parquet.Write(w, rows)
	case types.TablePersonRelations:
		rows := make([]ParquetPersonRelation, 0, len(t.Rows))
		for _, r := range t.Rows {
			rows = append(rows, ParquetPersonRelation{A: r[0], B: r[1], RelType: r[2]})
		}
		err = parquet.Write(w, rows)
	case types.TablePersonNationalities:
		rows := make([]ParquetPersonNationality, 0, len(t.Rows))
		for _, r := range t.Rows {
			rows = append(rows, ParquetPersonNationality{Person: r[0], Nationality: r[1]})
		}
		err = parquet.Write(w, rows)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownTable, t.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s parquet: %w", t.Name, err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
