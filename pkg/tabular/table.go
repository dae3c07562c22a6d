// Package tabular reads and writes the pipeline's record-oriented files: the raw
// source extracts and the four header-labelled output tables.
package tabular

import (
	"errors"
	"fmt"
	"slices"

	"github.com/akngs/k-families-data/pkg/types"
)

var (
	// ErrUnknownTable is returned for a table name outside the output contract.
	ErrUnknownTable = errors.New("unknown table")
	// ErrHeaderMismatch is returned when a file's header differs from its contract.
	ErrHeaderMismatch = errors.New("header does not match table contract")
	// ErrFieldCount is returned when a row's width differs from the header.
	ErrFieldCount = errors.New("wrong number of fields")
)

// headers is the fixed column contract of each output table.
var headers = map[string][]string{
	types.TablePersons:             {"key", "name", "gender", "birthdate", "deathdate", "description"},
	types.TableNationalities:       {"key", "name"},
	types.TablePersonRelations:     {"a", "b", "reltype"},
	types.TablePersonNationalities: {"person", "nationality"},
}

// Header returns the column contract of the named table.
func Header(name string) ([]string, error) {
	h, ok := headers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return slices.Clone(h), nil
}

// Table is one output relation rendered as string rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

func newTable[R types.Row](name string, rows []R) Table {
	t := Table{Name: name, Header: slices.Clone(headers[name]), Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, r.Fields())
	}
	return t
}

// FromDataset renders the dataset as tables in types.TableNames order.
func FromDataset(ds *types.Dataset) []Table {
	return []Table{
		newTable(types.TablePersons, ds.Persons),
		newTable(types.TableNationalities, ds.Nationalities),
		newTable(types.TablePersonRelations, ds.PersonRelations),
		newTable(types.TablePersonNationalities, ds.PersonNationalities),
	}
}

// ToDataset parses tables back into a dataset. Tables may come in any order;
// unknown names are rejected.
func ToDataset(tables []Table) (*types.Dataset, error) {
	ds := &types.Dataset{}
	for _, t := range tables {
		if err := checkHeader(t.Name, t.Header); err != nil {
			return nil, err
		}
		for i, row := range t.Rows {
			if len(row) != len(t.Header) {
				return nil, fmt.Errorf("%w: %s row %d has %d fields, want %d", ErrFieldCount, t.Name, i+1, len(row), len(t.Header))
			}
			switch t.Name {
			case types.TablePersons:
				ds.Persons = append(ds.Persons, types.Person{
					Key:         row[0],
					Name:        row[1],
					Gender:      types.Gender(row[2]),
					Birthdate:   row[3],
					Deathdate:   row[4],
					Description: row[5],
				})
			case types.TableNationalities:
				ds.Nationalities = append(ds.Nationalities, types.Nationality{Key: row[0], Name: row[1]})
			case types.TablePersonRelations:
				ds.PersonRelations = append(ds.PersonRelations, types.PersonRelation{A: row[0], B: row[1], RelType: types.RelationType(row[2])})
			case types.TablePersonNationalities:
				ds.PersonNationalities = append(ds.PersonNationalities, types.PersonNationality{Person: row[0], Nationality: row[1]})
			}
		}
	}
	return ds, nil
}

func checkHeader(name string, got []string) error {
	want, ok := headers[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if !slices.Equal(want, got) {
		return fmt.Errorf("%w: %s has %v, want %v", ErrHeaderMismatch, name, got, want)
	}
	return nil
}
