package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/akngs/k-families-data/pkg/types"
)

// ReadRaw reads a raw source extract. The first line names the columns; each
// following line becomes a RawRecord keyed by those names. Empty values are dropped
// so that a missing column and an empty cell read the same.
func ReadRaw(r io.Reader) ([]types.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []types.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records)+2, err)
		}

		rec := make(types.RawRecord, len(header))
		for i, value := range row {
			if i >= len(header) || value == "" {
				continue
			}
			rec[header[i]] = value
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadRawFile reads a raw source extract from path.
func ReadRawFile(path string) ([]types.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw source: %w", err)
	}
	defer f.Close()

	records, err := ReadRaw(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// WriteCSV writes the header line followed by every row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", t.Name, err)
	}
	return nil
}

// ReadCSV reads an output table and checks its header against the contract.
func ReadCSV(r io.Reader, name string) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read %s header: %w", name, err)
	}
	if err := checkHeader(name, header); err != nil {
		return Table{}, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read %s rows: %w", name, err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return Table{Name: name, Header: header, Rows: rows}, nil
}

// CSVFileName returns the file name of a table's CSV file.
func CSVFileName(name string) string {
	return name + ".csv"
}

// ReadDatasetDir loads the four CSV tables from dir.
func ReadDatasetDir(dir string) (*types.Dataset, error) {
	tables := make([]Table, 0, len(types.TableNames()))
	for _, name := range types.TableNames() {
		path := filepath.Join(dir, CSVFileName(name))
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open table: %w", err)
		}
		t, err := ReadCSV(f, name)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		tables = append(tables, t)
	}
	return ToDataset(tables)
}
