package driver

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// TypeConversionError represents an error during type conversion from database types.
type TypeConversionError struct {
	Expected string
	Actual   string
	Field    string
}

func (e *TypeConversionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("type conversion error for field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("type conversion error: expected %s, got %s", e.Expected, e.Actual)
}

// recordString reads a string column. A missing column or null reads as "".
func recordString(record *db.Record, key string) (string, error) {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeConversionError{Expected: "string", Actual: fmt.Sprintf("%T", v), Field: key}
	}
	return s, nil
}

// recordInt reads an integer column.
func recordInt(record *db.Record, key string) (int, error) {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return 0, &TypeConversionError{Expected: "int64", Actual: "nil", Field: key}
	}
	n, ok := v.(int64)
	if !ok {
		return 0, &TypeConversionError{Expected: "int64", Actual: fmt.Sprintf("%T", v), Field: key}
	}
	return int(n), nil
}
