// Package rowset orders and deduplicates output rows by their canonical key.
//
// The canonical key of a row is its fields joined with a tab. Rows are totally
// ordered by comparing keys byte-wise, and duplicates are collapsed by comparing
// neighbours only:
//
//	rows = rowset.Canonicalize(rows) // Unique(Sort(rows))
//
// Unique on its own is only correct for sorted input; non-adjacent duplicates
// survive it.
package rowset

import (
	"slices"
	"strings"

	"github.com/akngs/k-families-data/pkg/types"
)

// KeySeparator joins row fields into a canonical key.
const KeySeparator = "\t"

// Key returns the canonical key of a row.
func Key(row types.Row) string {
	return strings.Join(row.Fields(), KeySeparator)
}

// Sort orders rows ascending by canonical key, in place. Rows with equal keys keep
// their relative order.
func Sort[R types.Row](rows []R) {
	keys := make([]string, len(rows))
	idx := make([]int, len(rows))
	for i := range rows {
		idx[i] = i
		keys[i] = Key(rows[i])
	}

	slices.SortStableFunc(idx, func(a, b int) int {
		return strings.Compare(keys[a], keys[b])
	})

	sorted := make([]R, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	copy(rows, sorted)
}

// Unique collapses runs of rows with equal canonical keys, keeping the first of each
// run. The input must already be sorted.
func Unique[R types.Row](rows []R) []R {
	if len(rows) == 0 {
		return []R{}
	}

	out := make([]R, 0, len(rows))
	out = append(out, rows[0])
	last := Key(rows[0])
	for _, row := range rows[1:] {
		key := Key(row)
		if key == last {
			continue
		}
		out = append(out, row)
		last = key
	}
	return out
}

// Canonicalize sorts a copy of rows and removes duplicates.
func Canonicalize[R types.Row](rows []R) []R {
	sorted := slices.Clone(rows)
	Sort(sorted)
	return Unique(sorted)
}

// IsCanonical reports whether rows are strictly ascending by canonical key, which
// implies they contain no duplicates.
func IsCanonical[R types.Row](rows []R) bool {
	for i := 1; i < len(rows); i++ {
		if strings.Compare(Key(rows[i-1]), Key(rows[i])) >= 0 {
			return false
		}
	}
	return true
}
