package selection

import (
	"fmt"
	"iter"
	"slices"

	"go.uber.org/zap"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
)

// RowSet is either every row of a file or an ascending list of row indices.
type RowSet struct {
	total   int64
	indices []int64 // nil means every row
}

// AllRows returns the RowSet covering rows 0..total-1.
func AllRows(total int64) RowSet {
	return RowSet{total: total}
}

// Rows builds a RowSet from explicit row indices.
//
// An empty list selects every row. Every index must lie in [0, total) or the
// result is errs.ErrRowIndexOutOfRange. Indices must be strictly ascending so the
// file can be read in one forward pass: PolicyStrict rejects any other order
// with errs.ErrUnsortedRows, PolicyLenient sorts them and drops duplicates.
//
// A list naming every row in order is normalized to AllRows.
func Rows(total int64, indices []int64, policy format.Policy, logger *zap.Logger) (RowSet, error) {
	if len(indices) == 0 {
		return AllRows(total), nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, idx := range indices {
		if idx < 0 || idx >= total {
			return RowSet{}, fmt.Errorf("%w: row %d, file has %d rows", errs.ErrRowIndexOutOfRange, idx, total)
		}
	}

	rows := indices
	if pos := firstUnordered(indices); pos > 0 {
		if policy == format.PolicyStrict {
			return RowSet{}, fmt.Errorf("%w: row %d follows row %d at position %d",
				errs.ErrUnsortedRows, indices[pos], indices[pos-1], pos)
		}
		rows = slices.Clone(indices)
		slices.Sort(rows)
		rows = slices.Compact(rows)
		logger.Warn("sorted row indices",
			zap.Int("requested", len(indices)), zap.Int("unique", len(rows)))
	} else {
		rows = slices.Clone(indices)
	}

	if int64(len(rows)) == total {
		// strictly ascending and in range, so this is 0..total-1
		return AllRows(total), nil
	}

	return RowSet{total: total, indices: rows}, nil
}

// firstUnordered returns the first position that is not greater than its predecessor, or 0.
func firstUnordered(indices []int64) int {
	for i := 1; i < len(indices); i++ {
		if indices[i] <= indices[i-1] {
			return i
		}
	}

	return 0
}

// All reports whether every row of the file is selected.
func (r RowSet) All() bool {
	return r.indices == nil
}

// Count returns the number of selected rows.
func (r RowSet) Count() int64 {
	if r.indices == nil {
		return r.total
	}

	return int64(len(r.indices))
}

// Total returns the number of rows in the file.
func (r RowSet) Total() int64 {
	return r.total
}

// Indices yields (position, row index) pairs in ascending row order.
func (r RowSet) Indices() iter.Seq2[int64, int64] {
	return func(yield func(int64, int64) bool) {
		if r.indices == nil {
			for i := range r.total {
				if !yield(i, i) {
					return
				}
			}

			return
		}
		for i, row := range r.indices {
			if !yield(int64(i), row) {
				return
			}
		}
	}
}
