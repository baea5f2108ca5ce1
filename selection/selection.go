// Package selection narrows a schema and a file's rows to what one read pass needs.
//
// A Selection pairs the reduced schema (kept fields, original order, packed
// offsets), a Mask over the original schema, and a RowSet. It is built once per
// read call and is validated before any byte of the file is touched.
package selection

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/schema"
)

// Selection is the validated subset of fields and rows a read pass produces.
type Selection struct {
	source *schema.Schema
	kept   *schema.Schema
	mask   schema.Mask
	rows   RowSet
}

// Build validates the requested rows and fields against src.
//
// rowCount is the number of rows in the file. Nil or empty rows and fields
// select everything. Leniency follows src.Policy().
func Build(src *schema.Schema, rowCount int64, rows []int64, fields []string, logger *zap.Logger) (*Selection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := CheckRowCount(src, rowCount); err != nil {
		return nil, err
	}

	kept, mask, err := src.Subset(fields, schema.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	rs, err := Rows(rowCount, rows, src.Policy(), logger)
	if err != nil {
		return nil, err
	}

	return &Selection{source: src, kept: kept, mask: mask, rows: rs}, nil
}

// CheckRowCount reports errs.ErrInvalidRowCount unless rowCount is at least one
// and rowCount rows of src fit in one addressable buffer.
func CheckRowCount(src *schema.Schema, rowCount int64) error {
	if rowCount < 1 {
		return fmt.Errorf("%w: got %d", errs.ErrInvalidRowCount, rowCount)
	}
	if size := src.RowSize(); size > 0 && rowCount > int64(math.MaxInt/size) {
		return fmt.Errorf("%w: %d rows of %d bytes overflow the buffer size", errs.ErrInvalidRowCount, rowCount, size)
	}

	return nil
}

// Full selects every field and every row of src.
func Full(src *schema.Schema, rowCount int64) *Selection {
	return &Selection{
		source: src,
		kept:   src,
		mask:   schema.AllFields(src.NumFields()),
		rows:   AllRows(rowCount),
	}
}

// Source returns the schema of the file.
func (s *Selection) Source() *schema.Schema {
	return s.source
}

// Schema returns the reduced schema describing each output row.
func (s *Selection) Schema() *schema.Schema {
	return s.kept
}

// Mask returns the kept-field mask over the file schema.
func (s *Selection) Mask() schema.Mask {
	return s.mask
}

// Rows returns the selected rows.
func (s *Selection) Rows() RowSet {
	return s.rows
}

// AllFields reports whether every field is selected.
func (s *Selection) AllFields() bool {
	return s.mask.All()
}

// AllRows reports whether every row is selected.
func (s *Selection) AllRows() bool {
	return s.rows.All()
}

// Size returns the byte size of the output: selected rows × reduced row size.
func (s *Selection) Size() int64 {
	return s.rows.Count() * int64(s.kept.RowSize())
}
