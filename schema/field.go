package schema

import (
	"fmt"
	"strconv"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
)

// Field describes one fixed-size slot of a row.
//
// A field holds Count elements of the same type laid out back to back, so
// Size is always Count × ElemSize(). Offsets are relative to the start of the row.
type Field struct {
	Name   string
	Offset int
	Size   int
	Count  int
	Type   format.TypeCode
}

// ElemSize returns the byte size of a single element.
func (f Field) ElemSize() int {
	if f.Count <= 0 {
		return 0
	}

	return f.Size / f.Count
}

func (f Field) String() string {
	s := f.Name + ":" + f.Type.String()
	if f.Type.IsString() {
		s += strconv.Itoa(f.ElemSize())
	}
	if f.Count > 1 {
		s += "[" + strconv.Itoa(f.Count) + "]"
	}

	return s
}

// validate checks everything except the offset, which depends on the neighbours.
func (f Field) validate() error {
	switch {
	case f.Name == "":
		return fmt.Errorf("%w: field has an empty name", errs.ErrMalformedField)
	case !f.Type.Valid():
		return fmt.Errorf("%w: field %s has unknown type code %d", errs.ErrMalformedField, f.Name, uint8(f.Type))
	case f.Count < 1:
		return fmt.Errorf("%w: field %s has element count %d", errs.ErrMalformedField, f.Name, f.Count)
	case f.Size <= 0 || f.Size%f.Count != 0:
		return fmt.Errorf("%w: field %s size %d is not a multiple of element count %d",
			errs.ErrMalformedField, f.Name, f.Size, f.Count)
	case !f.Type.IsString() && f.ElemSize() != f.Type.Width():
		return fmt.Errorf("%w: field %s element size %d does not match %s width %d",
			errs.ErrMalformedField, f.Name, f.ElemSize(), f.Type, f.Type.Width())
	}

	return nil
}

// FieldSpec declares a field without its layout; Build computes the offsets.
//
// Count defaults to 1. ElemSize is required for string fields and ignored for
// numeric ones, whose element size is the natural width of the type.
type FieldSpec struct {
	Name     string
	Type     format.TypeCode
	Count    int
	ElemSize int
}

func (s FieldSpec) field(offset int) Field {
	count := s.Count
	if count == 0 {
		count = 1
	}
	elem := s.Type.Width()
	if s.Type.IsString() {
		elem = s.ElemSize
	}

	return Field{
		Name:   s.Name,
		Offset: offset,
		Size:   count * elem,
		Count:  count,
		Type:   s.Type,
	}
}
