package rowio

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/internal/options"
	"github.com/arloliu/recfile/internal/pool"
	"github.com/arloliu/recfile/schema"
	"github.com/arloliu/recfile/textfmt"
)

// Write appends the rows in data to the file. data holds whole rows laid out by
// sch; every field is written.
//
// Binary files receive data as is. Delimited files receive one line per row with
// numeric elements in their print format and string elements as raw characters,
// subject to WithPadNulls and WithIgnoreNullsAfterFirst.
//
// Output is buffered; Close flushes it. Write itself flushes before returning so
// that a failing sink is reported by the call that fed it.
func (s *Session) Write(data []byte, sch *schema.Schema, opts ...WriteOption) error {
	if err := s.usable(true); err != nil {
		return err
	}
	if sch == nil {
		return errs.ErrMissingSchema
	}

	wc := &writeConfig{}
	if err := options.Apply(wc, opts...); err != nil {
		return err
	}

	rowSize := sch.RowSize()
	if len(data)%rowSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of the %d byte row", errs.ErrBufferSize, len(data), rowSize)
	}
	rows := int64(len(data) / rowSize)

	if s.kind.IsDelimited() {
		if err := sch.CheckTextual(); err != nil {
			return err
		}
	}

	var err error
	if s.kind.IsBinary() {
		err = s.writeBinary(data, rowSize)
	} else {
		err = s.writeText(data, sch, wc.nulls)
	}
	if err == nil {
		if ferr := s.out.Flush(); ferr != nil {
			err = errs.At("write", "", -1, fmt.Errorf("%w: flush: %w", errs.ErrWriteFailure, ferr))
		}
	}
	if err != nil {
		return s.fail(err)
	}

	s.rowsWritten += rows
	s.logger.Debug("rows written",
		zap.Int64("rows", rows),
		zap.Int64("total_rows", s.rowsWritten),
		zap.Int64("bytes", s.out.Written()))

	return nil
}

func (s *Session) writeBinary(data []byte, rowSize int) error {
	n, err := s.out.Write(data)
	if n < len(data) {
		if err == nil {
			err = io.ErrShortWrite
		}

		return errs.At("write", "", -1, fmt.Errorf("%w: wrote %d of %d rows: %w",
			errs.ErrShortWrite, n/rowSize, len(data)/rowSize, err))
	}
	if err != nil {
		return errs.At("write", "", -1, fmt.Errorf("%w: %w", errs.ErrWriteFailure, err))
	}

	return nil
}

func (s *Session) writeText(data []byte, sch *schema.Schema, nulls textfmt.Nulls) error {
	tbl := s.textTable()
	delim := s.kind.Delimiter()
	rowSize := sch.RowSize()

	line := pool.GetLineBuffer()
	defer pool.PutLineBuffer(line)

	row := int64(0)
	for off := 0; off < len(data); off += rowSize {
		rec := data[off : off+rowSize]
		line.Reset()
		buf := line.B

		first := true
		for _, f := range sch.Fields() {
			es := f.ElemSize()
			for e := range f.Count {
				if !first {
					buf = append(buf, delim...)
				}
				first = false

				elem := rec[f.Offset+e*es : f.Offset+(e+1)*es]
				if f.Type.IsString() {
					buf = textfmt.AppendString(buf, elem, nulls)
					continue
				}

				var err error
				buf, err = tbl.AppendValue(buf, f.Type, elem)
				if err != nil {
					return errs.At("write", f.Name, s.rowsWritten+row, err)
				}
			}
		}
		line.B = append(buf, '\n')

		if _, err := line.WriteTo(s.out); err != nil {
			kind := errs.ErrWriteFailure
			if errors.Is(err, io.ErrShortWrite) {
				kind = errs.ErrShortWrite
			}

			return errs.At("write", "", s.rowsWritten+row, fmt.Errorf("%w: %w", kind, err))
		}
		row++
	}

	return nil
}
