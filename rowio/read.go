package rowio

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
	"github.com/arloliu/recfile/internal/pool"
	"github.com/arloliu/recfile/schema"
	"github.com/arloliu/recfile/selection"
)

// Result is the outcome of a read call.
type Result struct {
	// Data holds Rows rows laid out by Schema.
	Data []byte
	// Schema describes each row of Data: the selected fields in file order, packed.
	Schema *schema.Schema
	// Rows is the number of rows in Data.
	Rows int64
	// Strategy is the read strategy that produced Data.
	Strategy format.Strategy
}

// Read reads the selected rows and fields into a new buffer.
//
// Nil or empty rows select every row, nil or empty fields every field. Row
// indices must be strictly ascending unless the schema policy is lenient. A
// lenient schema sorts the indices and collapses duplicates, so Result.Rows may
// be smaller than len(rows): [0, 0, 2] reads two rows.
// Selected fields keep their order in the file schema whatever order they are
// requested in.
func (s *Session) Read(rows []int64, fields []string) (*Result, error) {
	sel, err := s.prepareRead(rows, fields)
	if err != nil {
		return nil, err
	}

	return s.read(sel, make([]byte, sel.Size()))
}

// ReadInto is Read with a caller buffer. dst must hold at least the selected rows
// times the selected row size; Result.Data is the filled prefix of dst.
func (s *Session) ReadInto(dst []byte, rows []int64, fields []string) (*Result, error) {
	sel, err := s.prepareRead(rows, fields)
	if err != nil {
		return nil, err
	}
	if need := sel.Size(); int64(len(dst)) < need {
		return nil, fmt.Errorf("%w: selection needs %d bytes, buffer has %d", errs.ErrBufferSize, need, len(dst))
	}

	return s.read(sel, dst[:sel.Size()])
}

// prepareRead validates a read call. Nothing is consumed from the handle unless
// it returns a nil error.
func (s *Session) prepareRead(rows []int64, fields []string) (*selection.Selection, error) {
	if err := s.usable(false); err != nil {
		return nil, err
	}

	src := s.cfg.schema
	if s.kind.IsDelimited() {
		if err := src.CheckTextual(); err != nil {
			return nil, err
		}
	}

	sel, err := selection.Build(src, s.cfg.rowCount, rows, fields, s.logger)
	if err != nil {
		return nil, err
	}

	if s.reads > 0 {
		if err := s.in.Rewind(); err != nil {
			return nil, fmt.Errorf("read call %d: %w", s.reads+1, err)
		}
	}

	return sel, nil
}

func (s *Session) read(sel *selection.Selection, dst []byte) (*Result, error) {
	s.reads++

	strategy := chooseStrategy(s.kind, sel)
	s.logger.Debug("read strategy",
		zap.Stringer("strategy", strategy),
		zap.Int64("rows", sel.Rows().Count()),
		zap.Int("fields", sel.Mask().Count()),
		zap.Int("row_size", sel.Schema().RowSize()))

	cur := &cursor{buf: dst}

	var err error
	switch strategy {
	case format.StrategyWholeFileBinary:
		err = s.readWholeFile(sel, cur)
	case format.StrategyWholeRowBinary:
		err = s.readWholeRows(sel, cur)
	default:
		if s.kind.IsBinary() {
			err = s.readBinaryFields(sel, cur)
		} else {
			err = s.readTextFields(sel, cur)
		}
	}
	if err != nil {
		return nil, s.fail(err)
	}

	return &Result{Data: dst, Schema: sel.Schema(), Rows: sel.Rows().Count(), Strategy: strategy}, nil
}

// truncated converts a short read into errs.ErrTruncatedFile.
func truncated(err error, got, want int) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: read %d of %d bytes", errs.ErrTruncatedFile, got, want)
	}

	return fmt.Errorf("%w: %w", errs.ErrTruncatedFile, err)
}

func (s *Session) readWholeFile(sel *selection.Selection, cur *cursor) error {
	b, err := cur.next(int(sel.Size()))
	if err != nil {
		return err
	}

	n, err := s.in.ReadFull(b)
	if err != nil {
		rowSize := sel.Schema().RowSize()
		return errs.At("read", "", -1, fmt.Errorf("%w (%d of %d rows)",
			truncated(err, n, len(b)), n/rowSize, sel.Rows().Count()))
	}

	return nil
}

func (s *Session) readWholeRows(sel *selection.Selection, cur *cursor) error {
	rowSize := sel.Schema().RowSize()
	next := int64(0)

	for _, row := range sel.Rows().Indices() {
		if gap := row - next; gap > 0 {
			if err := s.in.Skip(gap * int64(rowSize)); err != nil {
				return errs.At("skip", "", row, truncated(err, 0, int(gap)*rowSize))
			}
		}

		b, err := cur.next(rowSize)
		if err != nil {
			return err
		}
		if n, err := s.in.ReadFull(b); err != nil {
			return errs.At("read", "", row, truncated(err, n, rowSize))
		}
		next = row + 1
	}

	return nil
}

func (s *Session) readBinaryFields(sel *selection.Selection, cur *cursor) error {
	src := sel.Source()
	mask := sel.Mask()
	rowSize := int64(src.RowSize())

	// bytes to skip before the next kept field, coalesced across fields and rows
	var pending int64
	next := int64(0)

	for _, row := range sel.Rows().Indices() {
		pending += (row - next) * rowSize

		for i, f := range src.Fields() {
			if !mask.Kept(i) {
				pending += int64(f.Size)
				continue
			}

			if pending > 0 {
				if err := s.in.Skip(pending); err != nil {
					return errs.At("skip", f.Name, row, truncated(err, 0, int(pending)))
				}
				pending = 0
			}

			b, err := cur.next(f.Size)
			if err != nil {
				return err
			}
			if n, err := s.in.ReadFull(b); err != nil {
				return errs.At("read", f.Name, row, truncated(err, n, f.Size))
			}
		}
		next = row + 1
	}

	return nil
}

func (s *Session) readTextFields(sel *selection.Selection, cur *cursor) error {
	src := sel.Source()
	mask := sel.Mask()
	tbl := s.textTable()

	scratch := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(scratch)

	next := int64(0)
	for _, row := range sel.Rows().Indices() {
		if gap := row - next; gap > 0 {
			if err := s.in.SkipLines(gap); err != nil {
				return errs.At("skip", "", row, err)
			}
		}

		for i, f := range src.Fields() {
			op := "read"
			var dst []byte
			if mask.Kept(i) {
				b, err := cur.next(f.Size)
				if err != nil {
					return err
				}
				dst = b
			} else {
				op = "skip"
				dst = scratch.Sized(f.Size)
			}

			es := f.ElemSize()
			for e := range f.Count {
				elem := dst[e*es : (e+1)*es]

				var err error
				if f.Type.IsString() {
					err = tbl.ScanString(s.in, elem)
				} else {
					err = tbl.ScanValue(s.in, f.Type, elem)
				}
				if err != nil {
					return errs.At(op, f.Name, row, err)
				}
			}
		}

		if err := s.in.FinishLine(); err != nil {
			return errs.At("read", "", row, err)
		}
		next = row + 1
	}

	return nil
}
