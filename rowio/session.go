// Package rowio reads and writes fixed-layout record files.
//
// A Session binds one file handle to a mode and a delimiter. An empty delimiter
// means packed binary rows; anything else means one text line per row with the
// delimiter between elements. A delimiter starting with whitespace selects
// whitespace-tokenized lines.
//
// Reading requires the schema and row count of the file:
//
//	sess, err := rowio.Open(f, format.ModeRead, ",",
//	    rowio.WithSchema(sch), rowio.WithRowCount(1000))
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	res, err := sess.Read([]int64{0, 10, 20}, []string{"id", "pos"})
//
// Writing takes the schema with each buffer:
//
//	sess, _ := rowio.Open(f, format.ModeWrite, "")
//	err := sess.Write(rows, sch)
//
// A session that failed with a structural I/O error cannot be used again;
// every later call returns errs.ErrSessionFailed.
package rowio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/arloliu/recfile/compress"
	"github.com/arloliu/recfile/endian"
	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
	"github.com/arloliu/recfile/internal/options"
	"github.com/arloliu/recfile/internal/stream"
	"github.com/arloliu/recfile/schema"
	"github.com/arloliu/recfile/selection"
	"github.com/arloliu/recfile/textfmt"
)

// Session is an open record file. It is not safe for concurrent use.
type Session struct {
	mode   format.Mode
	kind   format.FileKind
	cfg    *SessionConfig
	logger *zap.Logger

	// owned is the handle the session opened itself; caller handles are never closed.
	owned io.Closer

	in     *stream.Reader
	decomp io.ReadCloser

	out  *stream.Writer
	comp *compress.Writer

	table *textfmt.Table

	reads       int
	rowsWritten int64
	failed      error
	closed      bool
}

// Open starts a session over a caller-supplied handle.
//
// Read mode needs an io.Reader handle plus WithSchema and WithRowCount (>= 1).
// Write and append modes need an io.Writer. When the handle also implements
// io.Seeker and the file is not compressed, each Read call starts over from the
// position the handle had at Open. The session never closes the handle.
//
// Every failure wraps errs.ErrOpen.
func Open(handle any, mode format.Mode, delim string, opts ...Option) (*Session, error) {
	return open(handle, nil, mode, delim, opts)
}

// OpenFile opens the file at path and starts a session that owns it: Close
// closes the file. Write mode creates or truncates the file, append mode adds
// rows after its current content.
func OpenFile(path string, mode format.Mode, delim string, opts ...Option) (*Session, error) {
	var (
		f   *os.File
		err error
	)
	switch mode {
	case format.ModeRead:
		f, err = os.Open(path)
	case format.ModeWrite:
		f, err = os.Create(path)
	case format.ModeAppend:
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	default:
		return nil, fmt.Errorf("%w: invalid mode %s", errs.ErrOpen, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrOpen, err)
	}

	s, err := open(f, f, mode, delim, opts)
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}

	return s, nil
}

func open(handle any, owned io.Closer, mode format.Mode, delim string, opts []Option) (*Session, error) {
	cfg := NewSessionConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrOpen, err)
	}

	s := &Session{
		mode:   mode,
		kind:   format.KindOf(delim),
		cfg:    cfg,
		logger: cfg.logger,
		owned:  owned,
	}

	switch mode {
	case format.ModeRead:
		if err := s.openReader(handle); err != nil {
			return nil, err
		}
	case format.ModeWrite, format.ModeAppend:
		if err := s.openWriter(handle); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: invalid mode %s", errs.ErrOpen, mode)
	}

	fields := []zap.Field{
		zap.Stringer("mode", mode),
		zap.Stringer("kind", s.kind),
		zap.Stringer("compression", cfg.compression),
		zap.String("byte_order", endian.Name(cfg.engine)),
	}
	if cfg.schema != nil {
		fields = append(fields,
			zap.String("schema", fmt.Sprintf("%016x", cfg.schema.Fingerprint())),
			zap.Int("row_size", cfg.schema.RowSize()),
			zap.Int64("rows", cfg.rowCount),
		)
	}
	s.logger.Debug("session opened", fields...)

	return s, nil
}

func (s *Session) openReader(handle any) error {
	r, ok := handle.(io.Reader)
	if !ok {
		return fmt.Errorf("%w: read mode needs an io.Reader, got %T", errs.ErrOpen, handle)
	}
	if s.cfg.schema == nil {
		return fmt.Errorf("%w: %w", errs.ErrOpen, errs.ErrMissingSchema)
	}
	if err := selection.CheckRowCount(s.cfg.schema, s.cfg.rowCount); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrOpen, err)
	}

	if s.cfg.compression == format.CompressionNone {
		seeker, _ := handle.(io.Seeker)
		s.in = stream.NewReader(r, seeker, s.cfg.bufferSize)

		return nil
	}

	dr, err := compress.NewReader(s.cfg.compression, r)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrOpen, err)
	}
	s.decomp = dr
	s.in = stream.NewReader(dr, nil, s.cfg.bufferSize)

	return nil
}

func (s *Session) openWriter(handle any) error {
	w, ok := handle.(io.Writer)
	if !ok {
		return fmt.Errorf("%w: %s mode needs an io.Writer, got %T", errs.ErrOpen, s.mode, handle)
	}

	if s.cfg.compression == format.CompressionNone {
		s.out = stream.NewWriter(w, s.cfg.bufferSize)
		return nil
	}

	cw, err := compress.NewWriter(s.cfg.compression, w)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrOpen, err)
	}
	s.comp = cw
	s.out = stream.NewWriter(cw, s.cfg.bufferSize)

	return nil
}

// Mode returns the mode the session was opened in.
func (s *Session) Mode() format.Mode {
	return s.mode
}

// Kind returns the file kind derived from the delimiter.
func (s *Session) Kind() format.FileKind {
	return s.kind
}

// Schema returns the schema given at open, nil in write mode without one.
func (s *Session) Schema() *schema.Schema {
	return s.cfg.schema
}

// RowCount returns the row count given at open.
func (s *Session) RowCount() int64 {
	return s.cfg.rowCount
}

// RowsWritten returns the number of rows written so far.
func (s *Session) RowsWritten() int64 {
	return s.rowsWritten
}

// usable checks that the session can run a call in the given direction.
func (s *Session) usable(write bool) error {
	if s.closed {
		return errs.ErrNotOpen
	}
	if s.failed != nil {
		return fmt.Errorf("%w: %w", errs.ErrSessionFailed, s.failed)
	}
	if write != s.mode.Writable() {
		return fmt.Errorf("%w: session is in %s mode", errs.ErrWrongMode, s.mode)
	}

	return nil
}

// fail poisons the session with the first I/O failure and returns err.
func (s *Session) fail(err error) error {
	if err != nil && s.failed == nil {
		s.failed = err
		s.logger.Warn("session failed", zap.Error(err))
	}

	return err
}

// textTable returns the session's format table, building it on first use.
func (s *Session) textTable() *textfmt.Table {
	if s.table == nil {
		s.table = textfmt.New(s.kind, s.cfg.engine)
		s.logger.Debug("format table built",
			zap.Stringer("kind", s.kind),
			zap.String("byte_order", endian.Name(s.cfg.engine)))
	}

	return s.table
}

// Close flushes pending output, finishes a compressed stream and closes the
// handle if the session opened it. Closing twice is a no-op.
//
// After a failed write nothing more is flushed and only handle errors are reported.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var result *multierror.Error
	// a failed sink keeps its error; Write already flushed every successful call
	if s.out != nil && s.failed == nil {
		if err := s.out.Flush(); err != nil {
			result = multierror.Append(result, fmt.Errorf("flush: %w", err))
		}
	}
	if s.comp != nil {
		if err := s.comp.Close(); err != nil && s.failed == nil {
			result = multierror.Append(result, fmt.Errorf("finish %s stream: %w", s.cfg.compression, err))
		}
		stats := s.comp.Stats()
		s.logger.Debug("compressed stream closed",
			zap.Stringer("compression", stats.Algorithm),
			zap.Int64("original_size", stats.OriginalSize),
			zap.Int64("compressed_size", stats.CompressedSize),
			zap.Float64("ratio", stats.CompressionRatio()))
	}
	if s.decomp != nil {
		if err := s.decomp.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("release %s reader: %w", s.cfg.compression, err))
		}
	}
	if s.owned != nil {
		if err := s.owned.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close handle: %w", err))
		}
	}

	return result.ErrorOrNil()
}
