package rowio

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/recfile/endian"
	"github.com/arloliu/recfile/format"
	"github.com/arloliu/recfile/internal/options"
	"github.com/arloliu/recfile/internal/stream"
	"github.com/arloliu/recfile/schema"
	"github.com/arloliu/recfile/textfmt"
)

// SessionConfig holds the settings a session is opened with.
type SessionConfig struct {
	logger      *zap.Logger
	engine      endian.EndianEngine
	compression format.CompressionType
	schema      *schema.Schema
	rowCount    int64
	bufferSize  int
}

// NewSessionConfig returns the defaults: no logging, native byte order, no
// compression and the default stream buffer size.
func NewSessionConfig() *SessionConfig {
	return &SessionConfig{
		logger:      zap.NewNop(),
		engine:      endian.GetNativeEndianEngine(),
		compression: format.CompressionNone,
		bufferSize:  stream.DefaultBufferSize,
	}
}

// Option is a functional option for Open.
type Option = options.Option[*SessionConfig]

// WithLogger routes session events to l. Debug events cover open, strategy
// choice, format table build and rows written.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *SessionConfig) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithByteOrder sets the byte order of numeric elements in row buffers exchanged
// with delimited files. Binary files are copied byte for byte and ignore it.
// Default is the host byte order.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.New(func(c *SessionConfig) error {
		if engine == nil {
			return fmt.Errorf("byte order engine is nil")
		}
		c.engine = engine

		return nil
	})
}

// WithCompression stores the record file as one compressed stream.
// Available compression types: format.CompressionNone, format.CompressionZstd,
// format.CompressionS2, format.CompressionLZ4. Default is format.CompressionNone.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *SessionConfig) error {
		switch ct {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = ct
			return nil
		default:
			return fmt.Errorf("invalid compression: %v", ct)
		}
	})
}

// WithSchema sets the schema of the file. Required in read mode.
func WithSchema(s *schema.Schema) Option {
	return options.NoError(func(c *SessionConfig) {
		c.schema = s
	})
}

// WithRowCount sets the number of rows in the file. Required in read mode.
func WithRowCount(n int64) Option {
	return options.NoError(func(c *SessionConfig) {
		c.rowCount = n
	})
}

// WithBufferSize sets the size of the read or write buffer over the handle.
func WithBufferSize(n int) Option {
	return options.New(func(c *SessionConfig) error {
		if n < 16 {
			return fmt.Errorf("buffer size %d is below 16 bytes", n)
		}
		c.bufferSize = n

		return nil
	})
}

// writeConfig holds per-call write settings.
type writeConfig struct {
	nulls textfmt.Nulls
}

// WriteOption is a functional option for Session.Write.
type WriteOption = options.Option[*writeConfig]

// WithPadNulls writes NUL bytes inside string elements as spaces.
// Default is false: NUL bytes are written as they are.
func WithPadNulls(enabled bool) WriteOption {
	return options.NoError(func(c *writeConfig) {
		c.nulls.Pad = enabled
	})
}

// WithIgnoreNullsAfterFirst ends each string element at its first NUL byte.
// It takes precedence over WithPadNulls. Default is false.
func WithIgnoreNullsAfterFirst(enabled bool) WriteOption {
	return options.NoError(func(c *writeConfig) {
		c.nulls.IgnoreAfterFirst = enabled
	})
}
