package compress

import (
	"io"

	"github.com/arloliu/recfile/format"
)

// NoOpCodec passes record bytes through unchanged.
//
// It keeps the session code path uniform: an uncompressed file still goes through
// a StreamCodec, and closing its writer never closes the caller's handle.
type NoOpCodec struct{}

var _ StreamCodec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a new pass-through codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

func (NoOpCodec) Type() format.CompressionType { return format.CompressionNone }

// NewReader returns r itself wrapped with a no-op Close.
func (NoOpCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return nopCloser{r}, nil
}

// NewWriter returns w wrapped with a no-op Close.
func (NoOpCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
