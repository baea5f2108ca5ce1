package compress

import (
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/recfile/format"
)

// lz4WriterPool pools lz4.Writer instances for reuse.
// A frame writer keeps its block buffers across Reset.
var lz4WriterPool = sync.Pool{
	New: func() any {
		return lz4.NewWriter(nil)
	},
}

type LZ4Codec struct{}

var _ StreamCodec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 frame codec.
//
// Returns:
//   - LZ4Codec: New LZ4 codec instance
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

func (LZ4Codec) Type() format.CompressionType { return format.CompressionLZ4 }

// NewReader returns an LZ4 frame reader.
func (LZ4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return nopCloser{lz4.NewReader(r)}, nil
}

// NewWriter returns a pooled LZ4 frame writer. Close finishes the frame and
// returns the writer to the pool.
func (LZ4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	lw, _ := lz4WriterPool.Get().(*lz4.Writer)
	lw.Reset(w)

	return &lz4Writer{Writer: lw}, nil
}

type lz4Writer struct {
	*lz4.Writer
}

func (w *lz4Writer) Close() error {
	if w.Writer == nil {
		return nil
	}

	err := w.Writer.Close()
	w.Writer.Reset(nil)
	lz4WriterPool.Put(w.Writer)
	w.Writer = nil

	return err
}
