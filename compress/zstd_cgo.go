//go:build cgo && gozstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// NewReader returns a gozstd stream reader. Close releases its C resources.
func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReader{Reader: gozstd.NewReader(r)}, nil
}

// NewWriter returns a gozstd stream writer at level 3.
func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return &gozstdWriter{Writer: gozstd.NewWriterLevel(w, 3)}, nil
}

type gozstdReader struct {
	*gozstd.Reader
}

func (r *gozstdReader) Close() error {
	if r.Reader != nil {
		r.Reader.Release()
		r.Reader = nil
	}

	return nil
}

type gozstdWriter struct {
	*gozstd.Writer
}

func (w *gozstdWriter) Close() error {
	if w.Writer == nil {
		return nil
	}

	err := w.Writer.Close()
	w.Writer.Release()
	w.Writer = nil

	return err
}
