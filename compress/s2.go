package compress

import (
	"io"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/recfile/format"
)

type S2Codec struct{}

var _ StreamCodec = (*S2Codec)(nil)

// NewS2Codec creates a new S2 stream codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

func (S2Codec) Type() format.CompressionType { return format.CompressionS2 }

// NewReader returns an S2 framed-stream reader.
func (S2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return nopCloser{s2.NewReader(r)}, nil
}

// NewWriter returns an S2 framed-stream writer encoding on the calling goroutine.
func (S2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w, s2.WriterConcurrency(1)), nil
}
