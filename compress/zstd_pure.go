//go:build !cgo || !gozstd

package compress

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools zstd decoders for reuse to eliminate allocation overhead.
// The klauspost/compress/zstd library is explicitly designed for decoder reuse:
// "The decoder has been designed to operate without allocations after a warmup.
// This means that you should store the decoder for best performance."
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1), // decode on the reading goroutine
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			// This should never happen with valid options
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

// zstdEncoderPool pools zstd encoders for reuse to eliminate allocation overhead.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			// This should never happen with valid options
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// NewReader returns a pooled zstd stream decoder reading from r.
func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	if err := decoder.Reset(r); err != nil {
		zstdDecoderPool.Put(decoder)
		return nil, fmt.Errorf("zstd reader: %w", err)
	}

	return &zstdReader{dec: decoder}, nil
}

// NewWriter returns a pooled zstd stream encoder writing to w.
func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	encoder.Reset(w)

	return &zstdWriter{enc: encoder}, nil
}

type zstdReader struct {
	dec *zstd.Decoder
}

func (r *zstdReader) Read(p []byte) (int, error) {
	if r.dec == nil {
		return 0, io.ErrClosedPipe
	}

	return r.dec.Read(p)
}

// Close drops the reference to the source and returns the decoder to the pool.
func (r *zstdReader) Close() error {
	if r.dec == nil {
		return nil
	}

	err := r.dec.Reset(nil)
	zstdDecoderPool.Put(r.dec)
	r.dec = nil

	return err
}

type zstdWriter struct {
	enc *zstd.Encoder
}

func (w *zstdWriter) Write(p []byte) (int, error) {
	if w.enc == nil {
		return 0, io.ErrClosedPipe
	}

	return w.enc.Write(p)
}

// Close writes the end of the frame and returns the encoder to the pool.
func (w *zstdWriter) Close() error {
	if w.enc == nil {
		return nil
	}

	err := w.enc.Close()
	w.enc.Reset(nil)
	zstdEncoderPool.Put(w.enc)
	w.enc = nil

	return err
}
