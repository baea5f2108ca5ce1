package compress

import (
	"fmt"
	"io"

	"github.com/arloliu/recfile/format"
)

// StreamCodec opens compressed streams over record files.
//
// Record files are read and written front to back in one pass, so codecs work on
// streams rather than on whole payloads. Both directions return closers: closing
// a writer finishes the compressed frame, closing a reader releases decoder
// resources. Neither closes the underlying handle.
type StreamCodec interface {
	// Type returns the compression algorithm implemented by the codec.
	Type() format.CompressionType

	// NewReader returns a reader producing the decompressed content of r.
	NewReader(r io.Reader) (io.ReadCloser, error)

	// NewWriter returns a writer compressing into w.
	//
	// Close must be called to flush the final frame; it does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// CompressionStats describes the output of one compressed write session.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the number of uncompressed bytes written
	OriginalSize int64

	// CompressedSize is the number of bytes that reached the underlying writer
	CompressedSize int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec is a factory function that creates a StreamCodec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//
// Returns:
//   - StreamCodec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType) (StreamCodec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCodec(), nil
	case format.CompressionZstd:
		return NewZstdCodec(), nil
	case format.CompressionS2:
		return NewS2Codec(), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("invalid compression: %s", compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]StreamCodec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves a built-in StreamCodec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (StreamCodec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// Writer is a compressing writer that keeps byte counts on both sides of the codec.
type Writer struct {
	algo  format.CompressionType
	enc   io.WriteCloser
	raw   int64
	under *countingWriter
}

// NewWriter opens a counting compressed writer over w.
func NewWriter(compressionType format.CompressionType, w io.Writer) (*Writer, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	cw := &countingWriter{w: w}
	enc, err := codec.NewWriter(cw)
	if err != nil {
		return nil, fmt.Errorf("open %s writer: %w", compressionType, err)
	}

	return &Writer{algo: compressionType, enc: enc, under: cw}, nil
}

// Write compresses p.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.enc.Write(p)
	w.raw += int64(n)

	return n, err
}

// Close finishes the compressed stream. The underlying writer stays open.
func (w *Writer) Close() error {
	return w.enc.Close()
}

// Stats reports the bytes written so far. CompressedSize is final after Close.
func (w *Writer) Stats() CompressionStats {
	return CompressionStats{Algorithm: w.algo, OriginalSize: w.raw, CompressedSize: w.under.n}
}

// NewReader opens a decompressing reader over r.
func NewReader(compressionType format.CompressionType, r io.Reader) (io.ReadCloser, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	rc, err := codec.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open %s reader: %w", compressionType, err)
	}

	return rc, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}

// nopCloser adapts a reader without resources to io.ReadCloser.
type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }
