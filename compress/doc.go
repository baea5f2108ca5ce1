// Package compress provides stream codecs for compressed record files.
//
// A record file may be stored compressed as a whole: the binary rows or the
// delimited text lines are written through a compressing writer and read back
// through a decompressing reader. The row codec above never sees the difference,
// except that a compressed stream cannot seek, so binary skip-ahead discards
// bytes instead and a session can only be read once.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): pass-through
//   - Zstd (format.CompressionZstd): best ratio, moderate speed
//   - S2 (format.CompressionS2): balanced
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// # Usage
//
//	w, err := compress.NewWriter(format.CompressionZstd, file)
//	if err != nil {
//	    return err
//	}
//	if _, err := w.Write(rows); err != nil {
//	    return err
//	}
//	if err := w.Close(); err != nil { // finishes the frame, file stays open
//	    return err
//	}
//	stats := w.Stats()
//
//	r, err := compress.NewReader(format.CompressionZstd, file)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
// # Implementations
//
// Zstd uses github.com/klauspost/compress/zstd with pooled encoders and decoders.
// Building with cgo and the gozstd tag switches Zstd to github.com/valyala/gozstd:
//
//	go build -tags gozstd
//
// S2 uses github.com/klauspost/compress/s2 and LZ4 uses github.com/pierrec/lz4/v4.
// All stream formats are framed, so files written by one build are readable by any
// other.
//
// # Thread Safety
//
// Codecs are stateless and safe for concurrent use. The readers and writers they
// return are not; each belongs to one session.
package compress
