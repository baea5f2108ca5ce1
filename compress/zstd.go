package compress

import "github.com/arloliu/recfile/format"

// ZstdCodec provides Zstandard stream compression for record files.
//
// This codec favors compression ratio over speed, making it a good fit for:
//   - Archival of large record files
//   - Delimited text files, which compress far better than packed binary rows
//
// The default build uses the pure Go klauspost/compress implementation. Building
// with cgo and the gozstd tag switches to the valyala/gozstd bindings.
type ZstdCodec struct{}

var _ StreamCodec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec with default settings.
//
// Example:
//
//	codec := NewZstdCodec()
//	w, err := codec.NewWriter(file)
//	if err != nil {
//		return err
//	}
//	defer w.Close()
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

func (ZstdCodec) Type() format.CompressionType { return format.CompressionZstd }
