package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint accumulates an order-sensitive xxHash64 over strings and integers.
//
// Strings are length-prefixed so that ("ab", "c") and ("a", "bc") hash differently.
type Fingerprint struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewFingerprint creates an empty fingerprint.
func NewFingerprint() *Fingerprint {
	return &Fingerprint{d: xxhash.New()}
}

// String adds a length-prefixed string.
func (f *Fingerprint) String(s string) *Fingerprint {
	f.Int(int64(len(s)))
	_, _ = f.d.WriteString(s)

	return f
}

// Int adds a 64-bit integer in little-endian form.
func (f *Fingerprint) Int(v int64) *Fingerprint {
	binary.LittleEndian.PutUint64(f.buf[:], uint64(v))
	_, _ = f.d.Write(f.buf[:])

	return f
}

// Sum64 returns the current hash value.
func (f *Fingerprint) Sum64() uint64 {
	return f.d.Sum64()
}

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
