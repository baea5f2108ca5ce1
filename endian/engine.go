// Package endian selects the byte order of numeric elements held in row buffers.
//
// Binary record files are copied byte for byte, so byte order only matters when
// a numeric element crosses between its binary form in a row buffer and its
// textual form in a delimited file. The EndianEngine used for that bridge
// defaults to the host byte order, matching what a packed in-memory struct
// array would contain:
//
//	engine := endian.GetNativeEndianEngine()
//	v := engine.Uint32(row[offset:])
//
// Files produced on another architecture can be bridged by choosing the engine
// explicitly with GetLittleEndianEngine or GetBigEndianEngine.
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetNativeEndianEngine returns the engine matching the host byte order.
func GetNativeEndianEngine() EndianEngine {
	if IsNativeBigEndian() {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// ParseEngine maps "little", "big" or "native" to an engine.
func ParseEngine(name string) (EndianEngine, bool) {
	switch name {
	case "little":
		return GetLittleEndianEngine(), true
	case "big":
		return GetBigEndianEngine(), true
	case "native", "":
		return GetNativeEndianEngine(), true
	default:
		return nil, false
	}
}

// Name returns "little" or "big" for the given engine.
func Name(engine EndianEngine) string {
	if engine == binary.BigEndian {
		return "big"
	}

	return "little"
}
