package format

type (
	TypeCode        uint8
	CompressionType uint8
	Mode            uint8
	Strategy        uint8
	Policy          uint8
)

const (
	TypeInt8       TypeCode = 0x1  // TypeInt8 represents a signed 8-bit integer.
	TypeUint8      TypeCode = 0x2  // TypeUint8 represents an unsigned 8-bit integer.
	TypeInt16      TypeCode = 0x3  // TypeInt16 represents a signed 16-bit integer.
	TypeUint16     TypeCode = 0x4  // TypeUint16 represents an unsigned 16-bit integer.
	TypeInt32      TypeCode = 0x5  // TypeInt32 represents a signed 32-bit integer.
	TypeUint32     TypeCode = 0x6  // TypeUint32 represents an unsigned 32-bit integer.
	TypeInt64      TypeCode = 0x7  // TypeInt64 represents a signed 64-bit integer.
	TypeUint64     TypeCode = 0x8  // TypeUint64 represents an unsigned 64-bit integer.
	TypeFloat16    TypeCode = 0x9  // TypeFloat16 represents a half precision float (binary files only).
	TypeFloat32    TypeCode = 0xa  // TypeFloat32 represents a single precision float.
	TypeFloat64    TypeCode = 0xb  // TypeFloat64 represents a double precision float.
	TypeComplex64  TypeCode = 0xc  // TypeComplex64 represents a pair of float32 (binary files only).
	TypeComplex128 TypeCode = 0xd  // TypeComplex128 represents a pair of float64 (binary files only).
	TypeString     TypeCode = 0x10 // TypeString represents a fixed-length byte string.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	ModeRead   Mode = 0x1 // ModeRead opens a session for reading rows.
	ModeWrite  Mode = 0x2 // ModeWrite opens a session for writing rows.
	ModeAppend Mode = 0x3 // ModeAppend writes rows after the existing content of a file.

	StrategyWholeFileBinary Strategy = 0x1 // StrategyWholeFileBinary reads every row in one block.
	StrategyWholeRowBinary  Strategy = 0x2 // StrategyWholeRowBinary reads each selected row as one block.
	StrategyPerField        Strategy = 0x3 // StrategyPerField reads or skips one field at a time.

	PolicyStrict  Policy = 0x1 // PolicyStrict rejects malformed entries and unknown names.
	PolicyLenient Policy = 0x2 // PolicyLenient logs and drops malformed entries and unknown names.
)

var typeNames = map[TypeCode]string{
	TypeInt8:       "int8",
	TypeUint8:      "uint8",
	TypeInt16:      "int16",
	TypeUint16:     "uint16",
	TypeInt32:      "int32",
	TypeUint32:     "uint32",
	TypeInt64:      "int64",
	TypeUint64:     "uint64",
	TypeFloat16:    "float16",
	TypeFloat32:    "float32",
	TypeFloat64:    "float64",
	TypeComplex64:  "complex64",
	TypeComplex128: "complex128",
	TypeString:     "string",
}

// typeWidths holds the natural element width of every fixed-width type.
// TypeString has no natural width, its element size comes from the schema.
var typeWidths = map[TypeCode]int{
	TypeInt8:       1,
	TypeUint8:      1,
	TypeInt16:      2,
	TypeUint16:     2,
	TypeInt32:      4,
	TypeUint32:     4,
	TypeInt64:      8,
	TypeUint64:     8,
	TypeFloat16:    2,
	TypeFloat32:    4,
	TypeFloat64:    8,
	TypeComplex64:  8,
	TypeComplex128: 16,
}

// AllTypes returns every known type code in ascending order.
func AllTypes() []TypeCode {
	return []TypeCode{
		TypeInt8, TypeUint8, TypeInt16, TypeUint16, TypeInt32, TypeUint32,
		TypeInt64, TypeUint64, TypeFloat16, TypeFloat32, TypeFloat64,
		TypeComplex64, TypeComplex128, TypeString,
	}
}

// ParseTypeCode maps a type name such as "int32" or "string" to its TypeCode.
func ParseTypeCode(name string) (TypeCode, bool) {
	for tc, n := range typeNames {
		if n == name {
			return tc, true
		}
	}

	return 0, false
}

// Valid reports whether t is a known type code.
func (t TypeCode) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// Width returns the natural element width in bytes, or 0 for TypeString and unknown codes.
func (t TypeCode) Width() int {
	return typeWidths[t]
}

// IsString reports whether t is the fixed-length byte string type.
func (t TypeCode) IsString() bool {
	return t == TypeString
}

// Textual reports whether values of type t can be represented in delimited files.
func (t TypeCode) Textual() bool {
	switch t { //nolint: exhaustive
	case TypeFloat16, TypeComplex64, TypeComplex128:
		return false
	default:
		return t.Valid()
	}
}

func (t TypeCode) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return "Unknown"
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Writable reports whether m emits rows.
func (m Mode) Writable() bool {
	return m == ModeWrite || m == ModeAppend
}

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "Read"
	case ModeWrite:
		return "Write"
	case ModeAppend:
		return "Append"
	default:
		return "Unknown"
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyWholeFileBinary:
		return "WholeFileBinary"
	case StrategyWholeRowBinary:
		return "WholeRowBinary"
	case StrategyPerField:
		return "PerField"
	default:
		return "Unknown"
	}
}

// ParsePolicy maps "strict" or "lenient" to a Policy.
func ParsePolicy(name string) (Policy, bool) {
	switch name {
	case "strict":
		return PolicyStrict, true
	case "lenient":
		return PolicyLenient, true
	default:
		return 0, false
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "Strict"
	case PolicyLenient:
		return "Lenient"
	default:
		return "Unknown"
	}
}
