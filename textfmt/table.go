// Package textfmt bridges binary row elements and their delimited ASCII form.
//
// A Table is built once per session from the file's FileKind. It holds, per type
// code, a scan format used to read a value and a print format used to write one,
// both in C conversion notation:
//
//	type      scan    print
//	int8      %hhd    %hhd
//	uint8     %hhu    %hhu
//	int16     %hd     %hd
//	uint16    %hu     %hu
//	int32     %d      %d
//	uint32    %u      %u
//	int64     %lld    %lld
//	uint64    %llu    %llu
//	float32   %f      %g
//	float64   %lf     %15.8e
//	string    -       %s
//
// When the delimiter is not whitespace every numeric scan format is suffixed with
// " "+delimiter so the separator is consumed by the same scan. Byte strings are
// never scanned: they are read as fixed-width raw characters.
//
// Float16 and the complex types have no textual form and are rejected with
// errs.ErrUnsupportedType.
package textfmt

import (
	"strings"

	"github.com/arloliu/recfile/endian"
	"github.com/arloliu/recfile/format"
)

const slots = int(format.TypeString) + 1

// baseScan mirrors the natural width of each type. 64-bit integers use the L
// length letter some platforms emit; fixLongLong rewrites it.
var baseScan = map[format.TypeCode]string{
	format.TypeInt8:    "%hhd",
	format.TypeUint8:   "%hhu",
	format.TypeInt16:   "%hd",
	format.TypeUint16:  "%hu",
	format.TypeInt32:   "%d",
	format.TypeUint32:  "%u",
	format.TypeInt64:   "%Ld",
	format.TypeUint64:  "%Lu",
	format.TypeFloat32: "%f",
	format.TypeFloat64: "%lf",
}

var printOverride = map[format.TypeCode]string{
	format.TypeFloat32: "%g",
	format.TypeFloat64: "%15.8e",
	format.TypeString:  "%s",
}

var fixLongLong = strings.NewReplacer("%Ld", "%lld", "%Lu", "%llu")

// Table holds the scan and print formats of one session. It is immutable once built.
type Table struct {
	kind   format.FileKind
	engine endian.EndianEngine
	scan   [slots]string
	print  [slots]string
	verbs  [slots]string
}

// New builds the format table for kind. A nil engine selects the native byte order.
func New(kind format.FileKind, engine endian.EndianEngine) *Table {
	if engine == nil {
		engine = endian.GetNativeEndianEngine()
	}

	t := &Table{kind: kind, engine: engine}

	suffix := ""
	if kind.IsDelimited() && !kind.Whitespace() {
		suffix = " " + kind.Delimiter()
	}

	for tc, f := range baseScan {
		f = fixLongLong.Replace(f)
		t.scan[tc] = f + suffix
		t.print[tc] = f
	}
	for tc, f := range printOverride {
		t.print[tc] = f
	}
	for tc, f := range t.print {
		if f != "" {
			t.verbs[tc] = goVerb(f)
		}
	}

	return t
}

// Kind returns the file kind the table was built for.
func (t *Table) Kind() format.FileKind {
	return t.kind
}

// Engine returns the byte order used for numeric elements.
func (t *Table) Engine() endian.EndianEngine {
	return t.engine
}

// ScanFormat returns the scan format of tc. Strings and binary-only types have none.
func (t *Table) ScanFormat(tc format.TypeCode) (string, bool) {
	if int(tc) >= slots || t.scan[tc] == "" {
		return "", false
	}

	return t.scan[tc], true
}

// PrintFormat returns the print format of tc.
func (t *Table) PrintFormat(tc format.TypeCode) (string, bool) {
	if int(tc) >= slots || t.print[tc] == "" {
		return "", false
	}

	return t.print[tc], true
}

// goVerb drops C length modifiers and maps integer conversions onto %d,
// keeping flags, width and precision: "%lld" -> "%d", "%15.8e" -> "%15.8e".
func goVerb(c string) string {
	var b strings.Builder
	b.Grow(len(c))
	for i := 0; i < len(c); i++ {
		switch ch := c[i]; ch {
		case 'h', 'l', 'L', 'q', 'j', 'z', 't':
		case 'u', 'i':
			b.WriteByte('d')
		default:
			b.WriteByte(ch)
		}
	}

	return b.String()
}
