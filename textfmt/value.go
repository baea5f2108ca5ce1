package textfmt

import (
	"fmt"
	"math"
	"strconv"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
)

func unsupported(tc format.TypeCode) error {
	return fmt.Errorf("%w: %s (code 0x%x) has no textual form", errs.ErrUnsupportedType, tc, uint8(tc))
}

// AppendValue formats one numeric element with its print format and appends it to dst.
func (t *Table) AppendValue(dst []byte, tc format.TypeCode, elem []byte) ([]byte, error) {
	if !tc.Textual() || tc.IsString() {
		return dst, unsupported(tc)
	}
	if len(elem) < tc.Width() {
		return dst, fmt.Errorf("%w: %s element needs %d bytes, have %d", errs.ErrBufferSize, tc, tc.Width(), len(elem))
	}

	verb := t.verbs[tc]
	e := t.engine

	switch tc {
	case format.TypeInt8:
		return fmt.Appendf(dst, verb, int8(elem[0])), nil
	case format.TypeUint8:
		return fmt.Appendf(dst, verb, elem[0]), nil
	case format.TypeInt16:
		return fmt.Appendf(dst, verb, int16(e.Uint16(elem))), nil
	case format.TypeUint16:
		return fmt.Appendf(dst, verb, e.Uint16(elem)), nil
	case format.TypeInt32:
		return fmt.Appendf(dst, verb, int32(e.Uint32(elem))), nil
	case format.TypeUint32:
		return fmt.Appendf(dst, verb, e.Uint32(elem)), nil
	case format.TypeInt64:
		return fmt.Appendf(dst, verb, int64(e.Uint64(elem))), nil
	case format.TypeUint64:
		return fmt.Appendf(dst, verb, e.Uint64(elem)), nil
	case format.TypeFloat32:
		return fmt.Appendf(dst, verb, math.Float32frombits(e.Uint32(elem))), nil
	case format.TypeFloat64:
		return fmt.Appendf(dst, verb, math.Float64frombits(e.Uint64(elem))), nil
	}

	return dst, unsupported(tc)
}

// Nulls controls how NUL bytes inside string elements are written.
type Nulls struct {
	// Pad replaces each NUL with a space.
	Pad bool
	// IgnoreAfterFirst drops the first NUL and everything after it. It wins over Pad.
	IgnoreAfterFirst bool
}

// AppendString appends a raw string element to dst applying the null policy.
func AppendString(dst, elem []byte, nulls Nulls) []byte {
	for _, c := range elem {
		if c == 0 {
			if nulls.IgnoreAfterFirst {
				break
			}
			if nulls.Pad {
				c = ' '
			}
		}
		dst = append(dst, c)
	}

	return dst
}

// putValue parses tok as a value of tc and stores it into elem.
func (t *Table) putValue(tc format.TypeCode, tok string, elem []byte) error {
	e := t.engine

	switch tc {
	case format.TypeInt8, format.TypeInt16, format.TypeInt32, format.TypeInt64:
		v, err := strconv.ParseInt(tok, 10, tc.Width()*8)
		if err != nil {
			return malformed(tc, tok, err)
		}
		switch tc {
		case format.TypeInt8:
			elem[0] = byte(int8(v))
		case format.TypeInt16:
			e.PutUint16(elem, uint16(int16(v)))
		case format.TypeInt32:
			e.PutUint32(elem, uint32(int32(v)))
		default:
			e.PutUint64(elem, uint64(v))
		}
	case format.TypeUint8, format.TypeUint16, format.TypeUint32, format.TypeUint64:
		v, err := strconv.ParseUint(tok, 10, tc.Width()*8)
		if err != nil {
			return malformed(tc, tok, err)
		}
		switch tc {
		case format.TypeUint8:
			elem[0] = byte(v)
		case format.TypeUint16:
			e.PutUint16(elem, uint16(v))
		case format.TypeUint32:
			e.PutUint32(elem, uint32(v))
		default:
			e.PutUint64(elem, v)
		}
	case format.TypeFloat32:
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return malformed(tc, tok, err)
		}
		e.PutUint32(elem, math.Float32bits(float32(v)))
	case format.TypeFloat64:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return malformed(tc, tok, err)
		}
		e.PutUint64(elem, math.Float64bits(v))
	default:
		return unsupported(tc)
	}

	return nil
}

func malformed(tc format.TypeCode, tok string, err error) error {
	return fmt.Errorf("%w: %q is not a valid %s: %w", errs.ErrMalformedValue, tok, tc, err)
}
