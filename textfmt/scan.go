package textfmt

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
)

// maxToken bounds a numeric token; the longest valid float64 text is far shorter.
const maxToken = 128

// Source is the byte stream a Table scans from.
type Source interface {
	io.Reader
	io.ByteScanner
}

// ScanValue reads one numeric element of type tc from src into elem.
//
// Leading whitespace is skipped. The token is parsed with the bit size of tc and
// stored in the table's byte order. The scan format's delimiter suffix is then
// matched; in whitespace mode the single separator following the value is consumed
// instead.
//
// End of input before a token is errs.ErrUnexpectedEOF; a token that does not
// parse is errs.ErrMalformedValue.
func (t *Table) ScanValue(src Source, tc format.TypeCode, elem []byte) error {
	if !tc.Textual() || tc.IsString() {
		return unsupported(tc)
	}
	if len(elem) < tc.Width() {
		return fmt.Errorf("%w: %s element needs %d bytes, have %d", errs.ErrBufferSize, tc, tc.Width(), len(elem))
	}

	tok, err := readToken(src, tc == format.TypeFloat32 || tc == format.TypeFloat64)
	if err != nil {
		return err
	}
	if err := t.putValue(tc, tok, elem); err != nil {
		return err
	}

	if t.kind.Whitespace() {
		return t.SkipSeparator(src)
	}

	return t.matchSuffix(src)
}

// ScanString reads one fixed-width string element of len(elem) raw bytes, then
// consumes the separator that follows it.
func (t *Table) ScanString(src Source, elem []byte) error {
	if _, err := io.ReadFull(src, elem); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: string element of %d bytes", errs.ErrUnexpectedEOF, len(elem))
		}

		return err
	}

	return t.SkipSeparator(src)
}

// SkipSeparator consumes the separator after a raw value: the whole delimiter when
// it follows, otherwise exactly one byte. End of input is not an error.
func (t *Table) SkipSeparator(src Source) error {
	delim := t.kind.Delimiter()

	c, err := src.ReadByte()
	if err != nil {
		return eofOK(err)
	}
	if len(delim) == 0 || c != delim[0] {
		return nil
	}

	for i := 1; i < len(delim); i++ {
		c, err = src.ReadByte()
		if err != nil {
			return eofOK(err)
		}
		if c != delim[i] {
			return src.UnreadByte()
		}
	}

	return nil
}

// matchSuffix consumes " "+delimiter the way a C scan directive does: any run of
// blanks, then the literal delimiter as far as it matches. A mismatch is left
// unread. The blank run stops at a newline so row boundaries stay visible.
func (t *Table) matchSuffix(src Source) error {
	delim := t.kind.Delimiter()
	if delim == "" {
		return nil
	}

	for {
		c, err := src.ReadByte()
		if err != nil {
			return eofOK(err)
		}
		if c == '\n' || !format.IsSpace(c) {
			if err := src.UnreadByte(); err != nil {
				return err
			}

			break
		}
	}

	for i := 0; i < len(delim); i++ {
		c, err := src.ReadByte()
		if err != nil {
			return eofOK(err)
		}
		if c != delim[i] {
			return src.UnreadByte()
		}
	}

	return nil
}

// readToken skips whitespace and collects the characters that can form a number.
func readToken(src io.ByteScanner, float bool) (string, error) {
	var c byte
	var err error
	for {
		c, err = src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: expected a value", errs.ErrUnexpectedEOF)
			}

			return "", err
		}
		if !format.IsSpace(c) {
			break
		}
	}

	var buf [maxToken]byte
	n := 0
	for {
		if !tokenByte(c, float) {
			if err := src.UnreadByte(); err != nil {
				return "", err
			}

			break
		}
		if n == len(buf) {
			return "", fmt.Errorf("%w: token longer than %d bytes", errs.ErrMalformedValue, maxToken)
		}
		buf[n] = c
		n++

		c, err = src.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}

	if n == 0 {
		return "", fmt.Errorf("%w: unexpected %q", errs.ErrMalformedValue, c)
	}

	return string(buf[:n]), nil
}

func tokenByte(c byte, float bool) bool {
	switch {
	case c >= '0' && c <= '9', c == '+', c == '-':
		return true
	case !float:
		return false
	case c == '.', c == 'e', c == 'E':
		return true
	}

	// inf, infinity, nan
	switch c | 0x20 {
	case 'i', 'n', 'f', 't', 'y', 'a':
		return true
	}

	return false
}

func eofOK(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
