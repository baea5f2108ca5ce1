package format

import "strconv"

// FileKind classifies the on-disk representation of a record file.
//
// A file is Binary when its delimiter is empty and Delimited otherwise. A delimiter
// whose first character is whitespace selects the whitespace-tokenized sub-mode,
// where fields are separated by any run of whitespace instead of the literal delimiter.
//
// The zero value is a Binary kind.
type FileKind struct {
	delim string
}

// KindOf derives the FileKind from a delimiter string.
func KindOf(delim string) FileKind {
	return FileKind{delim: delim}
}

// IsBinary reports whether rows are packed bytes with no delimiters.
func (k FileKind) IsBinary() bool {
	return k.delim == ""
}

// IsDelimited reports whether rows are stored as delimited text.
func (k FileKind) IsDelimited() bool {
	return k.delim != ""
}

// Whitespace reports whether the delimited file is whitespace tokenized.
func (k FileKind) Whitespace() bool {
	return k.delim != "" && IsSpace(k.delim[0])
}

// Delimiter returns the delimiter string, empty for binary files.
func (k FileKind) Delimiter() string {
	return k.delim
}

func (k FileKind) String() string {
	if k.IsBinary() {
		return "Binary"
	}
	if k.Whitespace() {
		return "Delimited(whitespace)"
	}

	return "Delimited(" + strconv.Quote(k.delim) + ")"
}

// IsSpace reports whether c is an ASCII whitespace character.
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}
