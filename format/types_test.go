package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeCode_Width(t *testing.T) {
	tests := []struct {
		code  TypeCode
		width int
	}{
		{TypeInt8, 1},
		{TypeUint8, 1},
		{TypeInt16, 2},
		{TypeUint16, 2},
		{TypeInt32, 4},
		{TypeUint32, 4},
		{TypeInt64, 8},
		{TypeUint64, 8},
		{TypeFloat16, 2},
		{TypeFloat32, 4},
		{TypeFloat64, 8},
		{TypeComplex64, 8},
		{TypeComplex128, 16},
		{TypeString, 0},
		{TypeCode(0xff), 0},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			require.Equal(t, tt.width, tt.code.Width())
		})
	}
}

func TestTypeCode_Textual(t *testing.T) {
	require := require.New(t)

	require.True(TypeInt64.Textual())
	require.True(TypeFloat32.Textual())
	require.True(TypeString.Textual())
	require.False(TypeFloat16.Textual())
	require.False(TypeComplex64.Textual())
	require.False(TypeComplex128.Textual())
	require.False(TypeCode(0).Textual())
}

func TestParseTypeCode(t *testing.T) {
	require := require.New(t)

	for _, tc := range AllTypes() {
		parsed, ok := ParseTypeCode(tc.String())
		require.True(ok, tc.String())
		require.Equal(tc, parsed)
	}

	_, ok := ParseTypeCode("decimal")
	require.False(ok)
}

func TestEnumStrings(t *testing.T) {
	require := require.New(t)

	require.Equal("Zstd", CompressionZstd.String())
	require.Equal("Unknown", CompressionType(0).String())
	require.Equal("Append", ModeAppend.String())
	require.True(ModeAppend.Writable())
	require.False(ModeRead.Writable())
	require.Equal("WholeRowBinary", StrategyWholeRowBinary.String())
	require.Equal("Lenient", PolicyLenient.String())

	p, ok := ParsePolicy("strict")
	require.True(ok)
	require.Equal(PolicyStrict, p)
	_, ok = ParsePolicy("loose")
	require.False(ok)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name       string
		delim      string
		binary     bool
		whitespace bool
		str        string
	}{
		{"empty is binary", "", true, false, "Binary"},
		{"comma", ",", false, false, `Delimited(",")`},
		{"multi char", "::", false, false, `Delimited("::")`},
		{"space", " ", false, true, "Delimited(whitespace)"},
		{"tab", "\t", false, true, "Delimited(whitespace)"},
		{"space led", " |", false, true, "Delimited(whitespace)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := KindOf(tt.delim)
			require.Equal(t, tt.binary, k.IsBinary())
			require.Equal(t, !tt.binary, k.IsDelimited())
			require.Equal(t, tt.whitespace, k.Whitespace())
			require.Equal(t, tt.delim, k.Delimiter())
			require.Equal(t, tt.str, k.String())
		})
	}
}
