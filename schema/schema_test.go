package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
)

func abcSchema(t *testing.T, policy format.Policy) *Schema {
	t.Helper()

	s, err := Build(policy, []FieldSpec{
		{Name: "a", Type: format.TypeInt32},
		{Name: "b", Type: format.TypeFloat64, Count: 2},
		{Name: "c", Type: format.TypeString, ElemSize: 5},
	})
	require.NoError(t, err)

	return s
}

// ==============================================================================
// Construction
// ==============================================================================

func TestBuild_Layout(t *testing.T) {
	require := require.New(t)

	s := abcSchema(t, format.PolicyStrict)
	require.Equal(3, s.NumFields())
	require.Equal(4+16+5, s.RowSize())
	require.Equal([]string{"a", "b", "c"}, s.Names())

	b, ok := s.Lookup("b")
	require.True(ok)
	require.Equal(Field{Name: "b", Offset: 4, Size: 16, Count: 2, Type: format.TypeFloat64}, b)
	require.Equal(8, b.ElemSize())

	c := s.Field(2)
	require.Equal(20, c.Offset)
	require.Equal(5, c.ElemSize())

	_, ok = s.Lookup("z")
	require.False(ok)
	require.Equal("[a:int32, b:float64[2], c:string5]", s.String())
}

func TestNew_Strict(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{"empty name", []Field{{Name: "", Size: 4, Count: 1, Type: format.TypeInt32}}},
		{"unknown type", []Field{{Name: "x", Size: 4, Count: 1, Type: format.TypeCode(0x77)}}},
		{"zero count", []Field{{Name: "x", Size: 4, Count: 0, Type: format.TypeInt32}}},
		{"size not multiple", []Field{{Name: "x", Size: 7, Count: 2, Type: format.TypeString}}},
		{"numeric width mismatch", []Field{{Name: "x", Size: 2, Count: 1, Type: format.TypeInt32}}},
		{"offset gap", []Field{
			{Name: "x", Size: 4, Count: 1, Type: format.TypeInt32},
			{Name: "y", Offset: 8, Size: 4, Count: 1, Type: format.TypeInt32},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(format.PolicyStrict, tt.fields)
			require.ErrorIs(t, err, errs.ErrMalformedField)
		})
	}
}

func TestNew_LenientDropsAndRepacks(t *testing.T) {
	require := require.New(t)

	core, logs := observer.New(zapcore.WarnLevel)
	s, err := New(format.PolicyLenient, []Field{
		{Name: "x", Offset: 0, Size: 4, Count: 1, Type: format.TypeInt32},
		{Name: "bad", Offset: 4, Size: 3, Count: 1, Type: format.TypeInt32},
		{Name: "y", Offset: 7, Size: 8, Count: 1, Type: format.TypeFloat64},
	}, WithLogger(zap.New(core)))
	require.NoError(err)

	require.Equal([]string{"x", "y"}, s.Names())
	y, _ := s.Lookup("y")
	require.Equal(4, y.Offset)
	require.Equal(12, s.RowSize())

	require.Equal(1, logs.FilterMessage("dropping malformed field").Len())
	require.Equal(1, logs.FilterMessage("repacking field offset").Len())
}

func TestNew_Empty(t *testing.T) {
	_, err := New(format.PolicyStrict, nil)
	require.ErrorIs(t, err, errs.ErrEmptySchema)

	_, err = New(format.PolicyLenient, []Field{{Name: "bad"}})
	require.ErrorIs(t, err, errs.ErrEmptySchema)
}

func TestNew_UnknownPolicy(t *testing.T) {
	_, err := New(format.Policy(0), []Field{{Name: "x", Size: 1, Count: 1, Type: format.TypeInt8}})
	require.Error(t, err)
}

func TestMustBuild_Panics(t *testing.T) {
	require.Panics(t, func() {
		MustBuild(FieldSpec{Name: "s", Type: format.TypeString})
	})
}

// ==============================================================================
// Identity
// ==============================================================================

func TestFingerprintAndEqual(t *testing.T) {
	require := require.New(t)

	a := abcSchema(t, format.PolicyStrict)
	b := abcSchema(t, format.PolicyStrict)
	require.Equal(a.Fingerprint(), b.Fingerprint())
	require.True(a.Equal(b))

	other := MustBuild(
		FieldSpec{Name: "a", Type: format.TypeInt32},
		FieldSpec{Name: "b", Type: format.TypeFloat64, Count: 3},
		FieldSpec{Name: "c", Type: format.TypeString, ElemSize: 5},
	)
	require.NotEqual(a.Fingerprint(), other.Fingerprint())
	require.False(a.Equal(other))
	require.False(a.Equal(nil))

	var nilSchema *Schema
	require.True(nilSchema.Equal(nil))
}

func TestCheckTextual(t *testing.T) {
	require.NoError(t, abcSchema(t, format.PolicyStrict).CheckTextual())

	s := MustBuild(
		FieldSpec{Name: "ok", Type: format.TypeInt8},
		FieldSpec{Name: "z", Type: format.TypeComplex64},
	)
	err := s.CheckTextual()
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
	require.Contains(t, err.Error(), "complex64")
}

// ==============================================================================
// Subset
// ==============================================================================

func TestSubset_PreservesSchemaOrder(t *testing.T) {
	require := require.New(t)

	s := abcSchema(t, format.PolicyStrict)
	sub, mask, err := s.Subset([]string{"c", "a"})
	require.NoError(err)

	require.Equal([]string{"a", "c"}, sub.Names())
	require.Equal(9, sub.RowSize())
	c, _ := sub.Lookup("c")
	require.Equal(4, c.Offset, "offsets are repacked for the reduced row")

	require.True(mask.Kept(0))
	require.False(mask.Kept(1))
	require.True(mask.Kept(2))
	require.False(mask.Kept(3))
	require.Equal(2, mask.Count())
	require.Equal(3, mask.Len())
	require.False(mask.All())
}

func TestSubset_AllIsFastPath(t *testing.T) {
	require := require.New(t)

	s := abcSchema(t, format.PolicyStrict)
	sub, mask, err := s.Subset(nil)
	require.NoError(err)
	require.Same(s, sub)
	require.True(mask.All())
	require.Equal(3, mask.Count())

	sub, mask, err = s.Subset([]string{"b", "c", "a"})
	require.NoError(err)
	require.True(mask.All())
	require.True(s.Equal(sub))
}

func TestSubset_Unknown(t *testing.T) {
	t.Run("strict rejects", func(t *testing.T) {
		_, _, err := abcSchema(t, format.PolicyStrict).Subset([]string{"a", "nope"})
		require.ErrorIs(t, err, errs.ErrUnknownField)
	})

	t.Run("lenient drops and logs", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		sub, _, err := abcSchema(t, format.PolicyLenient).Subset(
			[]string{"nope", "b"}, WithLogger(zap.New(core)))
		require.NoError(t, err)
		require.Equal(t, []string{"b"}, sub.Names())
		require.Equal(t, 1, logs.FilterMessage("ignoring unknown fields").Len())
	})

	for _, policy := range []format.Policy{format.PolicyStrict, format.PolicyLenient} {
		t.Run("no match "+policy.String(), func(t *testing.T) {
			_, _, err := abcSchema(t, policy).Subset([]string{"x", "y"})
			require.ErrorIs(t, err, errs.ErrNoMatchingFields)
		})
	}
}

// ==============================================================================
// YAML
// ==============================================================================

func TestParseYAML(t *testing.T) {
	require := require.New(t)

	doc := `
policy: lenient
fields:
  - {name: id, type: int64}
  - {name: pos, type: float32, count: 3}
  - {name: tag, type: string, size: 8}
`
	s, err := ParseYAML([]byte(doc))
	require.NoError(err)
	require.Equal(format.PolicyLenient, s.Policy())
	require.Equal("[id:int64, pos:float32[3], tag:string8]", s.String())
	require.Equal(8+12+8, s.RowSize())
}

func TestParseYAML_DefaultsToStrict(t *testing.T) {
	_, err := ParseYAML([]byte("fields:\n  - {name: v, type: decimal}\n"))
	require.ErrorIs(t, err, errs.ErrMalformedField)
}

func TestParseYAML_BadPolicy(t *testing.T) {
	_, err := ParseYAML([]byte("policy: loose\nfields: []\n"))
	require.ErrorIs(t, err, errs.ErrMalformedField)
}

func TestLoadYAML_RoundTrip(t *testing.T) {
	require := require.New(t)

	s := abcSchema(t, format.PolicyStrict)
	out, err := yaml.Marshal(s)
	require.NoError(err)

	back, err := LoadYAML(strings.NewReader(string(out)))
	require.NoError(err)
	require.True(s.Equal(back))
	require.Equal(s.Fingerprint(), back.Fingerprint())
}
