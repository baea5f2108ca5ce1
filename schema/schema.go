package schema

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
	"github.com/arloliu/recfile/internal/hash"
	"github.com/arloliu/recfile/internal/options"
)

// Schema is the ordered, immutable list of fields making up a row.
//
// Field order is significant: it is the order of the fields in the file and in
// row buffers, and it is preserved by Subset. Field names are expected to be
// unique; duplicates are not rejected and lookups resolve to the first one.
type Schema struct {
	fields  []Field
	index   map[string]int
	rowSize int
	policy  format.Policy
}

type config struct {
	logger *zap.Logger
}

// Option configures schema construction and subsetting.
type Option = options.Option[*config]

// WithLogger sets the logger receiving lenient-policy warnings.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

func newConfig(opts []Option) (*config, error) {
	c := &config{logger: zap.NewNop()}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// New builds a Schema from already-normalized field descriptors.
//
// Each descriptor is validated and its offset must equal the sum of the sizes
// of the fields before it. Under PolicyStrict the first malformed descriptor
// fails with errs.ErrMalformedField. Under PolicyLenient malformed descriptors
// are logged and dropped, and the remaining fields are repacked.
func New(policy format.Policy, fields []Field, opts ...Option) (*Schema, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if policy != format.PolicyStrict && policy != format.PolicyLenient {
		return nil, fmt.Errorf("%w: unknown policy %d", errs.ErrOpen, policy)
	}

	kept := make([]Field, 0, len(fields))
	offset := 0
	for _, f := range fields {
		if err := f.validate(); err != nil {
			if policy == format.PolicyStrict {
				return nil, err
			}
			cfg.logger.Warn("dropping malformed field", zap.String("field", f.Name), zap.Error(err))

			continue
		}
		if f.Offset != offset {
			if policy == format.PolicyStrict {
				return nil, fmt.Errorf("%w: field %s has offset %d, expected %d",
					errs.ErrMalformedField, f.Name, f.Offset, offset)
			}
			cfg.logger.Warn("repacking field offset",
				zap.String("field", f.Name), zap.Int("offset", f.Offset), zap.Int("expected", offset))
			f.Offset = offset
		}
		kept = append(kept, f)
		offset += f.Size
	}

	return newSchema(policy, kept)
}

// Build lays out the given specs back to back and builds a Schema from them.
func Build(policy format.Policy, specs []FieldSpec, opts ...Option) (*Schema, error) {
	fields := make([]Field, len(specs))
	offset := 0
	for i, spec := range specs {
		fields[i] = spec.field(offset)
		if fields[i].Size > 0 {
			offset += fields[i].Size
		}
	}

	return New(policy, fields, opts...)
}

// MustBuild is like Build with PolicyStrict but panics on error.
// It is intended for schemas known at compile time.
func MustBuild(specs ...FieldSpec) *Schema {
	s, err := Build(format.PolicyStrict, specs)
	if err != nil {
		panic(err)
	}

	return s
}

func newSchema(policy format.Policy, fields []Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, errs.ErrEmptySchema
	}

	s := &Schema{
		fields: fields,
		index:  make(map[string]int, len(fields)),
		policy: policy,
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; !dup {
			s.index[f.Name] = i
		}
		s.rowSize += f.Size
	}

	return s, nil
}

// NumFields returns the number of fields.
func (s *Schema) NumFields() int {
	return len(s.fields)
}

// Field returns the i-th field.
func (s *Schema) Field(i int) Field {
	return s.fields[i]
}

// Fields returns a copy of the fields in schema order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)

	return out
}

// Names returns the field names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}

	return names
}

// Lookup returns the field with the given name.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}

	return s.fields[i], true
}

// RowSize returns the byte size of one row, the sum of all field sizes.
func (s *Schema) RowSize() int {
	return s.rowSize
}

// Policy returns the policy the schema was built with.
func (s *Schema) Policy() format.Policy {
	return s.policy
}

// Fingerprint returns a 64-bit hash of the layout: names, types, element counts and sizes in order.
func (s *Schema) Fingerprint() uint64 {
	fp := hash.NewFingerprint()
	for _, f := range s.fields {
		fp.String(f.Name).Int(int64(f.Type)).Int(int64(f.Count)).Int(int64(f.Size))
	}

	return fp.Sum64()
}

// Equal reports whether both schemas describe the same row layout.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.fields) != len(other.fields) || s.rowSize != other.rowSize {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != other.fields[i] {
			return false
		}
	}

	return true
}

// CheckTextual returns errs.ErrUnsupportedType naming the first field whose
// type has no textual representation.
func (s *Schema) CheckTextual() error {
	for _, f := range s.fields {
		if !f.Type.Textual() {
			return fmt.Errorf("%w: field %s has type %s (code 0x%x)",
				errs.ErrUnsupportedType, f.Name, f.Type, uint8(f.Type))
		}
	}

	return nil
}

func (s *Schema) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.String()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// Subset reduces the schema to the requested field names.
//
// The result keeps the original schema order regardless of the order of names,
// with offsets repacked for a buffer holding only the kept fields. The returned
// Mask flags kept fields over the original schema.
//
// An empty names list selects every field and returns the receiver itself.
// Names that match nothing fail with errs.ErrUnknownField under PolicyStrict and
// are logged and ignored under PolicyLenient. If nothing matches at all the
// error is errs.ErrNoMatchingFields under either policy.
func (s *Schema) Subset(names []string, opts ...Option) (*Schema, Mask, error) {
	if len(names) == 0 {
		return s, AllFields(len(s.fields)), nil
	}

	cfg, err := newConfig(opts)
	if err != nil {
		return nil, Mask{}, err
	}

	wanted := make(map[string]struct{}, len(names))
	var unknown []string
	for _, name := range names {
		if _, ok := s.index[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		wanted[name] = struct{}{}
	}
	if len(unknown) > 0 {
		if s.policy == format.PolicyStrict {
			if len(wanted) == 0 {
				return nil, Mask{}, errors.Join(
					fmt.Errorf("%w: %s", errs.ErrNoMatchingFields, strings.Join(names, ", ")),
					fmt.Errorf("%w: %s", errs.ErrUnknownField, strings.Join(unknown, ", ")),
				)
			}

			return nil, Mask{}, fmt.Errorf("%w: %s", errs.ErrUnknownField, strings.Join(unknown, ", "))
		}
		cfg.logger.Warn("ignoring unknown fields", zap.Strings("fields", unknown))
	}
	if len(wanted) == 0 {
		return nil, Mask{}, fmt.Errorf("%w: %s", errs.ErrNoMatchingFields, strings.Join(names, ", "))
	}

	keep := make([]bool, len(s.fields))
	kept := make([]Field, 0, len(wanted))
	offset := 0
	for i, f := range s.fields {
		if _, ok := wanted[f.Name]; !ok {
			continue
		}
		keep[i] = true
		f.Offset = offset
		offset += f.Size
		kept = append(kept, f)
	}

	sub, err := newSchema(s.policy, kept)
	if err != nil {
		return nil, Mask{}, err
	}

	return sub, Mask{keep: keep, count: len(kept)}, nil
}
