package schema

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
)

// document is the YAML form of a schema:
//
//	policy: strict
//	fields:
//	  - {name: id, type: int64}
//	  - {name: pos, type: float32, count: 3}
//	  - {name: tag, type: string, size: 8}
//
// size is the per-element byte size of string fields.
type document struct {
	Policy string          `yaml:"policy"`
	Fields []fieldDocument `yaml:"fields"`
}

type fieldDocument struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Count int    `yaml:"count,omitempty"`
	Size  int    `yaml:"size,omitempty"`
}

// ParseYAML builds a Schema from a YAML document.
//
// The policy key selects "strict" (the default when absent) or "lenient". An
// unknown type name is a malformed field and is handled according to that policy.
func ParseYAML(data []byte, opts ...Option) (*Schema, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrMalformedField, err)
	}

	policy := format.PolicyStrict
	if doc.Policy != "" {
		p, ok := format.ParsePolicy(doc.Policy)
		if !ok {
			return nil, fmt.Errorf("%w: unknown policy %q", errs.ErrMalformedField, doc.Policy)
		}
		policy = p
	}

	specs := make([]FieldSpec, len(doc.Fields))
	for i, fd := range doc.Fields {
		// An unknown name leaves the zero code, which validation rejects.
		tc, _ := format.ParseTypeCode(fd.Type)
		specs[i] = FieldSpec{Name: fd.Name, Type: tc, Count: fd.Count, ElemSize: fd.Size}
	}

	return Build(policy, specs, opts...)
}

// LoadYAML reads a YAML schema document from r.
func LoadYAML(r io.Reader, opts ...Option) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return ParseYAML(data, opts...)
}

// MarshalYAML renders the schema in the form accepted by ParseYAML.
func (s *Schema) MarshalYAML() (any, error) {
	doc := document{Policy: "strict", Fields: make([]fieldDocument, len(s.fields))}
	if s.policy == format.PolicyLenient {
		doc.Policy = "lenient"
	}
	for i, f := range s.fields {
		fd := fieldDocument{Name: f.Name, Type: f.Type.String()}
		if f.Count > 1 {
			fd.Count = f.Count
		}
		if f.Type.IsString() {
			fd.Size = f.ElemSize()
		}
		doc.Fields[i] = fd
	}

	return doc, nil
}
