package schema

// Mask flags which fields of a schema are kept by a selection.
// The zero Mask keeps nothing.
type Mask struct {
	keep  []bool
	count int
	all   bool
}

// AllFields returns a Mask keeping every one of n fields.
func AllFields(n int) Mask {
	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}

	return Mask{keep: keep, count: n, all: true}
}

// Kept reports whether the i-th field of the original schema is kept.
func (m Mask) Kept(i int) bool {
	return i >= 0 && i < len(m.keep) && m.keep[i]
}

// Count returns the number of kept fields.
func (m Mask) Count() int {
	return m.count
}

// Len returns the number of fields of the original schema.
func (m Mask) Len() int {
	return len(m.keep)
}

// All reports whether every field is kept.
func (m Mask) All() bool {
	return m.all || (len(m.keep) > 0 && m.count == len(m.keep))
}
