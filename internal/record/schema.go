package record

import (
	"fmt"
	"strconv"
)

// Field describes one editable field of an entity of type T.
type Field[T any] struct {
	Name string
	// Label is the human-readable name used in output.
	Label string
	// Required fields must be truthy before a new record can be created.
	Required bool
	// Get returns the field's current value in its input representation.
	// Zero numbers are rendered as "".
	Get func(T) string
	// Set stores an input value into the entity.
	Set func(*T, string) error
	// Validate returns "" when value is acceptable, otherwise a message.
	Validate func(value string) string
}

// Schema is the closed set of fields of one entity type.
type Schema[T any] struct {
	entity   string
	fields   []Field[T]
	index    map[string]int
	clone    func(T) T
	identity func(T) int64

	ownerOf  func(T) int64
	setOwner func(*T, int64)
}

// NewSchema declares an entity schema. clone must deep-copy any nested
// collections; nil means T is copied by value. identity returns 0 for records
// that have not been created yet.
func NewSchema[T any](entity string, clone func(T) T, identity func(T) int64, fields ...Field[T]) *Schema[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	s := &Schema[T]{
		entity:   entity,
		fields:   fields,
		index:    make(map[string]int, len(fields)),
		clone:    clone,
		identity: identity,
	}
	for i, f := range fields {
		if f.Get == nil || f.Set == nil || f.Validate == nil {
			panic(fmt.Sprintf("record: field %s.%s is missing an accessor or validator", entity, f.Name))
		}
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("record: duplicate field %s.%s", entity, f.Name))
		}
		s.index[f.Name] = i
	}
	return s
}

// WithOwner declares the owner reference checked and applied when creating a
// record. The owner may be supplied externally (for example a customer created
// a step earlier) and then overrides the entity's own value.
func (s *Schema[T]) WithOwner(get func(T) int64, set func(*T, int64)) *Schema[T] {
	s.ownerOf = get
	s.setOwner = set
	return s
}

// Entity returns the entity name, e.g. "vehicle".
func (s *Schema[T]) Entity() string { return s.entity }

// Fields returns the fields in declaration order.
func (s *Schema[T]) Fields() []Field[T] {
	out := make([]Field[T], len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the field names in declaration order.
func (s *Schema[T]) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the named field.
func (s *Schema[T]) Field(name string) (Field[T], error) {
	i, ok := s.index[name]
	if !ok {
		return Field[T]{}, fmt.Errorf("%s: %w: %q", s.entity, ErrUnknownField, name)
	}
	return s.fields[i], nil
}

// Validate runs the named field's validator.
func (s *Schema[T]) Validate(name, value string) (string, error) {
	f, err := s.Field(name)
	if err != nil {
		return "", err
	}
	return f.Validate(value), nil
}

// Clone returns a deep copy of v.
func (s *Schema[T]) Clone(v T) T { return s.clone(v) }

// Identity returns the server id of v, 0 when not yet created.
func (s *Schema[T]) Identity(v T) int64 {
	if s.identity == nil {
		return 0
	}
	return s.identity(v)
}

// emptyErrors returns an error map with an empty entry per field.
func (s *Schema[T]) emptyErrors() Errors {
	errs := make(Errors, len(s.fields))
	for _, f := range s.fields {
		errs[f.Name] = ""
	}
	return errs
}

// Truthy reports whether an input value counts as filled in:
// non-empty and not a zero number.
func Truthy(value string) bool {
	if value == "" {
		return false
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil && n == 0 {
		return false
	}
	return true
}

// FormatInt renders an integer field value, zero as "".
func FormatInt(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// ParseInt parses an integer field value, "" as zero.
func ParseInt(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a whole number: %q", value)
	}
	return n, nil
}
