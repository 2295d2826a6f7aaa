package record

import "reflect"

// State holds the working and pristine copies of one entity.
// It performs no I/O and is not safe for concurrent use on its own; Form
// serializes access to it.
type State[T any] struct {
	schema   *Schema[T]
	working  T
	pristine T
}

// NewState seeds both copies from initial.
func NewState[T any](schema *Schema[T], initial T) *State[T] {
	return &State[T]{
		schema:   schema,
		working:  schema.Clone(initial),
		pristine: schema.Clone(initial),
	}
}

// Get returns a copy of the working copy.
func (s *State[T]) Get() T { return s.schema.Clone(s.working) }

// Pristine returns a copy of the last confirmed state.
func (s *State[T]) Pristine() T { return s.schema.Clone(s.pristine) }

// Set replaces one field of the working copy. Every other field is preserved.
// On error the working copy is unchanged.
func (s *State[T]) Set(name, value string) error {
	f, err := s.schema.Field(name)
	if err != nil {
		return err
	}
	next := s.schema.Clone(s.working)
	if err := f.Set(&next, value); err != nil {
		return err
	}
	s.working = next
	return nil
}

// Apply mutates the working copy in place. Used for nested collections that
// are not addressable as a single field.
func (s *State[T]) Apply(fn func(*T)) {
	next := s.schema.Clone(s.working)
	fn(&next)
	s.working = next
}

// Reset overwrites the working copy with the pristine copy.
func (s *State[T]) Reset() {
	s.working = s.schema.Clone(s.pristine)
}

// Commit adopts confirmed as the new pristine copy and resets the working copy to match.
func (s *State[T]) Commit(confirmed T) {
	s.pristine = s.schema.Clone(confirmed)
	s.working = s.schema.Clone(confirmed)
}

// Dirty reports whether the working copy differs from the pristine copy.
func (s *State[T]) Dirty() bool {
	return !reflect.DeepEqual(s.working, s.pristine)
}
