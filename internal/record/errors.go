package record

import (
	"errors"
	"sort"
)

var (
	// ErrUnknownField is returned for a field name the schema does not declare.
	ErrUnknownField = errors.New("unknown field")
	// ErrReadOnly is returned when input or submit is attempted while viewing.
	ErrReadOnly = errors.New("form is read-only")
	// ErrNotViewing is returned by Edit when the form is already editing or registering.
	ErrNotViewing = errors.New("form is not in viewing mode")
	// ErrNotCreated is returned by Edit for a record that has no server identity.
	ErrNotCreated = errors.New("record has not been created")
	// ErrInvalid is returned by Submit when the form does not pass validation.
	ErrInvalid = errors.New("form has validation errors")
	// ErrClosed is returned when the form was closed before a response arrived.
	ErrClosed = errors.New("form closed")
)

// GenericErrorMessage is shown for failures that carry no server message.
const GenericErrorMessage = "Something went wrong. Please try again later."

// Rejection is implemented by errors that carry a server message meant to be
// shown to the user verbatim.
type Rejection interface {
	error
	Rejection() string
}

// Errors maps field names to validation messages. An empty message means valid.
type Errors map[string]string

// Valid reports whether every entry is empty.
func (e Errors) Valid() bool {
	for _, msg := range e {
		if msg != "" {
			return false
		}
	}
	return true
}

// Failing returns the names of fields with a non-empty message, sorted.
func (e Errors) Failing() []string {
	var names []string
	for name, msg := range e {
		if msg != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
