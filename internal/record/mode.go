package record

// Mode is the editability state of a form.
type Mode int

const (
	// Viewing is read-only display. It is the initial and resting state.
	Viewing Mode = iota
	// Editing modifies an existing record.
	Editing
	// Registering creates a new record.
	Registering
)

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	switch m {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Registering:
		return "registering"
	default:
		return "unknown"
	}
}

// Editable reports whether field controls accept input in this mode.
func (m Mode) Editable() bool {
	return m == Editing || m == Registering
}
