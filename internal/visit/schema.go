package visit

import (
	"github.com/evcraddock/garage/internal/record"
)

// Field names.
const (
	FieldNotes       = "notes"
	FieldVisitStatus = "visitStatus"
	FieldVisitStart  = "visitStart"
	FieldVisitEnd    = "visitEnd"
)

// The owner of a visit is its vehicle. A vehicle registered a step earlier is
// supplied as the owner from outside the form.
var schema = record.NewSchema("visit", Clone, func(v Visit) int64 { return v.VisitID },
	record.Field[Visit]{
		Name:     FieldNotes,
		Label:    "Notes",
		Required: true,
		Validate: ValidateNotes,
		Get:      func(v Visit) string { return v.Notes },
		Set:      func(v *Visit, s string) error { v.Notes = s; return nil },
	},
	record.Field[Visit]{
		Name:     FieldVisitStatus,
		Label:    "Status",
		Validate: ValidateStatus,
		Get:      func(v Visit) string { return string(v.VisitStatus) },
		Set:      func(v *Visit, s string) error { v.VisitStatus = Status(s); return nil },
	},
	record.Field[Visit]{
		Name:     FieldVisitStart,
		Label:    "Start",
		Validate: ValidateDate,
		Get:      func(v Visit) string { return v.VisitStart },
		Set:      func(v *Visit, s string) error { v.VisitStart = s; return nil },
	},
	record.Field[Visit]{
		Name:     FieldVisitEnd,
		Label:    "End",
		Validate: ValidateDate,
		Get:      func(v Visit) string { return v.VisitEnd },
		Set:      func(v *Visit, s string) error { v.VisitEnd = s; return nil },
	},
).WithOwner(
	func(v Visit) int64 { return v.VehicleID },
	func(v *Visit, id int64) { v.VehicleID = id },
)

// Schema returns the editable-record schema for visits.
func Schema() *record.Schema[Visit] { return schema }
