// Package visit provides the service visit domain model, its editable-record
// schema with the services and parts line editors, price display, and data
// access for the development backend.
package visit

import "slices"

// Status is where a visit is in the workshop workflow.
type Status string

const (
	NotStarted     Status = "not started"
	InProgress     Status = "in progress"
	ReadyForPickup Status = "ready for pickup"
)

// Statuses is the set of allowed visit statuses.
var Statuses = []Status{NotStarted, InProgress, ReadyForPickup}

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}

// Service is a workshop service, either a catalog entry or a line performed
// on a visit.
type Service struct {
	ServiceID  int64   `json:"serviceId"`
	Name       string  `json:"name"`
	ServiceQty int     `json:"serviceQty"`
	Price      float64 `json:"price"`
	CarSegment string  `json:"carSegment,omitempty"`
}

// Part is a spare part, either a catalog entry or a line used on a visit.
type Part struct {
	PartID     int64   `json:"partId"`
	Name       string  `json:"name"`
	PartQty    int     `json:"partQty"`
	Price      float64 `json:"price"`
	CarSegment string  `json:"carSegment,omitempty"`
}

// Visit is a vehicle's stay at the workshop.
type Visit struct {
	VisitID           int64     `json:"visitId,omitempty"`
	VehicleID         int64     `json:"vehicleId"`
	Notes             string    `json:"notes"`
	VisitStatus       Status    `json:"visitStatus"`
	VisitStart        string    `json:"visitStart,omitempty"` // YYYY-MM-DD
	VisitEnd          string    `json:"visitEnd,omitempty"`   // YYYY-MM-DD
	CarSegment        string    `json:"carSegment,omitempty"`
	PerformedServices []Service `json:"performedServices"`
	UsedParts         []Part    `json:"usedParts"`
}

// Clone returns a deep copy of v.
func Clone(v Visit) Visit {
	v.PerformedServices = slices.Clone(v.PerformedServices)
	v.UsedParts = slices.Clone(v.UsedParts)
	return v
}

// Empty returns the seed for a new visit.
func Empty() Visit {
	return Visit{
		VisitStatus:       NotStarted,
		PerformedServices: []Service{},
		UsedParts:         []Part{},
	}
}
