package vehicle

import (
	"context"

	"github.com/evcraddock/garage/internal/record"
)

// API is the subset of the backend client used to persist vehicles.
type API interface {
	CreateVehicle(ctx context.Context, v Vehicle) (Vehicle, error)
	UpdateVehicle(ctx context.Context, id int64, v Vehicle) (Vehicle, error)
}

type syncer struct {
	api API
}

// NewSyncer adapts api for use by a vehicle form.
func NewSyncer(api API) record.Syncer[Vehicle] {
	return syncer{api: api}
}

func (s syncer) Create(ctx context.Context, v Vehicle) (Vehicle, error) {
	return s.api.CreateVehicle(ctx, v)
}

func (s syncer) Update(ctx context.Context, id int64, v Vehicle) (Vehicle, error) {
	return s.api.UpdateVehicle(ctx, id, v)
}

// NewForm returns a form over an existing vehicle.
func NewForm(api API, v Vehicle, opts ...record.Option[Vehicle]) *record.Form[Vehicle] {
	return record.New(Schema(), NewSyncer(api), v, opts...)
}

// NewRegistration returns a form for registering a vehicle for the customer
// ownerID. A zero ownerID leaves the owner to be taken from the entity.
func NewRegistration(api API, ownerID int64, opts ...record.Option[Vehicle]) *record.Form[Vehicle] {
	if ownerID != 0 {
		opts = append([]record.Option[Vehicle]{record.WithOwner[Vehicle](ownerID)}, opts...)
	}
	return record.NewRegistration(Schema(), NewSyncer(api), Vehicle{UserID: ownerID}, opts...)
}
