// Package catalog provides read access to the vehicle model, service, and
// part catalogs for the development backend.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/evcraddock/garage/internal/vehicle"
	"github.com/evcraddock/garage/internal/visit"
)

// Repository reads the catalogs.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a catalog repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Models returns every vehicle model, ordered by manufacturer and name.
func (r *Repository) Models() (models []vehicle.Model, err error) {
	rows, err := r.db.Query(
		"SELECT id, manufacturer, model_name, car_segment FROM models ORDER BY manufacturer, model_name",
	)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	models = []vehicle.Model{}
	for rows.Next() {
		var m vehicle.Model
		if err := rows.Scan(&m.ModelID, &m.Manufacturer, &m.ModelName, &m.CarSegment); err != nil {
			return nil, fmt.Errorf("scanning model: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating models: %w", err)
	}
	return models, nil
}

// LookupModel returns the model id for manufacturer and modelName, 0 when
// the catalog has no such model.
func (r *Repository) LookupModel(manufacturer, modelName string) (int64, error) {
	var id int64
	err := r.db.QueryRow(
		"SELECT id FROM models WHERE manufacturer = ? AND model_name = ?",
		manufacturer, modelName,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("looking up model: %w", err)
	}
	return id, nil
}

// Services returns the services offered for carSegment. An empty segment
// returns every service.
func (r *Repository) Services(carSegment string) (services []visit.Service, err error) {
	rows, err := r.query("services", carSegment)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	services = []visit.Service{}
	for rows.Next() {
		var s visit.Service
		if err := rows.Scan(&s.ServiceID, &s.Name, &s.CarSegment, &s.Price); err != nil {
			return nil, fmt.Errorf("scanning service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating services: %w", err)
	}
	return services, nil
}

// Parts returns the parts offered for carSegment. An empty segment returns
// every part.
func (r *Repository) Parts(carSegment string) (parts []visit.Part, err error) {
	rows, err := r.query("parts", carSegment)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	parts = []visit.Part{}
	for rows.Next() {
		var p visit.Part
		if err := rows.Scan(&p.PartID, &p.Name, &p.CarSegment, &p.Price); err != nil {
			return nil, fmt.Errorf("scanning part: %w", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating parts: %w", err)
	}
	return parts, nil
}

// query lists a catalog table; table is one of the fixed names above.
func (r *Repository) query(table, carSegment string) (*sql.Rows, error) {
	q := fmt.Sprintf("SELECT id, name, car_segment, price FROM %s", table)
	var args []interface{}
	if carSegment != "" {
		q += " WHERE car_segment = ?"
		args = append(args, carSegment)
	}
	q += " ORDER BY id"

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	return rows, nil
}
