package vehicle

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/evcraddock/garage/internal/db"
)

var (
	// ErrNotFound is returned when no vehicle has the requested id.
	ErrNotFound = errors.New("Vehicle not found")
	// ErrDuplicateVIN is returned when another vehicle already has the VIN.
	ErrDuplicateVIN = errors.New("A vehicle with this VIN is already registered")
	// ErrUnknownCustomer is returned when the owner does not exist.
	ErrUnknownCustomer = errors.New("Customer not found")
)

// Repository provides data access for vehicles.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a vehicle repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectSQL = `SELECT v.id, v.vin, v.license_plate, v.engine_type, v.transmission,
	v.manufactured_year, v.manufacturer, v.model_name, COALESCE(v.model_id, 0), v.car_segment,
	v.user_id, c.full_name, c.email, c.company_name
	FROM vehicles v JOIN customers c ON c.id = v.user_id`

func scanVehicle(row interface{ Scan(...interface{}) error }) (*Vehicle, error) {
	var v Vehicle
	var engine, transmission string
	err := row.Scan(
		&v.VehicleID, &v.VIN, &v.LicensePlate, &engine, &transmission,
		&v.ManufacturedYear, &v.Manufacturer, &v.ModelName, &v.ModelID, &v.CarSegment,
		&v.UserID, &v.FullName, &v.Email, &v.CompanyName,
	)
	if err != nil {
		return nil, err
	}
	v.EngineType = EngineType(engine)
	v.Transmission = Transmission(transmission)
	return &v, nil
}

// Insert adds a new vehicle and returns it with its generated ID and owner details.
func (r *Repository) Insert(v *Vehicle) (*Vehicle, error) {
	result, err := r.db.Exec(`INSERT INTO vehicles
		(vin, license_plate, engine_type, transmission, manufactured_year,
		 manufacturer, model_name, model_id, car_segment, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VIN, v.LicensePlate, string(v.EngineType), string(v.Transmission), v.ManufacturedYear,
		v.Manufacturer, v.ModelName, nullID(v.ModelID), v.CarSegment, v.UserID,
	)
	if err != nil {
		return nil, mapConstraint(err, "inserting vehicle")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a vehicle by its ID.
func (r *Repository) GetByID(id int64) (*Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRow(selectSQL+" WHERE v.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying vehicle %d: %w", id, err)
	}
	return v, nil
}

// Update replaces the editable fields of vehicle id. A zero UserID keeps the
// current owner.
func (r *Repository) Update(id int64, v *Vehicle) (*Vehicle, error) {
	result, err := r.db.Exec(`UPDATE vehicles SET
		vin = ?, license_plate = ?, engine_type = ?, transmission = ?, manufactured_year = ?,
		manufacturer = ?, model_name = ?, model_id = ?, car_segment = ?,
		user_id = COALESCE(NULLIF(?, 0), user_id), updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		v.VIN, v.LicensePlate, string(v.EngineType), string(v.Transmission), v.ManufacturedYear,
		v.Manufacturer, v.ModelName, nullID(v.ModelID), v.CarSegment,
		v.UserID, id,
	)
	if err != nil {
		return nil, mapConstraint(err, "updating vehicle")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(id)
}

// ListByCustomer returns the vehicles owned by a customer.
func (r *Repository) ListByCustomer(userID int64) (vehicles []*Vehicle, err error) {
	rows, err := r.db.Query(selectSQL+" WHERE v.user_id = ? ORDER BY v.id", userID)
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vehicles: %w", err)
	}
	return vehicles, nil
}

func mapConstraint(err error, op string) error {
	switch {
	case db.IsUniqueViolation(err):
		return ErrDuplicateVIN
	case db.IsForeignKeyViolation(err):
		return ErrUnknownCustomer
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
