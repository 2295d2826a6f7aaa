package visit

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/evcraddock/garage/internal/db"
)

var (
	// ErrNotFound is returned when no visit has the requested id.
	ErrNotFound = errors.New("Visit not found")
	// ErrUnknownVehicle is returned when the visit's vehicle does not exist.
	ErrUnknownVehicle = errors.New("Vehicle not found")
)

// Repository provides data access for visits and their lines.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a visit repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert records a new visit with its lines and returns it with its generated ID.
func (r *Repository) Insert(v *Visit) (*Visit, error) {
	if v.VisitStatus == "" {
		v.VisitStatus = NotStarted
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(
		`INSERT INTO visits (vehicle_id, notes, visit_status, visit_start, visit_end, car_segment)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.VehicleID, v.Notes, string(v.VisitStatus), v.VisitStart, v.VisitEnd, v.CarSegment,
	)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrUnknownVehicle
		}
		return nil, fmt.Errorf("inserting visit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	if err := writeLines(tx, id, v); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing visit: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a visit with its lines in stored order.
func (r *Repository) GetByID(id int64) (*Visit, error) {
	var v Visit
	var status string
	err := r.db.QueryRow(
		`SELECT id, vehicle_id, notes, visit_status, visit_start, visit_end, car_segment
		 FROM visits WHERE id = ?`, id,
	).Scan(&v.VisitID, &v.VehicleID, &v.Notes, &status, &v.VisitStart, &v.VisitEnd, &v.CarSegment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying visit %d: %w", id, err)
	}
	v.VisitStatus = Status(status)

	if v.PerformedServices, err = r.services(id); err != nil {
		return nil, err
	}
	if v.UsedParts, err = r.parts(id); err != nil {
		return nil, err
	}
	return &v, nil
}

// Update replaces the visit's fields and lines.
func (r *Repository) Update(id int64, v *Visit) (*Visit, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(
		`UPDATE visits SET notes = ?, visit_status = ?, visit_start = ?, visit_end = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		v.Notes, string(v.VisitStatus), v.VisitStart, v.VisitEnd, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating visit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	for _, table := range []string{"visit_services", "visit_parts"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE visit_id = ?", id); err != nil {
			return nil, fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := writeLines(tx, id, v); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing visit: %w", err)
	}

	return r.GetByID(id)
}

func writeLines(tx *sql.Tx, visitID int64, v *Visit) error {
	for i, s := range v.PerformedServices {
		if _, err := tx.Exec(
			`INSERT INTO visit_services (visit_id, position, service_id, name, qty, price, car_segment)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			visitID, i, s.ServiceID, s.Name, s.ServiceQty, s.Price, s.CarSegment,
		); err != nil {
			return fmt.Errorf("inserting service line %d: %w", i, err)
		}
	}
	for i, p := range v.UsedParts {
		if _, err := tx.Exec(
			`INSERT INTO visit_parts (visit_id, position, part_id, name, qty, price, car_segment)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			visitID, i, p.PartID, p.Name, p.PartQty, p.Price, p.CarSegment,
		); err != nil {
			return fmt.Errorf("inserting part line %d: %w", i, err)
		}
	}
	return nil
}

func (r *Repository) services(visitID int64) (out []Service, err error) {
	rows, err := r.db.Query(
		`SELECT service_id, name, qty, price, car_segment FROM visit_services
		 WHERE visit_id = ? ORDER BY position`, visitID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing service lines: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	out = []Service{}
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ServiceID, &s.Name, &s.ServiceQty, &s.Price, &s.CarSegment); err != nil {
			return nil, fmt.Errorf("scanning service line: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service lines: %w", err)
	}
	return out, nil
}

func (r *Repository) parts(visitID int64) (out []Part, err error) {
	rows, err := r.db.Query(
		`SELECT part_id, name, qty, price, car_segment FROM visit_parts
		 WHERE visit_id = ? ORDER BY position`, visitID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing part lines: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	out = []Part{}
	for rows.Next() {
		var p Part
		if err := rows.Scan(&p.PartID, &p.Name, &p.PartQty, &p.Price, &p.CarSegment); err != nil {
			return nil, fmt.Errorf("scanning part line: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating part lines: %w", err)
	}
	return out, nil
}
