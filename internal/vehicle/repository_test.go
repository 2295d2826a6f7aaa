package vehicle

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/evcraddock/garage/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	if err := db.Seed(d, 2, 1); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return d
}

func civic() *Vehicle {
	return &Vehicle{
		VIN:              "1HGCM82633A004352",
		LicensePlate:     "CA 1234 AB",
		EngineType:       Petrol,
		Transmission:     Manual,
		ManufacturedYear: 2015,
		Manufacturer:     "Honda",
		ModelName:        "Civic",
		ModelID:          1,
		CarSegment:       "C",
		UserID:           1,
	}
}

func TestInsertAndGet(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	v, err := repo.Insert(civic())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if v.VehicleID == 0 {
		t.Fatal("expected generated id")
	}
	if v.FullName == "" || v.Email == "" {
		t.Errorf("owner details not joined: %+v", v)
	}

	got, err := repo.GetByID(v.VehicleID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.VIN != "1HGCM82633A004352" || got.EngineType != Petrol || got.ModelID != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestInsertErrors(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	if _, err := repo.Insert(civic()); err != nil {
		t.Fatalf("insert: %v", err)
	}

	tests := []struct {
		name   string
		modify func(v *Vehicle)
		want   error
	}{
		{"duplicate vin", func(v *Vehicle) {}, ErrDuplicateVIN},
		{"unknown customer", func(v *Vehicle) { v.VIN = "2HGCM82633A004352"; v.UserID = 99 }, ErrUnknownCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := civic()
			tt.modify(v)
			_, err := repo.Insert(v)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	if _, err := repo.GetByID(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	v, err := repo.Insert(civic())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	v.LicensePlate = "CB 9999 XX"
	v.UserID = 0
	got, err := repo.Update(v.VehicleID, v)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.LicensePlate != "CB 9999 XX" {
		t.Errorf("plate = %q", got.LicensePlate)
	}
	if got.UserID != 1 {
		t.Errorf("owner = %d, want kept at 1", got.UserID)
	}

	if _, err := repo.Update(999, v); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListByCustomer(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	if _, err := repo.Insert(civic()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	other := civic()
	other.VIN = "2HGCM82633A004352"
	other.UserID = 2
	if _, err := repo.Insert(other); err != nil {
		t.Fatalf("insert: %v", err)
	}

	vs, err := repo.ListByCustomer(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(vs) != 1 || vs[0].UserID != 1 {
		t.Errorf("got %+v", vs)
	}
}
