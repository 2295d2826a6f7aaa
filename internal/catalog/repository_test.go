package catalog

import (
	"path/filepath"
	"testing"

	"github.com/evcraddock/garage/internal/db"
)

func setup(t *testing.T) *Repository {
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
	if err := db.Seed(d, 0, 1); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewRepository(d)
}

func TestModels(t *testing.T) {
	repo := setup(t)

	models, err := repo.Models()
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if len(models) == 0 {
		t.Fatal("expected seeded models")
	}
	if models[0].Manufacturer != "BMW" {
		t.Errorf("first manufacturer = %q, want BMW (sorted)", models[0].Manufacturer)
	}
}

func TestLookupModel(t *testing.T) {
	repo := setup(t)

	id, err := repo.LookupModel("Honda", "Civic")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if id == 0 {
		t.Error("expected Honda Civic in catalog")
	}

	id, err = repo.LookupModel("Lada", "Niva")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if id != 0 {
		t.Errorf("id = %d, want 0 for unknown model", id)
	}
}

func TestServicesAndPartsBySegment(t *testing.T) {
	repo := setup(t)

	services, err := repo.Services("SUV")
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	if len(services) == 0 {
		t.Fatal("expected SUV services")
	}
	for _, s := range services {
		if s.CarSegment != "SUV" {
			t.Errorf("service %d has segment %q", s.ServiceID, s.CarSegment)
		}
		if s.ServiceQty != 0 {
			t.Errorf("catalog entry has quantity %d", s.ServiceQty)
		}
	}

	parts, err := repo.Parts("B")
	if err != nil {
		t.Fatalf("parts: %v", err)
	}
	for _, p := range parts {
		if p.CarSegment != "B" {
			t.Errorf("part %d has segment %q", p.PartID, p.CarSegment)
		}
	}

	all, err := repo.Parts("")
	if err != nil {
		t.Fatalf("parts: %v", err)
	}
	if len(all) <= len(parts) {
		t.Errorf("unfiltered parts = %d, want more than %d", len(all), len(parts))
	}

	none, err := repo.Services("Z")
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("unknown segment = %v, want empty list", none)
	}
}
