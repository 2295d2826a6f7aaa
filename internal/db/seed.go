package db

import (
	"database/sql"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

type seedModel struct {
	manufacturer, modelName, segment string
}

var seedModels = []seedModel{
	{"Honda", "Civic", "C"},
	{"Honda", "Jazz", "B"},
	{"Honda", "CR-V", "SUV"},
	{"Toyota", "Yaris", "B"},
	{"Toyota", "Corolla", "C"},
	{"Toyota", "RAV4", "SUV"},
	{"Volkswagen", "Polo", "B"},
	{"Volkswagen", "Golf", "C"},
	{"Volkswagen", "Passat", "D"},
	{"BMW", "3 Series", "D"},
	{"BMW", "X5", "SUV"},
}

type seedItem struct {
	name string
	base float64
}

var seedServices = []seedItem{
	{"Oil change", 60},
	{"Brake inspection", 40},
	{"Wheel alignment", 80},
	{"Engine diagnostics", 100},
	{"Air conditioning service", 120},
	{"Timing belt replacement", 350},
}

var seedParts = []seedItem{
	{"Oil filter", 15},
	{"Air filter", 20},
	{"Brake pads (set)", 70},
	{"Spark plug", 12},
	{"Wiper blades", 25},
	{"Timing belt kit", 180},
}

// segmentFactor scales catalog prices per car segment.
var segmentFactor = map[string]float64{
	"B":   0.8,
	"C":   1.0,
	"D":   1.25,
	"SUV": 1.5,
}

// Segments returns the car segments the seed catalog covers.
func Segments() []string {
	return []string{"B", "C", "D", "SUV"}
}

// Seed fills an empty database with the model, service, and part catalog
// and the given number of generated customers. It does nothing when the
// models table already has rows.
func Seed(db *sql.DB, customers int, seed uint64) error {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM models").Scan(&n); err != nil {
		return fmt.Errorf("counting models: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range seedModels {
		if _, err := tx.Exec(
			"INSERT INTO models (manufacturer, model_name, car_segment) VALUES (?, ?, ?)",
			m.manufacturer, m.modelName, m.segment,
		); err != nil {
			return fmt.Errorf("seeding model %s %s: %w", m.manufacturer, m.modelName, err)
		}
	}

	for _, segment := range Segments() {
		factor := segmentFactor[segment]
		for _, s := range seedServices {
			if _, err := tx.Exec(
				"INSERT INTO services (name, car_segment, price) VALUES (?, ?, ?)",
				s.name, segment, s.base*factor,
			); err != nil {
				return fmt.Errorf("seeding service %s: %w", s.name, err)
			}
		}
		for _, p := range seedParts {
			if _, err := tx.Exec(
				"INSERT INTO parts (name, car_segment, price) VALUES (?, ?, ?)",
				p.name, segment, p.base*factor,
			); err != nil {
				return fmt.Errorf("seeding part %s: %w", p.name, err)
			}
		}
	}

	faker := gofakeit.New(seed)
	for i := 0; i < customers; i++ {
		if _, err := tx.Exec(
			"INSERT INTO customers (full_name, email, company_name, phone) VALUES (?, ?, ?, ?)",
			faker.Name(), fmt.Sprintf("%d.%s", i+1, faker.Email()), faker.Company(), faker.Phone(),
		); err != nil {
			return fmt.Errorf("seeding customer %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	return nil
}
