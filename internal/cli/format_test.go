package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/evcraddock/garage/internal/currency"
	"github.com/evcraddock/garage/internal/visit"
)

func TestPrintVisit(t *testing.T) {
	v := visit.Visit{
		VisitID:     3,
		VehicleID:   5,
		Notes:       "Annual service",
		VisitStatus: visit.InProgress,
		CarSegment:  "C",
		PerformedServices: []visit.Service{
			{ServiceID: 7, Name: "Oil change", ServiceQty: 1, Price: 60},
			{ServiceID: 8, Name: "Brake inspection", ServiceQty: 0, Price: 40},
		},
		UsedParts: []visit.Part{
			{PartID: 9, Name: "Brake pads (set)", PartQty: 2, Price: 70},
		},
	}
	ed := visit.NewEditor(nil, v, currency.NewSelector("BGN", nil))
	defer ed.Close()

	var buf bytes.Buffer
	if err := printVisit(&buf, ed); err != nil {
		t.Fatalf("printVisit: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Visit #3 (vehicle #5, segment C)",
		"Status: in progress",
		"Notes:  Annual service",
		"Oil change",
		"Brake pads (set)",
		"140.00",
		"Total: 240.00 BGN",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Dates:") {
		t.Errorf("output shows dates for an undated visit:\n%s", out)
	}
}

func TestPrintVisitWithoutLines(t *testing.T) {
	ed := visit.NewEditor(nil, visit.Visit{VisitID: 1, VehicleID: 1, Notes: "x", VisitStart: "2024-05-01"}, currency.NewSelector("BGN", nil))
	defer ed.Close()

	var buf bytes.Buffer
	if err := printVisit(&buf, ed); err != nil {
		t.Fatalf("printVisit: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "none") || !strings.Contains(out, "Total: 0.00 BGN") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Dates:  2024-05-01 - -") {
		t.Errorf("output = %q", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world!", 8, "hello..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncate(tt.input, tt.max)
			if result != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, result, tt.expected)
			}
		})
	}
}
