package vehicle

import (
	"strings"
	"testing"
	"time"
)

func TestValidators(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	tests := []struct {
		name     string
		validate func(string) string
		value    string
		valid    bool
	}{
		{"vin ok", ValidateVIN, "1HGCM82633A004352", true},
		{"vin empty", ValidateVIN, "", false},
		{"vin short", ValidateVIN, "1HGCM82633A00435", false},
		{"vin with O", ValidateVIN, "1HGCM82633A0O4352", false},
		{"vin lower case", ValidateVIN, "1hgcm82633a004352", false},
		{"plate spaced", ValidateLicensePlate, "CA 1234 AB", true},
		{"plate compact", ValidateLicensePlate, "CA1234AB", true},
		{"plate dashed", ValidateLicensePlate, "B-1234-XY", true},
		{"plate too short", ValidateLicensePlate, "AB1", false},
		{"plate too long", ValidateLicensePlate, "ABCDEFGHIJK", false},
		{"plate symbols", ValidateLicensePlate, "CA#1234", false},
		{"plate empty", ValidateLicensePlate, "", false},
		{"engine petrol", ValidateEngineType, "Petrol", true},
		{"engine lpg", ValidateEngineType, "LPG", true},
		{"engine unknown", ValidateEngineType, "Steam", false},
		{"transmission manual", ValidateTransmission, "Manual", true},
		{"transmission semi", ValidateTransmission, "Semi-automatic", true},
		{"transmission unknown", ValidateTransmission, "CVT", false},
		{"year ok", ValidateManufacturedYear, "2015", true},
		{"year next", ValidateManufacturedYear, "2027", true},
		{"year future", ValidateManufacturedYear, "2028", false},
		{"year ancient", ValidateManufacturedYear, "1899", false},
		{"year not number", ValidateManufacturedYear, "twenty", false},
		{"manufacturer ok", ValidateManufacturer, "Honda", true},
		{"manufacturer blank", ValidateManufacturer, "   ", false},
		{"model too long", ValidateModelName, strings.Repeat("x", 41), false},
		{"segment ok", ValidateCarSegment, "SUV", true},
		{"segment empty", ValidateCarSegment, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.validate(tt.value)
			if tt.valid && msg != "" {
				t.Errorf("got %q, want valid", msg)
			}
			if !tt.valid && msg == "" {
				t.Error("got valid, want a message")
			}
		})
	}
}

func TestSchemaFields(t *testing.T) {
	want := []string{
		FieldVIN, FieldLicensePlate, FieldEngineType, FieldTransmission,
		FieldManufacturedYear, FieldManufacturer, FieldModelName, FieldCarSegment,
	}
	got := Schema().Names()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := Schema().Validate("color", "red"); err == nil {
		t.Error("expected unknown field error")
	}
}
