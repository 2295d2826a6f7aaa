package vehicle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	vinPattern   = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
	platePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{2,12}[A-Z0-9]$`)
)

const maxNameLen = 40

// now is replaced in tests.
var now = time.Now

// ValidateVIN checks a 17-character vehicle identification number.
func ValidateVIN(value string) string {
	if value == "" {
		return "VIN is required"
	}
	if !vinPattern.MatchString(value) {
		return "VIN must be 17 characters: capital letters (no I, O or Q) and digits"
	}
	return ""
}

// ValidateLicensePlate checks a plate of 4 to 10 letters and digits,
// optionally separated by spaces or dashes.
func ValidateLicensePlate(value string) string {
	if value == "" {
		return "License plate is required"
	}
	if !platePattern.MatchString(value) {
		return "License plate must contain only capital letters, digits, spaces and dashes"
	}
	n := len(strings.NewReplacer(" ", "", "-", "").Replace(value))
	if n < 4 || n > 10 {
		return "License plate must have between 4 and 10 letters and digits"
	}
	return ""
}

// ValidateEngineType checks value against EngineTypes.
func ValidateEngineType(value string) string {
	for _, e := range EngineTypes {
		if string(e) == value {
			return ""
		}
	}
	return fmt.Sprintf("Engine type must be one of %s", joinEnum(EngineTypes))
}

// ValidateTransmission checks value against Transmissions.
func ValidateTransmission(value string) string {
	for _, t := range Transmissions {
		if string(t) == value {
			return ""
		}
	}
	return fmt.Sprintf("Transmission must be one of %s", joinEnum(Transmissions))
}

// ValidateManufacturedYear accepts whole years from 1900 to next year.
func ValidateManufacturedYear(value string) string {
	maxYear := now().Year() + 1
	y, err := strconv.Atoi(value)
	if err != nil || y < 1900 || y > maxYear {
		return fmt.Sprintf("Year must be between 1900 and %d", maxYear)
	}
	return ""
}

// ValidateManufacturer checks a non-empty manufacturer name.
func ValidateManufacturer(value string) string {
	return validateName("Manufacturer", value)
}

// ValidateModelName checks a non-empty model name.
func ValidateModelName(value string) string {
	return validateName("Model", value)
}

// ValidateCarSegment checks a non-empty car segment code.
func ValidateCarSegment(value string) string {
	return validateName("Car segment", value)
}

func validateName(label, value string) string {
	switch {
	case strings.TrimSpace(value) == "":
		return label + " is required"
	case len(value) > maxNameLen:
		return fmt.Sprintf("%s must be at most %d characters", label, maxNameLen)
	}
	return ""
}

func joinEnum[E ~string](values []E) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
