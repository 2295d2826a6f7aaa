package visit

import (
	"fmt"
	"strings"
	"time"
)

const maxNotesLen = 500

// ValidateNotes requires notes of at most 500 characters.
func ValidateNotes(value string) string {
	switch {
	case strings.TrimSpace(value) == "":
		return "Notes are required"
	case len([]rune(value)) > maxNotesLen:
		return fmt.Sprintf("Notes must be at most %d characters", maxNotesLen)
	}
	return ""
}

// ValidateStatus checks value against Statuses.
func ValidateStatus(value string) string {
	if Status(value).IsValid() {
		return ""
	}
	return fmt.Sprintf("Status must be one of: %s, %s, %s", NotStarted, InProgress, ReadyForPickup)
}

// ValidateDate accepts an empty value or a YYYY-MM-DD date.
func ValidateDate(value string) string {
	if value == "" {
		return ""
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return "Date must use the format YYYY-MM-DD"
	}
	return ""
}
