// ABOUTME: Input validation for identifiers forwarded to the image backend
// ABOUTME: Prevents path injection via image IDs taken from URLs and bodies

package services

import (
	"fmt"
	"regexp"
	"strings"
)

// imageIDPattern matches backend image IDs (UUIDs in practice): alphanumeric,
// hyphens, and underscores, up to 128 characters.
var imageIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,127}$`)

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

// ValidateImageID validates that an image ID is safe to place in a backend
// URL path.
func ValidateImageID(id string) error {
	if id == "" {
		return fmt.Errorf("image ID cannot be empty")
	}
	if !imageIDPattern.MatchString(id) {
		return fmt.Errorf("invalid image ID format: %s", sanitizeForLog(id))
	}
	return nil
}
