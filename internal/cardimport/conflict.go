package cardimport

import (
	"fmt"
	"strings"
)

// ConflictError reports that a candidate set's name collides with an
// already-imported set. It is deliberately distinct from ValidationResult:
// the remedy is renaming the set, not fixing its content.
type ConflictError struct {
	Name     string `json:"name"`
	Existing string `json:"existing"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a card set named %q already exists", e.Existing)
}

// CheckConflict compares a candidate name against the existing set names,
// case-insensitively. It returns nil when the name is free. Callers run
// this only after structural validation has succeeded, so a malformed set
// is never reported as a duplicate before it is reported as malformed.
func CheckConflict(name string, existing []string) *ConflictError {
	for _, other := range existing {
		if strings.EqualFold(name, other) {
			return &ConflictError{Name: name, Existing: other}
		}
	}
	return nil
}
