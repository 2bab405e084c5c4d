package cardimport

import (
	"fmt"
	"strings"
	"time"

	"github.com/darolishes/bondbridge/internal/entities"
)

// Format identifies which input schema a payload uses.
type Format string

const (
	// FormatSet is the canonical format (name/version, difficulty 1..5).
	FormatSet Format = "set"
	// FormatPackage is the legacy format (packageName, difficulty 1..3).
	FormatPackage Format = "package"
)

// DetectFormat classifies a decoded payload. A payload carrying the
// "packageName" key is always treated as legacy, even when set-format keys
// are present alongside it.
func DetectFormat(raw any) Format {
	if obj, ok := raw.(map[string]any); ok {
		if _, legacy := obj["packageName"]; legacy {
			return FormatPackage
		}
	}
	return FormatSet
}

// ValidationError describes one violated rule: the field path that failed,
// a human-readable message and, for card-level rules, the card index.
type ValidationError struct {
	Field     string `json:"field"`
	Message   string `json:"message"`
	CardIndex *int   `json:"card_index,omitempty"`
}

// ValidationResult holds the outcome of validating one payload. Either
// Valid is true and Errors is empty, or Valid is false and Errors holds at
// least one entry. Validation never stops at the first failure.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Summary joins all errors into one displayable string, one
// "field: message" line per violation.
func (r ValidationResult) Summary() string {
	lines := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		lines[i] = e.Field + ": " + e.Message
	}
	return strings.Join(lines, "\n")
}

// Validate checks a freshly decoded value against the structural and
// semantic rules of the given format. It assumes nothing about the value's
// shape and collects every violation in one pass. Errors are reported in a
// deterministic order: set-level rules first, then cards in order, then
// fields within a card in a fixed order, so callers can assert exact sets.
func Validate(raw any, format Format) ValidationResult {
	obj, ok := raw.(map[string]any)
	if !ok {
		return invalid([]ValidationError{{
			Field:   "json",
			Message: "top-level value must be a JSON object",
		}})
	}

	var errs []ValidationError
	if format == FormatPackage {
		errs = validatePackageSet(obj)
	} else {
		errs = validateSet(obj)
	}

	errs = append(errs, validateCards(obj, format)...)

	if len(errs) > 0 {
		return invalid(errs)
	}
	return ValidationResult{Valid: true}
}

func invalid(errs []ValidationError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// maxDifficulty returns the inclusive difficulty bound for a format.
func maxDifficulty(format Format) int {
	if format == FormatPackage {
		return entities.LegacyDifficultyMax
	}
	return entities.DifficultyMax
}

func validateSet(obj map[string]any) []ValidationError {
	var errs []ValidationError
	errs = appendRequiredString(errs, obj, "name", true)
	errs = appendRequiredString(errs, obj, "description", false)
	errs = appendRequiredString(errs, obj, "version", true)
	errs = appendOptionalString(errs, obj, "id")
	errs = appendOptionalString(errs, obj, "author")
	errs = appendOptionalTimestamp(errs, obj, "created")
	errs = appendOptionalTimestamp(errs, obj, "lastModified")
	return errs
}

func validatePackageSet(obj map[string]any) []ValidationError {
	var errs []ValidationError
	errs = appendRequiredString(errs, obj, "packageName", true)
	errs = appendRequiredString(errs, obj, "description", false)
	errs = appendOptionalString(errs, obj, "image")
	return errs
}

func validateCards(obj map[string]any, format Format) []ValidationError {
	var errs []ValidationError

	cardsVal, present := obj["cards"]
	if !present {
		return append(errs, ValidationError{Field: "cards", Message: "required field is missing"})
	}
	cards, ok := cardsVal.([]any)
	if !ok {
		return append(errs, ValidationError{Field: "cards", Message: "must be an array"})
	}
	if len(cards) == 0 {
		return append(errs, ValidationError{Field: "cards", Message: "must contain at least one card"})
	}

	followUpsKey := "followUpQuestions"
	if format == FormatPackage {
		followUpsKey = "followUps"
	}
	bound := maxDifficulty(format)

	// First occurrence of an id wins; later occurrences are reported as
	// duplicates attributed to their own index.
	seen := make(map[string]struct{})
	for i, cv := range cards {
		card, ok := cv.(map[string]any)
		if !ok {
			errs = append(errs, cardError(i, "", "must be an object"))
			continue
		}

		if idVal, has := card["id"]; has {
			if id, ok := idVal.(string); !ok {
				errs = append(errs, cardError(i, "id", "must be a string"))
			} else if id != "" {
				if _, dup := seen[id]; dup {
					errs = append(errs, cardError(i, "id", fmt.Sprintf("duplicate card id %q", id)))
				} else {
					seen[id] = struct{}{}
				}
			}
		}

		errs = append(errs, requireCardString(card, i, "question")...)
		errs = append(errs, requireCardString(card, i, "category")...)
		errs = append(errs, checkDifficulty(card, i, bound)...)
		errs = append(errs, checkStringList(card, i, followUpsKey)...)
		if format == FormatSet {
			errs = append(errs, checkStringList(card, i, "tags")...)
			errs = append(errs, checkCardTimestamp(card, i, "created")...)
			errs = append(errs, checkCardTimestamp(card, i, "lastModified")...)
		}
	}

	return errs
}

func cardError(index int, field, message string) ValidationError {
	i := index
	path := fmt.Sprintf("cards[%d]", index)
	if field != "" {
		path += "." + field
	}
	return ValidationError{Field: path, Message: message, CardIndex: &i}
}

func appendRequiredString(errs []ValidationError, obj map[string]any, key string, nonEmpty bool) []ValidationError {
	val, present := obj[key]
	if !present {
		return append(errs, ValidationError{Field: key, Message: "required field is missing"})
	}
	s, ok := val.(string)
	if !ok {
		return append(errs, ValidationError{Field: key, Message: "must be a string"})
	}
	if nonEmpty && strings.TrimSpace(s) == "" {
		return append(errs, ValidationError{Field: key, Message: "must not be empty"})
	}
	return errs
}

func appendOptionalString(errs []ValidationError, obj map[string]any, key string) []ValidationError {
	val, present := obj[key]
	if !present {
		return errs
	}
	if _, ok := val.(string); !ok {
		return append(errs, ValidationError{Field: key, Message: "must be a string"})
	}
	return errs
}

func appendOptionalTimestamp(errs []ValidationError, obj map[string]any, key string) []ValidationError {
	val, present := obj[key]
	if !present {
		return errs
	}
	s, ok := val.(string)
	if !ok {
		return append(errs, ValidationError{Field: key, Message: "must be a string"})
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return append(errs, ValidationError{Field: key, Message: "must be an RFC 3339 timestamp"})
	}
	return errs
}

func requireCardString(card map[string]any, index int, key string) []ValidationError {
	val, present := card[key]
	if !present {
		return []ValidationError{cardError(index, key, "required field is missing")}
	}
	s, ok := val.(string)
	if !ok {
		return []ValidationError{cardError(index, key, "must be a string")}
	}
	if strings.TrimSpace(s) == "" {
		return []ValidationError{cardError(index, key, "must not be empty")}
	}
	return nil
}

func checkDifficulty(card map[string]any, index, bound int) []ValidationError {
	val, present := card["difficulty"]
	if !present {
		return []ValidationError{cardError(index, "difficulty", "required field is missing")}
	}
	n, ok := asInt(val)
	if !ok {
		return []ValidationError{cardError(index, "difficulty", "must be an integer")}
	}
	if n < entities.DifficultyMin || n > bound {
		msg := fmt.Sprintf("must be between %d and %d", entities.DifficultyMin, bound)
		return []ValidationError{cardError(index, "difficulty", msg)}
	}
	return nil
}

func checkStringList(card map[string]any, index int, key string) []ValidationError {
	val, present := card[key]
	if !present {
		return nil
	}
	list, ok := val.([]any)
	if !ok {
		return []ValidationError{cardError(index, key, "must be an array of strings")}
	}
	for j, item := range list {
		if _, ok := item.(string); !ok {
			msg := fmt.Sprintf("element %d must be a string", j)
			return []ValidationError{cardError(index, key, msg)}
		}
	}
	return nil
}

func checkCardTimestamp(card map[string]any, index int, key string) []ValidationError {
	val, present := card[key]
	if !present {
		return nil
	}
	s, ok := val.(string)
	if !ok {
		return []ValidationError{cardError(index, key, "must be a string")}
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return []ValidationError{cardError(index, key, "must be an RFC 3339 timestamp")}
	}
	return nil
}

// asInt accepts the numeric representations a decoded payload can carry.
// encoding/json produces float64; tests and adapters may hold int directly.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
