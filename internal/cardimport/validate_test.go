package cardimport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode runs a payload through encoding/json so tests see the exact value
// shapes (float64 numbers, []any lists) the pipeline sees.
func decode(t *testing.T, payload string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(payload), &v))
	return v
}

func validSetPayload() string {
	return `{
		"name": "Deep Questions",
		"description": "Questions for long dinners",
		"version": "2.1",
		"cards": [
			{"id": "c1", "question": "What made you laugh recently?", "category": "icebreaker", "difficulty": 1, "tags": ["light"]},
			{"id": "c2", "question": "What belief have you changed your mind about?", "category": "reflection", "difficulty": 4, "followUpQuestions": ["What changed it?"]}
		]
	}`
}

func TestDetectFormat(t *testing.T) {
	t.Run("packageName key means legacy", func(t *testing.T) {
		raw := decode(t, `{"packageName": "x", "name": "also present"}`)
		assert.Equal(t, FormatPackage, DetectFormat(raw))
	})

	t.Run("set format otherwise", func(t *testing.T) {
		raw := decode(t, `{"name": "x"}`)
		assert.Equal(t, FormatSet, DetectFormat(raw))
	})

	t.Run("non-object defaults to set format", func(t *testing.T) {
		assert.Equal(t, FormatSet, DetectFormat(decode(t, `[1, 2]`)))
	})
}

func TestValidate_TopLevel(t *testing.T) {
	t.Run("non-object yields a single json error and nothing else", func(t *testing.T) {
		for _, payload := range []string{`[1]`, `"text"`, `42`, `null`} {
			result := Validate(decode(t, payload), FormatSet)
			require.False(t, result.Valid, payload)
			require.Len(t, result.Errors, 1, payload)
			assert.Equal(t, "json", result.Errors[0].Field)
		}
	})

	t.Run("valid set payload passes", func(t *testing.T) {
		result := Validate(decode(t, validSetPayload()), FormatSet)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})
}

func TestValidate_SetLevel(t *testing.T) {
	t.Run("missing required fields are all reported", func(t *testing.T) {
		result := Validate(decode(t, `{}`), FormatSet)
		require.False(t, result.Valid)

		fields := errorFields(result)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "description")
		assert.Contains(t, fields, "version")
		assert.Contains(t, fields, "cards")
	})

	t.Run("empty name rejected, empty description allowed", func(t *testing.T) {
		result := Validate(decode(t, `{
			"name": "  ",
			"description": "",
			"version": "1.0",
			"cards": [{"question": "q", "category": "c", "difficulty": 1}]
		}`), FormatSet)
		require.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "name", result.Errors[0].Field)
		assert.Equal(t, "must not be empty", result.Errors[0].Message)
	})

	t.Run("set timestamps must parse when present", func(t *testing.T) {
		result := Validate(decode(t, `{
			"name": "n", "description": "d", "version": "1.0",
			"created": "yesterday",
			"cards": [{"question": "q", "category": "c", "difficulty": 1}]
		}`), FormatSet)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "created", result.Errors[0].Field)
	})
}

func TestValidate_LegacyFormat(t *testing.T) {
	t.Run("empty packageName and empty cards both reported", func(t *testing.T) {
		result := Validate(decode(t, `{"packageName": "", "description": "x", "image": "x", "cards": []}`), FormatPackage)
		require.False(t, result.Valid)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, "packageName", result.Errors[0].Field)
		assert.Equal(t, "cards", result.Errors[1].Field)
	})

	t.Run("difficulty bound is three", func(t *testing.T) {
		result := Validate(decode(t, `{
			"packageName": "p", "description": "d",
			"cards": [{"question": "q", "category": "c", "difficulty": 4, "followUps": ["f"]}]
		}`), FormatPackage)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "cards[0].difficulty", result.Errors[0].Field)
		assert.Equal(t, "must be between 1 and 3", result.Errors[0].Message)
	})

	t.Run("valid legacy payload passes", func(t *testing.T) {
		result := Validate(decode(t, `{
			"packageName": "Family Pack", "description": "d", "image": "cover.png",
			"cards": [
				{"id": "a", "question": "q1", "category": "c1", "difficulty": 1, "followUps": ["f1", "f2"]},
				{"id": "b", "question": "q2", "category": "c2", "difficulty": 3}
			]
		}`), FormatPackage)
		assert.True(t, result.Valid)
	})
}

func TestValidate_Cards(t *testing.T) {
	t.Run("missing cards field", func(t *testing.T) {
		result := Validate(decode(t, `{"name": "n", "description": "d", "version": "1"}`), FormatSet)
		assert.Contains(t, errorFields(result), "cards")
	})

	t.Run("cards must be an array", func(t *testing.T) {
		result := Validate(decode(t, `{"name": "n", "description": "d", "version": "1", "cards": "nope"}`), FormatSet)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "must be an array", result.Errors[0].Message)
	})

	t.Run("empty cards list is invalid", func(t *testing.T) {
		result := Validate(decode(t, `{"name": "n", "description": "d", "version": "1", "cards": []}`), FormatSet)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "cards", result.Errors[0].Field)
		assert.Equal(t, "must contain at least one card", result.Errors[0].Message)
	})

	t.Run("duplicate id attributed to second occurrence", func(t *testing.T) {
		result := Validate(decode(t, `{
			"name": "n", "description": "d", "version": "1",
			"cards": [
				{"id": "dup", "question": "q1", "category": "c", "difficulty": 1},
				{"id": "dup", "question": "q2", "category": "c", "difficulty": 2}
			]
		}`), FormatSet)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "cards[1].id", result.Errors[0].Field)
		require.NotNil(t, result.Errors[0].CardIndex)
		assert.Equal(t, 1, *result.Errors[0].CardIndex)
	})

	t.Run("unique ids yield no errors", func(t *testing.T) {
		result := Validate(decode(t, validSetPayload()), FormatSet)
		assert.True(t, result.Valid)
	})

	t.Run("every violation across all cards is collected", func(t *testing.T) {
		result := Validate(decode(t, `{
			"name": "", "description": "d", "version": "1",
			"cards": [
				{"question": "", "category": "c", "difficulty": 1},
				{"question": "q", "difficulty": 9},
				{"question": "q", "category": "c", "difficulty": 2, "followUpQuestions": ["ok", 5]}
			]
		}`), FormatSet)
		require.False(t, result.Valid)
		assert.Equal(t, []string{
			"name",
			"cards[0].question",
			"cards[1].category",
			"cards[1].difficulty",
			"cards[2].followUpQuestions",
		}, errorFields(result))
	})

	t.Run("non-object card entry", func(t *testing.T) {
		result := Validate(decode(t, `{
			"name": "n", "description": "d", "version": "1",
			"cards": ["not a card"]
		}`), FormatSet)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "cards[0]", result.Errors[0].Field)
	})

	t.Run("difficulty must be an integer", func(t *testing.T) {
		result := Validate(decode(t, `{
			"name": "n", "description": "d", "version": "1",
			"cards": [{"question": "q", "category": "c", "difficulty": 2.5}]
		}`), FormatSet)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "must be an integer", result.Errors[0].Message)
	})

	t.Run("difficulty five allowed in set format", func(t *testing.T) {
		result := Validate(decode(t, `{
			"name": "n", "description": "d", "version": "1",
			"cards": [{"question": "q", "category": "c", "difficulty": 5}]
		}`), FormatSet)
		assert.True(t, result.Valid)
	})
}

func TestValidate_DeterministicOrdering(t *testing.T) {
	payload := `{
		"name": "", "version": 3,
		"cards": [
			{"question": "q", "category": "", "difficulty": 0},
			{"category": "c", "difficulty": 1}
		]
	}`

	first := Validate(decode(t, payload), FormatSet)
	for i := 0; i < 5; i++ {
		again := Validate(decode(t, payload), FormatSet)
		assert.Equal(t, first.Errors, again.Errors)
	}

	// Set-level errors precede card errors, cards stay in order.
	assert.Equal(t, []string{
		"name",
		"description",
		"version",
		"cards[0].category",
		"cards[0].difficulty",
		"cards[1].question",
	}, errorFields(first))
}

func TestValidationResult_Summary(t *testing.T) {
	result := Validate(decode(t, `{"packageName": "", "description": "x", "cards": []}`), FormatPackage)
	summary := result.Summary()
	assert.Contains(t, summary, "packageName: must not be empty")
	assert.Contains(t, summary, "cards: must contain at least one card")
}

func errorFields(result ValidationResult) []string {
	fields := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		fields[i] = e.Field
	}
	return fields
}
