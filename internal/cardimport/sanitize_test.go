package cardimport

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darolishes/bondbridge/internal/entities"
)

func fixedSanitizer(now time.Time) *Sanitizer {
	counter := 0
	return &Sanitizer{
		Now: func() time.Time { return now },
		NewID: func() string {
			counter++
			return fmt.Sprintf("gen-%d", counter)
		},
	}
}

func TestSanitize_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := fixedSanitizer(now)

	set := s.Sanitize(RawCardSet{
		Name:        "Evening Pack",
		Description: "d",
		Cards: []RawCard{
			{Question: "q1", Category: "b", Difficulty: 1},
			{Question: "q2", Category: "a", Difficulty: 3},
		},
	})

	assert.Equal(t, "gen-1", set.SetID)
	assert.Equal(t, "1.0", set.Version)
	assert.Equal(t, now, set.ImportedAt)
	assert.Equal(t, now, set.SetCreatedAt)
	assert.Equal(t, now, set.SetModifiedAt)

	require.Len(t, set.Cards, 2)
	assert.Equal(t, "gen-2", set.Cards[0].CardID)
	assert.Equal(t, "gen-3", set.Cards[1].CardID)
	assert.Equal(t, 0, set.Cards[0].Position)
	assert.Equal(t, 1, set.Cards[1].Position)
	assert.Equal(t, now, set.Cards[0].CardCreatedAt)
	assert.Equal(t, now, set.Cards[1].CardModifiedAt)
}

func TestSanitize_PreservesExistingIDsAndTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	created := "2024-06-01T08:30:00Z"
	createdAt, _ := time.Parse(time.RFC3339, created)
	s := fixedSanitizer(now)

	raw := RawCardSet{
		ID:           "set-7",
		Name:         "Evening Pack",
		Description:  "d",
		Version:      "3.2",
		Created:      created,
		LastModified: created,
		Cards: []RawCard{
			{ID: "c-1", Question: "q", Category: "c", Difficulty: 2, Created: created, LastModified: created},
		},
	}

	first := s.Sanitize(raw)
	assert.Equal(t, "set-7", first.SetID)
	assert.Equal(t, "3.2", first.Version)
	assert.Equal(t, createdAt, first.SetCreatedAt)
	assert.Equal(t, "c-1", first.Cards[0].CardID)
	assert.Equal(t, createdAt, first.Cards[0].CardCreatedAt)
	assert.Equal(t, createdAt, first.Cards[0].CardModifiedAt)

	// Idempotent on fully populated input: no value is overwritten.
	second := s.Sanitize(raw)
	assert.Equal(t, first.SetID, second.SetID)
	assert.Equal(t, first.Cards[0].CardID, second.Cards[0].CardID)
	assert.Equal(t, first.Cards[0].CardCreatedAt, second.Cards[0].CardCreatedAt)
	assert.Equal(t, first.Metadata, second.Metadata)
}

func TestSanitize_GeneratedIDsAvoidExistingOnes(t *testing.T) {
	now := time.Now()
	ids := []string{"taken", "free"}
	i := 0
	s := &Sanitizer{
		Now: func() time.Time { return now },
		NewID: func() string {
			id := ids[i%len(ids)]
			i++
			return id
		},
	}

	set := s.Sanitize(RawCardSet{
		ID:   "s",
		Name: "n",
		Cards: []RawCard{
			{ID: "taken", Question: "q", Category: "c", Difficulty: 1},
			{Question: "q2", Category: "c", Difficulty: 1},
		},
	})

	assert.Equal(t, "taken", set.Cards[0].CardID)
	assert.Equal(t, "free", set.Cards[1].CardID)
}

func TestSanitize_Metadata(t *testing.T) {
	t.Run("difficulty range and total cards", func(t *testing.T) {
		s := fixedSanitizer(time.Now())
		set := s.Sanitize(RawCardSet{
			Name: "n",
			Cards: []RawCard{
				{Question: "q1", Category: "c", Difficulty: 1},
				{Question: "q2", Category: "c", Difficulty: 3},
			},
		})

		assert.Equal(t, 2, set.Metadata.TotalCards)
		assert.Equal(t, 1, set.Metadata.DifficultyMin)
		assert.Equal(t, 3, set.Metadata.DifficultyMax)
	})

	t.Run("categories are sorted and unique", func(t *testing.T) {
		s := fixedSanitizer(time.Now())
		set := s.Sanitize(RawCardSet{
			Name: "n",
			Cards: []RawCard{
				{Question: "q1", Category: "zebra", Difficulty: 1},
				{Question: "q2", Category: "apple", Difficulty: 1},
				{Question: "q3", Category: "zebra", Difficulty: 1},
			},
		})

		assert.Equal(t, []string{"apple", "zebra"}, set.Metadata.Categories)
	})

	t.Run("tag occurrences are counted across cards", func(t *testing.T) {
		s := fixedSanitizer(time.Now())
		set := s.Sanitize(RawCardSet{
			Name: "n",
			Cards: []RawCard{
				{Question: "q1", Category: "c", Difficulty: 1, Tags: []string{"deep", "light"}},
				{Question: "q2", Category: "c", Difficulty: 1, Tags: []string{"deep"}},
			},
		})

		assert.Equal(t, map[string]int{"deep": 2, "light": 1}, set.Metadata.Tags)
	})
}

func TestDeriveMetadata_Empty(t *testing.T) {
	meta := DeriveMetadata(nil)
	assert.Equal(t, 0, meta.TotalCards)
	assert.Empty(t, meta.Categories)
	assert.Nil(t, meta.Tags)
}

func TestSanitize_OutputIsValidInput(t *testing.T) {
	// Sanitized output, rendered back into the raw set shape, must pass the
	// validator again.
	s := fixedSanitizer(time.Now())
	set := s.Sanitize(RawCardSet{
		Name:        "Round Trip",
		Description: "d",
		Cards: []RawCard{
			{Question: "q1", Category: "c1", Difficulty: 2, FollowUpQuestions: []string{"f"}},
			{ID: "kept", Question: "q2", Category: "c2", Difficulty: 5, Tags: []string{"t"}},
		},
	})

	result := Validate(asRawShape(set), FormatSet)
	assert.True(t, result.Valid, result.Summary())
}

// asRawShape renders a canonical set back into the decoded-JSON shape the
// validator accepts.
func asRawShape(set entities.CardSet) map[string]any {
	cards := make([]any, len(set.Cards))
	for i, c := range set.Cards {
		card := map[string]any{
			"id":           c.CardID,
			"question":     c.Question,
			"category":     c.Category,
			"difficulty":   c.Difficulty,
			"created":      c.CardCreatedAt.Format(time.RFC3339),
			"lastModified": c.CardModifiedAt.Format(time.RFC3339),
		}
		if len(c.FollowUps) > 0 {
			card["followUpQuestions"] = toAnyList(c.FollowUps)
		}
		if len(c.Tags) > 0 {
			card["tags"] = toAnyList(c.Tags)
		}
		cards[i] = card
	}
	return map[string]any{
		"id":           set.SetID,
		"name":         set.Name,
		"description":  set.Description,
		"version":      set.Version,
		"created":      set.SetCreatedAt.Format(time.RFC3339),
		"lastModified": set.SetModifiedAt.Format(time.RFC3339),
		"cards":        cards,
	}
}

func toAnyList(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
