package cardimport

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darolishes/bondbridge/internal/entities"
)

// defaultVersion is stamped on sets whose input carried no version token
// (adapted legacy packages).
const defaultVersion = "1.0"

// Sanitizer converts a validated RawCardSet into the canonical stored
// shape. Both collaborators are injectable so tests can pin time and ids;
// the zero-value defaults are used when nil.
type Sanitizer struct {
	Now   func() time.Time
	NewID func() string
}

// NewSanitizer returns a Sanitizer using the wall clock and generated ids.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// GenerateID returns an identifier built from a millisecond time seed plus
// a random suffix.
func GenerateID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Sanitize produces a canonical CardSet from validated raw input. Its
// precondition is that raw passed Validate (and, for new imports, the
// conflict check); it never fails on such input. Ids are generated only
// when absent and timestamps are defaulted only when absent, so sanitizing
// fully-populated input is idempotent.
func (s *Sanitizer) Sanitize(raw RawCardSet) entities.CardSet {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	newID := GenerateID
	if s.NewID != nil {
		newID = s.NewID
	}
	current := now()

	version := raw.Version
	if version == "" {
		version = defaultVersion
	}

	set := entities.CardSet{
		SetID:         raw.ID,
		Name:          raw.Name,
		Description:   raw.Description,
		Version:       version,
		Author:        raw.Author,
		Image:         raw.Image,
		SetCreatedAt:  parseTimeOr(raw.Created, current),
		SetModifiedAt: parseTimeOr(raw.LastModified, current),
		ImportedAt:    current,
	}
	if set.SetID == "" {
		set.SetID = newID()
	}

	seen := make(map[string]struct{}, len(raw.Cards))
	for _, c := range raw.Cards {
		if c.ID != "" {
			seen[c.ID] = struct{}{}
		}
	}

	set.Cards = make([]entities.Card, len(raw.Cards))
	for i, c := range raw.Cards {
		id := c.ID
		if id == "" {
			id = newID()
			for {
				if _, taken := seen[id]; !taken {
					break
				}
				id = newID()
			}
			seen[id] = struct{}{}
		}
		set.Cards[i] = entities.Card{
			CardID:         id,
			Position:       i,
			Category:       c.Category,
			Question:       c.Question,
			FollowUps:      c.FollowUpQuestions,
			Tags:           c.Tags,
			Difficulty:     c.Difficulty,
			CardCreatedAt:  parseTimeOr(c.Created, current),
			CardModifiedAt: parseTimeOr(c.LastModified, current),
		}
	}

	set.Metadata = DeriveMetadata(set.Cards)

	return set
}

// DeriveMetadata recomputes a set's metadata block from its cards. The
// output is fully determined by the cards: total count, sorted unique
// categories, difficulty min/max and per-tag occurrence counts.
func DeriveMetadata(cards []entities.Card) entities.SetMetadata {
	meta := entities.SetMetadata{
		TotalCards: len(cards),
		Categories: []string{},
	}
	if len(cards) == 0 {
		return meta
	}

	categories := make(map[string]struct{})
	tags := make(map[string]int)
	meta.DifficultyMin = cards[0].Difficulty
	meta.DifficultyMax = cards[0].Difficulty
	for _, c := range cards {
		categories[c.Category] = struct{}{}
		if c.Difficulty < meta.DifficultyMin {
			meta.DifficultyMin = c.Difficulty
		}
		if c.Difficulty > meta.DifficultyMax {
			meta.DifficultyMax = c.Difficulty
		}
		for _, t := range c.Tags {
			tags[t]++
		}
	}

	meta.Categories = make([]string, 0, len(categories))
	for category := range categories {
		meta.Categories = append(meta.Categories, category)
	}
	sort.Strings(meta.Categories)

	if len(tags) > 0 {
		meta.Tags = tags
	}

	return meta
}

// parseTimeOr parses an RFC 3339 timestamp, falling back to the given time
// when the value is absent. The validator guarantees present values parse.
func parseTimeOr(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fallback
	}
	return t
}
