package cardimport

// RawCardSet is the typed but untrusted input shape. Values of this type
// exist only between validation and sanitization: the validator is the
// single gate that promotes a decoded payload into it, so fields here are
// known to be well-typed but ids and timestamps may still be absent.
type RawCardSet struct {
	ID           string
	Name         string
	Description  string
	Version      string
	Author       string
	Image        string
	Created      string
	LastModified string
	Cards        []RawCard
}

// RawCard mirrors one validated card entry before sanitization.
type RawCard struct {
	ID                string
	Question          string
	Category          string
	Difficulty        int
	FollowUpQuestions []string
	Tags              []string
	Created           string
	LastModified      string
}

// Promote lifts a validated, set-shaped payload into RawCardSet. It must
// only be called on a map that passed Validate for FormatSet (after legacy
// adaptation where applicable); missing optional keys simply stay zero.
func Promote(obj map[string]any) RawCardSet {
	raw := RawCardSet{
		ID:           stringAt(obj, "id"),
		Name:         stringAt(obj, "name"),
		Description:  stringAt(obj, "description"),
		Version:      stringAt(obj, "version"),
		Author:       stringAt(obj, "author"),
		Image:        stringAt(obj, "image"),
		Created:      stringAt(obj, "created"),
		LastModified: stringAt(obj, "lastModified"),
	}

	cards, _ := obj["cards"].([]any)
	raw.Cards = make([]RawCard, 0, len(cards))
	for _, cv := range cards {
		card, ok := cv.(map[string]any)
		if !ok {
			continue
		}
		difficulty, _ := asInt(card["difficulty"])
		raw.Cards = append(raw.Cards, RawCard{
			ID:                stringAt(card, "id"),
			Question:          stringAt(card, "question"),
			Category:          stringAt(card, "category"),
			Difficulty:        difficulty,
			FollowUpQuestions: stringsAt(card, "followUpQuestions"),
			Tags:              stringsAt(card, "tags"),
			Created:           stringAt(card, "created"),
			LastModified:      stringAt(card, "lastModified"),
		})
	}

	return raw
}

func stringAt(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func stringsAt(obj map[string]any, key string) []string {
	list, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
