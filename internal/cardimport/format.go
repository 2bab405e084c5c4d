package cardimport

// AdaptLegacy rewrites a validated legacy package payload into the
// canonical set shape: packageName becomes name, followUps becomes
// followUpQuestions. Difficulty values pass through unchanged; the legacy
// 1..3 range is a subset of the canonical 1..5. Keys the legacy format does
// not define (version, author, tags, timestamps) are left absent for the
// sanitizer to default.
func AdaptLegacy(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		switch k {
		case "packageName":
			out["name"] = v
		case "cards":
			// rewritten below
		default:
			out[k] = v
		}
	}

	cards, _ := obj["cards"].([]any)
	adapted := make([]any, 0, len(cards))
	for _, cv := range cards {
		card, ok := cv.(map[string]any)
		if !ok {
			continue
		}
		ac := make(map[string]any, len(card))
		for k, v := range card {
			if k == "followUps" {
				ac["followUpQuestions"] = v
				continue
			}
			ac[k] = v
		}
		adapted = append(adapted, ac)
	}
	out["cards"] = adapted

	return out
}
