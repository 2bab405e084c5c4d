// Package cardimport implements the card-set import pipeline.
//
// # Architecture
//
// An import runs through fixed stages:
//
//	Raw bytes → parse (JSON) → Validate → conflict check → Sanitize → CardSet → Store
//
// The stages execute inside a background worker spawned per import attempt.
// The orchestrator on the calling side communicates with the worker purely
// through messages: one request carrying the raw payload, followed by a
// stream of progress responses and exactly one terminal response (complete
// or error). A worker that has been terminated delivers nothing.
//
// # Input formats
//
// Two JSON formats are accepted. The set format is canonical:
//
//	{ "id", "name", "description", "version", "cards": [ { "id", "question",
//	  "category", "difficulty": 1..5, "followUpQuestions", "tags" } ] }
//
// The legacy package format is detected by its "packageName" key and adapted
// into the set shape before sanitization:
//
//	{ "packageName", "description", "image", "cards": [ { "id", "category",
//	  "question", "followUps", "difficulty": 1..3 } ] }
//
// Each format is validated against its own rule set so error messages refer
// to the fields the author actually wrote.
//
// # Error taxonomy
//
// Expected, data-dependent failures are never raised as Go errors across the
// pipeline boundary; they surface as an *ImportError carrying one of the
// ErrorCode values plus, for schema failures, the complete violation list.
//
// # Example Usage
//
//	orch := cardimport.NewOrchestrator(store, store)
//	run := orch.Import(ctx, cardimport.NewFileSource(path))
//	for p := range run.Events() {
//		log.Printf("import: %s (%d/%d)", p.Status, p.Current, p.Total)
//	}
//	result := run.Result()
package cardimport
