package cardimport

// Status identifies the active pipeline stage. For a single import the
// sequence is parsing → validating → importing → complete, with error
// reachable from any stage. Both terminal statuses occur at most once.
type Status string

const (
	StatusParsing    Status = "parsing"
	StatusValidating Status = "validating"
	StatusImporting  Status = "importing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

var statusRank = map[Status]int{
	StatusParsing:    1,
	StatusValidating: 2,
	StatusImporting:  3,
	StatusComplete:   4,
	StatusError:      5,
}

// canFollow reports whether s is a legal successor of prev. Error is legal
// from everywhere; otherwise statuses advance strictly forward.
func (s Status) canFollow(prev Status) bool {
	if s == StatusError {
		return true
	}
	if prev == "" {
		return s == StatusParsing
	}
	return statusRank[s] > statusRank[prev]
}

// Terminal reports whether s ends the import.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// ImportProgress is one advisory progress event. Current/Total exist for UI
// display only and never regress within a run.
type ImportProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Status  Status `json:"status"`
	Error   string `json:"error,omitempty"`
}
