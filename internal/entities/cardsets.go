package entities

import (
	"time"
)

// Difficulty bounds for the two supported input formats.
// The canonical (set) format accepts 1..5; the legacy package format 1..3.
const (
	DifficultyMin       = 1
	DifficultyMax       = 5
	LegacyDifficultyMax = 3
)

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindText SourceKind = "text"
	SourceKindAPI  SourceKind = "api"
)

// SetMetadata is fully derived from a set's cards. It is never hand-edited;
// whenever cards change it must be recomputed from scratch.
type SetMetadata struct {
	TotalCards    int            `json:"total_cards"`
	Categories    []string       `gorm:"serializer:json" json:"categories"`
	DifficultyMin int            `json:"difficulty_min"`
	DifficultyMax int            `json:"difficulty_max"`
	Tags          map[string]int `gorm:"serializer:json" json:"tags,omitempty"`
}

// CardSet is the canonical, store-ready shape of an imported set.
// Instances are produced only by the import pipeline's sanitizer and are
// immutable once handed to the store; edits create a new version.
type CardSet struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	SetID       string `gorm:"uniqueIndex;size:64" json:"set_id"`
	Name        string `gorm:"index;size:256" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Version     string `gorm:"size:32" json:"version"`
	Author      string `gorm:"size:256" json:"author,omitempty"`
	Image       string `gorm:"size:2048" json:"image,omitempty"`

	Cards    []Card      `gorm:"foreignKey:CardSetID" json:"cards,omitempty"`
	Metadata SetMetadata `gorm:"embedded;embeddedPrefix:meta_" json:"metadata"`

	// Timestamps carried by the set itself (from the input file when present).
	SetCreatedAt  time.Time `json:"set_created_at"`
	SetModifiedAt time.Time `json:"set_modified_at"`
	ImportedAt    time.Time `json:"imported_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Card is a single conversation prompt within a set.
// CardID is unique within its set; it is preserved from the input when
// present and generated otherwise.
type Card struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CardSetID uint   `gorm:"index" json:"card_set_id"`
	CardID    string `gorm:"index;size:64" json:"card_id"`
	Position  int    `json:"position"`

	Category   string   `gorm:"index;size:100" json:"category"`
	Question   string   `gorm:"type:text" json:"question"`
	FollowUps  []string `gorm:"serializer:json" json:"follow_up_questions,omitempty"`
	Tags       []string `gorm:"serializer:json" json:"tags,omitempty"`
	Difficulty int      `json:"difficulty"`

	CardCreatedAt  time.Time `json:"card_created_at"`
	CardModifiedAt time.Time `json:"card_modified_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImportSession records one import attempt end to end.
type ImportSession struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	SetName        string       `gorm:"index;size:256" json:"set_name"`
	SourceKind     SourceKind   `gorm:"size:20" json:"source_kind"`
	Status         ImportStatus `gorm:"size:20;default:'pending'" json:"status"`
	CardsProcessed int          `json:"cards_processed"`
	ErrorCode      string       `gorm:"size:40" json:"error_code,omitempty"`
	Errors         string       `gorm:"type:text" json:"errors,omitempty"`
	StartedAt      time.Time    `json:"started_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
}

func (CardSet) TableName() string {
	return "card_sets"
}

func (Card) TableName() string {
	return "cards"
}

func (ImportSession) TableName() string {
	return "import_sessions"
}
