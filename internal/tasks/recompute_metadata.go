package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/darolishes/bondbridge/internal/cardimport"
	"github.com/darolishes/bondbridge/internal/entities"
)

// MetadataUpdater provides the card-set access a metadata recompute needs.
type MetadataUpdater interface {
	GetBySetID(setID string) (*entities.CardSet, error)
	UpdateMetadata(setID string, meta entities.SetMetadata) error
}

// RecomputeMetadataTask rebuilds a card set's derived metadata from its
// stored cards. Useful after manual card edits made outside the importer.
type RecomputeMetadataTask struct {
	SetID string `json:"set_id"`
}

// Config returns the queue configuration for metadata recompute tasks.
func (t RecomputeMetadataTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "recompute_metadata",
		MaxAttempts: 3,
		Backoff:     1 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RecomputeMetadataProcessor creates a processor function for RecomputeMetadataTask.
func RecomputeMetadataProcessor(store MetadataUpdater) backlite.QueueProcessor[RecomputeMetadataTask] {
	return func(ctx context.Context, task RecomputeMetadataTask) error {
		if store == nil {
			return fmt.Errorf("card set store not configured")
		}
		if task.SetID == "" {
			return fmt.Errorf("set_id is required")
		}

		set, err := store.GetBySetID(task.SetID)
		if err != nil {
			return fmt.Errorf("recompute metadata: load set %q: %w", task.SetID, err)
		}

		meta := cardimport.DeriveMetadata(set.Cards)
		if err := store.UpdateMetadata(task.SetID, meta); err != nil {
			return fmt.Errorf("recompute metadata: update set %q: %w", task.SetID, err)
		}

		log.Printf("[TASK] Recomputed metadata for set %q (%d cards)", task.SetID, meta.TotalCards)
		return nil
	}
}

// NewRecomputeMetadataQueue creates a backlite queue for metadata recompute tasks.
func NewRecomputeMetadataQueue(store MetadataUpdater) backlite.Queue {
	return backlite.NewQueue(RecomputeMetadataProcessor(store))
}
