package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SessionCleaner provides the ability to delete old import session records.
type SessionCleaner interface {
	DeleteOldSessions(cutoff time.Time) (int64, error)
}

// AuditCleaner provides the ability to delete old audit payload files.
type AuditCleaner interface {
	CleanupOld(retention time.Duration) (int64, error)
}

// CleanupImportSessionsTask removes import session records (and audit
// payloads) older than the configured retention period.
type CleanupImportSessionsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for session cleanup tasks.
func (t CleanupImportSessionsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_import_sessions",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupImportSessionsProcessor creates a processor function for CleanupImportSessionsTask.
// The audit cleaner is optional; pass nil when auditing is disabled.
func CleanupImportSessionsProcessor(sessions SessionCleaner, audits AuditCleaner) backlite.QueueProcessor[CleanupImportSessionsTask] {
	return func(ctx context.Context, task CleanupImportSessionsTask) error {
		if sessions == nil {
			return fmt.Errorf("session store not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 90
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := sessions.DeleteOldSessions(time.Now().Add(-retention))
		if err != nil {
			return fmt.Errorf("cleanup import sessions: %w", err)
		}
		log.Printf("[TASK] Cleaned up %d import sessions older than %d days", deleted, retentionDays)

		if audits != nil {
			removed, err := audits.CleanupOld(retention)
			if err != nil {
				return fmt.Errorf("cleanup audit payloads: %w", err)
			}
			log.Printf("[TASK] Cleaned up %d audit payloads older than %d days", removed, retentionDays)
		}
		return nil
	}
}

// NewCleanupImportSessionsQueue creates a backlite queue for session cleanup tasks.
func NewCleanupImportSessionsQueue(sessions SessionCleaner, audits AuditCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupImportSessionsProcessor(sessions, audits))
}
