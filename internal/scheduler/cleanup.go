package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/darolishes/bondbridge/internal/tasks"
)

// CleanupScheduler periodically enqueues the import-session cleanup task.
// The actual deletion runs on the task queue so retries and timeouts apply.
type CleanupScheduler struct {
	client        *tasks.Client
	schedule      string
	retentionDays int

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

// NewCleanupScheduler creates a new scheduler instance.
func NewCleanupScheduler(client *tasks.Client, schedule string, retentionDays int) *CleanupScheduler {
	return &CleanupScheduler{
		client:        client,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. It is a no-op when already running.
func (s *CleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.client == nil {
		log.Printf("Session cleanup scheduler: task queue disabled, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueueCleanup()
	})
	if err != nil {
		return fmt.Errorf("invalid cleanup schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true
	log.Printf("Session cleanup scheduler: started with schedule '%s' (retention %d days)", s.schedule, s.retentionDays)
	return nil
}

// Stop halts the scheduler. Jobs already submitted to the task queue run
// to completion.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.cron.Remove(s.entryID)
	s.cron.Stop()
	s.isRunning = false
	log.Printf("Session cleanup scheduler: stopped")
}

func (s *CleanupScheduler) enqueueCleanup() {
	task := tasks.CleanupImportSessionsTask{RetentionDays: s.retentionDays}
	if _, err := s.client.Add(task).Save(); err != nil {
		log.Printf("Session cleanup scheduler: failed to enqueue task: %v", err)
		return
	}
	log.Printf("Session cleanup scheduler: enqueued cleanup (retention %d days)", s.retentionDays)
}
