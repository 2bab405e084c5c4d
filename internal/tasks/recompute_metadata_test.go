package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darolishes/bondbridge/internal/entities"
)

type mockMetadataStore struct {
	set     *entities.CardSet
	getErr  error
	updated map[string]entities.SetMetadata
}

func (m *mockMetadataStore) GetBySetID(setID string) (*entities.CardSet, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.set, nil
}

func (m *mockMetadataStore) UpdateMetadata(setID string, meta entities.SetMetadata) error {
	if m.updated == nil {
		m.updated = make(map[string]entities.SetMetadata)
	}
	m.updated[setID] = meta
	return nil
}

func TestRecomputeMetadataProcessor(t *testing.T) {
	t.Run("rebuilds metadata from stored cards", func(t *testing.T) {
		store := &mockMetadataStore{
			set: &entities.CardSet{
				SetID: "s1",
				Cards: []entities.Card{
					{CardID: "c1", Category: "deep", Difficulty: 2, Tags: []string{"t"}},
					{CardID: "c2", Category: "fun", Difficulty: 5},
				},
			},
		}

		err := RecomputeMetadataProcessor(store)(context.Background(), RecomputeMetadataTask{SetID: "s1"})
		require.NoError(t, err)

		meta, ok := store.updated["s1"]
		require.True(t, ok)
		assert.Equal(t, 2, meta.TotalCards)
		assert.Equal(t, []string{"deep", "fun"}, meta.Categories)
		assert.Equal(t, 2, meta.DifficultyMin)
		assert.Equal(t, 5, meta.DifficultyMax)
	})

	t.Run("fails when set cannot be loaded", func(t *testing.T) {
		store := &mockMetadataStore{getErr: errors.New("not found")}
		err := RecomputeMetadataProcessor(store)(context.Background(), RecomputeMetadataTask{SetID: "missing"})
		assert.Error(t, err)
	})

	t.Run("rejects empty set id", func(t *testing.T) {
		err := RecomputeMetadataProcessor(&mockMetadataStore{})(context.Background(), RecomputeMetadataTask{})
		assert.Error(t, err)
	})
}

type mockSessionCleaner struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (m *mockSessionCleaner) DeleteOldSessions(cutoff time.Time) (int64, error) {
	m.cutoff = cutoff
	return m.deleted, m.err
}

type mockAuditCleaner struct {
	retention time.Duration
	removed   int64
}

func (m *mockAuditCleaner) CleanupOld(retention time.Duration) (int64, error) {
	m.retention = retention
	return m.removed, nil
}

func TestCleanupImportSessionsProcessor(t *testing.T) {
	t.Run("deletes sessions and audit payloads past retention", func(t *testing.T) {
		sessions := &mockSessionCleaner{deleted: 3}
		audits := &mockAuditCleaner{removed: 2}

		err := CleanupImportSessionsProcessor(sessions, audits)(context.Background(), CleanupImportSessionsTask{RetentionDays: 7})
		require.NoError(t, err)

		expected := time.Now().Add(-7 * 24 * time.Hour)
		assert.WithinDuration(t, expected, sessions.cutoff, time.Minute)
		assert.Equal(t, 7*24*time.Hour, audits.retention)
	})

	t.Run("defaults retention when unset", func(t *testing.T) {
		sessions := &mockSessionCleaner{}
		err := CleanupImportSessionsProcessor(sessions, nil)(context.Background(), CleanupImportSessionsTask{})
		require.NoError(t, err)

		expected := time.Now().Add(-90 * 24 * time.Hour)
		assert.WithinDuration(t, expected, sessions.cutoff, time.Minute)
	})

	t.Run("propagates store failures", func(t *testing.T) {
		sessions := &mockSessionCleaner{err: errors.New("locked")}
		err := CleanupImportSessionsProcessor(sessions, nil)(context.Background(), CleanupImportSessionsTask{})
		assert.Error(t, err)
	})
}
