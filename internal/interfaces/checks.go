package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/darolishes/bondbridge/internal/audit"
	"github.com/darolishes/bondbridge/internal/cardimport"
	"github.com/darolishes/bondbridge/internal/database/cardsets"
	"github.com/darolishes/bondbridge/internal/database/sessions"
	"github.com/darolishes/bondbridge/internal/http"
	"github.com/darolishes/bondbridge/internal/tasks"
)

// =============================================================================
// Import Pipeline
// =============================================================================

// CardSetStore / ExistingSetNames implementations
var _ cardimport.CardSetStore = (*cardsets.Repository)(nil)
var _ cardimport.ExistingSetNames = (*cardsets.Repository)(nil)

// SessionRecorder implementations
var _ cardimport.SessionRecorder = (*sessions.Repository)(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

// CardSetStore implementations
var _ http.CardSetStore = (*cardsets.Repository)(nil)

// SessionStore implementations
var _ http.SessionStore = (*sessions.Repository)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

// MetadataUpdater implementations
var _ tasks.MetadataUpdater = (*cardsets.Repository)(nil)

// SessionCleaner implementations
var _ tasks.SessionCleaner = (*sessions.Repository)(nil)

// AuditCleaner implementations
var _ tasks.AuditCleaner = (*audit.Auditor)(nil)
