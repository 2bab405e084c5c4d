package http

import (
	"github.com/darolishes/bondbridge/internal/audit"
	"github.com/darolishes/bondbridge/internal/auth"
	"github.com/darolishes/bondbridge/internal/cardimport"
	"github.com/darolishes/bondbridge/internal/database"
	"github.com/darolishes/bondbridge/internal/tasks"
)

// RouterConfig carries all dependencies the router needs. A single struct
// keeps NewRouter's signature stable as the dependency set grows.
type RouterConfig struct {
	Database *database.Database
	Version  string

	Orchestrator *cardimport.Orchestrator
	// Auditor is optional; nil disables raw payload auditing.
	Auditor *audit.Auditor
	// MaxImportPayload bounds a single import request body in bytes.
	MaxImportPayload int64

	CardSetStore CardSetStore
	SessionStore SessionStore

	// TaskClient is optional; nil disables background maintenance endpoints.
	TaskClient *tasks.Client

	// AuthMiddleware is optional; nil leaves every endpoint open.
	AuthMiddleware *auth.Middleware
}
