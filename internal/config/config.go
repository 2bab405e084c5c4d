package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone   AuthMode = "none"   // No authentication required (default)
	AuthModeAPIKey AuthMode = "apikey" // Bearer API keys checked against bcrypt hashes
)

type (
	Config struct {
		HTTP
		Database
		Audit
		Import
		Sessions
		Tasks
		Auth
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Audit struct {
		Enabled       bool
		Dir           string
		RetentionDays int // Days to keep audit payloads (default: 30)
	}
	Import struct {
		MaxPayloadBytes int64 // Upper bound for a single import payload
		ConflictCheck   bool  // Reject sets whose name already exists
	}
	Sessions struct {
		RetentionDays   int    // Days to keep import session records (default: 90)
		CleanupSchedule string // Cron format: "30 3 * * *" = daily at 03:30
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Auth struct {
		Mode AuthMode
		// APIKeyHashes holds bcrypt hashes of accepted API keys,
		// comma-separated in the environment.
		APIKeyHashes []string
		BcryptCost   int
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// splitAPIKeyHashes parses the comma-separated hash list, dropping empties.
func splitAPIKeyHashes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	hashes := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			hashes = append(hashes, trimmed)
		}
	}
	return hashes
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8199)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("import_max_payload_bytes", 10*1024*1024)
	v.SetDefault("import_conflict_check", true)
	v.SetDefault("sessions_retention_days", 90)
	v.SetDefault("sessions_cleanup_schedule", "30 3 * * *") // Daily at 03:30

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_api_key_hashes", "")
	v.SetDefault("auth_bcrypt_cost", 12)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Import: Import{
			MaxPayloadBytes: v.GetInt64("IMPORT_MAX_PAYLOAD_BYTES"),
			ConflictCheck:   v.GetBool("IMPORT_CONFLICT_CHECK"),
		},
		Sessions: Sessions{
			RetentionDays:   v.GetInt("SESSIONS_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("SESSIONS_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Auth: Auth{
			Mode:         AuthMode(v.GetString("AUTH_MODE")),
			APIKeyHashes: splitAPIKeyHashes(v.GetString("AUTH_API_KEY_HASHES")),
			BcryptCost:   v.GetInt("AUTH_BCRYPT_COST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
