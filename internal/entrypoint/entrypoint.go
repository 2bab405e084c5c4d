package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/darolishes/bondbridge/internal/audit"
	"github.com/darolishes/bondbridge/internal/auth"
	"github.com/darolishes/bondbridge/internal/cardimport"
	"github.com/darolishes/bondbridge/internal/config"
	"github.com/darolishes/bondbridge/internal/database"
	"github.com/darolishes/bondbridge/internal/database/cardsets"
	"github.com/darolishes/bondbridge/internal/database/sessions"
	http_controllers "github.com/darolishes/bondbridge/internal/http"
	"github.com/darolishes/bondbridge/internal/scheduler"
	"github.com/darolishes/bondbridge/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM. SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires up every component from the config and serves until shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting BondBridge v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	cardSetRepo := cardsets.NewRepository(db.DB)
	sessionRepo := sessions.NewRepository(db.DB)

	var auditor *audit.Auditor
	if cfg.Audit.Enabled {
		auditor = audit.NewAuditor(cfg.Audit.Dir)
	}

	// Task queue for background maintenance
	var taskClient *tasks.Client
	var cleanupScheduler *scheduler.CleanupScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer taskClient.Close()

		var auditCleaner tasks.AuditCleaner
		if auditor != nil {
			auditCleaner = auditor
		}
		taskClient.Register(
			tasks.NewRecomputeMetadataQueue(cardSetRepo),
			tasks.NewCleanupImportSessionsQueue(sessionRepo, auditCleaner),
		)
		go taskClient.Start(context.Background())

		cleanupScheduler = scheduler.NewCleanupScheduler(taskClient, cfg.Sessions.CleanupSchedule, cfg.Sessions.RetentionDays)
		if err := cleanupScheduler.Start(); err != nil {
			log.Printf("Failed to start session cleanup scheduler: %v", err)
		}
	} else {
		log.Printf("Task queue disabled; metadata recompute and session cleanup are unavailable")
	}

	importOpts := []cardimport.Option{cardimport.WithSessionRecorder(sessionRepo)}
	if !cfg.Import.ConflictCheck {
		importOpts = append(importOpts, cardimport.WithoutConflictCheck())
	}
	orchestrator := cardimport.NewOrchestrator(cardSetRepo, cardSetRepo, importOpts...)

	var authMiddleware *auth.Middleware
	if cfg.Auth.Mode == config.AuthModeAPIKey {
		if len(cfg.Auth.APIKeyHashes) == 0 {
			log.Fatalf("AUTH_MODE is 'apikey' but AUTH_API_KEY_HASHES is empty")
		}
		authMiddleware = auth.NewMiddleware(cfg.Auth)
		log.Printf("API key authentication enabled (%d keys)", len(cfg.Auth.APIKeyHashes))
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:         db,
		Version:          version,
		Orchestrator:     orchestrator,
		Auditor:          auditor,
		MaxImportPayload: cfg.Import.MaxPayloadBytes,
		CardSetStore:     cardSetRepo,
		SessionStore:     sessionRepo,
		TaskClient:       taskClient,
		AuthMiddleware:   authMiddleware,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
	})
}
