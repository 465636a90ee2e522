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

	"github.com/annuaire-qc/directory/internal/audit"
	"github.com/annuaire-qc/directory/internal/auth"
	"github.com/annuaire-qc/directory/internal/config"
	"github.com/annuaire-qc/directory/internal/geo"
	http_controllers "github.com/annuaire-qc/directory/internal/http"
	"github.com/annuaire-qc/directory/internal/scheduler"
	"github.com/annuaire-qc/directory/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

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

	// Wait for SIGINT or SIGTERM, then give in-flight requests the
	// configured timeout to finish.
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

func Run(cfg *config.Config, version string) {
	log.Printf("Starting business directory importer v%s", version)

	app, err := Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	routerCfg := http_controllers.RouterConfig{
		Importer:   app.Importer,
		Quota:      app.Tracker,
		Businesses: app.Businesses,
		Database:   app.DB,
		Audit:      app.Audit,
		Geo:        geo.Default(),
		Version:    version,

		StrictTransportSecurity: cfg.HTTP.HSTS,
	}
	if app.Snapshotter != nil {
		routerCfg.Snapshotter = app.Snapshotter
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.DefaultConfig()
		taskCfg.Workers = cfg.Tasks.Workers
		taskCfg.ReleaseAfter = cfg.Tasks.ReleaseAfter
		taskCfg.CleanupInterval = cfg.Tasks.CleanupInterval
		taskCfg.Retention = cfg.Tasks.Retention
		taskCfg.Override(tasks.QueueRefreshBusiness, tasks.QueuePolicy{
			MaxAttempts: cfg.Tasks.RefreshAttempts,
			Backoff:     cfg.Tasks.RefreshBackoff,
			Timeout:     cfg.Tasks.RefreshTimeout,
		})
		taskCfg.Override(tasks.QueueRefreshAll, tasks.QueuePolicy{Timeout: cfg.Tasks.BulkRefreshTimeout})

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		refresher := tasks.NewBusinessRefresher(app.Businesses, app.Importer, app.Tracker, app.Audit)
		taskClient.Register(
			tasks.NewRefreshBusinessQueue(refresher),
			tasks.NewRefreshAllBusinessesQueue(refresher),
			tasks.NewCleanupAuditEventsQueue(app.Audit, app.Audit),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
		routerCfg.Tasks = taskClient

		if cfg.Maintenance.Enabled {
			maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule, cfg.Audit.RetentionDays)
			if err := maintenance.Start(taskCtx); err != nil {
				log.Printf("WARNING: Maintenance scheduler disabled: %v", err)
				maintenance = nil
			} else {
				routerCfg.Maintenance = maintenance
			}
		}
	} else if cfg.Maintenance.Enabled {
		log.Printf("WARNING: Maintenance needs the task queue; set TASKS_ENABLED=true to schedule audit cleanup.")
	}

	// Admin bearer token
	limiter := auth.NewRateLimiter(auth.DefaultRateLimitConfig())
	defer limiter.Stop()
	authMiddleware := auth.NewMiddleware(cfg.Admin.TokenHash, limiter)
	authMiddleware.OnAttempt(func(c *gin.Context, success bool) {
		app.Audit.LogAuth(audit.RequestInfo{
			Actor:     audit.ActorPublic,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}, success)
	})
	if !authMiddleware.Enabled() {
		log.Printf("WARNING: ADMIN_TOKEN_HASH is not set. Admin endpoints are disabled; run 'directory hash-token' to create one.")
	}
	routerCfg.AuthMiddleware = authMiddleware

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	})
}
