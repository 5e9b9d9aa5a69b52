package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/placebook/internal/auth"
	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/database/users"
	http_controllers "github.com/mrlokans/placebook/internal/http"
	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/places"
	"github.com/mrlokans/placebook/internal/redis"
	"github.com/mrlokans/placebook/internal/scheduler"
	"github.com/mrlokans/placebook/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log logger.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", logger.Error(err))
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server", logger.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work first so no task writes after the server is gone.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", logger.Error(err))
	}

	log.Info("server exiting")
}

// NewPlacesClient builds the places client, caching in Redis when an address
// is configured and in memory otherwise.
func NewPlacesClient(ctx context.Context, cfg *config.Config, log logger.Logger) *places.Client {
	var cache places.Cache = places.NewMemoryCache()
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.DefaultOptions(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), log)
		if err != nil {
			log.Warn("redis unavailable, caching places in memory", logger.Error(err))
		} else {
			cache = places.NewRedisCache(client)
		}
	}

	return places.NewClient(places.Options{
		APIKey:      cfg.Places.APIKey,
		BaseURL:     cfg.Places.BaseURL,
		Timeout:     cfg.Places.Timeout,
		MinInterval: cfg.Places.MinInterval,
		Cache:       cache,
		CacheTTL:    cfg.Places.CacheTTL,
		Logger:      log.With(logger.String("component", "places")),
	})
}

// Run wires every component from cfg and serves the API.
func Run(cfg *config.Config, version string) {
	log := NewLogger(cfg.Log)
	defer func() { _ = log.Sync() }()

	log.Info("starting PlaceBook", logger.String("version", version))

	core, err := OpenCore(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", logger.Error(err))
	}
	defer func() {
		if err := core.Close(); err != nil {
			log.Error("error closing database", logger.Error(err))
		}
	}()

	placesClient := NewPlacesClient(context.Background(), cfg, log)
	if !placesClient.Configured() {
		log.Warn("places API key is not set, place lookups are disabled. Set PLACES_API_KEY or run 'set-api-key'")
	}

	// Task queue
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks), log.With(logger.String("component", "tasks")))
		if err != nil {
			log.Fatal("failed to initialize task queue", logger.Error(err))
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error("error closing task client", logger.Error(err))
			}
		}()

		taskClient.RegisterAll(tasks.Dependencies{
			Bookmarks: core.Bookmarks,
			Places:    placesClient,
			Audit:     core.Audit,
			Logger:    log,
		})

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Maintenance scheduler
	sweep := scheduler.NewMaintenanceScheduler(scheduler.Settings{
		Enabled:            cfg.Sweep.Enabled,
		Schedule:           cfg.Sweep.Schedule,
		AuditRetentionDays: cfg.Audit.RetentionDays,
	}, core.Bookmarks, log.With(logger.String("component", "scheduler")))
	sweep.SetAuditCleaner(core.Audit)
	sweep.SetAuditor(core.Audit)
	if taskClient != nil {
		sweep.SetQueue(taskClient)
	}
	if err := sweep.Start(context.Background()); err != nil {
		log.Error("failed to start maintenance scheduler", logger.Error(err))
	}

	// Authentication
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Info("authentication mode: local")

		authService = auth.NewService(users.NewRepository(core.DB.DB), cfg.Auth, log.With(logger.String("component", "auth")))

		sqlDB, err := core.DB.DB.DB()
		if err != nil {
			log.Fatal("failed to get SQL DB for sessions", logger.Error(err))
		}
		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatal("failed to initialize session manager", logger.Error(err))
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)
		csrfSecret = sessionSecret(cfg.Auth.SessionSecret, log)

		hasUsers, err := authService.HasUsers(context.Background())
		if err == nil && !hasUsers {
			log.Warn("no users found, POST /api/auth/setup to create an administrator account")
		}
	} else {
		log.Info("authentication mode: none (no authentication required)")
	}

	routerCfg := http_controllers.RouterConfig{
		Bookmarks:          core.Bookmarks,
		Database:           core.DB,
		PhotosDir:          core.Photos.Dir(),
		Logger:             log,
		Version:            version,
		PhotoMaxWidth:      cfg.Places.PhotoMaxWidth,
		PhotoMaxHeight:     cfg.Places.PhotoMaxHeight,
		Audit:              core.Audit,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		AuthConfig:         cfg.Auth,
		AuthService:        authService,
		AuthMiddleware:     authMiddleware,
		SessionManager:     sessionManager,
		CSRFSecret:         csrfSecret,
	}
	// Optional dependencies stay nil interfaces when absent.
	if placesClient.Configured() {
		routerCfg.Places = placesClient
	}
	if taskClient != nil {
		routerCfg.Tasks = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		sweep.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, log, onShutdown)
}

// sessionSecret decodes the configured secret, or generates one that lasts
// until the process exits.
func sessionSecret(configured string, log logger.Logger) []byte {
	if configured != "" {
		secret, err := hex.DecodeString(configured)
		if err != nil {
			// Not hex, use as raw bytes
			return []byte(configured)
		}
		return secret
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		log.Fatal("failed to generate CSRF secret", logger.Error(err))
	}
	secret, _ := hex.DecodeString(generated)
	log.Warn("generated session secret (set AUTH_SESSION_SECRET to persist sessions across restarts)")
	return secret
}
