// Package http exposes the bookmark repository as a JSON API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/placebook/internal/auth"
	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/logger"
)

// NewRouter creates the gin engine with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log.With(logger.String("component", "http"))))
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	localAuth := cfg.AuthConfig.Mode == config.AuthModeLocal

	// CSRF replaces the request, so it runs before the session is loaded.
	if localAuth && len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies, cfg.AuthService))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	mw := cfg.AuthMiddleware
	if mw == nil {
		mw = auth.NewMiddleware(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig)
	}
	router.Use(mw.Handler())
	editor := mw.RequireEditor()

	health := NewHealthController(cfg.Database, cfg.PhotosDir, cfg.Version)
	router.GET("/health", health.Status)

	api := router.Group("/api")

	if localAuth && cfg.AuthService != nil {
		auth.NewController(cfg.AuthService, cfg.SessionManager).RegisterRoutes(api.Group("/auth"))
	}

	categories := NewCategoriesController(cfg.Bookmarks)
	api.GET("/categories", categories.List)
	api.GET("/categories/classify", categories.Classify)

	bookmarks := NewBookmarksController(cfg.Bookmarks, log)
	photos := NewPhotosController(cfg.Bookmarks, log)

	b := api.Group("/bookmarks")
	b.GET("", bookmarks.List)
	b.GET("/new", bookmarks.New)
	b.GET("/stats", bookmarks.Stats)
	b.GET("/stream", bookmarks.StreamAll)
	b.POST("", editor, bookmarks.Create)
	b.GET("/:id", bookmarks.Get)
	b.GET("/:id/stream", bookmarks.Stream)
	b.GET("/:id/share", bookmarks.Share)
	b.PUT("/:id", editor, bookmarks.Update)
	b.DELETE("/:id", editor, bookmarks.Delete)
	b.GET("/:id/photo", photos.Get)
	b.PUT("/:id/photo", editor, photos.Put)
	b.DELETE("/:id/photo", editor, photos.Delete)

	if cfg.Places != nil {
		places := NewPlacesController(cfg.Places, cfg.Bookmarks, cfg.Tasks, log)
		places.SetPhotoSize(cfg.PhotoMaxWidth, cfg.PhotoMaxHeight)
		api.GET("/places/:placeId", places.Details)
		api.POST("/places/:placeId/bookmark", editor, places.Bookmark)
	}

	if cfg.Tasks != nil {
		tasks := NewTasksController(cfg.Tasks, cfg.Bookmarks, cfg.AuditRetentionDays, log)
		b.POST("/:id/refresh", editor, tasks.RefreshBookmark)
		api.GET("/tasks/types", tasks.ListTaskTypes)
		api.GET("/tasks/:id", tasks.GetTaskStatus)
		api.POST("/tasks/run/:type", mw.RequireRole(entities.UserRoleAdmin), tasks.RunTask)
	}

	if cfg.Audit != nil {
		audit := NewAuditController(cfg.Audit, log)
		api.GET("/audit", audit.GetAuditEvents)
	}

	return router
}
