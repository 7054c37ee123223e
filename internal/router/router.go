package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/campusboard/internal/config"
	"github.com/stemsi/campusboard/internal/handler"
	"github.com/stemsi/campusboard/internal/middleware"
	"github.com/stemsi/campusboard/internal/model"
	"github.com/stemsi/campusboard/internal/response"
	"github.com/stemsi/campusboard/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Announcements *handler.AnnouncementHandler
	System        *handler.SystemHandler
	// Feed is nil when Redis is not configured; the stream route is then
	// not mounted.
	Feed *handler.FeedHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// loginLimiter may be nil to disable login rate limiting.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
	loginLimiter *middleware.RateLimiter,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// Apply request ID middleware first so every later layer can read it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Brotli(middleware.DefaultBrotliMinLength))

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	api := router.Group("/api")
	api.GET("/health", handlers.System.Health)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := api.Group("/auth")
	{
		login := []gin.HandlerFunc{handlers.Auth.Login}
		if loginLimiter != nil {
			login = append([]gin.HandlerFunc{loginLimiter.Middleware()}, login...)
		}
		auth.POST("/login", login...)
		auth.GET("/me", middleware.RequireAuth(authService, log), handlers.Auth.Me)
	}

	// ─── 2. Announcements ──────────────────────────────────────────────
	announcements := api.Group("/announcements")
	{
		if handlers.Feed != nil {
			announcements.GET("/stream", middleware.RequireAuthWS(authService, log), handlers.Feed.Stream)
		}

		authed := announcements.Group("", middleware.RequireAuth(authService, log))
		authed.GET("", handlers.Announcements.List)
		authed.POST("", middleware.RequireRole(model.RoleTeacher), handlers.Announcements.Create)
	}

	return router
}
