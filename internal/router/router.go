package router

import (
	"net/http"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/handler"
	"github.com/dsdaea/aerovault-backend/internal/middleware"
	"github.com/dsdaea/aerovault-backend/internal/response"
	"github.com/dsdaea/aerovault-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Vault        *handler.VaultHandler
	Event        *handler.EventHandler
	Registration *handler.RegistrationHandler
	Record       *handler.RecordHandler
	System       *handler.SystemHandler
	WS           *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve certificate assets statically with aggressive caching (1 year).
	assetsGroup := router.Group("/assets")
	assetsGroup.Use(middleware.CacheControl(31536000))
	{
		assetsGroup.Static("/", cfg.AssetsDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for vault lookups (30 requests per minute per IP) so a
	// scripted sweep cannot enumerate roll numbers.
	vaultLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1")
	{
		publicAPI.GET("/events", handlers.Event.List)
		publicAPI.GET("/events/:id", handlers.Event.Get)
		publicAPI.POST("/registrations", handlers.Registration.Register)

		vault := publicAPI.Group("/vault")
		vault.Use(vaultLimiter.Middleware())
		{
			vault.GET("/exports/:job_id", handlers.Vault.JobStatus)
			vault.GET("/exports/:job_id/download", handlers.Vault.Download)
			vault.GET("/:roll_no", handlers.Vault.Lookup)
			vault.POST("/:roll_no/export", handlers.Vault.Export)
		}
	}

	// ─── 2. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/admin/login", handlers.Auth.Login)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.Me)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/vault/exports/:job_id/stream", handlers.WS.ExportProgressStream)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Certificate records
		adminAPI.GET("/records", handlers.Record.List)
		adminAPI.POST("/records", handlers.Record.Create)
		adminAPI.POST("/records/import", handlers.Record.Import)
		adminAPI.GET("/records/:id", handlers.Record.Get)
		adminAPI.PUT("/records/:id", handlers.Record.Update)
		adminAPI.DELETE("/records/:id", handlers.Record.Delete)

		// Events
		adminAPI.POST("/events", handlers.Event.Create)
		adminAPI.PUT("/events/:id", handlers.Event.Update)
		adminAPI.DELETE("/events/:id", handlers.Event.Delete)

		// Registrations
		adminAPI.GET("/registrations", handlers.Registration.List)

		// System monitoring
		adminAPI.GET("/system/metrics", handlers.System.Metrics)
	}

	return router
}
