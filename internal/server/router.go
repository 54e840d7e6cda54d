package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mediahost-backend/internal/handlers"
	"github.com/yungbote/mediahost-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	FileHandler    *handlers.FileHandler
	AlbumHandler   *handlers.AlbumHandler
	APIKeyHandler  *handlers.APIKeyHandler
	RawHandler     *handlers.RawHandler
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.GET("/raw/:type/:file", cfg.RawHandler.GetRaw)

	api := router.Group("/api")
	api.POST("/login", cfg.AuthHandler.Login)
	api.GET("/albums/:id", cfg.AlbumHandler.Get)

	// API-key authenticated upload for scripted clients.
	api.POST("/upload", cfg.AuthMiddleware.RequireAPIKey(), cfg.FileHandler.TokenUpload)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.GET("/users", cfg.UserHandler.List)
	protected.POST("/users", cfg.UserHandler.Create)
	// Files
	protected.POST("/files/upload", cfg.FileHandler.Upload)
	protected.GET("/files", cfg.FileHandler.List)
	protected.GET("/files/:id", cfg.FileHandler.Get)
	protected.DELETE("/files/:id", cfg.FileHandler.Delete)
	// Albums
	protected.POST("/albums", cfg.AlbumHandler.Create)
	protected.GET("/albums", cfg.AlbumHandler.List)
	protected.DELETE("/albums/:id", cfg.AlbumHandler.Delete)
	// API keys
	protected.POST("/api-keys", cfg.APIKeyHandler.Create)
	protected.GET("/api-keys", cfg.APIKeyHandler.List)
	protected.DELETE("/api-keys/:id", cfg.APIKeyHandler.Delete)

	return router
}
