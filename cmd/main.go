package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/mediahost-backend/internal/db"
	"github.com/yungbote/mediahost-backend/internal/handlers"
	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/media"
	"github.com/yungbote/mediahost-backend/internal/middleware"
	"github.com/yungbote/mediahost-backend/internal/repos"
	"github.com/yungbote/mediahost-backend/internal/server"
	"github.com/yungbote/mediahost-backend/internal/services"
	"github.com/yungbote/mediahost-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	uploadsDir := utils.GetEnv("UPLOADS_DIR", "uploads", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log), ",")

	// Database
	databaseService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := databaseService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	if err := databaseService.SeedAdminUser(); err != nil {
		log.Warn("Admin user seed failed", "error", err)
	}
	theDB := databaseService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	apiKeyRepo := repos.NewAPIKeyRepo(theDB, log)
	fileRepo := repos.NewFileRepo(theDB, log)
	albumRepo := repos.NewAlbumRepo(theDB, log)

	// Media store
	log.Info("Setting up media store...", "uploads_dir", uploadsDir)
	transcoder := media.NewImageTranscoder(log)
	mediaStore, err := media.NewStore(uploadsDir, log, transcoder)
	if err != nil {
		log.Error("Could not init media store", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(theDB, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(theDB, log, userRepo)
	apiKeyService := services.NewAPIKeyService(theDB, log, apiKeyRepo, userRepo)
	fileService := services.NewFileService(theDB, log, fileRepo, albumRepo, mediaStore)
	albumService := services.NewAlbumService(theDB, log, albumRepo, fileRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(log, userService)
	fileHandler := handlers.NewFileHandler(log, fileService)
	albumHandler := handlers.NewAlbumHandler(log, albumService)
	apiKeyHandler := handlers.NewAPIKeyHandler(log, apiKeyService)
	rawHandler := handlers.NewRawHandler(log, mediaStore)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService, apiKeyService)

	// Router
	log.Info("Setting up Router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		UserHandler:    userHandler,
		FileHandler:    fileHandler,
		AlbumHandler:   albumHandler,
		APIKeyHandler:  apiKeyHandler,
		RawHandler:     rawHandler,
		AllowOrigins:   allowOrigins,
	})

	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
