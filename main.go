package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundbyteapp/soundbyte-service/clipstore"
	"github.com/soundbyteapp/soundbyte-service/config"
	"github.com/soundbyteapp/soundbyte-service/enrich"
	"github.com/soundbyteapp/soundbyte-service/handler"
	"github.com/soundbyteapp/soundbyte-service/logger"
	"github.com/soundbyteapp/soundbyte-service/middleware"
	"github.com/soundbyteapp/soundbyte-service/repository"
	"github.com/soundbyteapp/soundbyte-service/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(logger.Config{
		ServiceName: "soundbyte-service",
		Environment: cfg.Environment,
		LogFilePath: cfg.LogFilePath,
		HMACKey:     cfg.LogHMACKey,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
		MaxAgeDays:  cfg.LogMaxAgeDays,
	})

	logger.Info(logger.EventServiceStartup, "SoundByte service starting", logger.Fields(
		"port", cfg.ServerPort,
		"environment", cfg.Environment,
		"enrichment", cfg.EnableEnrichment,
	))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal(logger.EventDBError, "Failed to connect to MongoDB", logger.Fields("error", err.Error()))
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal(logger.EventDBError, "Failed to ping MongoDB", logger.Fields("error", err.Error()))
	}
	logger.Info(logger.EventDBConnection, "Connected to MongoDB successfully", nil)

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	soundByteRepo := repository.NewSoundByteRepository(db)

	var enricher enrich.Enricher
	if cfg.EnableEnrichment {
		enricher = enrich.NewClient(cfg.EnrichBaseURL, time.Duration(cfg.EnrichTimeoutMS)*time.Millisecond)
	}

	trackService := service.NewTrackService(trackRepo, enricher, time.Duration(cfg.EnrichTimeoutMS)*time.Millisecond)
	userService := service.NewUserService(userRepo)
	jukeboxService := service.NewJukeboxService(userRepo, trackRepo, trackService)
	soundByteService := service.NewSoundByteService(soundByteRepo, trackService, userRepo)

	authHandler := handler.NewAuthHandler(userService, cfg.JWTSecret)
	userHandler := handler.NewUserHandler(userService, jukeboxService, cfg.JWTSecret)
	soundByteHandler := handler.NewSoundByteHandler(soundByteService, userService, cfg.JWTSecret)
	trackHandler := handler.NewTrackHandler(trackService, cfg.JWTSecret)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Next()
	})

	generalRateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)
	router.Use(generalRateLimiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRateLimiter := middleware.NewRateLimiter(5, 1*time.Minute)
	authHandler.RegisterRoutes(router, authRateLimiter.Middleware())
	userHandler.RegisterRoutes(router)
	soundByteHandler.RegisterRoutes(router)
	trackHandler.RegisterRoutes(router)

	if cfg.HDFSNamenode != "" {
		store, err := clipstore.New(cfg.HDFSNamenode)
		if err != nil {
			logger.Fatal(logger.EventGeneral, "Failed to connect to clip storage", logger.Fields("error", err.Error()))
		}
		defer store.Close()

		clipHandler := handler.NewClipHandler(store, cfg.ClipBaseURL, cfg.JWTSecret)
		clipHandler.RegisterRoutes(router)
		logger.Info(logger.EventGeneral, "Clip storage enabled", logger.Fields("namenode", cfg.HDFSNamenode))
	}

	logger.Info(logger.EventServiceStartup, "Server starting", logger.Fields("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal(logger.EventGeneral, "Failed to start server", logger.Fields("error", err.Error()))
	}
}
