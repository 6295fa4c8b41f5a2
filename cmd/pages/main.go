package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sophro-cabinet/site-backend/internal/config"
	"github.com/sophro-cabinet/site-backend/internal/database"
	"github.com/sophro-cabinet/site-backend/internal/pages/handler"
	"github.com/sophro-cabinet/site-backend/internal/pages/service"
	"github.com/sophro-cabinet/site-backend/pkg/logger"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
)

// Serves the public page content on its own, e.g. behind the site CDN.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	port := os.Getenv("PAGES_SERVICE_PORT")
	if port == "" {
		port = "5010"
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.SecurityHeaders(), middleware.ErrorHandler(false))

	// Prefer Mongo when configured; fall back to the shipped defaults in memory.
	var svc service.Service
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warnf("config: %v; using memory-backed pages", err)
		svc = service.NewMemoryService()
	} else {
		r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
		client, err := database.ConnectMongo(context.Background(), cfg.MongoDB.URI, 10*time.Second)
		if err != nil {
			logger.Warnf("cannot connect to MongoDB (%v), using memory-backed pages", err)
			svc = service.NewMemoryService()
		} else if svc, err = service.NewMongoService(context.Background(), client.Database(cfg.MongoDB.Database).Collection("pagecontents")); err != nil {
			logger.Fatalf("pages service: %v", err)
		}
	}

	handler.RegisterPublicRoutes(r, svc)
	r.NoRoute(middleware.NotFound)

	logger.Infof("pages service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		logger.Fatalf("%v", err)
	}
}
