package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"electricity-dataset/internal/api"
	"electricity-dataset/internal/config"
	"electricity-dataset/internal/metrics"
	"electricity-dataset/internal/pipeline"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfgPath := config.Resolve()
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgPath != "" {
		log.Printf("Using config %s", cfgPath)
	}
	log.Printf("Data directory: %s", cfg.DataDir)

	ttl := time.Hour
	if v := os.Getenv("RUN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			ttl = parsed
		}
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(cfg, metrics.NewRecorder(), pipeline.NewRunStore(ttl, 16))

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
