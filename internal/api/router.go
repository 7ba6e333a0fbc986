package api

import (
	"net/http"

	"electricity-dataset/internal/api/handlers"
	"electricity-dataset/internal/api/middleware"
	"electricity-dataset/internal/config"
	"electricity-dataset/internal/metrics"
	"electricity-dataset/internal/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the HTTP routes around one config, metrics recorder and
// run store.
func NewRouter(cfg *config.Config, rec *metrics.Recorder, store *pipeline.RunStore) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	mergeHandler := handlers.NewMergeHandler(cfg, rec, store)
	sourcesHandler := handlers.NewSourcesHandler(cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(rec.Registry(), promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/sources", sourcesHandler.ListSources)
		v1.POST("/merge", mergeHandler.RunMerge)
		v1.GET("/merge/:id", mergeHandler.GetRun)
		v1.GET("/merge/:id/rows", mergeHandler.GetRows)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
