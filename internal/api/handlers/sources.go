package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"electricity-dataset/internal/api/models"
	"electricity-dataset/internal/config"

	"github.com/gin-gonic/gin"
)

// SourcesHandler reports which configured input files are present.
type SourcesHandler struct {
	cfg *config.Config
}

func NewSourcesHandler(cfg *config.Config) *SourcesHandler {
	return &SourcesHandler{cfg: cfg}
}

// ListSources handles GET /api/v1/sources
func (h *SourcesHandler) ListSources(c *gin.Context) {
	cfg := *h.cfg
	if dir := c.Query("data_dir"); dir != "" {
		resolved, err := resolveDataDir(cfg.DataDir, dir)
		if err != nil {
			invalidDataDir(c, err)
			return
		}
		cfg.DataDir = resolved
	}

	loadPattern := filepath.Join(cfg.DataDir, cfg.Sources.LoadPattern)
	loadFiles, err := filepath.Glob(loadPattern)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_PATTERN",
				Message: err.Error(),
			},
		})
		return
	}

	sources := []models.SourceInfo{
		fileSource("price", cfg.SourcePath(cfg.Sources.PriceFile)),
		{
			Name:   "load",
			Path:   loadPattern,
			Files:  loadFiles,
			Exists: len(loadFiles) > 0,
		},
		fileSource("weather", cfg.SourcePath(cfg.Sources.WeatherFile)),
		fileSource("gas", cfg.SourcePath(cfg.Sources.GasFile)),
	}
	c.JSON(http.StatusOK, gin.H{"data_dir": cfg.DataDir, "sources": sources})
}

func fileSource(name, path string) models.SourceInfo {
	info := models.SourceInfo{Name: name, Path: path, Files: []string{}}
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		info.Exists = true
		info.Files = append(info.Files, path)
	}
	return info
}

// resolveDataDir joins a client-supplied data directory under base. Absolute
// paths and '..' segments are rejected.
func resolveDataDir(base, dir string) (string, error) {
	if filepath.IsAbs(dir) || strings.HasPrefix(dir, "/") || strings.HasPrefix(dir, `\`) {
		return "", fmt.Errorf("data_dir %q must be relative to the configured data directory", dir)
	}
	for _, part := range strings.Split(strings.ReplaceAll(dir, `\`, "/"), "/") {
		if part == ".." {
			return "", fmt.Errorf("data_dir %q must not contain '..'", dir)
		}
	}
	return filepath.Join(base, filepath.Clean(filepath.FromSlash(dir))), nil
}

func invalidDataDir(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_DATA_DIR",
			Message: err.Error(),
		},
	})
}
