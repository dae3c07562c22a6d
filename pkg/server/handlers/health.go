package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	store   Store
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Store) *HealthHandler {
	return &HealthHandler{
		store:   store,
		started: time.Now(),
	}
}

// HealthCheck handles GET /health. It reports the loaded table sizes and is
// unavailable until a dataset is loaded.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":    "healthy",
		"service":   "k-families-data",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
		"build_info": gin.H{
			"git_commit": GitCommit,
			"build_time": BuildTime,
			"go_version": GoVersion,
		},
		"uptime": time.Since(h.started).Round(time.Second).String(),
	}

	if h.store == nil {
		response["status"] = "not_ready"
		response["error"] = "dataset not loaded"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response["tables"] = h.store.Counts()
	c.JSON(http.StatusOK, response)
}

// LivenessCheck handles GET /live - Kubernetes liveness probe endpoint
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	// Simple liveness check - just confirm the service is running
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   "k-families-data",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
