package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tempograph/tempograph"
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
	reasoner tempograph.Reasoner
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(r tempograph.Reasoner) *HealthHandler {
	return &HealthHandler{reasoner: r}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "tempograph",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// ReadinessCheck handles GET /ready
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	response := gin.H{
		"status":    "ready",
		"service":   "tempograph",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    gin.H{},
	}
	checks := response["checks"].(gin.H)

	if h.reasoner == nil {
		checks["reasoner"] = gin.H{
			"status": "unhealthy",
			"error":  "reasoner not initialized",
		}
		response["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	start := time.Now()
	constraints := h.reasoner.Constraints()
	checks["reasoner"] = gin.H{
		"status":      "healthy",
		"constraints": len(constraints),
		"duration":    time.Since(start).String(),
	}
	c.JSON(http.StatusOK, response)
}

// LivenessCheck handles GET /live - Kubernetes liveness probe endpoint
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   "tempograph",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DetailedHealthCheck handles GET /health/detailed
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	start := time.Now()
	response := gin.H{
		"status":  "healthy",
		"service": "tempograph",
		"version": Version,
		"build_info": gin.H{
			"git_commit": GitCommit,
			"build_time": BuildTime,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"environment": gin.H{
			"go_version": GoVersion,
		},
		"checks": gin.H{},
	}
	checks := response["checks"].(gin.H)

	if h.reasoner != nil {
		checks["reasoner"] = gin.H{
			"status":          "healthy",
			"constraints":     len(h.reasoner.Constraints()),
			"inferences":      len(h.reasoner.Inferences()),
			"inconsistencies": len(h.reasoner.Inconsistencies()),
		}
	} else {
		checks["reasoner"] = gin.H{
			"status": "unhealthy",
			"error":  "reasoner not initialized",
		}
		response["status"] = "unhealthy"
	}

	response["metrics"] = gin.H{
		"response_time_ms": time.Since(start).Milliseconds(),
	}

	if response["status"] != "healthy" {
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
