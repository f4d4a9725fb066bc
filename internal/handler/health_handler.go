// internal/handler/health_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	commandService *service.CommandService
	config         *config.Config
	logger         *utils.ServiceLogger
	startedAt      time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(commandService *service.CommandService, config *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		commandService: commandService,
		config:         config,
		logger:         utils.NewServiceLogger(logger, "health-handler"),
		startedAt:      time.Now(),
	}
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadinessCheck)
	router.GET("/live", h.LivenessCheck)
}

// HealthCheck performs general health check
// @Summary Health check
// @Description Get overall service health including the printer connection
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Failure 503 {object} HealthResponse "Service is unhealthy"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	health := &HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   h.config.App.Name,
		Version:   h.config.App.Version,
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Checks:    make(map[string]CheckResult),
	}

	health.Checks["encoder"] = CheckResult{
		Status: "healthy",
		Data:   map[string]interface{}{"commands": len(h.commandService.Commands())},
	}

	switch {
	case !h.commandService.HasPrinter():
		health.Checks["printer"] = CheckResult{
			Status:  "healthy",
			Message: "No printer configured, encoding only",
		}
	case h.commandService.Ready():
		stats := h.commandService.PrinterStats()
		health.Checks["printer"] = CheckResult{
			Status:  "healthy",
			Message: "Printer connection open",
			Data: map[string]interface{}{
				"connection":    h.config.Printer.Connection,
				"bytes_written": stats.BytesWritten,
				"bytes_read":    stats.BytesRead,
				"errors":        stats.ErrorCount,
			},
		}
	default:
		health.Status = "unhealthy"
		health.Checks["printer"] = CheckResult{
			Status:  "unhealthy",
			Message: "Printer connection closed",
			Data:    map[string]interface{}{"connection": h.config.Printer.Connection},
		}
	}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		h.logger.Warn("Health check failed", zap.String("connection", h.config.Printer.Connection))
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, health)
}

// ReadinessCheck for Kubernetes readiness checks
// @Summary Readiness check
// @Description Ready when the printer connection is open or no printer is configured
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is ready"
// @Failure 503 {object} object{status=string,reason=string} "Service is not ready"
// @Router /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if !h.commandService.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "printer not connected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

// LivenessCheck for Kubernetes liveness checks
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is alive"
// @Router /live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult represents individual check result
type CheckResult struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
