// internal/handler/discovery_handler.go
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-service/internal/discovery"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// DiscoveryHandler handles printer port discovery requests
type DiscoveryHandler struct {
	discoveryService *service.DiscoveryService
	logger           *utils.ServiceLogger
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discoveryService *service.DiscoveryService, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
		logger:           utils.NewServiceLogger(logger, "discovery-handler"),
	}
}

// RegisterRoutes registers discovery routes
func (h *DiscoveryHandler) RegisterRoutes(router *gin.RouterGroup) {
	d := router.Group("/discovery")
	{
		d.GET("/scan", h.ScanPorts)
		d.GET("/scanners", h.ListScanners)
	}
}

// ScanPorts scans for ports a printer may be attached to
// @Summary Scan for printer ports
// @Description Scan serial ports, USB devices and configured TCP targets for printers
// @Tags Discovery
// @Produce json
// @Param type query string false "Scan type" Enums(all, serial, usb, tcp) default(all)
// @Param timeout query string false "Scan timeout, capped by discovery.timeout" default(10s)
// @Success 200 {object} utils.APIResponse{data=object{ports_found=int,ports=[]discovery.DiscoveredPort}} "Port scan completed"
// @Failure 400 {object} utils.APIResponse "Invalid scan type or timeout"
// @Failure 500 {object} utils.APIResponse "Scan failed"
// @Router /discovery/scan [get]
func (h *DiscoveryHandler) ScanPorts(c *gin.Context) {
	req := &service.ScanRequest{ScanType: c.DefaultQuery("type", "all")}
	if raw := c.Query("timeout"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid timeout", err)
			return
		}
		req.Timeout = timeout
	}

	ports, err := h.discoveryService.Scan(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedScanType) || errors.Is(err, discovery.ErrUnknownScanner) {
			utils.ErrorResponse(c, http.StatusBadRequest, "Unsupported scan type", err)
			return
		}
		h.logger.Error("Failed to scan ports", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to scan ports", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Port scan completed", gin.H{
		"ports_found": len(ports),
		"ports":       ports,
	})
}

// ListScanners lists the scanner types usable on this host
// @Summary List scanners
// @Tags Discovery
// @Produce json
// @Success 200 {object} utils.APIResponse "Available scanners"
// @Router /discovery/scanners [get]
func (h *DiscoveryHandler) ListScanners(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Scanners retrieved successfully", gin.H{
		"scanners": h.discoveryService.AvailableScanners(),
	})
}
