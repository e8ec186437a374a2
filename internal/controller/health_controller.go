package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"edge-gateway/internal/device"
	"edge-gateway/internal/middleware"
	"edge-gateway/internal/model"
	"edge-gateway/pkg/response"
)

// HealthResponse summarizes service and device health.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Service   string         `json:"service"`
	Version   string         `json:"version"`
	Devices   map[string]int `json:"devices"`
}

// HealthController reports liveness plus the device catalog's view of the
// world. It reads statuses as last written by the health checker; it never
// probes inline.
type HealthController struct {
	registry *device.Registry
	checker  *device.HealthChecker
	version  string
}

// NewHealthController creates a health controller.
func NewHealthController(registry *device.Registry, checker *device.HealthChecker, version string) *HealthController {
	return &HealthController{
		registry: registry,
		checker:  checker,
		version:  version,
	}
}

// Health handles GET /health.
func (hc *HealthController) Health(c *gin.Context) {
	counts := map[string]int{
		string(model.DeviceStatusUnknown):  0,
		string(model.DeviceStatusOnline):   0,
		string(model.DeviceStatusOffline):  0,
		string(model.DeviceStatusDegraded): 0,
	}
	for _, dev := range hc.registry.All() {
		counts[string(dev.Status())]++
	}

	status := "healthy"
	if counts[string(model.DeviceStatusOffline)] > 0 {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Service:   "edge-gateway",
		Version:   hc.version,
		Devices:   counts,
	})
}

// DeviceHealth handles GET /api/v1/health/devices: an on-demand probe of
// every registered device.
func (hc *HealthController) DeviceHealth(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	results := hc.checker.CheckAll(c.Request.Context())
	c.JSON(http.StatusOK, response.Success(results, correlationID))
}
