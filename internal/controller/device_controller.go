package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"edge-gateway/internal/device"
	"edge-gateway/internal/middleware"
	"edge-gateway/internal/model"
	"edge-gateway/pkg/response"
)

// RegisterDeviceRequest is the registration payload. ID is optional; a
// fresh one is minted when absent.
type RegisterDeviceRequest struct {
	ID         string            `json:"id" validate:"omitempty,uuid"`
	Name       string            `json:"name" validate:"required"`
	Type       string            `json:"type" validate:"required"`
	Connection string            `json:"connection" validate:"required"`
	Properties []PropertyPayload `json:"properties" validate:"dive"`
}

// PropertyPayload is one entry of a device's ordered property bag.
type PropertyPayload struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// DeviceView is the JSON shape of a registered device. Credentials in the
// property bag are not echoed back.
type DeviceView struct {
	ID         uuid.UUID          `json:"id"`
	Name       string             `json:"name"`
	Type       model.DeviceType   `json:"type"`
	Connection string             `json:"connection"`
	Status     model.DeviceStatus `json:"status"`
}

func deviceView(d *model.Device) DeviceView {
	return DeviceView{
		ID:         d.ID(),
		Name:       d.Name(),
		Type:       d.Type(),
		Connection: d.ConnectionString(),
		Status:     d.Status(),
	}
}

// DeviceController manages the device catalog over HTTP.
type DeviceController struct {
	registry  *device.Registry
	validator *validator.Validate
}

// NewDeviceController creates a device controller.
func NewDeviceController(registry *device.Registry) *DeviceController {
	return &DeviceController{
		registry:  registry,
		validator: validator.New(),
	}
}

// Register handles POST /api/v1/devices.
func (dc *DeviceController) Register(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(
			"INVALID_REQUEST", "invalid request body: "+err.Error(), "", correlationID))
		return
	}
	if err := dc.validator.Struct(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.ValidationError(err.Error(), correlationID))
		return
	}
	if !model.IsValidDeviceType(req.Type) {
		c.JSON(http.StatusUnprocessableEntity, response.ValidationError(
			"unknown device type: "+req.Type, correlationID))
		return
	}

	properties := make([]model.DeviceProperty, 0, len(req.Properties))
	for _, p := range req.Properties {
		properties = append(properties, model.DeviceProperty{Key: p.Key, Value: p.Value})
	}

	var (
		dev *model.Device
		err error
	)
	if req.ID != "" {
		id, parseErr := uuid.Parse(req.ID)
		if parseErr != nil {
			c.JSON(http.StatusUnprocessableEntity, response.ValidationError(
				"invalid device id: "+parseErr.Error(), correlationID))
			return
		}
		dev, err = model.NewDeviceWithID(id, req.Name, model.DeviceType(req.Type), req.Connection, properties...)
	} else {
		dev, err = model.NewDevice(req.Name, model.DeviceType(req.Type), req.Connection, properties...)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.ValidationError(err.Error(), correlationID))
		return
	}

	if err := dc.registry.Register(dev); err != nil {
		if errors.Is(err, device.ErrDuplicateDevice) {
			c.JSON(http.StatusConflict, response.Conflict(err.Error(), correlationID))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(correlationID))
		return
	}

	c.JSON(http.StatusCreated, response.Success(deviceView(dev), correlationID))
}

// List handles GET /api/v1/devices with an optional ?type= filter.
func (dc *DeviceController) List(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	var devices []*model.Device
	if typeFilter := c.Query("type"); typeFilter != "" {
		if !model.IsValidDeviceType(typeFilter) {
			c.JSON(http.StatusUnprocessableEntity, response.ValidationError(
				"unknown device type: "+typeFilter, correlationID))
			return
		}
		devices = dc.registry.FindByType(model.DeviceType(typeFilter))
	} else {
		devices = dc.registry.All()
	}

	views := make([]DeviceView, 0, len(devices))
	for _, d := range devices {
		views = append(views, deviceView(d))
	}
	c.JSON(http.StatusOK, response.Success(views, correlationID))
}

// Get handles GET /api/v1/devices/:id.
func (dc *DeviceController) Get(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ValidationError("invalid device id", correlationID))
		return
	}

	dev := dc.registry.Find(id)
	if dev == nil {
		c.JSON(http.StatusNotFound, response.NotFound("device not found", correlationID))
		return
	}
	c.JSON(http.StatusOK, response.Success(deviceView(dev), correlationID))
}

// Deregister handles DELETE /api/v1/devices/:id.
func (dc *DeviceController) Deregister(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ValidationError("invalid device id", correlationID))
		return
	}

	if !dc.registry.Deregister(id) {
		c.JSON(http.StatusNotFound, response.NotFound("device not found", correlationID))
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage("device deregistered", correlationID))
}

// UpdateStatusRequest is the payload for a manual status override.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unknown online offline degraded"`
}

// UpdateStatus handles PUT /api/v1/devices/:id/status. Normally the health
// checker owns status; this exists for operational overrides.
func (dc *DeviceController) UpdateStatus(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ValidationError("invalid device id", correlationID))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(
			"INVALID_REQUEST", "invalid request body: "+err.Error(), "", correlationID))
		return
	}
	if err := dc.validator.Struct(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.ValidationError(err.Error(), correlationID))
		return
	}

	dev := dc.registry.Find(id)
	if dev == nil {
		c.JSON(http.StatusNotFound, response.NotFound("device not found", correlationID))
		return
	}

	dev.SetStatus(model.DeviceStatus(req.Status))
	c.JSON(http.StatusOK, response.Success(deviceView(dev), correlationID))
}
