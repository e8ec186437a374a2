package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"edge-gateway/internal/device"
	"edge-gateway/internal/middleware"
	"edge-gateway/internal/model"
	"edge-gateway/internal/query"
	"edge-gateway/internal/security"
	"edge-gateway/pkg/response"
)

// QueryController exposes the federated query engine over HTTP.
type QueryController struct {
	engine    *query.Engine
	registry  *device.Registry
	guard     *security.SQLGuard
	metrics   *middleware.Metrics
	validator *validator.Validate
}

// NewQueryController creates a query controller.
func NewQueryController(engine *query.Engine, registry *device.Registry, guard *security.SQLGuard, metrics *middleware.Metrics) *QueryController {
	return &QueryController{
		engine:    engine,
		registry:  registry,
		guard:     guard,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// Execute handles POST /api/v1/query.
func (qc *QueryController) Execute(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(
			"INVALID_REQUEST", "invalid request body: "+err.Error(), "", correlationID))
		return
	}
	req.ApplyDefaults()

	if err := qc.validator.Struct(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.ValidationError(err.Error(), correlationID))
		return
	}

	// The engine's pushdown pass is heuristic text processing; the
	// read-only contract is enforced here with a real parser.
	if err := qc.guard.Validate(req.SQL); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(
			"QUERY_REJECTED", err.Error(), "", correlationID))
		return
	}

	deviceType := model.DeviceType("")
	if dev := qc.registry.Find(req.TargetDeviceID); dev != nil {
		deviceType = dev.Type()
	}

	start := time.Now()
	result, err := qc.engine.Execute(c.Request.Context(), &req)
	if err != nil {
		if qc.metrics != nil {
			qc.metrics.ObserveQuery(deviceType, outcomeOf(err), time.Since(start), 0)
		}
		status, code := httpStatusFor(err)
		c.JSON(status, response.Error(code, err.Error(), "", correlationID))
		return
	}

	if qc.metrics != nil {
		qc.metrics.ObserveQuery(deviceType, "success", time.Since(start), result.RowCount())
	}
	c.JSON(http.StatusOK, response.Success(result, correlationID))
}

func outcomeOf(err error) string {
	if reason := query.ReasonOf(err); reason != "" {
		return string(reason)
	}
	return "error"
}

func httpStatusFor(err error) (int, string) {
	var qe *query.QueryError
	if !errors.As(err, &qe) {
		return http.StatusInternalServerError, response.CodeInternalError
	}
	switch qe.Reason {
	case query.ReasonDeviceNotFound:
		return http.StatusNotFound, string(qe.Reason)
	case query.ReasonDeviceOffline:
		return http.StatusServiceUnavailable, string(qe.Reason)
	case query.ReasonUnsupportedDeviceType:
		return http.StatusUnprocessableEntity, string(qe.Reason)
	case query.ReasonExecutionFailure:
		return http.StatusBadGateway, string(qe.Reason)
	default:
		return http.StatusInternalServerError, response.CodeInternalError
	}
}
