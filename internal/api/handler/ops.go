// Package handler provides HTTP handlers for the Wayline API.
package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/wayline/wayline/internal/api/models"
	"github.com/wayline/wayline/internal/api/response"
	"github.com/wayline/wayline/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider circuit health.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	overall := models.HealthStatusOK
	providers := make([]models.ProviderStatus, 0)
	if h.registry != nil {
		for _, health := range h.registry.GetAllHealth() {
			status := providerHealthStatus(health)
			if status == models.HealthStatusFail {
				overall = models.HealthStatusFail
			} else if status == models.HealthStatusDegraded && overall == models.HealthStatusOK {
				overall = models.HealthStatusDegraded
			}

			ps := models.ProviderStatus{
				Provider: health.Name,
				Status:   status,
			}
			if health.LastSuccessAt != nil {
				t := models.Timestamp(*health.LastSuccessAt)
				ps.LastSuccessAt = &t
			}
			if health.LastFailureAt != nil {
				t := models.Timestamp(*health.LastFailureAt)
				ps.LastFailureAt = &t
			}
			if health.LastError != "" {
				msg := health.LastError
				ps.Message = &msg
			}
			providers = append(providers, ps)
		}
	}

	status := models.SystemStatus{
		Status:    overall,
		Time:      now,
		Providers: providers,
	}
	response.JSON(w, r, http.StatusOK, status)
}

// providerHealthStatus maps a circuit breaker state to a health status.
func providerHealthStatus(h *resilience.ProviderHealth) models.HealthStatus {
	switch h.CircuitState {
	case gobreaker.StateOpen:
		return models.HealthStatusFail
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
