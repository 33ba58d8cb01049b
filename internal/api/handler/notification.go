package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wayline/wayline/internal/api/models"
	"github.com/wayline/wayline/internal/api/response"
	"github.com/wayline/wayline/internal/notify"
	"github.com/wayline/wayline/internal/route"
)

// NotificationHandler handles notification and webhook endpoints.
type NotificationHandler struct {
	notifier *notify.Service
	logger   zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifier *notify.Service, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// SendNotification handles POST /v1/notifications - push a route summary.
func (h *NotificationHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var input models.NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.notifier.Send(r.Context(), &input)
	if err != nil {
		var validationErr *route.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.BadRequest(w, r, "validation failed", validationErr.Errors)
		case errors.Is(err, route.ErrRouteNotFound):
			response.NotFound(w, r, "route not found")
		case errors.Is(err, notify.ErrRecipientNotFound):
			response.NotFound(w, r, "recipient not found")
		case errors.Is(err, notify.ErrPushFailed):
			response.InternalError(w, r, "notification could not be delivered")
		default:
			h.logger.Error().Err(err).Msg("notification failed")
			response.InternalError(w, r, "an unexpected error occurred")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// ListRecipients handles GET /v1/recipients - configured push recipients.
func (h *NotificationHandler) ListRecipients(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.notifier.ListRecipients(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("listing recipients failed")
		response.InternalError(w, r, "an unexpected error occurred")
		return
	}
	response.JSON(w, r, http.StatusOK, recipients)
}

// Webhook handles POST /v1/line-webhook - LINE platform event delivery.
// Events are acknowledged without processing; the bot only pushes.
func (h *NotificationHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug().Msg("webhook event acknowledged")
	response.JSON(w, r, http.StatusOK, models.WebhookStatus{
		Status:  "ok",
		Message: "event received",
	})
}

// WebhookStatus handles GET /v1/line-webhook - webhook reachability check.
func (h *NotificationHandler) WebhookStatus(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.WebhookStatus{
		Status:  "active",
		Message: "webhook endpoint is reachable",
	})
}
