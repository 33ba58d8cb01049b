package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/wayline/wayline/internal/api/models"
	"github.com/wayline/wayline/internal/route"
)

// Pusher delivers a text message to a LINE user.
type Pusher interface {
	Push(ctx context.Context, to, message string) error
}

// ServiceConfig holds the notification service's dependencies.
type ServiceConfig struct {
	Routes     route.Repository
	Recipients RecipientRepository
	Pusher     Pusher
	Logger     zerolog.Logger
}

// Service pushes route summaries to recipients and tracks delivery on the
// route.
type Service struct {
	routes     route.Repository
	recipients RecipientRepository
	pusher     Pusher
	logger     zerolog.Logger
}

// NewService creates a new notification service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		routes:     cfg.Routes,
		recipients: cfg.Recipients,
		pusher:     cfg.Pusher,
		logger:     cfg.Logger,
	}
}

// Send pushes a route summary to a recipient. The route's notification flag
// flips only after the push succeeds; a failed push leaves it untouched.
func (s *Service) Send(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	if errs := validateSendInput(req); len(errs) > 0 {
		return nil, &route.ValidationError{Errors: errs}
	}

	r, err := s.routes.GetRoute(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.recipients.Get(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}

	message := req.Message
	if message == "" {
		stops, err := s.routes.StopsByRouteID(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		message = DefaultMessage(r, stops)
	}

	if err := s.pusher.Push(ctx, recipient.LineUserID, message); err != nil {
		s.logger.Error().
			Err(err).
			Str("route_id", r.ID).
			Str("recipient_id", recipient.ID).
			Msg("notification push failed")
		return nil, fmt.Errorf("%w: %v", ErrPushFailed, err)
	}

	if err := s.routes.SetNotificationSent(ctx, r.ID, true); err != nil {
		// The push went out; report success but log the bookkeeping failure.
		s.logger.Error().
			Err(err).
			Str("route_id", r.ID).
			Msg("failed to record notification status")
	}

	s.logger.Info().
		Str("route_id", r.ID).
		Str("recipient_id", recipient.ID).
		Msg("notification sent")

	return &models.NotificationResult{Success: true}, nil
}

// ListRecipients returns all configured recipients.
func (s *Service) ListRecipients(ctx context.Context) (*models.RecipientList, error) {
	recipients, err := s.recipients.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.Recipient, 0, len(recipients))
	for _, r := range recipients {
		items = append(items, models.Recipient{
			ID:         r.ID,
			Name:       r.Name,
			LineUserID: r.LineUserID,
		})
	}

	return &models.RecipientList{Items: items}, nil
}

// DefaultMessage renders the standard route summary text. Start and end fall
// back to generic labels when the route has no tagged stops.
func DefaultMessage(r *route.Route, stops []route.Stop) string {
	start := "起點"
	end := "終點"
	if len(stops) > 0 {
		if stops[0].Address != "" {
			start = stops[0].Address
		}
		if last := stops[len(stops)-1].Address; last != "" {
			end = last
		}
	}

	return "🚗 路徑規劃結果\n\n" +
		"從: " + start + "\n" +
		"到: " + end + "\n" +
		"總距離: " + r.Distance + "\n" +
		"預估時間: " + r.Duration + "\n" +
		"地址數量: " + strconv.Itoa(len(stops)) + " 個地點\n\n" +
		"Google Maps 路線連結:\n" + r.MapsURL
}

// validateSendInput validates a notification request.
func validateSendInput(req *models.NotificationRequest) []models.FieldError {
	var errs []models.FieldError
	if req.RouteID == "" {
		errs = append(errs, models.FieldError{Field: "routeId", Message: "is required"})
	}
	if req.RecipientID == "" {
		errs = append(errs, models.FieldError{Field: "recipientId", Message: "is required"})
	}
	return errs
}
