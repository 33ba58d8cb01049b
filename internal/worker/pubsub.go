// Package worker provides background job processing for Wayline.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/wayline/wayline/internal/api/models"
	"github.com/wayline/wayline/internal/notify"
	"github.com/wayline/wayline/internal/route"
)

// JobTypeNotification asks the worker to push a route summary.
const JobTypeNotification = "route_notification"

// PubSubHandler consumes notification jobs from a Pub/Sub subscription.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	notifier         *notify.Service
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Notifier         *notify.Service
	Logger           zerolog.Logger
}

// NotificationMessage is a queued push job. Message overrides the default
// summary text when set.
type NotificationMessage struct {
	JobType     string `json:"job_type"`
	RouteID     string `json:"route_id"`
	RecipientID string `json:"recipient_id"`
	Message     string `json:"message,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		notifier:         cfg.Notifier,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var job NotificationMessage
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	if job.JobType != JobTypeNotification {
		logger.Warn().Str("job_type", job.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	err := h.handleNotification(ctx, job)
	if err != nil {
		if isPermanent(err) {
			// Retrying won't make a missing route or recipient appear.
			logger.Error().Err(err).Msg("dropping undeliverable job")
			msg.Ack()
			return
		}
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("route_id", job.RouteID).
		Str("recipient_id", job.RecipientID).
		Dur("duration", duration).
		Msg("notification job completed")

	msg.Ack()
}

func (h *PubSubHandler) handleNotification(ctx context.Context, job NotificationMessage) error {
	_, err := h.notifier.Send(ctx, &models.NotificationRequest{
		RouteID:     job.RouteID,
		RecipientID: job.RecipientID,
		Message:     job.Message,
	})
	return err
}

// isPermanent reports whether a job can never succeed on redelivery.
func isPermanent(err error) bool {
	var validationErr *route.ValidationError
	return errors.Is(err, route.ErrRouteNotFound) ||
		errors.Is(err, notify.ErrRecipientNotFound) ||
		errors.As(err, &validationErr)
}
