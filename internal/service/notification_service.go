package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk/internal/config"
	"github.com/opsdesk/helpdesk/internal/events"
	"github.com/opsdesk/helpdesk/internal/persistence"
)

// NotificationService fans ticket events out to the log, the Redis event
// channel, and an optional webhook. Fan-out failures never reach the
// request path.
type NotificationService struct {
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		redis:      redis,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketTriageChanged, n.handleEvent)
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.Int64("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))
	n.publishToChannel(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) publishToChannel(ctx context.Context, event events.Event) {
	if n.redis == nil || strings.TrimSpace(n.cfg.EventChannel) == "" {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("event marshal failed", zap.Error(err))
		return
	}
	if err := n.redis.Publish(ctx, n.cfg.EventChannel, payload); err != nil {
		n.logger.Warn("event publish failed",
			zap.String("channel", n.cfg.EventChannel),
			zap.Error(err))
	}
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
