package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/livechat-service/internal/config"
	"github.com/spec-kit/livechat-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventConversationDispatched, n.handleConversationDispatched)
	n.dispatcher.Subscribe(events.EventOfficeHoursChanged, n.handleOfficeHoursChanged)
	n.dispatcher.Subscribe(events.EventAgentAvailabilityChanged, n.handleAvailabilityChanged)
	n.dispatcher.Subscribe(events.EventVisitorRegistered, n.handleVisitorRegistered)
}

func (n *NotificationService) handleConversationDispatched(ctx context.Context, event events.Event) error {
	n.logger.Info("ConversationDispatched", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleOfficeHoursChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("OfficeHoursChanged", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAvailabilityChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AgentAvailabilityChanged", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleVisitorRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("VisitorRegistered", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
