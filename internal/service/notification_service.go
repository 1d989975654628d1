package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/initiative-bkd/petition-service/internal/events"
)

// EventSink receives audit events outside the process, e.g. Kafka.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

// NotificationService writes the audit trail for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	sink       EventSink
}

// NewNotificationService creates the service. sink may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, sink EventSink) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     loggerOrNop(logger),
		sink:       sink,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSignatureSubmitted, n.handleSignatureSubmitted)
	n.dispatcher.Subscribe(events.EventSignatureStatusChanged, n.handleModeration)
	n.dispatcher.Subscribe(events.EventSignatureDeleted, n.handleModeration)
	n.dispatcher.Subscribe(events.EventSignaturesPurged, n.handleModeration)
	n.dispatcher.Subscribe(events.EventAdminAdded, n.handleAllowlistChanged)
	n.dispatcher.Subscribe(events.EventAdminRemoved, n.handleAllowlistChanged)
}

func (n *NotificationService) handleSignatureSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("SignatureSubmitted", zap.String("signature_id", event.SubjectID), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleModeration(ctx context.Context, event events.Event) error {
	n.logger.Info("Moderation",
		zap.String("event_type", string(event.Type)),
		zap.String("signature_id", event.SubjectID),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleAllowlistChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AllowlistChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("admin_id", event.SubjectID),
		zap.String("actor", event.Actor))
	return n.forward(ctx, event)
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	if n.sink == nil {
		return nil
	}
	return n.sink.Publish(ctx, event)
}
