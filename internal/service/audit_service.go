package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/sr-service/internal/events"
)

// AuditService writes one structured log line per ticket event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketCreated, a.handleTicketCreated)
	a.dispatcher.Subscribe(events.EventTicketMirrored, a.handleTicketMirrored)
	a.dispatcher.Subscribe(events.EventTicketMirrorFailed, a.handleTicketMirrorFailed)
	a.dispatcher.Subscribe(events.EventTicketStatusChanged, a.handleTicketStatusChanged)
}

func (a *AuditService) handleTicketCreated(_ context.Context, event events.Event) error {
	a.logger.Info("TicketCreated", a.fields(event)...)
	return nil
}

func (a *AuditService) handleTicketMirrored(_ context.Context, event events.Event) error {
	a.logger.Info("TicketMirrored", a.fields(event)...)
	return nil
}

func (a *AuditService) handleTicketMirrorFailed(_ context.Context, event events.Event) error {
	a.logger.Warn("TicketMirrorFailed", a.fields(event)...)
	return nil
}

func (a *AuditService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	a.logger.Info("TicketStatusChanged", a.fields(event)...)
	return nil
}

func (a *AuditService) fields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("id", event.TicketID),
		zap.String("ticket_id", event.TicketCode),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload),
	}
}
