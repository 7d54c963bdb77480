package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/document-service/internal/events"
)

// AuditService writes an audit trail entry for each document event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes the audit trail to all document events.
func (s *AuditService) RegisterHandlers() {
	for _, eventType := range []events.EventType{
		events.EventDocumentCreated,
		events.EventDocumentUpdated,
		events.EventDocumentDeleted,
	} {
		s.dispatcher.Subscribe(eventType, s.record)
	}
}

func (s *AuditService) record(_ context.Context, event events.Event) error {
	s.logger.Info("audit",
		zap.String("event", string(event.Type)),
		zap.String("document_id", event.DocumentID),
		zap.String("actor_id", event.ActorID),
		zap.Time("at", event.Timestamp),
	)
	return nil
}
