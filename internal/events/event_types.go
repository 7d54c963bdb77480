package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDocumentCreated EventType = "document_created"
	EventDocumentUpdated EventType = "document_updated"
	EventDocumentDeleted EventType = "document_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	DocumentID string      `json:"document_id"`
	ActorID    string      `json:"actor_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// DocumentCreatedPayload payload.
type DocumentCreatedPayload struct {
	Title       string `json:"title"`
	StorageKey  string `json:"storage_key"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// DocumentUpdatedPayload payload.
type DocumentUpdatedPayload struct {
	Title string `json:"title"`
}

// DocumentDeletedPayload payload.
type DocumentDeletedPayload struct {
	StorageKey string `json:"storage_key"`
}
