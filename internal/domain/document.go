package domain

import "time"

// Document is the aggregate for uploaded files. OwnerID is set at creation and
// never changes; only the owner may mutate or delete the record. StorageKey is
// the opaque gateway-generated address of the binary payload.
type Document struct {
	ID          string
	Title       string
	Description string
	StorageKey  string
	ContentType string
	SizeBytes   int64
	OwnerID     string
	CategoryID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
