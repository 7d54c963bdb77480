package dto

import "time"

// DocumentUpdateRequest carries mutable metadata; omitted fields stay as-is.
type DocumentUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
}

// DocumentResponse is the public projection of a document record.
type DocumentResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	OwnerID     string    `json:"owner_id"`
	CategoryID  *string   `json:"category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
