package dto

import "time"

// CategoryRequest payload for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse is the public projection of a category.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
