package domain

import "time"

// Category groups documents under a unique name.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
