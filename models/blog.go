package models

import (
	"time"

	"github.com/google/uuid"
)

// Blog represents a tenant in the multi-tenant CMS: an isolated content
// space belonging to one organization. The UUID is the opaque identifier
// persisted as the active tenant selection ("activeBlog").
type Blog struct {
	ID        int64     `json:"id"`
	UUID      uuid.UUID `json:"uuid"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain,omitempty"`
	AdminID   int64     `json:"adminId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// TableName returns the table name for the Blog model
func (Blog) TableName() string {
	return "blogs"
}
