package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session holds the bearer token issued by the remote verification backend
// together with the user-identity blob it returned at login. The gateway
// never inspects the blob; it is stored verbatim and handed back to clients.
type Session struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email       string         `gorm:"size:255;not null;index" json:"email"`
	RemoteToken string         `gorm:"type:text;not null" json:"-"`
	User        datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"user"`
	ExpiresAt   time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
