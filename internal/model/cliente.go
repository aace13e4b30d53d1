package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is the customer record the tracking views display. Account
// lifecycle, addresses and documents live in the CRM collaborator; only the
// fields the engine needs are mirrored here.
type Cliente struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre   string    `gorm:"index;not null"`
	Telefono *string
	Email    *string
	Activo   bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
