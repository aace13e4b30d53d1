package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Equipo is a handset in the catalog.
type Equipo struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Marca  string    `gorm:"not null"`
	Modelo string    `gorm:"index;not null"`
	// IMEI identifies the physical unit; unique across the catalog.
	IMEI        string          `gorm:"uniqueIndex;size:20;not null"`
	PrecioLista decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Vendido     bool            `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NombreCompleto is the display name used in tracking rows ("Samsung A54").
func (e *Equipo) NombreCompleto() string { return e.Marca + " " + e.Modelo }
