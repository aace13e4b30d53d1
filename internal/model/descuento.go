package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoDescuento classifies why the reduction was granted.
type TipoDescuento string

const (
	DescuentoCierreAnticipado TipoDescuento = "cierre_anticipado"
	DescuentoOfertaEspecial   TipoDescuento = "oferta_especial"
)

// Descuento is one link of the append-only discount chain of a contract.
// MontoFinal = previous link's MontoFinal - MontoDescuento (base: CostoRenta
// when the chain is empty). Discounts are never edited or removed; corrections
// are recorded as a new link with an explanatory Nota.
type Descuento struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContratoID string    `gorm:"size:16;index;not null"`

	Tipo           TipoDescuento   `gorm:"size:24;not null"`
	MontoDescuento decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoFinal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	AprobadoPor uuid.UUID `gorm:"type:uuid;not null"`
	AprobadoEn  time.Time `gorm:"not null;index"`
	Nota        *string

	CreatedAt time.Time
}
