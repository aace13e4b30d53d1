package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoriaCuota separates the signing down payment from monthly rent cuotas.
type CategoriaCuota string

const (
	CuotaAnticipo CategoriaCuota = "anticipo"
	CuotaRenta    CategoriaCuota = "renta"
)

// EstadoCuota tracks how much of a scheduled obligation has been covered.
type EstadoCuota string

const (
	CuotaPendiente EstadoCuota = "pendiente"
	CuotaParcial   EstadoCuota = "parcial"
	CuotaPagada    EstadoCuota = "pagada"
	// CuotaOmitida: the obligation was waived because a discount closed the
	// contract before this cuota was reached.
	CuotaOmitida EstadoCuota = "omitida"
	// CuotaPagoFinal marks the cuota that settled the contract early.
	CuotaPagoFinal EstadoCuota = "pago_final"
)

// Cuota is one scheduled obligation within a contract: the anticipo (due on
// FechaInicio) or one of the N monthly rent cuotas. Numero is 1-based and
// contiguous; cuotas are created atomically with the contract and mutated only
// by payment allocation.
type Cuota struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContratoID string    `gorm:"size:16;index;not null"`
	Numero     int       `gorm:"not null"`

	FechaVencimiento time.Time       `gorm:"type:date;index;not null"`
	Monto            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoPagado      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Categoria        CategoriaCuota  `gorm:"size:16;not null"`
	Estado           EstadoCuota     `gorm:"size:16;not null;default:'pendiente'"`

	PagadaEn    *time.Time
	EsPagoFinal bool `gorm:"not null;default:false"`
	Nota        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pendiente reports whether the cuota still has an open balance.
func (q *Cuota) Pendiente() bool {
	return q.Estado == CuotaPendiente || q.Estado == CuotaParcial
}
