package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categoria distinguishes rent-to-own contracts from outright purchases.
type Categoria string

const (
	CategoriaRenta   Categoria = "renta"   // down payment + monthly installments
	CategoriaContado Categoria = "contado" // paid in full at signing, no schedule
)

// EstadoContrato is the contract lifecycle state. Pagado is terminal.
type EstadoContrato string

const (
	ContratoActivo EstadoContrato = "activo"
	ContratoPagado EstadoContrato = "pagado"
)

// Contrato is a rent-to-own or cash sale of one Equipo to one Cliente.
// ID is the business-assigned identifier (CT00001…) taken from a Postgres
// sequence at creation. Estado is the only mutable column after creation;
// contracts are never deleted.
type Contrato struct {
	ID        string     `gorm:"primaryKey;size:16"`
	ClienteID *uuid.UUID `gorm:"type:uuid;index"` // nil for contado sales
	EquipoID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	Categoria Categoria  `gorm:"size:16;not null"`

	PrecioTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioFinanciado decimal.Decimal `gorm:"type:decimal(12,2);not null"` // precio con interés
	Anticipo         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// CostoRenta = PrecioFinanciado - Anticipo; the amount spread over cuotas.
	CostoRenta   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MesesPlazo   int             `gorm:"not null"`
	CuotaMensual decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	FechaInicio time.Time  `gorm:"type:date"`
	FechaFin    *time.Time `gorm:"type:date"`

	Estado    EstadoContrato `gorm:"size:16;not null;default:'activo'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Cliente    *Cliente    `gorm:"foreignKey:ClienteID"`
	Equipo     *Equipo     `gorm:"foreignKey:EquipoID"`
	Cuotas     []Cuota     `gorm:"foreignKey:ContratoID"`
	Pagos      []Pago      `gorm:"foreignKey:ContratoID"`
	Descuentos []Descuento `gorm:"foreignKey:ContratoID"`
}

// EsRenta reports whether the contract carries an installment schedule.
func (c *Contrato) EsRenta() bool { return c.Categoria == CategoriaRenta }
