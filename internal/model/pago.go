package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MetodoPago is how the customer remitted the money.
type MetodoPago string

const (
	MetodoEfectivo      MetodoPago = "efectivo"
	MetodoTransferencia MetodoPago = "transferencia"
	MetodoOnline        MetodoPago = "online"
)

// EstadoVerificacion is the one-way verification state of a submitted payment.
// Only pendiente → aprobado and pendiente → rechazado are legal; a verified
// payment is immutable.
type EstadoVerificacion string

const (
	VerificacionPendiente EstadoVerificacion = "pendiente"
	VerificacionAprobada  EstadoVerificacion = "aprobado"
	VerificacionRechazada EstadoVerificacion = "rechazado"
)

// Pago is a customer remittance against a contract. It only counts toward the
// balance once an administrator approves it. Payments are never deleted.
type Pago struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContratoID string    `gorm:"size:16;index;not null"`

	FechaPago time.Time       `gorm:"type:date;index;not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Metodo    MetodoPago      `gorm:"size:20;not null"`
	// ComprobanteRef is the opaque filename handed back by the file-storage
	// collaborator for the transfer slip; nil for cash.
	ComprobanteRef *string

	EstadoVerificacion EstadoVerificacion `gorm:"size:16;not null;default:'pendiente';index"`
	VerificadoPor      *uuid.UUID         `gorm:"type:uuid"`
	VerificadoEn       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Aprobado reports whether the payment counts toward the contract balance.
func (p *Pago) Aprobado() bool { return p.EstadoVerificacion == VerificacionAprobada }
