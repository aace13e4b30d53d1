package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearContratoRequest is the order-entry payload for POST /v1/contratos.
// The renta-only fields (precio_financiado, anticipo, meses_plazo,
// fecha_inicio) are validated in the service because their presence depends
// on categoria.
type CrearContratoRequest struct {
	ClienteID   *string         `json:"cliente_id"   validate:"omitempty,uuid"`
	EquipoID    string          `json:"equipo_id"    validate:"required,uuid"`
	Categoria   string          `json:"categoria"    validate:"required,oneof=renta contado"`
	PrecioTotal decimal.Decimal `json:"precio_total" validate:"required,gt=0"`

	// renta only
	PrecioFinanciado *decimal.Decimal `json:"precio_financiado"`
	Anticipo         *decimal.Decimal `json:"anticipo"`
	MesesPlazo       *int             `json:"meses_plazo"`
	FechaInicio      *string          `json:"fecha_inicio"` // YYYY-MM-DD
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CuotaResponse struct {
	Numero           int             `json:"numero"`
	FechaVencimiento string          `json:"fecha_vencimiento"`
	Monto            decimal.Decimal `json:"monto"`
	MontoPagado      decimal.Decimal `json:"monto_pagado"`
	Categoria        string          `json:"categoria"`
	Estado           string          `json:"estado"`
	PagadaEn         *string         `json:"pagada_en,omitempty"`
	EsPagoFinal      bool            `json:"es_pago_final"`
	Nota             *string         `json:"nota,omitempty"`
}

type ContratoResponse struct {
	ID               string          `json:"id"`
	ClienteID        *string         `json:"cliente_id,omitempty"`
	EquipoID         string          `json:"equipo_id"`
	Categoria        string          `json:"categoria"`
	PrecioTotal      decimal.Decimal `json:"precio_total"`
	PrecioFinanciado decimal.Decimal `json:"precio_financiado"`
	Anticipo         decimal.Decimal `json:"anticipo"`
	CostoRenta       decimal.Decimal `json:"costo_renta"`
	MesesPlazo       int             `json:"meses_plazo"`
	CuotaMensual     decimal.Decimal `json:"cuota_mensual"`
	FechaInicio      string          `json:"fecha_inicio"`
	FechaFin         *string         `json:"fecha_fin,omitempty"`
	Estado           string          `json:"estado"`
	CreatedAt        string          `json:"created_at"`
}

// SaldoResponse carries the three aggregator outputs of a contract read.
type SaldoResponse struct {
	MontoRestante  decimal.Decimal `json:"monto_restante"`
	MesesVencidos  int             `json:"meses_vencidos"`
	TotalMesActual decimal.Decimal `json:"total_mes_actual"`
}

// DetalleContratoResponse is the full read: contract, children and derived
// financial state, all computed at request time.
type DetalleContratoResponse struct {
	Contrato   ContratoResponse    `json:"contrato"`
	Cuotas     []CuotaResponse     `json:"cuotas"`
	Pagos      []PagoResponse      `json:"pagos"`
	Descuentos []DescuentoResponse `json:"descuentos"`
	Saldo      SaldoResponse       `json:"saldo"`
}
