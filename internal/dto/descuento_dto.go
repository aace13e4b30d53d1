package dto

import "github.com/shopspring/decimal"

// AgregarDescuentoRequest appends one link to the contract's discount chain.
// The approving admin is taken from the JWT claims.
type AgregarDescuentoRequest struct {
	Tipo           string          `json:"tipo"            validate:"required,oneof=cierre_anticipado oferta_especial"`
	MontoDescuento decimal.Decimal `json:"monto_descuento" validate:"required,gt=0"`
	Nota           *string         `json:"nota"            validate:"omitempty,max=500"`
}

type DescuentoResponse struct {
	ID             string          `json:"id"`
	ContratoID     string          `json:"contrato_id"`
	Tipo           string          `json:"tipo"`
	MontoDescuento decimal.Decimal `json:"monto_descuento"`
	MontoFinal     decimal.Decimal `json:"monto_final"`
	AprobadoPor    string          `json:"aprobado_por"`
	AprobadoEn     string          `json:"aprobado_en"`
	Nota           *string         `json:"nota,omitempty"`
}
