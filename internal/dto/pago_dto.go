package dto

import "github.com/shopspring/decimal"

// RegistrarPagoRequest submits a customer remittance. No balance validation
// happens here — overpaying or paying ahead is allowed; verification decides.
type RegistrarPagoRequest struct {
	ContratoID string          `json:"contrato_id" validate:"required"`
	FechaPago  string          `json:"fecha_pago"  validate:"required"` // YYYY-MM-DD
	Monto      decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Metodo     string          `json:"metodo"      validate:"required,oneof=efectivo transferencia online"`
	// ComprobanteRef is the filename returned by the file-storage collaborator.
	ComprobanteRef *string `json:"comprobante_ref" validate:"omitempty,max=255"`
}

// VerificarPagoRequest decides a pending payment exactly once.
type VerificarPagoRequest struct {
	Decision string `json:"decision" validate:"required,oneof=aprobado rechazado"`
}

type PagoResponse struct {
	ID                 string          `json:"id"`
	ContratoID         string          `json:"contrato_id"`
	FechaPago          string          `json:"fecha_pago"`
	Monto              decimal.Decimal `json:"monto"`
	Metodo             string          `json:"metodo"`
	ComprobanteRef     *string         `json:"comprobante_ref,omitempty"`
	EstadoVerificacion string          `json:"estado_verificacion"`
	VerificadoPor      *string         `json:"verificado_por,omitempty"`
	VerificadoEn       *string         `json:"verificado_en,omitempty"`
	CreatedAt          string          `json:"created_at"`
}

// VerificarPagoResponse returns the decided payment plus the contract balance
// recomputed after allocation.
type VerificarPagoResponse struct {
	Pago  PagoResponse  `json:"pago"`
	Saldo SaldoResponse `json:"saldo"`
}
