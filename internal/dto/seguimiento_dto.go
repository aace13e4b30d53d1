package dto

import "github.com/shopspring/decimal"

// SeguimientoFilter is bound from the query string of GET /v1/seguimiento.
// Saldo/cuota ranges apply to derived values and are filtered after
// aggregation; the rest push down to SQL.
type SeguimientoFilter struct {
	Q          string `form:"q"`                                // free text: cliente or equipo
	Estado     string `form:"estado"`                           // activo | pagado | all
	VenceDesde string `form:"vence_desde"`                      // YYYY-MM-DD, on outstanding cuotas
	VenceHasta string `form:"vence_hasta"`                      // YYYY-MM-DD
	SaldoMin   string `form:"saldo_min"`                        // decimal
	SaldoMax   string `form:"saldo_max"`                        // decimal
	CuotasMin  int    `form:"cuotas_min"`                       // outstanding cuota count ≥
	CuotasMax  int    `form:"cuotas_max"`                       // outstanding cuota count ≤
	Dia        int    `form:"dia"        validate:"min=0,max=31"` // billing day of month
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// SeguimientoItem is one tracking row: contract identity, display names and
// the derived snapshot, plus the outstanding cuotas for drill-down.
type SeguimientoItem struct {
	ContratoID         string          `json:"contrato_id"`
	Cliente            string          `json:"cliente"`
	Equipo             string          `json:"equipo"`
	Estado             string          `json:"estado"`
	PrecioTotal        decimal.Decimal `json:"precio_total"`
	Saldo              decimal.Decimal `json:"saldo"`
	CuotasPendientes   int             `json:"cuotas_pendientes"`
	MesesVencidos      int             `json:"meses_vencidos"`
	ProximoVencimiento *string         `json:"proximo_vencimiento,omitempty"`
	Cuotas             []CuotaResponse `json:"cuotas"`
}

type SeguimientoResponse struct {
	Data       []SeguimientoItem `json:"data"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"total_pages"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
