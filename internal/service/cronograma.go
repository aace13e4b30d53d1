package service

// cronograma.go — schedule generation for renta contracts.
// Pure functions: given the signed terms they produce the cuota set and the
// contract end date. Persistence happens in ContratoService inside the same
// transaction that creates the contract row.

import (
	"time"

	"telcuotas/internal/model"

	"github.com/shopspring/decimal"
)

const (
	MesesPlazoMin = 1
	MesesPlazoMax = 24
)

// FechaFinContrato returns inicio + meses calendar months. Day-of-month
// overflow follows time.AddDate normalization (Jan 31 + 1 month → Mar 2/3).
func FechaFinContrato(inicio time.Time, meses int) time.Time {
	return inicio.AddDate(0, meses, 0)
}

// GenerarCronograma builds the full cuota set for a renta contract:
// cuota 1 is the anticipo due on inicio; cuotas 2..meses+1 are equal monthly
// rent cuotas due on the same day of month as inicio.
//
// CuotaMensual = round(costoRenta / meses, 2); the rounding remainder is
// folded into the LAST cuota so that anticipo + Σ renta == precio financiado
// exactly.
func GenerarCronograma(contratoID string, inicio time.Time, meses int, costoRenta, anticipo decimal.Decimal) []model.Cuota {
	mensual := CuotaMensualDe(costoRenta, meses)

	cuotas := make([]model.Cuota, 0, meses+1)
	cuotas = append(cuotas, model.Cuota{
		ContratoID:       contratoID,
		Numero:           1,
		FechaVencimiento: inicio,
		Monto:            anticipo,
		MontoPagado:      decimal.Zero,
		Categoria:        model.CuotaAnticipo,
		Estado:           model.CuotaPendiente,
	})

	acumulado := decimal.Zero
	for i := 1; i <= meses; i++ {
		monto := mensual
		if i == meses {
			// remainder adjustment: last cuota absorbs the rounding drift
			monto = costoRenta.Sub(acumulado)
			if monto.IsNegative() {
				// sub-cent-per-month terms: the rounded mensual overshoots the
				// total, so take the excess back from the preceding cuotas
				// instead of emitting a negative cuota
				deficit := monto.Neg()
				monto = decimal.Zero
				for j := len(cuotas) - 1; j >= 1 && deficit.IsPositive(); j-- {
					quita := decimal.Min(deficit, cuotas[j].Monto)
					cuotas[j].Monto = cuotas[j].Monto.Sub(quita)
					deficit = deficit.Sub(quita)
				}
			}
		}
		acumulado = acumulado.Add(monto)
		cuotas = append(cuotas, model.Cuota{
			ContratoID:       contratoID,
			Numero:           i + 1,
			FechaVencimiento: inicio.AddDate(0, i, 0),
			Monto:            monto,
			MontoPagado:      decimal.Zero,
			Categoria:        model.CuotaRenta,
			Estado:           model.CuotaPendiente,
		})
	}
	return cuotas
}

// CuotaMensualDe is the advertised monthly payment: costoRenta / meses rounded
// to currency precision.
func CuotaMensualDe(costoRenta decimal.Decimal, meses int) decimal.Decimal {
	return costoRenta.Div(decimal.NewFromInt(int64(meses))).Round(2)
}
