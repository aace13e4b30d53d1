package service

// saldo.go — the reconciliation core. Everything here is a pure function of
// (contrato + children, corte): no clock reads, no DB access. Handlers pass
// time.Now() as corte; tests pass fixed dates.
//
// Overdue boundary rule (documented decision): a cuota counts as vencida when
// the calendar month of its due date is strictly before the calendar month of
// corte and it is still pendiente/parcial. A cuota due this month is never
// vencida, regardless of day. The contract's first calendar month is a grace
// period attached to the schedule itself: a cuota due inside it (the anticipo)
// never becomes a vencida month, no matter how late it is evaluated.

import (
	"time"

	"telcuotas/internal/model"

	"github.com/shopspring/decimal"
)

// Saldo is the derived financial state of one contract at corte.
type Saldo struct {
	MontoRestante  decimal.Decimal
	MesesVencidos  int
	TotalMesActual decimal.Decimal
}

// UltimoDescuento returns the authoritative tail of the discount chain, or
// nil when no discount exists. The slice must be ordered by approval time
// (repositories guarantee this).
func UltimoDescuento(descuentos []model.Descuento) *model.Descuento {
	if len(descuentos) == 0 {
		return nil
	}
	return &descuentos[len(descuentos)-1]
}

// TotalAutoritativo is the total obligation the balance math runs against:
// the latest discount's MontoFinal when a chain exists, otherwise the
// schedule-derived PrecioFinanciado.
func TotalAutoritativo(c *model.Contrato) decimal.Decimal {
	if d := UltimoDescuento(c.Descuentos); d != nil {
		return d.MontoFinal
	}
	return c.PrecioFinanciado
}

// SumaPagosAprobados totals the approved payments; pending and rejected ones
// never count.
func SumaPagosAprobados(pagos []model.Pago) decimal.Decimal {
	total := decimal.Zero
	for i := range pagos {
		if pagos[i].Aprobado() {
			total = total.Add(pagos[i].Monto)
		}
	}
	return total
}

// mesIndice flattens a date to a comparable year-month ordinal.
func mesIndice(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// CalcularSaldo computes the three derived outputs for a contract at corte.
//
// Fails closed: a renta contract with no cuotas is corrupted data and returns
// ErrorIntegridad instead of a zero balance — silently reporting "fully paid"
// is the worse failure mode.
func CalcularSaldo(c *model.Contrato, corte time.Time) (Saldo, error) {
	if c.Categoria == model.CategoriaContado {
		// No schedule; terminal paid state from creation.
		return Saldo{MontoRestante: decimal.Zero, TotalMesActual: decimal.Zero}, nil
	}
	if len(c.Cuotas) == 0 {
		return Saldo{}, &ErrorIntegridad{Motivo: "contrato renta " + c.ID + " sin cuotas"}
	}

	restante := TotalAutoritativo(c).Sub(SumaPagosAprobados(c.Pagos))
	if restante.IsNegative() {
		// Clamp in reporting only; stored rows keep the real amounts.
		restante = decimal.Zero
	}

	return Saldo{
		MontoRestante:  restante,
		MesesVencidos:  MesesVencidos(c, corte),
		TotalMesActual: TotalMesActual(c, corte),
	}, nil
}

// MesesVencidos counts cuotas past due under the month-boundary rule above.
// Cuotas due inside the start month (the anticipo) are excluded by the grace
// rule, so an unpaid anticipo is collected through the balance, never counted
// as a vencida month.
func MesesVencidos(c *model.Contrato, corte time.Time) int {
	actual := mesIndice(corte)
	gracia := mesIndice(c.FechaInicio)
	if actual <= gracia {
		return 0
	}
	vencidas := 0
	for i := range c.Cuotas {
		q := &c.Cuotas[i]
		venc := mesIndice(q.FechaVencimiento)
		if q.Pendiente() && venc > gracia && venc < actual {
			vencidas++
		}
	}
	return vencidas
}

// TotalMesActual is what is still owed for the corte month: the monthly
// payment minus approved payments dated inside that calendar month, floored
// at zero. Inside the start month nothing is due yet.
func TotalMesActual(c *model.Contrato, corte time.Time) decimal.Decimal {
	actual := mesIndice(corte)
	if actual <= mesIndice(c.FechaInicio) {
		return decimal.Zero
	}
	pagadoEnMes := decimal.Zero
	for i := range c.Pagos {
		p := &c.Pagos[i]
		if p.Aprobado() && mesIndice(p.FechaPago) == actual {
			pagadoEnMes = pagadoEnMes.Add(p.Monto)
		}
	}
	debido := c.CuotaMensual.Sub(pagadoEnMes)
	if debido.IsNegative() {
		return decimal.Zero
	}
	return debido
}

// AsignarPagos recomputes the per-cuota allocation from scratch: approved
// payments, in payment-date order, are poured into cuotas oldest-due-first.
// A cuota becomes pagada when fully covered (PagadaEn = date of the payment
// that completed it), parcial when partially covered.
//
// When a discount closes the contract early — approved payments cover the
// authoritative total while cuotas remain open — the last cuota that received
// money is marked pago_final and the untouched tail is marked omitida.
//
// The input contract is not mutated; the returned slice is the new schedule
// state for the caller to persist.
func AsignarPagos(c *model.Contrato) []model.Cuota {
	cuotas := make([]model.Cuota, len(c.Cuotas))
	copy(cuotas, c.Cuotas)

	// Reset allocation state; it is fully derivable from the ledger.
	for i := range cuotas {
		cuotas[i].MontoPagado = decimal.Zero
		cuotas[i].Estado = model.CuotaPendiente
		cuotas[i].PagadaEn = nil
		cuotas[i].EsPagoFinal = false
	}

	idx := 0
	for i := range c.Pagos {
		p := &c.Pagos[i]
		if !p.Aprobado() {
			continue
		}
		disponible := p.Monto
		for disponible.IsPositive() && idx < len(cuotas) {
			q := &cuotas[idx]
			falta := q.Monto.Sub(q.MontoPagado)
			if disponible.GreaterThanOrEqual(falta) {
				q.MontoPagado = q.Monto
				q.Estado = model.CuotaPagada
				fecha := p.FechaPago
				q.PagadaEn = &fecha
				disponible = disponible.Sub(falta)
				idx++
			} else {
				q.MontoPagado = q.MontoPagado.Add(disponible)
				q.Estado = model.CuotaParcial
				disponible = decimal.Zero
			}
		}
	}

	// Early closure via discount: the ledger covers the reduced total even
	// though schedule rows remain open.
	if UltimoDescuento(c.Descuentos) != nil {
		cubierto := TotalAutoritativo(c).Sub(SumaPagosAprobados(c.Pagos))
		if !cubierto.IsPositive() {
			ultimaPagada := -1
			for i := range cuotas {
				if cuotas[i].MontoPagado.IsPositive() {
					ultimaPagada = i
				}
			}
			if ultimaPagada >= 0 {
				cuotas[ultimaPagada].Estado = model.CuotaPagoFinal
				cuotas[ultimaPagada].EsPagoFinal = true
			}
			for i := range cuotas {
				if cuotas[i].Pendiente() && cuotas[i].MontoPagado.IsZero() {
					cuotas[i].Estado = model.CuotaOmitida
				}
			}
		}
	}

	return cuotas
}

// Liquidado reports whether approved payments cover the authoritative total.
func Liquidado(c *model.Contrato) bool {
	return !TotalAutoritativo(c).Sub(SumaPagosAprobados(c.Pagos)).IsPositive()
}
