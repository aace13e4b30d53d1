package service

import (
	"context"
	"time"

	"telcuotas/internal/dto"
	"telcuotas/internal/model"
	"telcuotas/internal/repository"
	"telcuotas/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SeguimientoService answers the collections list: paginated, filtered
// tracking snapshots recomputed from schedule + ledger + discounts at corte.
// It also feeds the daily reminder scan (worker.MorososLister).
type SeguimientoService interface {
	Listar(ctx context.Context, f dto.SeguimientoFilter, corte time.Time) (*dto.SeguimientoResponse, error)
	ListarMorosos(ctx context.Context) ([]worker.MorosoDestino, error)
}

type seguimientoService struct {
	contratoRepo repository.ContratoRepository
}

func NewSeguimientoService(contratoRepo repository.ContratoRepository) SeguimientoService {
	return &seguimientoService{contratoRepo: contratoRepo}
}

// Listar applies SQL-expressible filters in the repository and the
// derived-value filters (saldo and cuota-count ranges) after aggregation.
// Rows are ordered by contract id — a stable order so pagination never skips
// or duplicates rows between pages under concurrent writes.
func (s *seguimientoService) Listar(ctx context.Context, f dto.SeguimientoFilter, corte time.Time) (*dto.SeguimientoResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}

	var saldoMin, saldoMax *decimal.Decimal
	if f.SaldoMin != "" {
		v, err := decimal.NewFromString(f.SaldoMin)
		if err != nil {
			return nil, validacion("saldo_min", "monto inválido")
		}
		saldoMin = &v
	}
	if f.SaldoMax != "" {
		v, err := decimal.NewFromString(f.SaldoMax)
		if err != nil {
			return nil, validacion("saldo_max", "monto inválido")
		}
		saldoMax = &v
	}

	contratos, err := s.contratoRepo.ListSeguimiento(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SeguimientoItem, 0, len(contratos))
	for i := range contratos {
		c := &contratos[i]
		saldo, err := CalcularSaldo(c, corte)
		if err != nil {
			// Corrupted contract: excluded from the list, never shown as paid.
			// The detail endpoint reports the integrity error to the operator.
			log.Error().Err(err).Str("contrato_id", c.ID).Msg("seguimiento: contrato excluido")
			continue
		}

		item := buildSeguimientoItem(c, saldo)
		if saldoMin != nil && item.Saldo.LessThan(*saldoMin) {
			continue
		}
		if saldoMax != nil && item.Saldo.GreaterThan(*saldoMax) {
			continue
		}
		if f.CuotasMin > 0 && item.CuotasPendientes < f.CuotasMin {
			continue
		}
		if f.CuotasMax > 0 && item.CuotasPendientes > f.CuotasMax {
			continue
		}
		items = append(items, item)
	}

	total := int64(len(items))
	totalPages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	inicio := (f.Page - 1) * f.Limit
	if inicio > len(items) {
		inicio = len(items)
	}
	fin := inicio + f.Limit
	if fin > len(items) {
		fin = len(items)
	}

	return &dto.SeguimientoResponse{
		Data:       items[inicio:fin],
		Total:      total,
		TotalPages: totalPages,
		Page:       f.Page,
		Limit:      f.Limit,
	}, nil
}

// ListarMorosos returns the active contracts with at least one overdue month,
// evaluated at the moment of the scan.
func (s *seguimientoService) ListarMorosos(ctx context.Context) ([]worker.MorosoDestino, error) {
	contratos, err := s.contratoRepo.ListSeguimiento(ctx, dto.SeguimientoFilter{Estado: string(model.ContratoActivo)})
	if err != nil {
		return nil, err
	}

	corte := time.Now()
	morosos := make([]worker.MorosoDestino, 0)
	for i := range contratos {
		c := &contratos[i]
		saldo, err := CalcularSaldo(c, corte)
		if err != nil {
			log.Error().Err(err).Str("contrato_id", c.ID).Msg("morosos: contrato excluido")
			continue
		}
		if saldo.MesesVencidos == 0 {
			continue
		}
		destino := worker.MorosoDestino{
			ContratoID:    c.ID,
			MesesVencidos: saldo.MesesVencidos,
			Saldo:         saldo.MontoRestante.StringFixed(2),
		}
		if c.Cliente != nil {
			destino.Cliente = c.Cliente.Nombre
			if c.Cliente.Email != nil {
				destino.Email = *c.Cliente.Email
			}
		}
		morosos = append(morosos, destino)
	}
	return morosos, nil
}

func buildSeguimientoItem(c *model.Contrato, saldo Saldo) dto.SeguimientoItem {
	item := dto.SeguimientoItem{
		ContratoID:    c.ID,
		Estado:        string(c.Estado),
		PrecioTotal:   c.PrecioTotal,
		Saldo:         saldo.MontoRestante,
		MesesVencidos: saldo.MesesVencidos,
	}
	if c.Cliente != nil {
		item.Cliente = c.Cliente.Nombre
	}
	if c.Equipo != nil {
		item.Equipo = c.Equipo.NombreCompleto()
	}

	// Outstanding cuotas only: the drill-down the collections workflow needs.
	for i := range c.Cuotas {
		q := &c.Cuotas[i]
		if !q.Pendiente() {
			continue
		}
		item.CuotasPendientes++
		if item.ProximoVencimiento == nil {
			f := q.FechaVencimiento.Format(fechaISO)
			item.ProximoVencimiento = &f
		}
		item.Cuotas = append(item.Cuotas, cuotaToResponse(q))
	}
	return item
}
