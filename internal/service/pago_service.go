package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telcuotas/internal/dto"
	"telcuotas/internal/model"
	"telcuotas/internal/repository"
	"telcuotas/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoService interface {
	// Registrar appends a submission with estado pendiente. No balance check:
	// overpaying or paying ahead is allowed, verification is the gate.
	Registrar(ctx context.Context, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	// Verificar decides a pending payment exactly once. Approval re-allocates
	// the cronograma inside a transaction that locks the contract row, so two
	// concurrent verifications on the same contract serialize.
	Verificar(ctx context.Context, pagoID uuid.UUID, decision string, adminID uuid.UUID, corte time.Time) (*dto.VerificarPagoResponse, error)
}

type pagoService struct {
	repo         repository.PagoRepository
	contratoRepo repository.ContratoRepository
	cuotaRepo    repository.CuotaRepository
	dispatcher   *worker.Dispatcher
}

func NewPagoService(
	repo repository.PagoRepository,
	contratoRepo repository.ContratoRepository,
	cuotaRepo repository.CuotaRepository,
	dispatcher *worker.Dispatcher,
) PagoService {
	return &pagoService{repo: repo, contratoRepo: contratoRepo, cuotaRepo: cuotaRepo, dispatcher: dispatcher}
}

// ── Registrar ─────────────────────────────────────────────────────────────────

func (s *pagoService) Registrar(ctx context.Context, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	fecha, err := time.Parse(fechaISO, req.FechaPago)
	if err != nil {
		return nil, validacion("fecha_pago", "formato esperado YYYY-MM-DD")
	}
	if _, err := s.contratoRepo.FindByID(ctx, req.ContratoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contrato %s", ErrNoEncontrado, req.ContratoID)
		}
		return nil, err
	}

	pago := model.Pago{
		ContratoID:         req.ContratoID,
		FechaPago:          fecha,
		Monto:              req.Monto,
		Metodo:             model.MetodoPago(req.Metodo),
		ComprobanteRef:     req.ComprobanteRef,
		EstadoVerificacion: model.VerificacionPendiente,
	}
	if err := s.repo.Create(ctx, &pago); err != nil {
		return nil, err
	}
	resp := pagoToResponse(&pago)
	return &resp, nil
}

// ── Verificar ─────────────────────────────────────────────────────────────────
// Lock order is always pago → contrato, so concurrent verifications of two
// payments of the same contract queue on the contract row without deadlock.

func (s *pagoService) Verificar(ctx context.Context, pagoID uuid.UUID, decision string, adminID uuid.UUID, corte time.Time) (*dto.VerificarPagoResponse, error) {
	var pago *model.Pago
	var saldo Saldo

	txErr := runTx(ctx, s.contratoRepo.DB(), func(tx *gorm.DB) error {
		var err error
		if tx != nil {
			pago, err = s.repo.FindByIDForUpdate(tx, pagoID)
		} else {
			pago, err = s.repo.FindByID(ctx, pagoID)
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: pago %s", ErrNoEncontrado, pagoID)
			}
			return err
		}

		// One-shot transition: an already-verified payment must error, not be
		// silently accepted — that is what prevents double allocation. Marked
		// retryable: the usual cause is losing the race against a concurrent
		// verification, and a refetch shows the decided state.
		if pago.EstadoVerificacion != model.VerificacionPendiente {
			return &ErrorEstadoInvalido{
				Motivo:       fmt.Sprintf("el pago ya fue verificado (%s)", pago.EstadoVerificacion),
				Reintentable: true,
			}
		}

		ahora := time.Now()
		pago.EstadoVerificacion = model.EstadoVerificacion(decision)
		pago.VerificadoPor = &adminID
		pago.VerificadoEn = &ahora
		if err := s.repo.SaveTx(tx, pago); err != nil {
			return err
		}

		var contrato *model.Contrato
		if tx != nil {
			contrato, err = s.contratoRepo.FindByIDForUpdate(tx, pago.ContratoID)
		} else {
			contrato, err = s.contratoRepo.FindByID(ctx, pago.ContratoID)
		}
		if err != nil {
			return err
		}
		reemplazarPago(contrato, pago)

		if pago.Aprobado() {
			if contrato.EsRenta() && len(contrato.Cuotas) == 0 {
				return &ErrorIntegridad{Motivo: "contrato renta " + contrato.ID + " sin cuotas"}
			}
			actualizadas := AsignarPagos(contrato)
			for i := range actualizadas {
				if cuotaCambio(&contrato.Cuotas[i], &actualizadas[i]) {
					if err := s.cuotaRepo.SaveTx(tx, &actualizadas[i]); err != nil {
						return err
					}
				}
			}
			contrato.Cuotas = actualizadas

			if contrato.Estado == model.ContratoActivo && Liquidado(contrato) {
				if err := s.contratoRepo.UpdateEstadoTx(tx, contrato.ID, model.ContratoPagado); err != nil {
					return err
				}
				contrato.Estado = model.ContratoPagado
			}
		}

		saldo, err = CalcularSaldo(contrato, corte)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	// Receipt generation is best-effort and async; the verification already
	// committed.
	if s.dispatcher != nil && pago.Aprobado() {
		_ = s.dispatcher.EnqueueRecibo(ctx, worker.ReciboJobPayload{PagoID: pago.ID.String()})
	}

	return &dto.VerificarPagoResponse{
		Pago:  pagoToResponse(pago),
		Saldo: saldoToResponse(saldo),
	}, nil
}

// reemplazarPago swaps the freshly decided payment into the preloaded list so
// the in-memory aggregation never works from a stale row.
func reemplazarPago(c *model.Contrato, p *model.Pago) {
	for i := range c.Pagos {
		if c.Pagos[i].ID == p.ID {
			c.Pagos[i] = *p
			return
		}
	}
	c.Pagos = append(c.Pagos, *p)
}

func cuotaCambio(antes, despues *model.Cuota) bool {
	return !antes.MontoPagado.Equal(despues.MontoPagado) ||
		antes.Estado != despues.Estado ||
		antes.EsPagoFinal != despues.EsPagoFinal
}

func pagoToResponse(p *model.Pago) dto.PagoResponse {
	resp := dto.PagoResponse{
		ID:                 p.ID.String(),
		ContratoID:         p.ContratoID,
		FechaPago:          p.FechaPago.Format(fechaISO),
		Monto:              p.Monto,
		Metodo:             string(p.Metodo),
		ComprobanteRef:     p.ComprobanteRef,
		EstadoVerificacion: string(p.EstadoVerificacion),
		CreatedAt:          p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.VerificadoPor != nil {
		id := p.VerificadoPor.String()
		resp.VerificadoPor = &id
	}
	if p.VerificadoEn != nil {
		f := p.VerificadoEn.Format("2006-01-02T15:04:05Z")
		resp.VerificadoEn = &f
	}
	return resp
}
