package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telcuotas/internal/dto"
	"telcuotas/internal/model"
	"telcuotas/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DescuentoService interface {
	// Agregar appends one link to the contract's discount chain and rebases
	// the authoritative total. Chains are append-only: corrections are a new
	// link with a Nota, never an edit.
	Agregar(ctx context.Context, contratoID string, req dto.AgregarDescuentoRequest, adminID uuid.UUID) (*dto.DescuentoResponse, error)
}

type descuentoService struct {
	repo         repository.DescuentoRepository
	contratoRepo repository.ContratoRepository
	cuotaRepo    repository.CuotaRepository
}

func NewDescuentoService(
	repo repository.DescuentoRepository,
	contratoRepo repository.ContratoRepository,
	cuotaRepo repository.CuotaRepository,
) DescuentoService {
	return &descuentoService{repo: repo, contratoRepo: contratoRepo, cuotaRepo: cuotaRepo}
}

func (s *descuentoService) Agregar(ctx context.Context, contratoID string, req dto.AgregarDescuentoRequest, adminID uuid.UUID) (*dto.DescuentoResponse, error) {
	var descuento model.Descuento

	txErr := runTx(ctx, s.contratoRepo.DB(), func(tx *gorm.DB) error {
		var contrato *model.Contrato
		var err error
		if tx != nil {
			contrato, err = s.contratoRepo.FindByIDForUpdate(tx, contratoID)
		} else {
			contrato, err = s.contratoRepo.FindByID(ctx, contratoID)
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: contrato %s", ErrNoEncontrado, contratoID)
			}
			return err
		}

		if !contrato.EsRenta() {
			return &ErrorEstadoInvalido{Motivo: "los contratos de contado no admiten descuentos"}
		}
		if contrato.Estado == model.ContratoPagado {
			return &ErrorEstadoInvalido{Motivo: "el contrato ya está cerrado"}
		}

		// Chain rule: rebase from the latest link, or from CostoRenta when
		// the chain is empty. Never from the original again.
		base := contrato.CostoRenta
		if ultimo := UltimoDescuento(contrato.Descuentos); ultimo != nil {
			base = ultimo.MontoFinal
		}
		if req.MontoDescuento.GreaterThan(base) {
			return validacion("monto_descuento", "excede el monto final vigente")
		}

		descuento = model.Descuento{
			ContratoID:     contratoID,
			Tipo:           model.TipoDescuento(req.Tipo),
			MontoDescuento: req.MontoDescuento,
			MontoFinal:     base.Sub(req.MontoDescuento),
			AprobadoPor:    adminID,
			AprobadoEn:     time.Now(),
			Nota:           req.Nota,
		}
		if err := s.repo.CreateTx(tx, &descuento); err != nil {
			return err
		}
		contrato.Descuentos = append(contrato.Descuentos, descuento)

		// The reduced total may already be covered by approved payments: the
		// discount then closes the contract and retires the open cuotas.
		if Liquidado(contrato) {
			actualizadas := AsignarPagos(contrato)
			for i := range actualizadas {
				if cuotaCambio(&contrato.Cuotas[i], &actualizadas[i]) {
					if err := s.cuotaRepo.SaveTx(tx, &actualizadas[i]); err != nil {
						return err
					}
				}
			}
			if contrato.Estado == model.ContratoActivo {
				if err := s.contratoRepo.UpdateEstadoTx(tx, contrato.ID, model.ContratoPagado); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := descuentoToResponse(&descuento)
	return &resp, nil
}

func descuentoToResponse(d *model.Descuento) dto.DescuentoResponse {
	return dto.DescuentoResponse{
		ID:             d.ID.String(),
		ContratoID:     d.ContratoID,
		Tipo:           string(d.Tipo),
		MontoDescuento: d.MontoDescuento,
		MontoFinal:     d.MontoFinal,
		AprobadoPor:    d.AprobadoPor.String(),
		AprobadoEn:     d.AprobadoEn.Format("2006-01-02T15:04:05Z"),
		Nota:           d.Nota,
	}
}
