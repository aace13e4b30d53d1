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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const fechaISO = "2006-01-02"

type ContratoService interface {
	Crear(ctx context.Context, req dto.CrearContratoRequest) (*dto.ContratoResponse, error)
	// ObtenerDetalle returns the contract with children and the aggregator
	// outputs evaluated at corte.
	ObtenerDetalle(ctx context.Context, id string, corte time.Time) (*dto.DetalleContratoResponse, error)
}

type contratoService struct {
	repo     repository.ContratoRepository
	cuotas   repository.CuotaRepository
	catalogo repository.CatalogoRepository
}

func NewContratoService(
	repo repository.ContratoRepository,
	cuotas repository.CuotaRepository,
	catalogo repository.CatalogoRepository,
) ContratoService {
	return &contratoService{repo: repo, cuotas: cuotas, catalogo: catalogo}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Contract + cronograma are created in ONE transaction: a renta contract
// without cuotas must never be observable.

func (s *contratoService) Crear(ctx context.Context, req dto.CrearContratoRequest) (*dto.ContratoResponse, error) {
	equipoID, err := uuid.Parse(req.EquipoID)
	if err != nil {
		return nil, validacion("equipo_id", "uuid inválido")
	}
	equipo, err := s.catalogo.FindEquipo(ctx, equipoID)
	if err != nil {
		return nil, fmt.Errorf("%w: equipo %s", ErrNoEncontrado, req.EquipoID)
	}
	if equipo.Vendido {
		return nil, &ErrorEstadoInvalido{Motivo: "el equipo ya fue vendido"}
	}

	contrato := model.Contrato{
		EquipoID:    equipoID,
		Categoria:   model.Categoria(req.Categoria),
		PrecioTotal: req.PrecioTotal,
		Estado:      model.ContratoActivo,
	}

	switch contrato.Categoria {
	case model.CategoriaRenta:
		if err := s.completarTerminosRenta(ctx, &contrato, req); err != nil {
			return nil, err
		}
	case model.CategoriaContado:
		// Paid in full at signing: no schedule, immediately terminal.
		contrato.PrecioFinanciado = req.PrecioTotal
		contrato.Anticipo = decimal.Zero
		contrato.CostoRenta = decimal.Zero
		contrato.CuotaMensual = decimal.Zero
		contrato.FechaInicio = time.Now()
		contrato.Estado = model.ContratoPagado
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		id, err := s.repo.NextID(ctx, tx)
		if err != nil {
			return err
		}
		contrato.ID = id

		if err := s.repo.Create(ctx, tx, &contrato); err != nil {
			return err
		}
		if contrato.EsRenta() {
			cuotas := GenerarCronograma(id, contrato.FechaInicio, contrato.MesesPlazo, contrato.CostoRenta, contrato.Anticipo)
			if err := s.cuotas.CreateBatchTx(tx, cuotas); err != nil {
				return err
			}
		}
		// Claimed under the tx: the availability pre-check above is only a
		// fast path and may have raced another creation.
		if err := s.catalogo.MarcarEquipoVendidoTx(tx, equipoID); err != nil {
			if errors.Is(err, repository.ErrEquipoNoDisponible) {
				return &ErrorEstadoInvalido{Motivo: "el equipo ya fue vendido"}
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := contratoToResponse(&contrato)
	return &resp, nil
}

// completarTerminosRenta validates the renta-only fields and derives the
// financed terms. All failures are ErrorValidacion: nothing was persisted yet.
func (s *contratoService) completarTerminosRenta(ctx context.Context, c *model.Contrato, req dto.CrearContratoRequest) error {
	campos := map[string]string{}
	if req.ClienteID == nil {
		campos["cliente_id"] = "requerido para contratos renta"
	}
	if req.PrecioFinanciado == nil {
		campos["precio_financiado"] = "requerido para contratos renta"
	}
	if req.Anticipo == nil {
		campos["anticipo"] = "requerido para contratos renta"
	}
	if req.MesesPlazo == nil {
		campos["meses_plazo"] = "requerido para contratos renta"
	} else if *req.MesesPlazo < MesesPlazoMin || *req.MesesPlazo > MesesPlazoMax {
		campos["meses_plazo"] = fmt.Sprintf("debe estar entre %d y %d", MesesPlazoMin, MesesPlazoMax)
	}
	if req.FechaInicio == nil {
		campos["fecha_inicio"] = "requerido para contratos renta"
	}
	if len(campos) > 0 {
		return &ErrorValidacion{Campos: campos}
	}

	inicio, err := time.Parse(fechaISO, *req.FechaInicio)
	if err != nil {
		return validacion("fecha_inicio", "formato esperado YYYY-MM-DD")
	}
	if req.Anticipo.IsNegative() || !req.PrecioFinanciado.IsPositive() {
		return validacion("anticipo", "montos deben ser positivos")
	}
	if req.Anticipo.GreaterThanOrEqual(*req.PrecioFinanciado) {
		return validacion("anticipo", "debe ser menor al precio financiado")
	}

	clienteID, err := uuid.Parse(*req.ClienteID)
	if err != nil {
		return validacion("cliente_id", "uuid inválido")
	}
	if _, err := s.catalogo.FindCliente(ctx, clienteID); err != nil {
		return fmt.Errorf("%w: cliente %s", ErrNoEncontrado, clienteID)
	}

	c.ClienteID = &clienteID
	c.PrecioFinanciado = *req.PrecioFinanciado
	c.Anticipo = *req.Anticipo
	c.CostoRenta = req.PrecioFinanciado.Sub(*req.Anticipo)
	c.MesesPlazo = *req.MesesPlazo
	c.CuotaMensual = CuotaMensualDe(c.CostoRenta, c.MesesPlazo)
	c.FechaInicio = inicio
	fin := FechaFinContrato(inicio, c.MesesPlazo)
	c.FechaFin = &fin
	return nil
}

// ── ObtenerDetalle ────────────────────────────────────────────────────────────

func (s *contratoService) ObtenerDetalle(ctx context.Context, id string, corte time.Time) (*dto.DetalleContratoResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contrato %s", ErrNoEncontrado, id)
		}
		return nil, err
	}

	saldo, err := CalcularSaldo(contrato, corte)
	if err != nil {
		return nil, err
	}

	resp := &dto.DetalleContratoResponse{
		Contrato:   contratoToResponse(contrato),
		Cuotas:     make([]dto.CuotaResponse, 0, len(contrato.Cuotas)),
		Pagos:      make([]dto.PagoResponse, 0, len(contrato.Pagos)),
		Descuentos: make([]dto.DescuentoResponse, 0, len(contrato.Descuentos)),
		Saldo:      saldoToResponse(saldo),
	}
	for i := range contrato.Cuotas {
		resp.Cuotas = append(resp.Cuotas, cuotaToResponse(&contrato.Cuotas[i]))
	}
	for i := range contrato.Pagos {
		resp.Pagos = append(resp.Pagos, pagoToResponse(&contrato.Pagos[i]))
	}
	for i := range contrato.Descuentos {
		resp.Descuentos = append(resp.Descuentos, descuentoToResponse(&contrato.Descuentos[i]))
	}
	return resp, nil
}

// ── mappers ──────────────────────────────────────────────────────────────────

func contratoToResponse(c *model.Contrato) dto.ContratoResponse {
	resp := dto.ContratoResponse{
		ID:               c.ID,
		EquipoID:         c.EquipoID.String(),
		Categoria:        string(c.Categoria),
		PrecioTotal:      c.PrecioTotal,
		PrecioFinanciado: c.PrecioFinanciado,
		Anticipo:         c.Anticipo,
		CostoRenta:       c.CostoRenta,
		MesesPlazo:       c.MesesPlazo,
		CuotaMensual:     c.CuotaMensual,
		FechaInicio:      c.FechaInicio.Format(fechaISO),
		Estado:           string(c.Estado),
		CreatedAt:        c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if c.ClienteID != nil {
		id := c.ClienteID.String()
		resp.ClienteID = &id
	}
	if c.FechaFin != nil {
		fin := c.FechaFin.Format(fechaISO)
		resp.FechaFin = &fin
	}
	return resp
}

func cuotaToResponse(q *model.Cuota) dto.CuotaResponse {
	resp := dto.CuotaResponse{
		Numero:           q.Numero,
		FechaVencimiento: q.FechaVencimiento.Format(fechaISO),
		Monto:            q.Monto,
		MontoPagado:      q.MontoPagado,
		Categoria:        string(q.Categoria),
		Estado:           string(q.Estado),
		EsPagoFinal:      q.EsPagoFinal,
		Nota:             q.Nota,
	}
	if q.PagadaEn != nil {
		f := q.PagadaEn.Format(fechaISO)
		resp.PagadaEn = &f
	}
	return resp
}

func saldoToResponse(s Saldo) dto.SaldoResponse {
	return dto.SaldoResponse{
		MontoRestante:  s.MontoRestante,
		MesesVencidos:  s.MesesVencidos,
		TotalMesActual: s.TotalMesActual,
	}
}
