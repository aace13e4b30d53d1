package service

// In-memory repository stubs shared by the service tests. They mirror the
// repository interfaces closely enough for business-logic tests; SQL behavior
// (locking, sequences) is covered by the integration suite.

import (
	"context"
	"fmt"
	"testing"
	"time"

	"telcuotas/internal/dto"
	"telcuotas/internal/model"
	"telcuotas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── ContratoRepository stub ──────────────────────────────────────────────────

type stubContratoRepo struct {
	contratos map[string]*model.Contrato
	seq       int
}

func newStubContratoRepo() *stubContratoRepo {
	return &stubContratoRepo{contratos: make(map[string]*model.Contrato)}
}

func (r *stubContratoRepo) DB() *gorm.DB { return nil }

func (r *stubContratoRepo) Create(_ context.Context, _ *gorm.DB, c *model.Contrato) error {
	c.CreatedAt = time.Now()
	r.contratos[c.ID] = c
	return nil
}

func (r *stubContratoRepo) NextID(_ context.Context, _ *gorm.DB) (string, error) {
	r.seq++
	return fmt.Sprintf("CT%05d", r.seq), nil
}

func (r *stubContratoRepo) FindByID(_ context.Context, id string) (*model.Contrato, error) {
	c, ok := r.contratos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubContratoRepo) FindByIDForUpdate(_ *gorm.DB, id string) (*model.Contrato, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubContratoRepo) UpdateEstadoTx(_ *gorm.DB, id string, estado model.EstadoContrato) error {
	c, ok := r.contratos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Estado = estado
	return nil
}

func (r *stubContratoRepo) ListSeguimiento(_ context.Context, f dto.SeguimientoFilter) ([]model.Contrato, error) {
	var out []model.Contrato
	for _, c := range r.contratos {
		if f.Estado != "" && f.Estado != "all" && string(c.Estado) != f.Estado {
			continue
		}
		out = append(out, *c)
	}
	// stable order by id, like the SQL does
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID < out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

var _ repository.ContratoRepository = (*stubContratoRepo)(nil)

// ── CuotaRepository stub ─────────────────────────────────────────────────────

type stubCuotaRepo struct {
	batches [][]model.Cuota
	saved   []model.Cuota
}

func newStubCuotaRepo() *stubCuotaRepo { return &stubCuotaRepo{} }

func (r *stubCuotaRepo) CreateBatchTx(_ *gorm.DB, cuotas []model.Cuota) error {
	for i := range cuotas {
		if cuotas[i].ID == uuid.Nil {
			cuotas[i].ID = uuid.New()
		}
	}
	r.batches = append(r.batches, cuotas)
	return nil
}

func (r *stubCuotaRepo) SaveTx(_ *gorm.DB, q *model.Cuota) error {
	r.saved = append(r.saved, *q)
	return nil
}

func (r *stubCuotaRepo) ListByContrato(_ context.Context, contratoID string) ([]model.Cuota, error) {
	var out []model.Cuota
	for _, b := range r.batches {
		for _, q := range b {
			if q.ContratoID == contratoID {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

var _ repository.CuotaRepository = (*stubCuotaRepo)(nil)

// ── PagoRepository stub ──────────────────────────────────────────────────────

type stubPagoRepo struct {
	pagos map[uuid.UUID]*model.Pago
}

func newStubPagoRepo() *stubPagoRepo {
	return &stubPagoRepo{pagos: make(map[uuid.UUID]*model.Pago)}
}

func (r *stubPagoRepo) Create(_ context.Context, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	cloned := *p
	r.pagos[p.ID] = &cloned
	return nil
}

func (r *stubPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	p, ok := r.pagos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubPagoRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Pago, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPagoRepo) SaveTx(_ *gorm.DB, p *model.Pago) error {
	cloned := *p
	r.pagos[p.ID] = &cloned
	return nil
}

func (r *stubPagoRepo) ListByContrato(_ context.Context, contratoID string) ([]model.Pago, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if p.ContratoID == contratoID {
			out = append(out, *p)
		}
	}
	return out, nil
}

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

// ── DescuentoRepository stub ─────────────────────────────────────────────────

type stubDescuentoRepo struct {
	descuentos []model.Descuento
}

func newStubDescuentoRepo() *stubDescuentoRepo { return &stubDescuentoRepo{} }

func (r *stubDescuentoRepo) CreateTx(_ *gorm.DB, d *model.Descuento) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	r.descuentos = append(r.descuentos, *d)
	return nil
}

func (r *stubDescuentoRepo) ListByContrato(_ context.Context, contratoID string) ([]model.Descuento, error) {
	var out []model.Descuento
	for _, d := range r.descuentos {
		if d.ContratoID == contratoID {
			out = append(out, d)
		}
	}
	return out, nil
}

var _ repository.DescuentoRepository = (*stubDescuentoRepo)(nil)

// ── CatalogoRepository stub ──────────────────────────────────────────────────

type stubCatalogoRepo struct {
	clientes map[uuid.UUID]*model.Cliente
	equipos  map[uuid.UUID]*model.Equipo

	// antesDeVender runs just before the claiming update, letting tests slip a
	// concurrent sale between the availability pre-check and the claim.
	antesDeVender func()
}

func newStubCatalogoRepo() *stubCatalogoRepo {
	return &stubCatalogoRepo{
		clientes: make(map[uuid.UUID]*model.Cliente),
		equipos:  make(map[uuid.UUID]*model.Equipo),
	}
}

func (r *stubCatalogoRepo) FindCliente(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCatalogoRepo) FindEquipo(_ context.Context, id uuid.UUID) (*model.Equipo, error) {
	e, ok := r.equipos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *stubCatalogoRepo) CreateCliente(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubCatalogoRepo) CreateEquipo(_ context.Context, e *model.Equipo) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.equipos[e.ID] = e
	return nil
}

func (r *stubCatalogoRepo) MarcarEquipoVendidoTx(_ *gorm.DB, id uuid.UUID) error {
	if r.antesDeVender != nil {
		r.antesDeVender()
	}
	e, ok := r.equipos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if e.Vendido {
		return repository.ErrEquipoNoDisponible
	}
	e.Vendido = true
	return nil
}

var _ repository.CatalogoRepository = (*stubCatalogoRepo)(nil)

// ── Builders ─────────────────────────────────────────────────────────────────

// contratoRenta builds the canonical test contract: 12 monthly cuotas of 1000
// starting 2024-01-15, anticipo 3000, financed total 15000.
func contratoRenta(t *testing.T) *model.Contrato {
	t.Helper()
	inicio := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	fin := inicio.AddDate(0, 12, 0)
	c := &model.Contrato{
		ID:               "CT00001",
		Categoria:        model.CategoriaRenta,
		PrecioTotal:      decimal.NewFromInt(13000),
		PrecioFinanciado: decimal.NewFromInt(15000),
		Anticipo:         decimal.NewFromInt(3000),
		CostoRenta:       decimal.NewFromInt(12000),
		MesesPlazo:       12,
		CuotaMensual:     decimal.NewFromInt(1000),
		FechaInicio:      inicio,
		FechaFin:         &fin,
		Estado:           model.ContratoActivo,
	}
	c.Cuotas = GenerarCronograma(c.ID, inicio, c.MesesPlazo, c.CostoRenta, c.Anticipo)
	return c
}

func pagoAprobado(monto int64, fecha string) model.Pago {
	f, _ := time.Parse(fechaISO, fecha)
	return model.Pago{
		ID:                 uuid.New(),
		ContratoID:         "CT00001",
		FechaPago:          f,
		Monto:              decimal.NewFromInt(monto),
		Metodo:             model.MetodoEfectivo,
		EstadoVerificacion: model.VerificacionAprobada,
	}
}

func fecha(s string) time.Time {
	f, _ := time.Parse(fechaISO, s)
	return f
}
