package service

import (
	"context"
	"errors"
	"testing"

	"telcuotas/internal/dto"
	"telcuotas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupContratoService(t *testing.T) (ContratoService, *stubContratoRepo, *stubCuotaRepo, *stubCatalogoRepo, *model.Cliente, *model.Equipo) {
	t.Helper()
	contratoRepo := newStubContratoRepo()
	cuotaRepo := newStubCuotaRepo()
	catalogoRepo := newStubCatalogoRepo()

	cliente := &model.Cliente{ID: uuid.New(), Nombre: "María Gómez", Activo: true}
	equipo := &model.Equipo{ID: uuid.New(), Marca: "Samsung", Modelo: "Galaxy A54", IMEI: "350000000000001", PrecioLista: decimal.NewFromInt(9000)}
	catalogoRepo.clientes[cliente.ID] = cliente
	catalogoRepo.equipos[equipo.ID] = equipo

	svc := NewContratoService(contratoRepo, cuotaRepo, catalogoRepo)
	return svc, contratoRepo, cuotaRepo, catalogoRepo, cliente, equipo
}

func reqRenta(cliente *model.Cliente, equipo *model.Equipo) dto.CrearContratoRequest {
	clienteID := cliente.ID.String()
	financiado := decimal.NewFromInt(15000)
	anticipo := decimal.NewFromInt(3000)
	meses := 12
	inicio := "2024-01-15"
	return dto.CrearContratoRequest{
		ClienteID:        &clienteID,
		EquipoID:         equipo.ID.String(),
		Categoria:        "renta",
		PrecioTotal:      decimal.NewFromInt(13000),
		PrecioFinanciado: &financiado,
		Anticipo:         &anticipo,
		MesesPlazo:       &meses,
		FechaInicio:      &inicio,
	}
}

func TestCrearContrato_Renta(t *testing.T) {
	svc, contratoRepo, cuotaRepo, _, cliente, equipo := setupContratoService(t)

	resp, err := svc.Crear(context.Background(), reqRenta(cliente, equipo))
	require.NoError(t, err)

	assert.Equal(t, "CT00001", resp.ID)
	assert.Equal(t, "activo", resp.Estado)
	assert.True(t, resp.CostoRenta.Equal(decimal.NewFromInt(12000)))
	assert.True(t, resp.CuotaMensual.Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, resp.FechaFin)
	assert.Equal(t, "2025-01-15", *resp.FechaFin)

	// schedule created in the same transaction: anticipo + 12 monthly cuotas
	require.Len(t, cuotaRepo.batches, 1)
	assert.Len(t, cuotaRepo.batches[0], 13)

	// the handset leaves the sellable pool
	assert.True(t, equipo.Vendido)
	assert.Contains(t, contratoRepo.contratos, "CT00001")
}

func TestCrearContrato_Contado(t *testing.T) {
	svc, _, cuotaRepo, _, _, equipo := setupContratoService(t)

	resp, err := svc.Crear(context.Background(), dto.CrearContratoRequest{
		EquipoID:    equipo.ID.String(),
		Categoria:   "contado",
		PrecioTotal: decimal.NewFromInt(9000),
	})
	require.NoError(t, err)

	// cash sales are terminal at creation and carry no schedule
	assert.Equal(t, "pagado", resp.Estado)
	assert.Empty(t, cuotaRepo.batches)
	assert.Nil(t, resp.ClienteID)
}

func TestCrearContrato_EquipoYaVendido(t *testing.T) {
	svc, _, _, _, cliente, equipo := setupContratoService(t)
	equipo.Vendido = true

	_, err := svc.Crear(context.Background(), reqRenta(cliente, equipo))
	var estadoErr *ErrorEstadoInvalido
	require.True(t, errors.As(err, &estadoErr))
}

func TestCrearContrato_EquipoVendidoEnCarrera(t *testing.T) {
	// The availability pre-check passes, but another creation sells the equipo
	// before this transaction claims it — the conditional claim must fail the
	// whole creation instead of selling the handset twice.
	svc, _, _, catalogoRepo, cliente, equipo := setupContratoService(t)
	catalogoRepo.antesDeVender = func() { equipo.Vendido = true }

	_, err := svc.Crear(context.Background(), reqRenta(cliente, equipo))
	var estadoErr *ErrorEstadoInvalido
	require.True(t, errors.As(err, &estadoErr))
}

func TestCrearContrato_EquipoInexistente(t *testing.T) {
	svc, _, _, _, cliente, equipo := setupContratoService(t)
	req := reqRenta(cliente, equipo)
	req.EquipoID = uuid.NewString()

	_, err := svc.Crear(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestCrearContrato_RentaCamposFaltantes(t *testing.T) {
	svc, _, _, _, _, equipo := setupContratoService(t)

	_, err := svc.Crear(context.Background(), dto.CrearContratoRequest{
		EquipoID:    equipo.ID.String(),
		Categoria:   "renta",
		PrecioTotal: decimal.NewFromInt(13000),
	})
	var valErr *ErrorValidacion
	require.True(t, errors.As(err, &valErr))
	// every missing field is reported at once
	assert.Contains(t, valErr.Campos, "cliente_id")
	assert.Contains(t, valErr.Campos, "precio_financiado")
	assert.Contains(t, valErr.Campos, "anticipo")
	assert.Contains(t, valErr.Campos, "meses_plazo")
	assert.Contains(t, valErr.Campos, "fecha_inicio")
}

func TestCrearContrato_MesesPlazoFueraDeRango(t *testing.T) {
	svc, _, _, _, cliente, equipo := setupContratoService(t)
	req := reqRenta(cliente, equipo)
	meses := 25
	req.MesesPlazo = &meses

	_, err := svc.Crear(context.Background(), req)
	var valErr *ErrorValidacion
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Campos, "meses_plazo")
}

func TestCrearContrato_AnticipoMayorQueFinanciado(t *testing.T) {
	svc, _, _, _, cliente, equipo := setupContratoService(t)
	req := reqRenta(cliente, equipo)
	anticipo := decimal.NewFromInt(15000)
	req.Anticipo = &anticipo

	_, err := svc.Crear(context.Background(), req)
	var valErr *ErrorValidacion
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Campos, "anticipo")
}

func TestObtenerDetalle(t *testing.T) {
	svc, contratoRepo, _, _, _, _ := setupContratoService(t)
	c := contratoRenta(t)
	contratoRepo.contratos[c.ID] = c

	resp, err := svc.ObtenerDetalle(context.Background(), "CT00001", fecha("2024-05-20"))
	require.NoError(t, err)

	assert.Equal(t, "CT00001", resp.Contrato.ID)
	assert.Len(t, resp.Cuotas, 13)
	// nothing paid: Feb through Apr cuotas are past their month, the anticipo
	// sits inside the grace month
	assert.Equal(t, 3, resp.Saldo.MesesVencidos)
	assert.True(t, resp.Saldo.MontoRestante.Equal(decimal.NewFromInt(15000)))
}

func TestObtenerDetalle_NoEncontrado(t *testing.T) {
	svc, _, _, _, _, _ := setupContratoService(t)

	_, err := svc.ObtenerDetalle(context.Background(), "CT99999", fecha("2024-01-01"))
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestObtenerDetalle_RentaCorrupta(t *testing.T) {
	svc, contratoRepo, _, _, _, _ := setupContratoService(t)
	c := contratoRenta(t)
	c.Cuotas = nil
	contratoRepo.contratos[c.ID] = c

	_, err := svc.ObtenerDetalle(context.Background(), "CT00001", fecha("2024-05-20"))
	var intErr *ErrorIntegridad
	require.True(t, errors.As(err, &intErr))
}
