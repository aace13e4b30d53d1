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

func setupDescuentoService(t *testing.T) (DescuentoService, *stubContratoRepo, *stubCuotaRepo) {
	t.Helper()
	contratoRepo := newStubContratoRepo()
	cuotaRepo := newStubCuotaRepo()
	descuentoRepo := newStubDescuentoRepo()

	c := contratoRenta(t)
	contratoRepo.contratos[c.ID] = c

	svc := NewDescuentoService(descuentoRepo, contratoRepo, cuotaRepo)
	return svc, contratoRepo, cuotaRepo
}

func TestAgregarDescuento_Encadena(t *testing.T) {
	svc, _, _ := setupDescuentoService(t)
	adminID := uuid.New()

	// first link rebases from CostoRenta (12000)
	first, err := svc.Agregar(context.Background(), "CT00001", dto.AgregarDescuentoRequest{
		Tipo:           "oferta_especial",
		MontoDescuento: decimal.NewFromInt(3000),
	}, adminID)
	require.NoError(t, err)
	assert.True(t, first.MontoFinal.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, adminID.String(), first.AprobadoPor)

	// second link rebases from the previous MontoFinal, never the original
	second, err := svc.Agregar(context.Background(), "CT00001", dto.AgregarDescuentoRequest{
		Tipo:           "oferta_especial",
		MontoDescuento: decimal.NewFromInt(500),
	}, adminID)
	require.NoError(t, err)
	assert.True(t, second.MontoFinal.Equal(decimal.NewFromInt(8500)))
}

func TestAgregarDescuento_ExcedeBase(t *testing.T) {
	svc, _, _ := setupDescuentoService(t)

	_, err := svc.Agregar(context.Background(), "CT00001", dto.AgregarDescuentoRequest{
		Tipo:           "oferta_especial",
		MontoDescuento: decimal.NewFromInt(12001),
	}, uuid.New())
	var valErr *ErrorValidacion
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Campos, "monto_descuento")
}

func TestAgregarDescuento_ContadoRechazado(t *testing.T) {
	svc, contratoRepo, _ := setupDescuentoService(t)
	contratoRepo.contratos["CT00002"] = &model.Contrato{
		ID:          "CT00002",
		Categoria:   model.CategoriaContado,
		PrecioTotal: decimal.NewFromInt(9000),
		Estado:      model.ContratoPagado,
	}

	_, err := svc.Agregar(context.Background(), "CT00002", dto.AgregarDescuentoRequest{
		Tipo:           "oferta_especial",
		MontoDescuento: decimal.NewFromInt(100),
	}, uuid.New())
	var estadoErr *ErrorEstadoInvalido
	require.True(t, errors.As(err, &estadoErr))
}

func TestAgregarDescuento_ContratoCerrado(t *testing.T) {
	svc, contratoRepo, _ := setupDescuentoService(t)
	contratoRepo.contratos["CT00001"].Estado = model.ContratoPagado

	_, err := svc.Agregar(context.Background(), "CT00001", dto.AgregarDescuentoRequest{
		Tipo:           "cierre_anticipado",
		MontoDescuento: decimal.NewFromInt(100),
	}, uuid.New())
	var estadoErr *ErrorEstadoInvalido
	require.True(t, errors.As(err, &estadoErr))
}

func TestAgregarDescuento_NoEncontrado(t *testing.T) {
	svc, _, _ := setupDescuentoService(t)

	_, err := svc.Agregar(context.Background(), "CT99999", dto.AgregarDescuentoRequest{
		Tipo:           "oferta_especial",
		MontoDescuento: decimal.NewFromInt(100),
	}, uuid.New())
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestAgregarDescuento_CierreAnticipado(t *testing.T) {
	// Customer paid 6000 of 15000; a cierre_anticipado discount of 6000 drops
	// the authoritative total to 6000, which is already covered — the contract
	// closes and the open tail of the schedule is waived.
	svc, contratoRepo, cuotaRepo := setupDescuentoService(t)
	c := contratoRepo.contratos["CT00001"]
	c.Pagos = []model.Pago{
		pagoAprobado(3000, "2024-01-15"),
		pagoAprobado(1000, "2024-02-15"),
		pagoAprobado(1000, "2024-03-15"),
		pagoAprobado(1000, "2024-04-15"),
	}
	c.Cuotas = AsignarPagos(c)

	resp, err := svc.Agregar(context.Background(), "CT00001", dto.AgregarDescuentoRequest{
		Tipo:           "cierre_anticipado",
		MontoDescuento: decimal.NewFromInt(6000),
	}, uuid.New())
	require.NoError(t, err)
	assert.True(t, resp.MontoFinal.Equal(decimal.NewFromInt(6000)))

	assert.Equal(t, model.ContratoPagado, c.Estado)

	// persisted cuota updates include the pago_final marker and waived rows
	var finales, omitidas int
	for _, q := range cuotaRepo.saved {
		switch q.Estado {
		case model.CuotaPagoFinal:
			finales++
		case model.CuotaOmitida:
			omitidas++
		}
	}
	assert.Equal(t, 1, finales)
	assert.Equal(t, 9, omitidas)
}
