//go:build integration

package router_test

// Full-cycle integration tests against real Postgres + Redis via
// testcontainers. Run with: go test -tags integration ./internal/router/... -v
//
// Covered cycle: alta de catálogo → contrato renta → registro y verificación
// de pago → saldo → seguimiento.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telcuotas/internal/config"
	"telcuotas/internal/infra"
	"telcuotas/internal/middleware"
	"telcuotas/internal/router"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const testSecret = "test-secret-key"

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// mintToken signs a JWT the way the identity collaborator would.
func mintToken(t *testing.T, rol string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   uuid.NewString(),
		Username: "test-" + rol,
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func setupTestEnv(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("telcuotas_test"),
		tcPostgres.WithUsername("telcuotas"),
		tcPostgres.WithPassword("telcuotas"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:              8000,
		Env:               "test",
		JWTSecret:         testSecret,
		DatabaseURL:       pgURL,
		RedisURL:          rdURL,
		WorkerPoolSize:    1,
		ReciboStoragePath: t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, smtpCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestIntegration_CicloCompleto(t *testing.T) {
	srv := setupTestEnv(t)
	admin := mintToken(t, middleware.RolAdministrador)

	// health is public
	health := do(t, srv, "GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, health.StatusCode)
	health.Body.Close()

	// 1. catálogo
	cliResp := do(t, srv, "POST", "/v1/clientes",
		jsonBody(t, map[string]any{"nombre": "María Gómez", "email": "maria@example.com"}), admin)
	require.Equal(t, http.StatusCreated, cliResp.StatusCode)
	var cliente struct {
		ID string `json:"id"`
	}
	decodeJSON(t, cliResp, &cliente)

	eqResp := do(t, srv, "POST", "/v1/equipos",
		jsonBody(t, map[string]any{
			"marca": "Samsung", "modelo": "Galaxy A54",
			"imei": "350000000000001", "precio_lista": "9000",
		}), admin)
	require.Equal(t, http.StatusCreated, eqResp.StatusCode)
	var equipo struct {
		ID string `json:"id"`
	}
	decodeJSON(t, eqResp, &equipo)

	// 2. contrato renta de 12 meses
	ctResp := do(t, srv, "POST", "/v1/contratos",
		jsonBody(t, map[string]any{
			"cliente_id":        cliente.ID,
			"equipo_id":         equipo.ID,
			"categoria":         "renta",
			"precio_total":      "13000",
			"precio_financiado": "15000",
			"anticipo":          "3000",
			"meses_plazo":       12,
			"fecha_inicio":      "2024-01-15",
		}), admin)
	require.Equal(t, http.StatusCreated, ctResp.StatusCode)
	var contrato struct {
		ID           string `json:"id"`
		CuotaMensual string `json:"cuota_mensual"`
	}
	decodeJSON(t, ctResp, &contrato)
	assert.Regexp(t, `^CT\d{5}$`, contrato.ID)

	// 3. detalle: cronograma completo persistido
	detResp := do(t, srv, "GET", "/v1/contratos/"+contrato.ID+"?corte=2024-01-20", nil, admin)
	require.Equal(t, http.StatusOK, detResp.StatusCode)
	var detalle struct {
		Cuotas []json.RawMessage `json:"cuotas"`
		Saldo  struct {
			MontoRestante string `json:"monto_restante"`
		} `json:"saldo"`
	}
	decodeJSON(t, detResp, &detalle)
	assert.Len(t, detalle.Cuotas, 13)
	assert.Equal(t, "15000", detalle.Saldo.MontoRestante)

	// 4. pago del anticipo + verificación
	pagoResp := do(t, srv, "POST", "/v1/pagos",
		jsonBody(t, map[string]any{
			"contrato_id": contrato.ID,
			"fecha_pago":  "2024-01-15",
			"monto":       "3000",
			"metodo":      "efectivo",
		}), admin)
	require.Equal(t, http.StatusCreated, pagoResp.StatusCode)
	var pago struct {
		ID string `json:"id"`
	}
	decodeJSON(t, pagoResp, &pago)

	verResp := do(t, srv, "POST", "/v1/pagos/"+pago.ID+"/verificar",
		jsonBody(t, map[string]any{"decision": "aprobado"}), admin)
	require.Equal(t, http.StatusOK, verResp.StatusCode)
	var verificacion struct {
		Saldo struct {
			MontoRestante string `json:"monto_restante"`
		} `json:"saldo"`
	}
	decodeJSON(t, verResp, &verificacion)
	assert.Equal(t, "12000", verificacion.Saldo.MontoRestante)

	// 5. doble verificación responde conflicto
	dupResp := do(t, srv, "POST", "/v1/pagos/"+pago.ID+"/verificar",
		jsonBody(t, map[string]any{"decision": "rechazado"}), admin)
	assert.Equal(t, http.StatusConflict, dupResp.StatusCode)
	dupResp.Body.Close()

	// 6. seguimiento lista el contrato con su saldo
	segResp := do(t, srv, "GET", "/v1/seguimiento?estado=activo&corte=2024-05-20", nil, admin)
	require.Equal(t, http.StatusOK, segResp.StatusCode)
	var seguimiento struct {
		Data []struct {
			ContratoID    string `json:"contrato_id"`
			MesesVencidos int    `json:"meses_vencidos"`
		} `json:"data"`
		Total int64 `json:"total"`
	}
	decodeJSON(t, segResp, &seguimiento)
	require.Equal(t, int64(1), seguimiento.Total)
	assert.Equal(t, contrato.ID, seguimiento.Data[0].ContratoID)
	assert.Equal(t, 3, seguimiento.Data[0].MesesVencidos)
}

func TestIntegration_Autorizacion(t *testing.T) {
	srv := setupTestEnv(t)

	// sin token
	resp := do(t, srv, "GET", "/v1/seguimiento", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// cobrador no puede crear contratos
	cobrador := mintToken(t, middleware.RolCobrador)
	resp = do(t, srv, "POST", "/v1/contratos", jsonBody(t, map[string]any{}), cobrador)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// pero sí puede consultar el seguimiento
	resp = do(t, srv, "GET", "/v1/seguimiento", nil, cobrador)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
