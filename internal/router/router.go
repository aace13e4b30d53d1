package router

import (
	"time"

	"telcuotas/internal/config"
	"telcuotas/internal/handler"
	"telcuotas/internal/infra"
	"telcuotas/internal/middleware"
	"telcuotas/internal/repository"
	"telcuotas/internal/service"
	"telcuotas/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	contratoRepo := repository.NewContratoRepository(db)
	cuotaRepo := repository.NewCuotaRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	descuentoRepo := repository.NewDescuentoRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	contratoSvc := service.NewContratoService(contratoRepo, cuotaRepo, catalogoRepo)
	pagoSvc := service.NewPagoService(pagoRepo, contratoRepo, cuotaRepo, dispatcher)
	descuentoSvc := service.NewDescuentoService(descuentoRepo, contratoRepo, cuotaRepo)
	seguimientoSvc := service.NewSeguimientoService(contratoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	contratosH := handler.NewContratosHandler(contratoSvc)
	pagosH := handler.NewPagosHandler(pagoSvc)
	descuentosH := handler.NewDescuentosHandler(descuentoSvc)
	seguimientoH := handler.NewSeguimientoHandler(seguimientoSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Protected routes. Tokens come from the company identity service.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		todos := middleware.RequireRole(middleware.RolCobrador, middleware.RolSupervisor, middleware.RolAdministrador)
		gestion := middleware.RequireRole(middleware.RolSupervisor, middleware.RolAdministrador)
		admin := middleware.RequireRole(middleware.RolAdministrador)

		// Contratos — creation is a back-office operation
		v1.POST("/contratos", gestion, contratosH.Crear)
		v1.GET("/contratos/:id", todos, contratosH.ObtenerDetalle)

		// Pagos — cobradores submit, verification is a management decision
		v1.POST("/pagos", todos, pagosH.Registrar)
		v1.POST("/pagos/:id/verificar", gestion, pagosH.Verificar)

		// Descuentos — administrador only; the chain is append-only
		v1.POST("/contratos/:id/descuentos", admin, descuentosH.Agregar)

		// Seguimiento — the collections worklist
		v1.GET("/seguimiento", todos, seguimientoH.Listar)

		// Catálogo mínimo
		v1.POST("/clientes", gestion, catalogoH.CrearCliente)
		v1.POST("/equipos", gestion, catalogoH.CrearEquipo)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
