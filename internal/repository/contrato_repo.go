package repository

import (
	"context"
	"fmt"

	"telcuotas/internal/dto"
	"telcuotas/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContratoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Contrato) error
	// NextID draws the business id (CT00001…) from a Postgres sequence so
	// concurrent creations never collide.
	NextID(ctx context.Context, tx *gorm.DB) (string, error)
	FindByID(ctx context.Context, id string) (*model.Contrato, error)
	// FindByIDForUpdate locks the contract row (SELECT … FOR UPDATE) so that
	// concurrent payment verifications / discount additions on the same
	// contract serialize. Children are loaded after the lock is held.
	FindByIDForUpdate(tx *gorm.DB, id string) (*model.Contrato, error)
	UpdateEstadoTx(tx *gorm.DB, id string, estado model.EstadoContrato) error
	// ListSeguimiento returns contracts matching the SQL-expressible filters,
	// ordered by id for stable pagination. Derived-value filters (saldo and
	// cuota-count ranges) are applied by the service after aggregation.
	ListSeguimiento(ctx context.Context, f dto.SeguimientoFilter) ([]model.Contrato, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type contratoRepo struct{ db *gorm.DB }

func NewContratoRepository(db *gorm.DB) ContratoRepository { return &contratoRepo{db: db} }

func (r *contratoRepo) DB() *gorm.DB { return r.db }

func (r *contratoRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Contrato) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *contratoRepo) NextID(ctx context.Context, tx *gorm.DB) (string, error) {
	var num int64
	err := tx.WithContext(ctx).Raw("SELECT nextval('contratos_numero_seq')").Scan(&num).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CT%05d", num), nil
}

func (r *contratoRepo) FindByID(ctx context.Context, id string) (*model.Contrato, error) {
	var c model.Contrato
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Equipo").
		Preload("Cuotas", func(db *gorm.DB) *gorm.DB { return db.Order("numero ASC") }).
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha_pago ASC, created_at ASC") }).
		Preload("Descuentos", func(db *gorm.DB) *gorm.DB { return db.Order("aprobado_en ASC, created_at ASC") }).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contratoRepo) FindByIDForUpdate(tx *gorm.DB, id string) (*model.Contrato, error) {
	var c model.Contrato
	// Lock the parent row first; preloads run under the same tx afterwards.
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.
		Preload("Cuotas", func(db *gorm.DB) *gorm.DB { return db.Order("numero ASC") }).
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha_pago ASC, created_at ASC") }).
		Preload("Descuentos", func(db *gorm.DB) *gorm.DB { return db.Order("aprobado_en ASC, created_at ASC") }).
		First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contratoRepo) UpdateEstadoTx(tx *gorm.DB, id string, estado model.EstadoContrato) error {
	return tx.Model(&model.Contrato{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *contratoRepo) ListSeguimiento(ctx context.Context, f dto.SeguimientoFilter) ([]model.Contrato, error) {
	q := r.db.WithContext(ctx).Model(&model.Contrato{})

	if f.Estado != "" && f.Estado != "all" {
		q = q.Where("contratos.estado = ?", f.Estado)
	}
	if f.Q != "" {
		like := "%" + f.Q + "%"
		q = q.Joins("LEFT JOIN clientes ON clientes.id = contratos.cliente_id").
			Joins("LEFT JOIN equipos ON equipos.id = contratos.equipo_id").
			Where("clientes.nombre ILIKE ? OR equipos.marca ILIKE ? OR equipos.modelo ILIKE ?", like, like, like)
	}
	if f.Dia > 0 {
		q = q.Where(`EXISTS (SELECT 1 FROM cuotas
			WHERE cuotas.contrato_id = contratos.id
			  AND EXTRACT(DAY FROM cuotas.fecha_vencimiento) = ?)`, f.Dia)
	}
	if f.VenceDesde != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM cuotas
			WHERE cuotas.contrato_id = contratos.id
			  AND cuotas.estado IN ('pendiente','parcial')
			  AND cuotas.fecha_vencimiento >= ?)`, f.VenceDesde)
	}
	if f.VenceHasta != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM cuotas
			WHERE cuotas.contrato_id = contratos.id
			  AND cuotas.estado IN ('pendiente','parcial')
			  AND cuotas.fecha_vencimiento <= ?)`, f.VenceHasta)
	}

	var contratos []model.Contrato
	err := q.
		Preload("Cliente").
		Preload("Equipo").
		Preload("Cuotas", func(db *gorm.DB) *gorm.DB { return db.Order("numero ASC") }).
		Preload("Pagos", func(db *gorm.DB) *gorm.DB {
			return db.Where("estado_verificacion = ?", model.VerificacionAprobada).
				Order("fecha_pago ASC, created_at ASC")
		}).
		Preload("Descuentos", func(db *gorm.DB) *gorm.DB { return db.Order("aprobado_en ASC, created_at ASC") }).
		Order("contratos.id ASC").
		Find(&contratos).Error
	return contratos, err
}
