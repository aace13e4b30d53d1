package repository

import (
	"context"

	"telcuotas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PagoRepository interface {
	Create(ctx context.Context, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	// FindByIDForUpdate locks the payment row inside the verification tx so a
	// second concurrent verify sees the committed estado, not a stale one.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Pago, error)
	SaveTx(tx *gorm.DB, p *model.Pago) error
	ListByContrato(ctx context.Context, contratoID string) ([]model.Pago, error)
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) Create(ctx context.Context, p *model.Pago) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pagoRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pagoRepo) SaveTx(tx *gorm.DB, p *model.Pago) error {
	return tx.Model(p).
		Select("estado_verificacion", "verificado_por", "verificado_en").
		Updates(p).Error
}

func (r *pagoRepo) ListByContrato(ctx context.Context, contratoID string) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).
		Where("contrato_id = ?", contratoID).
		Order("fecha_pago ASC, created_at ASC").
		Find(&pagos).Error
	return pagos, err
}
