package repository

import (
	"context"

	"telcuotas/internal/model"

	"gorm.io/gorm"
)

type DescuentoRepository interface {
	CreateTx(tx *gorm.DB, d *model.Descuento) error
	// ListByContrato returns the chain ordered by approval time; the last
	// element is the authoritative MontoFinal.
	ListByContrato(ctx context.Context, contratoID string) ([]model.Descuento, error)
}

type descuentoRepo struct{ db *gorm.DB }

func NewDescuentoRepository(db *gorm.DB) DescuentoRepository { return &descuentoRepo{db: db} }

func (r *descuentoRepo) CreateTx(tx *gorm.DB, d *model.Descuento) error {
	return tx.Create(d).Error
}

func (r *descuentoRepo) ListByContrato(ctx context.Context, contratoID string) ([]model.Descuento, error) {
	var descuentos []model.Descuento
	err := r.db.WithContext(ctx).
		Where("contrato_id = ?", contratoID).
		Order("aprobado_en ASC, created_at ASC").
		Find(&descuentos).Error
	return descuentos, err
}
