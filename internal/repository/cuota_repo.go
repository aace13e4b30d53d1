package repository

import (
	"context"

	"telcuotas/internal/model"

	"gorm.io/gorm"
)

type CuotaRepository interface {
	// CreateBatchTx persists the whole schedule inside the contract-creation
	// transaction; a contract must never be observable without its cuotas.
	CreateBatchTx(tx *gorm.DB, cuotas []model.Cuota) error
	SaveTx(tx *gorm.DB, q *model.Cuota) error
	ListByContrato(ctx context.Context, contratoID string) ([]model.Cuota, error)
}

type cuotaRepo struct{ db *gorm.DB }

func NewCuotaRepository(db *gorm.DB) CuotaRepository { return &cuotaRepo{db: db} }

func (r *cuotaRepo) CreateBatchTx(tx *gorm.DB, cuotas []model.Cuota) error {
	if len(cuotas) == 0 {
		return nil
	}
	return tx.Create(&cuotas).Error
}

func (r *cuotaRepo) SaveTx(tx *gorm.DB, q *model.Cuota) error {
	return tx.Model(q).Select("monto_pagado", "estado", "pagada_en", "es_pago_final", "nota").Updates(q).Error
}

func (r *cuotaRepo) ListByContrato(ctx context.Context, contratoID string) ([]model.Cuota, error) {
	var cuotas []model.Cuota
	err := r.db.WithContext(ctx).
		Where("contrato_id = ?", contratoID).
		Order("numero ASC").
		Find(&cuotas).Error
	return cuotas, err
}
