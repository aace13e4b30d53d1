package repository

import (
	"context"
	"errors"

	"telcuotas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrEquipoNoDisponible signals that the equipo was already sold when the
// claiming UPDATE ran — the row exists but another contract won it.
var ErrEquipoNoDisponible = errors.New("equipo no disponible")

// CatalogoRepository serves the cliente/equipo records the engine references.
// Full CRUD for both lives in the back-office collaborator.
type CatalogoRepository interface {
	FindCliente(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindEquipo(ctx context.Context, id uuid.UUID) (*model.Equipo, error)
	CreateCliente(ctx context.Context, c *model.Cliente) error
	CreateEquipo(ctx context.Context, e *model.Equipo) error
	MarcarEquipoVendidoTx(tx *gorm.DB, id uuid.UUID) error
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) FindCliente(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *catalogoRepo) FindEquipo(ctx context.Context, id uuid.UUID) (*model.Equipo, error) {
	var e model.Equipo
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *catalogoRepo) CreateCliente(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogoRepo) CreateEquipo(ctx context.Context, e *model.Equipo) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// MarcarEquipoVendidoTx claims the equipo with a conditional UPDATE so two
// concurrent contract creations can never sell the same handset: only the
// transaction that flips vendido first succeeds.
func (r *catalogoRepo) MarcarEquipoVendidoTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Model(&model.Equipo{}).
		Where("id = ? AND vendido = false", id).
		Update("vendido", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEquipoNoDisponible
	}
	return nil
}
