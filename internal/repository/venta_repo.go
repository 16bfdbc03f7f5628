package repository

import (
	"context"

	"github.com/gimenezlucas594-sudo/stocking-app/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// ListRecientes returns the newest sales across all locales, newest first.
	ListRecientes(ctx context.Context, limit int) ([]model.Venta, error)
	// ListPorVendedor returns the newest sales of one vendedor, newest first.
	ListPorVendedor(ctx context.Context, vendedorID uuid.UUID, limit int) ([]model.Venta, error)
	CountPorLocal(ctx context.Context, localID uuid.UUID) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items.Producto").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) ListRecientes(ctx context.Context, limit int) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Order("created_at DESC").
		Limit(limit).
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListPorVendedor(ctx context.Context, vendedorID uuid.UUID, limit int) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("vendedor_id = ?", vendedorID).
		Preload("Items.Producto").
		Order("created_at DESC").
		Limit(limit).
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) CountPorLocal(ctx context.Context, localID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Venta{}).Where("local_id = ?", localID).Count(&n).Error
	return n, err
}
