package repository

import (
	"context"

	"github.com/gimenezlucas594-sudo/stocking-app/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocalRepository interface {
	Create(ctx context.Context, l *model.Local) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Local, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Local, error)
	List(ctx context.Context) ([]model.Local, error)
	Update(ctx context.Context, l *model.Local) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type localRepo struct{ db *gorm.DB }

func NewLocalRepository(db *gorm.DB) LocalRepository { return &localRepo{db: db} }

func (r *localRepo) Create(ctx context.Context, l *model.Local) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *localRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Local, error) {
	var l model.Local
	err := r.db.WithContext(ctx).First(&l, id).Error
	return &l, err
}

func (r *localRepo) FindByNombre(ctx context.Context, nombre string) (*model.Local, error) {
	var l model.Local
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&l).Error
	return &l, err
}

func (r *localRepo) List(ctx context.Context) ([]model.Local, error) {
	var locales []model.Local
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&locales).Error
	return locales, err
}

func (r *localRepo) Update(ctx context.Context, l *model.Local) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *localRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Local{}, id).Error
}
