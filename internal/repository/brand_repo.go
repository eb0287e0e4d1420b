package repository

import (
	"context"
	"errors"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BrandRepo interface {
	Create(ctx context.Context, b *models.Brand) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]models.Brand, error)
}

type brandRepo struct{ db *gorm.DB }

func NewBrandRepo(db *gorm.DB) BrandRepo { return &brandRepo{db: db} }

func (r *brandRepo) Create(ctx context.Context, b *models.Brand) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *brandRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var b models.Brand
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &b, err
}

func (r *brandRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Brand{}).Where("slug = ?", slug).Count(&cnt).Error
	return cnt > 0, err
}

func (r *brandRepo) List(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}
