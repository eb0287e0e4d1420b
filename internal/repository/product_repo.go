package repository

import (
	"context"
	"errors"
	"strings"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductListFilter struct {
	CategorySlug string
	Query        string // по name
	Limit        int
	Offset       int
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	// GetPurchasable: активный и не удалённый товар вместе со скидкой
	GetPurchasable(ctx context.Context, id uuid.UUID) (*models.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
	SetDeleted(ctx context.Context, id uuid.UUID, deleted bool) (bool, error)

	CreateColor(ctx context.Context, c *models.ProductColor) error
	GetColorByName(ctx context.Context, productID uuid.UUID, name string) (*models.ProductColor, error)
	AttachFeature(ctx context.Context, productID, featureValueID uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *productRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Discount").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Preload("Discount").
		Preload("Category").
		Preload("Brand").
		Preload("Colors", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Features.FeatureValue.Feature").
		First(&p, "slug = ? AND is_active = true AND is_deleted = false", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) GetPurchasable(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Discount").
		First(&p, "id = ? AND is_active = true AND is_deleted = false", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug).Count(&cnt).Error
	return cnt > 0, err
}

func (r *productRepo) List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("products.is_active = true AND products.is_deleted = false")

	if s := strings.TrimSpace(f.CategorySlug); s != "" {
		q = q.Joins("JOIN categories c ON c.id = products.category_id AND c.is_deleted = false").
			Where("c.slug = ?", s)
	}

	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where("lower(products.name) LIKE lower(?)", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Product
	if err := q.Preload("Discount").Order("products.created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *productRepo) SetDeleted(ctx context.Context, id uuid.UUID, deleted bool) (bool, error) {
	// мягкое удаление снимает товар с витрины, восстановление возвращает
	tx := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
		"is_deleted": deleted,
		"is_active":  !deleted,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) CreateColor(ctx context.Context, c *models.ProductColor) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *productRepo) GetColorByName(ctx context.Context, productID uuid.UUID, name string) (*models.ProductColor, error) {
	var c models.ProductColor
	err := r.db.WithContext(ctx).First(&c, "product_id = ? AND name = ?", productID, name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *productRepo) AttachFeature(ctx context.Context, productID, featureValueID uuid.UUID) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProductFeature{ProductID: productID, FeatureValueID: featureValueID}).Error
}
