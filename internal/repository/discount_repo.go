package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DiscountRepo interface {
	// Upsert: у товара не больше одной скидки, повторная запись заменяет условия
	Upsert(ctx context.Context, d *models.Discount) error
	GetByProduct(ctx context.Context, productID uuid.UUID) (*models.Discount, error)
}

type discountRepo struct{ db *gorm.DB }

func NewDiscountRepo(db *gorm.DB) DiscountRepo { return &discountRepo{db: db} }

func (r *discountRepo) Upsert(ctx context.Context, d *models.Discount) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "discount_type", "start_date", "end_date", "active", "updated_at"}),
	}).Create(d).Error
}

func (r *discountRepo) GetByProduct(ctx context.Context, productID uuid.UUID) (*models.Discount, error) {
	var d models.Discount
	err := r.db.WithContext(ctx).First(&d, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &d, err
}

type DiscountCodeRepo interface {
	Create(ctx context.Context, c *models.DiscountCode) error
	GetByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	// LockActiveByCode: SELECT ... FOR UPDATE активного кода; вызывать внутри транзакции
	LockActiveByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	// IncrementUsage: used_count += 1, только если лимит не исчерпан
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type discountCodeRepo struct{ db *gorm.DB }

func NewDiscountCodeRepo(db *gorm.DB) DiscountCodeRepo { return &discountCodeRepo{db: db} }

func NormalizeCode(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

func (r *discountCodeRepo) Create(ctx context.Context, c *models.DiscountCode) error {
	c.Code = NormalizeCode(c.Code)
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *discountCodeRepo) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var c models.DiscountCode
	err := r.db.WithContext(ctx).First(&c, "code = ?", NormalizeCode(code)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *discountCodeRepo) LockActiveByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var c models.DiscountCode
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ? AND active = true", NormalizeCode(code)).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *discountCodeRepo) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE discount_codes
SET used_count = used_count + 1,
    updated_at = now()
WHERE id = @id
  AND used_count < max_uses
`, map[string]any{
		"id": id,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *discountCodeRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.DiscountCode{}).
		Where("active = true AND end_date < ?", now).
		Update("active", false)
	return tx.RowsAffected, tx.Error
}
