package repository

import (
	"context"
	"errors"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepo interface {
	// FindVariant возвращает первую строку остатка товара и цвета, связанную со ВСЕМИ переданными значениями.
	// Точное совпадение набора значений идёт первым.
	FindVariant(ctx context.Context, productID, colorID uuid.UUID, valueIDs []uuid.UUID) (*models.ProductStock, error)
	Upsert(ctx context.Context, productID, colorID uuid.UUID, values []models.FeatureValue, stock int) (*models.ProductStock, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductStock, error)
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepo(db *gorm.DB) StockRepo { return &stockRepo{db: db} }

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (r *stockRepo) FindVariant(ctx context.Context, productID, colorID uuid.UUID, valueIDs []uuid.UUID) (*models.ProductStock, error) {
	ids := uniqueIDs(valueIDs)
	key := models.VariantKey(ids)

	q := r.db.WithContext(ctx).Model(&models.ProductStock{}).
		Where("product_stocks.product_id = ? AND product_stocks.color_id = ?", productID, colorID)

	if len(ids) > 0 {
		q = q.Where(`(
SELECT COUNT(DISTINCT psfv.feature_value_id)
FROM product_stock_feature_values psfv
WHERE psfv.product_stock_id = product_stocks.id
  AND psfv.feature_value_id IN ?
) = ?`, ids, len(ids))
	}

	var st models.ProductStock
	err := q.
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "(product_stocks.variant_key = ?) DESC, product_stocks.id ASC",
			Vars:               []any{key},
			WithoutParentheses: true,
		}}).
		Preload("Color").
		Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &st, err
}

func (r *stockRepo) Upsert(ctx context.Context, productID, colorID uuid.UUID, values []models.FeatureValue, stock int) (*models.ProductStock, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		ids = append(ids, v.ID)
	}
	key := models.VariantKey(ids)

	var existing models.ProductStock
	err := r.db.WithContext(ctx).
		First(&existing, "product_id = ? AND color_id = ? AND variant_key = ?", productID, colorID, key).Error
	switch {
	case err == nil:
		if err := r.db.WithContext(ctx).Model(&existing).Update("stock", stock).Error; err != nil {
			return nil, err
		}
		existing.Stock = stock
		return &existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	st := &models.ProductStock{
		ProductID:     productID,
		ColorID:       colorID,
		VariantKey:    key,
		Stock:         stock,
		FeatureValues: values,
	}
	// значения характеристик уже существуют: пишем только связи
	if err := r.db.WithContext(ctx).Omit("Color", "FeatureValues.*").Create(st).Error; err != nil {
		return nil, err
	}
	return st, nil
}

func (r *stockRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductStock, error) {
	var list []models.ProductStock
	err := r.db.WithContext(ctx).
		Preload("Color").
		Preload("FeatureValues.Feature").
		Where("product_id = ?", productID).
		Order("variant_key ASC").
		Find(&list).Error
	return list, err
}
