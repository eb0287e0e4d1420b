package service

import (
	"context"
	"fmt"
	"strings"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
)

// VariantSelection: выбор покупателя: товар, цвет и значения характеристик по имени
type VariantSelection struct {
	ProductID uuid.UUID
	Color     string
	Features  map[string]string
	Quantity  int
}

type ResolvedVariant struct {
	Product  *models.Product
	Color    *models.ProductColor
	Values   []models.FeatureValue
	Stock    *models.ProductStock
	Features map[string]string
}

// ResolveStock сопоставляет выбор с одной строкой остатка и проверяет количество. Побочных эффектов нет.
func ResolveStock(ctx context.Context, repo *repository.Repository, sel VariantSelection) (*ResolvedVariant, error) {
	if sel.Quantity < 1 {
		return nil, validationf("quantity must be >= 1")
	}

	product, err := repo.Products.GetPurchasable(ctx, sel.ProductID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	color, err := repo.Products.GetColorByName(ctx, product.ID, strings.TrimSpace(sel.Color))
	if err != nil {
		return nil, fmt.Errorf("load color: %w", err)
	}
	if color == nil {
		return nil, fmt.Errorf("%w: color %q is not available for this product", ErrInvalidVariant, sel.Color)
	}

	values := make([]models.FeatureValue, 0, len(sel.Features))
	ids := make([]uuid.UUID, 0, len(sel.Features))
	for name, value := range sel.Features {
		fv, err := repo.Features.FindValue(ctx, name, value)
		if err != nil {
			return nil, fmt.Errorf("load feature value: %w", err)
		}
		if fv == nil {
			return nil, fmt.Errorf("%w: feature %q with value %q not found", ErrInvalidVariant, name, value)
		}
		values = append(values, *fv)
		ids = append(ids, fv.ID)
	}

	stock, err := repo.Stocks.FindVariant(ctx, product.ID, color.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("find stock: %w", err)
	}
	if stock == nil {
		return nil, ErrOutOfStock
	}
	if stock.Stock < sel.Quantity {
		return nil, &InsufficientStockError{Available: stock.Stock}
	}

	features := make(map[string]string, len(sel.Features))
	for k, v := range sel.Features {
		features[k] = v
	}

	return &ResolvedVariant{
		Product:  product,
		Color:    color,
		Values:   values,
		Stock:    stock,
		Features: features,
	}, nil
}
