package service

import (
	"context"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductFilter struct {
	CategorySlug string
	Query        string
	Limit        int
	Offset       int
}

type CreateCategoryInput struct {
	Name     string
	ParentID *uuid.UUID
}

type CreateBrandInput struct {
	Name        string
	Description *string
}

type CreateProductInput struct {
	CategoryID  uuid.UUID
	BrandID     uuid.UUID
	Name        string
	Description *string
	Price       decimal.Decimal
	Weight      decimal.Decimal
	IsActive    bool
}

type AddColorInput struct {
	ProductID uuid.UUID
	Name      string
	HexCode   *string
}

type AddFeatureValueInput struct {
	Feature string
	Value   string
	HexCode *string
}

type SetStockInput struct {
	ProductID uuid.UUID
	Color     string
	Features  map[string]string
	Stock     int
}

type DiscountInput struct {
	Kind      pricing.Kind
	Value     decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
	Active    bool
}

type CreateDiscountCodeInput struct {
	Code          string
	Discount      DiscountInput
	MinOrderPrice decimal.Decimal
	MaxUses       int
}

// ProductDetails: карточка товара с остатками по вариантам
type ProductDetails struct {
	Product    *models.Product
	FinalPrice decimal.Decimal
}

type CatalogService interface {
	ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	FeaturedProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, slug string) (*ProductDetails, error)
	ProductStocks(ctx context.Context, slug string) ([]models.ProductStock, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoryBranches(ctx context.Context, slug string) ([]models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)

	CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error)
	CreateBrand(ctx context.Context, in CreateBrandInput) (*models.Brand, error)
	CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error)
	SoftDeleteProduct(ctx context.Context, id uuid.UUID) error
	RestoreProduct(ctx context.Context, id uuid.UUID) error
	AddColor(ctx context.Context, in AddColorInput) (*models.ProductColor, error)
	AddFeatureValue(ctx context.Context, in AddFeatureValueInput) (*models.FeatureValue, error)
	AttachFeature(ctx context.Context, productID, featureValueID uuid.UUID) error
	SetStock(ctx context.Context, in SetStockInput) (*models.ProductStock, error)
	SetProductDiscount(ctx context.Context, productID uuid.UUID, in DiscountInput) (*models.Discount, error)
	CreateDiscountCode(ctx context.Context, in CreateDiscountCodeInput) (*models.DiscountCode, error)
}
