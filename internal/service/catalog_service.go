package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/pricing"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const featuredLimit = 6

type catalogService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		now:  time.Now,
		log:  log,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	return s.repo.Products.List(ctx, repository.ProductListFilter{
		CategorySlug: f.CategorySlug,
		Query:        f.Query,
		Limit:        f.Limit,
		Offset:       f.Offset,
	})
}

func (s *catalogService) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	list, _, err := s.repo.Products.List(ctx, repository.ProductListFilter{Limit: featuredLimit})
	return list, err
}

func (s *catalogService) GetProduct(ctx context.Context, slug string) (*ProductDetails, error) {
	p, err := s.repo.Products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return &ProductDetails{Product: p, FinalPrice: p.FinalPrice(s.now())}, nil
}

func (s *catalogService) ProductStocks(ctx context.Context, slug string) ([]models.ProductStock, error) {
	p, err := s.repo.Products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return s.repo.Stocks.ListByProduct(ctx, p.ID)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.Categories.ListMain(ctx)
}

// CategoryBranches: для главной ветки она сама и дети, иначе родитель и соседи
func (s *catalogService) CategoryBranches(ctx context.Context, slug string) ([]models.Category, error) {
	c, err := s.repo.Categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	if c.IsMainBranch() {
		children, err := s.repo.Categories.ListChildren(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		return append([]models.Category{*c}, children...), nil
	}

	parent, err := s.repo.Categories.GetByID(ctx, *c.ParentID)
	if err != nil {
		return nil, err
	}
	siblings, err := s.repo.Categories.ListChildren(ctx, *c.ParentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return siblings, nil
	}
	return append([]models.Category{*parent}, siblings...), nil
}

func (s *catalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.repo.Brands.List(ctx)
}

func (s *catalogService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationf("name is required")
	}
	if in.ParentID != nil {
		parent, err := s.repo.Categories.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrNotFound
		}
	}

	slug, err := uniqueSlug(ctx, name, s.repo.Categories.SlugExists)
	if err != nil {
		return nil, err
	}
	c := &models.Category{Name: name, Slug: slug, ParentID: in.ParentID}
	if err := s.repo.Categories.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *catalogService) CreateBrand(ctx context.Context, in CreateBrandInput) (*models.Brand, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationf("name is required")
	}
	slug, err := uniqueSlug(ctx, name, s.repo.Brands.SlugExists)
	if err != nil {
		return nil, err
	}
	b := &models.Brand{Name: name, Slug: slug, Description: in.Description}
	if err := s.repo.Brands.Create(ctx, b); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create brand: %w", err)
	}
	return b, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationf("name is required")
	}
	if in.Price.IsNegative() || in.Weight.IsNegative() {
		return nil, validationf("price and weight must be >= 0")
	}

	cat, err := s.repo.Categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category", ErrNotFound)
	}
	brand, err := s.repo.Brands.GetByID(ctx, in.BrandID)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, fmt.Errorf("%w: brand", ErrNotFound)
	}

	slug, err := uniqueSlug(ctx, name, s.repo.Products.SlugExists)
	if err != nil {
		return nil, err
	}
	p := &models.Product{
		CategoryID:  in.CategoryID,
		BrandID:     in.BrandID,
		Name:        name,
		Slug:        slug,
		Description: in.Description,
		Price:       in.Price,
		Weight:      in.Weight,
		IsActive:    in.IsActive,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info("Товар создан", zap.String("product_id", p.ID.String()), zap.String("slug", p.Slug))
	return p, nil
}

func (s *catalogService) setDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	ok, err := s.repo.Products.SetDeleted(ctx, id, deleted)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}
	return nil
}

func (s *catalogService) SoftDeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.setDeleted(ctx, id, true)
}

func (s *catalogService) RestoreProduct(ctx context.Context, id uuid.UUID) error {
	return s.setDeleted(ctx, id, false)
}

func (s *catalogService) AddColor(ctx context.Context, in AddColorInput) (*models.ProductColor, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationf("color name is required")
	}
	p, err := s.repo.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	c := &models.ProductColor{ProductID: p.ID, Name: name, HexCode: in.HexCode}
	if err := s.repo.Products.CreateColor(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create color: %w", err)
	}
	return c, nil
}

func (s *catalogService) AddFeatureValue(ctx context.Context, in AddFeatureValueInput) (*models.FeatureValue, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Feature) == "" || strings.TrimSpace(in.Value) == "" {
		return nil, validationf("feature and value are required")
	}

	var fv *models.FeatureValue
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		f, err := tx.Features.GetOrCreateFeature(ctx, in.Feature)
		if err != nil {
			return fmt.Errorf("get or create feature: %w", err)
		}
		fv, err = tx.Features.GetOrCreateValue(ctx, f.ID, in.Value, in.HexCode)
		if err != nil {
			return fmt.Errorf("get or create feature value: %w", err)
		}
		return nil
	})
	return fv, err
}

func (s *catalogService) AttachFeature(ctx context.Context, productID, featureValueID uuid.UUID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	values, err := s.repo.Features.GetValuesByIDs(ctx, []uuid.UUID{featureValueID})
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: feature value", ErrNotFound)
	}
	return s.repo.Products.AttachFeature(ctx, productID, featureValueID)
}

func (s *catalogService) SetStock(ctx context.Context, in SetStockInput) (*models.ProductStock, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, validationf("stock must be >= 0")
	}

	var st *models.ProductStock
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}
		color, err := tx.Products.GetColorByName(ctx, p.ID, strings.TrimSpace(in.Color))
		if err != nil {
			return err
		}
		if color == nil {
			return fmt.Errorf("%w: color %q is not defined for this product", ErrInvalidVariant, in.Color)
		}

		values := make([]models.FeatureValue, 0, len(in.Features))
		for name, value := range in.Features {
			fv, err := tx.Features.FindValue(ctx, name, value)
			if err != nil {
				return err
			}
			if fv == nil {
				return fmt.Errorf("%w: feature %q with value %q not found", ErrInvalidVariant, name, value)
			}
			values = append(values, *fv)
		}

		st, err = tx.Stocks.Upsert(ctx, p.ID, color.ID, values, in.Stock)
		if err != nil {
			return fmt.Errorf("upsert stock: %w", err)
		}
		st.Color = color
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Остаток обновлён",
		zap.String("product_id", in.ProductID.String()),
		zap.String("variant_key", st.VariantKey),
		zap.Int("stock", st.Stock),
	)
	return st, nil
}

func validateDiscount(in DiscountInput, maxAmount *decimal.Decimal) (pricing.Rule, error) {
	rule, err := pricing.NewRule(in.Kind, in.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if err := pricing.ValidateRule(rule, maxAmount); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	w := pricing.Window{Active: in.Active, Start: in.StartDate, End: in.EndDate}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	return rule, nil
}

func (s *catalogService) SetProductDiscount(ctx context.Context, productID uuid.UUID, in DiscountInput) (*models.Discount, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if _, err := validateDiscount(in, &p.Price); err != nil {
		return nil, err
	}

	d := &models.Discount{
		ProductID:    p.ID,
		Value:        in.Value,
		DiscountType: in.Kind,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Active:       in.Active,
		UpdatedAt:    s.now(),
	}
	if err := s.repo.Discounts.Upsert(ctx, d); err != nil {
		return nil, fmt.Errorf("upsert discount: %w", err)
	}
	saved, err := s.repo.Discounts.GetByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, errors.New("discount not persisted")
	}
	return saved, nil
}

func (s *catalogService) CreateDiscountCode(ctx context.Context, in CreateDiscountCodeInput) (*models.DiscountCode, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	code := repository.NormalizeCode(in.Code)
	if code == "" {
		return nil, validationf("code is required")
	}
	if in.MaxUses == 0 {
		in.MaxUses = 1
	}
	if in.MaxUses < 1 {
		return nil, validationf("max_uses must be >= 1")
	}
	if in.MinOrderPrice.IsNegative() {
		return nil, validationf("min_order_price must be >= 0")
	}
	if _, err := validateDiscount(in.Discount, nil); err != nil {
		return nil, err
	}

	c := &models.DiscountCode{
		Code:          code,
		Value:         in.Discount.Value,
		DiscountType:  in.Discount.Kind,
		StartDate:     in.Discount.StartDate,
		EndDate:       in.Discount.EndDate,
		MinOrderPrice: in.MinOrderPrice,
		MaxUses:       in.MaxUses,
		Active:        in.Discount.Active,
	}
	if err := s.repo.DiscountCodes.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create discount code: %w", err)
	}

	s.log.Info("Промокод создан", zap.String("code", c.Code), zap.Int("max_uses", c.MaxUses))
	return c, nil
}
