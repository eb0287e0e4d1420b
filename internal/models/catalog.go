package models

import (
	"sort"
	"strings"
	"time"

	"shop-service/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"type:text;not null;uniqueIndex"`
	Slug      string     `gorm:"type:text;not null;uniqueIndex"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	IsDeleted bool       `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Children []Category `gorm:"foreignKey:ParentID"`
}

func (Category) TableName() string { return "categories" }

// Главная ветка: категория без родителя
func (c *Category) IsMainBranch() bool { return c.ParentID == nil }

type Brand struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:text;not null;uniqueIndex"`
	Slug        string    `gorm:"type:text;not null;uniqueIndex"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;default:now()"`
}

func (Brand) TableName() string { return "brands" }

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BrandID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"type:text;not null;index"`
	Slug        string          `gorm:"type:text;not null;uniqueIndex"`
	Description *string         `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Weight      decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	IsActive    bool            `gorm:"not null;index"`
	IsDeleted   bool            `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Category *Category        `gorm:"foreignKey:CategoryID"`
	Brand    *Brand           `gorm:"foreignKey:BrandID"`
	Discount *Discount        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Colors   []ProductColor   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Features []ProductFeature `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }

// FinalPrice: цена с учётом действующей товарной скидки
func (p *Product) FinalPrice(now time.Time) decimal.Decimal {
	if p.Discount == nil {
		return p.Price
	}
	return p.Discount.Apply(p.Price, now)
}

// Purchasable: товар виден покупателю
func (p *Product) Purchasable() bool { return p.IsActive && !p.IsDeleted }

type Feature struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"type:text;not null;uniqueIndex"`

	Values []FeatureValue `gorm:"foreignKey:FeatureID;constraint:OnDelete:CASCADE"`
}

func (Feature) TableName() string { return "features" }

type FeatureValue struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FeatureID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_feature_values_feature_value"`
	Value     string    `gorm:"type:text;not null;uniqueIndex:ux_feature_values_feature_value"`
	HexCode   *string   `gorm:"type:varchar(7)"`

	Feature *Feature `gorm:"foreignKey:FeatureID"`
}

func (FeatureValue) TableName() string { return "feature_values" }

type ProductFeature struct {
	ProductID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	FeatureValueID uuid.UUID `gorm:"type:uuid;primaryKey"`

	FeatureValue *FeatureValue `gorm:"foreignKey:FeatureValueID"`
}

func (ProductFeature) TableName() string { return "product_features" }

type ProductColor struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_product_colors_product_name"`
	Name      string    `gorm:"type:text;not null;uniqueIndex:ux_product_colors_product_name"`
	HexCode   *string   `gorm:"type:varchar(7)"`
}

func (ProductColor) TableName() string { return "product_colors" }

// ProductStock: остаток по одному варианту (цвет + набор значений характеристик)
type ProductStock struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_product_stocks_variant"`
	ColorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_product_stocks_variant"`
	VariantKey string    `gorm:"type:text;not null;default:'';uniqueIndex:ux_product_stocks_variant"`
	Stock      int       `gorm:"type:int;not null;default:0"` // CHECK >= 0 в миграции

	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Color         *ProductColor  `gorm:"foreignKey:ColorID"`
	FeatureValues []FeatureValue `gorm:"many2many:product_stock_feature_values;constraint:OnDelete:CASCADE"`
}

func (ProductStock) TableName() string { return "product_stocks" }

// VariantKey: канонический ключ набора значений: отсортированные id через запятую
func VariantKey(valueIDs []uuid.UUID) string {
	parts := make([]string, 0, len(valueIDs))
	seen := make(map[uuid.UUID]struct{}, len(valueIDs))
	for _, id := range valueIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		parts = append(parts, id.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Discount: скидка на конкретный товар (одна на товар)
type Discount struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Value        decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	DiscountType pricing.Kind    `gorm:"type:text;not null"`
	StartDate    time.Time       `gorm:"not null"`
	EndDate      time.Time       `gorm:"not null"`
	Active       bool            `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Discount) TableName() string { return "discounts" }

func (d *Discount) Rule() (pricing.Rule, error) { return pricing.NewRule(d.DiscountType, d.Value) }

func (d *Discount) Window() pricing.Window {
	return pricing.Window{Active: d.Active, Start: d.StartDate, End: d.EndDate}
}

func (d *Discount) IsValid(now time.Time) bool { return d.Window().Contains(now) }

// Apply: цена после скидки; недействительная скидка цену не меняет
func (d *Discount) Apply(price decimal.Decimal, now time.Time) decimal.Decimal {
	if !d.IsValid(now) {
		return price
	}
	r, err := d.Rule()
	if err != nil {
		return price
	}
	return r.Apply(price)
}

// DiscountCode: промокод на весь заказ с ограничением числа погашений
type DiscountCode struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string          `gorm:"type:text;not null;uniqueIndex"`
	Value         decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	DiscountType  pricing.Kind    `gorm:"type:text;not null"`
	StartDate     time.Time       `gorm:"not null"`
	EndDate       time.Time       `gorm:"not null;index"`
	MinOrderPrice decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	MaxUses       int             `gorm:"type:int;not null;default:1"`
	UsedCount     int             `gorm:"type:int;not null;default:0"`
	Active        bool            `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (DiscountCode) TableName() string { return "discount_codes" }

func (c *DiscountCode) Rule() (pricing.Rule, error) { return pricing.NewRule(c.DiscountType, c.Value) }

func (c *DiscountCode) Window() pricing.Window {
	return pricing.Window{Active: c.Active, Start: c.StartDate, End: c.EndDate}
}

func (c *DiscountCode) Usage() pricing.Usage { return pricing.Usage{Used: c.UsedCount, Max: c.MaxUses} }

func (c *DiscountCode) IsValid(now time.Time) bool {
	return c.Window().Contains(now) && !c.Usage().Exhausted()
}

func (c *DiscountCode) Apply(price decimal.Decimal, now time.Time) decimal.Decimal {
	if !c.IsValid(now) {
		return price
	}
	r, err := c.Rule()
	if err != nil {
		return price
	}
	return r.Apply(price)
}
