package dto

import (
	"time"

	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/shopspring/decimal"
)

type ProductListQuery struct {
	Category string `form:"category"`
	Query    string `form:"q"`
	PageQuery
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"100"`
	FinalPrice  decimal.Decimal `json:"final_price" swaggertype:"string" example:"75"`
	Weight      decimal.Decimal `json:"weight" swaggertype:"string" example:"2"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type ColorResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	HexCode *string `json:"hex_code,omitempty"`
}

type FeatureValueResponse struct {
	ID      string  `json:"id"`
	Feature string  `json:"feature"`
	Value   string  `json:"value"`
	HexCode *string `json:"hex_code,omitempty"`
}

type DiscountResponse struct {
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value" swaggertype:"string"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Active    bool            `json:"active"`
}

type ProductDetailsResponse struct {
	ProductResponse
	Category *CategoryResponse      `json:"category,omitempty"`
	Brand    *BrandResponse         `json:"brand,omitempty"`
	Discount *DiscountResponse      `json:"discount,omitempty"`
	Colors   []ColorResponse        `json:"colors"`
	Features []FeatureValueResponse `json:"features"`
}

type StockResponse struct {
	ID       string                 `json:"id"`
	Color    string                 `json:"color"`
	Features []FeatureValueResponse `json:"features"`
	Stock    int                    `json:"stock"`
}

type CategoryResponse struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Slug     string             `json:"slug"`
	ParentID *string            `json:"parent_id,omitempty"`
	Children []CategoryResponse `json:"children,omitempty"`
}

type BrandResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}

// admin

type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

type CreateBrandRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type CreateProductRequest struct {
	CategoryID  string          `json:"category_id" binding:"required,uuid"`
	BrandID     string          `json:"brand_id" binding:"required,uuid"`
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"100"`
	Weight      decimal.Decimal `json:"weight" swaggertype:"string" example:"2"`
	IsActive    *bool           `json:"is_active"`
}

type AddColorRequest struct {
	Name    string  `json:"name" binding:"required"`
	HexCode *string `json:"hex_code" binding:"omitempty,hexcolor"`
}

type AddFeatureValueRequest struct {
	Feature string  `json:"feature" binding:"required"`
	Value   string  `json:"value" binding:"required"`
	HexCode *string `json:"hex_code" binding:"omitempty,hexcolor"`
}

type AttachFeatureRequest struct {
	FeatureValueID string `json:"feature_value_id" binding:"required,uuid"`
}

type SetStockRequest struct {
	Color    string            `json:"color" binding:"required"`
	Features map[string]string `json:"features"`
	Stock    int               `json:"stock" binding:"min=0"`
}

type DiscountRequest struct {
	Type      string          `json:"type" binding:"required,oneof=percent amount"`
	Value     decimal.Decimal `json:"value" swaggertype:"string" example:"10"`
	StartDate time.Time       `json:"start_date" binding:"required"`
	EndDate   time.Time       `json:"end_date" binding:"required"`
	Active    *bool           `json:"active"`
}

type CreateDiscountCodeRequest struct {
	Code string `json:"code" binding:"required,max=64"`
	DiscountRequest
	MinOrderPrice decimal.Decimal `json:"min_order_price" swaggertype:"string" example:"0"`
	MaxUses       int             `json:"max_uses" binding:"omitempty,min=1"`
}

type DiscountCodeResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Type          string          `json:"type"`
	Value         decimal.Decimal `json:"value" swaggertype:"string"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	MinOrderPrice decimal.Decimal `json:"min_order_price" swaggertype:"string"`
	MaxUses       int             `json:"max_uses"`
	UsedCount     int             `json:"used_count"`
	Active        bool            `json:"active"`
}

func NewProductResponse(p *models.Product, now time.Time) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		FinalPrice:  p.FinalPrice(now),
		Weight:      p.Weight,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

func NewProductListResponse(list []models.Product, total int64, limit, offset int, now time.Time) ProductListResponse {
	items := make([]ProductResponse, 0, len(list))
	for i := range list {
		items = append(items, NewProductResponse(&list[i], now))
	}
	return ProductListResponse{Items: items, Total: total, Limit: limit, Offset: offset}
}

func NewFeatureValueResponse(fv *models.FeatureValue) FeatureValueResponse {
	resp := FeatureValueResponse{ID: fv.ID.String(), Value: fv.Value, HexCode: fv.HexCode}
	if fv.Feature != nil {
		resp.Feature = fv.Feature.Name
	}
	return resp
}

func NewColorResponse(c *models.ProductColor) ColorResponse {
	return ColorResponse{ID: c.ID.String(), Name: c.Name, HexCode: c.HexCode}
}

func NewDiscountResponse(d *models.Discount) DiscountResponse {
	return DiscountResponse{
		Type:      string(d.DiscountType),
		Value:     d.Value,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Active:    d.Active,
	}
}

func NewProductDetailsResponse(d *service.ProductDetails, now time.Time) ProductDetailsResponse {
	p := d.Product
	resp := ProductDetailsResponse{
		ProductResponse: NewProductResponse(p, now),
		Colors:          make([]ColorResponse, 0, len(p.Colors)),
		Features:        make([]FeatureValueResponse, 0, len(p.Features)),
	}
	resp.FinalPrice = d.FinalPrice
	if p.Category != nil {
		c := NewCategoryResponse(p.Category)
		resp.Category = &c
	}
	if p.Brand != nil {
		b := NewBrandResponse(p.Brand)
		resp.Brand = &b
	}
	if p.Discount != nil {
		dr := NewDiscountResponse(p.Discount)
		resp.Discount = &dr
	}
	for i := range p.Colors {
		resp.Colors = append(resp.Colors, NewColorResponse(&p.Colors[i]))
	}
	for _, pf := range p.Features {
		if pf.FeatureValue != nil {
			resp.Features = append(resp.Features, NewFeatureValueResponse(pf.FeatureValue))
		}
	}
	return resp
}

func NewStocksResponse(list []models.ProductStock) []StockResponse {
	out := make([]StockResponse, 0, len(list))
	for _, s := range list {
		r := StockResponse{ID: s.ID.String(), Stock: s.Stock, Features: make([]FeatureValueResponse, 0, len(s.FeatureValues))}
		if s.Color != nil {
			r.Color = s.Color.Name
		}
		for i := range s.FeatureValues {
			r.Features = append(r.Features, NewFeatureValueResponse(&s.FeatureValues[i]))
		}
		out = append(out, r)
	}
	return out
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	resp := CategoryResponse{ID: c.ID.String(), Name: c.Name, Slug: c.Slug}
	if c.ParentID != nil {
		pid := c.ParentID.String()
		resp.ParentID = &pid
	}
	for i := range c.Children {
		resp.Children = append(resp.Children, NewCategoryResponse(&c.Children[i]))
	}
	return resp
}

func NewCategoriesResponse(list []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for i := range list {
		out = append(out, NewCategoryResponse(&list[i]))
	}
	return out
}

func NewBrandResponse(b *models.Brand) BrandResponse {
	return BrandResponse{ID: b.ID.String(), Name: b.Name, Slug: b.Slug, Description: b.Description}
}

func NewBrandsResponse(list []models.Brand) []BrandResponse {
	out := make([]BrandResponse, 0, len(list))
	for i := range list {
		out = append(out, NewBrandResponse(&list[i]))
	}
	return out
}

func NewDiscountCodeResponse(c *models.DiscountCode) DiscountCodeResponse {
	return DiscountCodeResponse{
		ID:            c.ID.String(),
		Code:          c.Code,
		Type:          string(c.DiscountType),
		Value:         c.Value,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		MinOrderPrice: c.MinOrderPrice,
		MaxUses:       c.MaxUses,
		UsedCount:     c.UsedCount,
		Active:        c.Active,
	}
}
