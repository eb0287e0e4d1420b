package dto

import (
	"time"

	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/shopspring/decimal"
)

type AddCartItemRequest struct {
	ProductID string            `json:"product_id" binding:"required,uuid"`
	Color     string            `json:"color" binding:"required"`
	Features  map[string]string `json:"features"`
	Quantity  int               `json:"quantity" binding:"required,min=1"`
}

type CartItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name,omitempty"`
	Quantity         int             `json:"quantity"`
	Price            decimal.Decimal `json:"price" swaggertype:"string" example:"100"`
	TotalPrice       decimal.Decimal `json:"total_price" swaggertype:"string" example:"200"`
	SelectedColor    string          `json:"selected_color"`
	SelectedFeatures map[string]any  `json:"selected_features"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
}

type CheckoutRequest struct {
	DiscountCode *string `json:"discount_code"`
	AddressID    *string `json:"address_id" binding:"omitempty,uuid"`
}

type BuyerResponse struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

type CheckoutPreviewResponse struct {
	OrderID        string             `json:"order_id"`
	User           BuyerResponse      `json:"user"`
	Address        *AddressResponse   `json:"address"`
	Items          []CartItemResponse `json:"items"`
	TotalPrice     decimal.Decimal    `json:"total_price" swaggertype:"string" example:"205"`
	DiscountAmount decimal.Decimal    `json:"discount_amount" swaggertype:"string" example:"0"`
	ShippingCost   decimal.Decimal    `json:"shipping_cost" swaggertype:"string" example:"5"`
	FinalPrice     decimal.Decimal    `json:"final_price" swaggertype:"string" example:"210"`
}

type OrderResponse struct {
	ID             string             `json:"id"`
	Status         string             `json:"status"`
	IsPaid         bool               `json:"is_paid"`
	DiscountCode   *string            `json:"discount_code,omitempty"`
	Address        *AddressResponse   `json:"address,omitempty"`
	Items          []CartItemResponse `json:"items"`
	TotalPrice     decimal.Decimal    `json:"total_price" swaggertype:"string"`
	DiscountAmount decimal.Decimal    `json:"discount_amount" swaggertype:"string"`
	ShippingCost   decimal.Decimal    `json:"shipping_cost" swaggertype:"string"`
	FinalPrice     decimal.Decimal    `json:"final_price" swaggertype:"string"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type OrderListResponse struct {
	Items  []OrderResponse `json:"items"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered canceled"`
}

func NewCartItemResponse(it *models.OrderItem) CartItemResponse {
	resp := CartItemResponse{
		ID:               it.ID.String(),
		ProductID:        it.ProductID.String(),
		Quantity:         it.Quantity,
		Price:            it.Price,
		TotalPrice:       it.TotalPrice,
		SelectedColor:    it.SelectedColor,
		SelectedFeatures: map[string]any(it.SelectedFeatures),
	}
	if resp.SelectedFeatures == nil {
		resp.SelectedFeatures = map[string]any{}
	}
	if it.Product != nil {
		resp.ProductName = it.Product.Name
	}
	return resp
}

func NewCartItemsResponse(items []models.OrderItem) []CartItemResponse {
	out := make([]CartItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewCartItemResponse(&items[i]))
	}
	return out
}

func NewCheckoutPreviewResponse(p *service.CheckoutPreview) CheckoutPreviewResponse {
	o := p.Order
	resp := CheckoutPreviewResponse{
		OrderID:        o.ID.String(),
		Items:          NewCartItemsResponse(o.Items),
		TotalPrice:     o.TotalPrice,
		DiscountAmount: o.DiscountAmount,
		ShippingCost:   o.ShippingCost,
		FinalPrice:     o.FinalPrice,
	}
	if p.User != nil {
		resp.User = BuyerResponse{
			FirstName:   p.User.FirstName,
			LastName:    p.User.LastName,
			PhoneNumber: p.User.PhoneNumber,
		}
	}
	if o.Address != nil {
		a := NewAddressResponse(o.Address)
		resp.Address = &a
	}
	return resp
}

func NewOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:             o.ID.String(),
		Status:         string(o.Status),
		IsPaid:         o.IsPaid,
		Items:          NewCartItemsResponse(o.Items),
		TotalPrice:     o.TotalPrice,
		DiscountAmount: o.DiscountAmount,
		ShippingCost:   o.ShippingCost,
		FinalPrice:     o.FinalPrice,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.DiscountCode != nil {
		code := o.DiscountCode.Code
		resp.DiscountCode = &code
	}
	if o.Address != nil {
		a := NewAddressResponse(o.Address)
		resp.Address = &a
	}
	return resp
}

func NewOrderListResponse(orders []models.Order, total int64, limit, offset int) OrderListResponse {
	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, NewOrderResponse(&orders[i]))
	}
	return OrderListResponse{Items: items, Total: total, Limit: limit, Offset: offset}
}
