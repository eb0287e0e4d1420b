package models

import (
	"time"

	"shop-service/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCanceled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCanceled},
}

// CanTransition: допустимые переходы после оплаты (выполняет фулфилмент)
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Order: корзина (is_paid=false) и, после чекаута, оформленный заказ
type Order struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	AddressID      *uuid.UUID      `gorm:"type:uuid;index"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	DiscountCodeID *uuid.UUID      `gorm:"type:uuid;index"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	ShippingCost   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	FinalPrice     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	IsPaid         bool            `gorm:"not null;default:false;index"`
	Status         OrderStatus     `gorm:"type:text;not null;default:'pending';index"`
	IsDeleted      bool            `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items        []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Address      *Address      `gorm:"foreignKey:AddressID"`
	DiscountCode *DiscountCode `gorm:"foreignKey:DiscountCodeID"`
}

func (Order) TableName() string { return "orders" }

// Lines собирает позиции для расчёта; вес берётся из текущей карточки товара
func (o *Order) Lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(o.Items))
	for _, it := range o.Items {
		w := decimal.Zero
		if it.Product != nil {
			w = it.Product.Weight
		}
		lines = append(lines, pricing.Line{Quantity: it.Quantity, UnitPrice: it.Price, Weight: w})
	}
	return lines
}

// ApplyTotals копирует результат пересчёта в поля заказа
func (o *Order) ApplyTotals(t pricing.Totals) {
	o.TotalPrice = t.TotalPrice
	o.DiscountAmount = t.DiscountAmount
	o.ShippingCost = t.ShippingCost
	o.FinalPrice = t.FinalPrice
}

type OrderItem struct {
	ID               uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	StockID          *uuid.UUID        `gorm:"type:uuid"`
	Quantity         int               `gorm:"type:int;not null"` // CHECK добавим в миграции
	Price            decimal.Decimal   `gorm:"type:numeric(18,4);not null"`
	TotalPrice       decimal.Decimal   `gorm:"type:numeric(18,4);not null"`
	SelectedColor    string            `gorm:"type:text;not null"`
	SelectedFeatures datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (OrderItem) TableName() string { return "order_items" }

// total_price всегда пересчитывается при сохранении
func (i *OrderItem) BeforeSave(tx *gorm.DB) error {
	i.TotalPrice = pricing.LineTotal(i.Quantity, i.Price)
	if i.SelectedFeatures == nil {
		i.SelectedFeatures = datatypes.JSONMap{}
	}
	return nil
}
