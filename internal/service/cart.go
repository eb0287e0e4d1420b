package service

import (
	"context"

	"shop-service/internal/models"

	"github.com/google/uuid"
)

type AddItemInput struct {
	ProductID uuid.UUID
	Color     string
	Features  map[string]string
	Quantity  int
}

type CheckoutInput struct {
	DiscountCode *string
	AddressID    *uuid.UUID
}

type PaidOrderFilter struct {
	Limit  int
	Offset int
}

// CheckoutPreview: корзина вместе с покупателем; адрес и позиции лежат в Order
type CheckoutPreview struct {
	Order *models.Order
	User  *models.User
}

type CartService interface {
	AddItem(ctx context.Context, in AddItemInput) (*models.OrderItem, error)
	ListCart(ctx context.Context) ([]models.OrderItem, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	CheckoutPreview(ctx context.Context) (*CheckoutPreview, error)
	Checkout(ctx context.Context, in CheckoutInput) (*CheckoutPreview, error)
	ListPaidOrders(ctx context.Context, f PaidOrderFilter) ([]models.Order, int64, error)
	ConfirmReceipt(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	LatestPaidOrder(ctx context.Context) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
}
