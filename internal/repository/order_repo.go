package repository

import (
	"context"
	"errors"
	"time"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaidOrderFilter struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}

type CheckoutUpdate struct {
	DiscountCodeID *uuid.UUID
	AddressID      *uuid.UUID
	Status         models.OrderStatus
}

type OrderRepo interface {
	// EnsureCart создаёт корзину, если у пользователя её нет; конкурентные вызовы упираются
	// в частичный UNIQUE (user_id) WHERE is_paid = false и не плодят дубликатов
	EnsureCart(ctx context.Context, userID uuid.UUID) error
	// LockCart: SELECT ... FOR UPDATE неоплаченного заказа пользователя
	LockCart(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	UpdateTotals(ctx context.Context, o *models.Order) error
	MarkPaid(ctx context.Context, id uuid.UUID, upd CheckoutUpdate) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error)
	ListPaid(ctx context.Context, f PaidOrderFilter) ([]models.Order, int64, error)
	LatestPaid(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	SoftDeleteStaleEmptyCarts(ctx context.Context, before time.Time) (int64, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("Items.Product")
}

func (r *orderRepo) EnsureCart(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&models.Order{UserID: userID, Status: models.OrderStatusPending}).Error
}

func (r *orderRepo) LockCart(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND is_paid = false AND is_deleted = false", userID).
		Take(&ord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetCart(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := preloadItems(r.db.WithContext(ctx)).
		Preload("Address").
		Where("user_id = ? AND is_paid = false AND is_deleted = false", userID).
		Take(&ord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_deleted = false", id).
		Take(&ord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := preloadItems(r.db.WithContext(ctx)).
		Preload("Address").
		Preload("DiscountCode").
		First(&ord, "id = ? AND is_deleted = false", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := preloadItems(r.db.WithContext(ctx)).
		Preload("Address").
		First(&ord, "id = ? AND user_id = ? AND is_deleted = false", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) UpdateTotals(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", o.ID).Updates(map[string]any{
		"total_price":     o.TotalPrice,
		"discount_amount": o.DiscountAmount,
		"shipping_cost":   o.ShippingCost,
		"final_price":     o.FinalPrice,
	}).Error
}

func (r *orderRepo) MarkPaid(ctx context.Context, id uuid.UUID, upd CheckoutUpdate) error {
	fields := map[string]any{
		"is_paid": true,
		"status":  upd.Status,
	}
	if upd.DiscountCodeID != nil {
		fields["discount_code_id"] = *upd.DiscountCodeID
	}
	if upd.AddressID != nil {
		fields["address_id"] = *upd.AddressID
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ? AND is_paid = true", id, from).
		Update("status", to)
	return tx.RowsAffected > 0, tx.Error
}

func (r *orderRepo) ListPaid(ctx context.Context, f PaidOrderFilter) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ? AND is_paid = true AND is_deleted = false", f.UserID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Order
	err := preloadItems(q).Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

func (r *orderRepo) LatestPaid(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := preloadItems(r.db.WithContext(ctx)).
		Preload("Address").
		Where("user_id = ? AND is_paid = true AND is_deleted = false", userID).
		Order("created_at DESC").
		Take(&ord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) SoftDeleteStaleEmptyCarts(ctx context.Context, before time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE orders o
SET is_deleted = true
WHERE o.is_paid = false
  AND o.is_deleted = false
  AND o.updated_at < @before
  AND NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id)
`, map[string]any{
		"before": before,
	})
	return tx.RowsAffected, tx.Error
}
