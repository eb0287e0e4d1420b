package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/pricing"
	"shop-service/internal/producer"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type cartService struct {
	repo   *repository.Repository
	events EventBus      // nil: события не публикуются
	emails EmailProducer // nil: письма не отправляются
	now    func() time.Time
	log    *zap.Logger
}

func NewCartService(repo *repository.Repository, events EventBus, emails EmailProducer, log *zap.Logger) CartService {
	return &cartService{
		repo:   repo,
		events: events,
		emails: emails,
		now:    time.Now,
		log:    log,
	}
}

// recalculate пересчитывает итоги заказа с нуля по его позициям
func recalculate(ctx context.Context, tx *repository.Repository, ord *models.Order, rule pricing.Rule) error {
	items, err := tx.OrderItems.GetByOrderID(ctx, ord.ID)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	ord.Items = items
	ord.ApplyTotals(pricing.Recalculate(ord.Lines(), rule))
	if err := tx.Orders.UpdateTotals(ctx, ord); err != nil {
		return fmt.Errorf("update totals: %w", err)
	}
	return nil
}

func (s *cartService) activeUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.repo.Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	if !u.IsActive {
		return nil, ErrForbidden
	}
	return u, nil
}

func (s *cartService) AddItem(ctx context.Context, in AddItemInput) (*models.OrderItem, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, validationf("quantity must be >= 1")
	}
	if _, err := s.activeUser(ctx, userID); err != nil {
		return nil, err
	}

	var item *models.OrderItem
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Orders.EnsureCart(ctx, userID); err != nil {
			return fmt.Errorf("ensure cart: %w", err)
		}
		cart, err := tx.Orders.LockCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}
		if cart == nil {
			return ErrCartNotFound
		}

		v, err := ResolveStock(ctx, tx, VariantSelection{
			ProductID: in.ProductID,
			Color:     in.Color,
			Features:  in.Features,
			Quantity:  in.Quantity,
		})
		if err != nil {
			return err
		}

		selected := make(datatypes.JSONMap, len(v.Features))
		for k, val := range v.Features {
			selected[k] = val
		}

		item = &models.OrderItem{
			OrderID:          cart.ID,
			ProductID:        v.Product.ID,
			StockID:          &v.Stock.ID,
			Quantity:         in.Quantity,
			Price:            v.Product.FinalPrice(s.now()),
			SelectedColor:    v.Color.Name,
			SelectedFeatures: selected,
		}
		if err := tx.OrderItems.Create(ctx, item); err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		item.Product = v.Product

		return recalculate(ctx, tx, cart, nil)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Товар добавлен в корзину",
		zap.String("user_id", userID.String()),
		zap.String("order_id", item.OrderID.String()),
		zap.String("product_id", item.ProductID.String()),
		zap.Int("quantity", item.Quantity),
	)
	return item, nil
}

func (s *cartService) ListCart(ctx context.Context) ([]models.OrderItem, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	cart, err := s.repo.Orders.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return []models.OrderItem{}, nil
	}
	return cart.Items, nil
}

func (s *cartService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	if _, err := s.activeUser(ctx, userID); err != nil {
		return err
	}

	return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		item, err := tx.OrderItems.GetByID(ctx, itemID)
		if err != nil {
			return fmt.Errorf("load item: %w", err)
		}
		if item == nil {
			return ErrNotFound
		}

		ord, err := tx.Orders.LockByID(ctx, item.OrderID)
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if ord == nil {
			return ErrNotFound
		}
		if ord.UserID != userID || ord.IsPaid {
			return ErrForbidden
		}

		deleted, err := tx.OrderItems.Delete(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		if !deleted {
			return ErrNotFound
		}

		return recalculate(ctx, tx, ord, nil)
	})
}

func (s *cartService) CheckoutPreview(ctx context.Context) (*CheckoutPreview, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	cart, err := s.repo.Orders.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	u, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	return &CheckoutPreview{Order: cart, User: u}, nil
}

func (s *cartService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutPreview, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		orderID uuid.UUID
		now     = s.now()
	)

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		cart, err := tx.Orders.LockCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}
		if cart == nil {
			return ErrCartNotFound
		}
		orderID = cart.ID

		upd := repository.CheckoutUpdate{Status: models.OrderStatusProcessing}

		// Скидка считается по состоянию кода на момент привязки, до увеличения used_count
		var rule pricing.Rule
		if in.DiscountCode != nil && strings.TrimSpace(*in.DiscountCode) != "" {
			code, err := tx.DiscountCodes.LockActiveByCode(ctx, *in.DiscountCode)
			if err != nil {
				return fmt.Errorf("lock discount code: %w", err)
			}
			if code == nil || !code.IsValid(now) {
				return ErrInvalidDiscountCode
			}
			rule, err = code.Rule()
			if err != nil {
				return ErrInvalidDiscountCode
			}
			ok, err := tx.DiscountCodes.IncrementUsage(ctx, code.ID)
			if err != nil {
				return fmt.Errorf("increment code usage: %w", err)
			}
			if !ok {
				return ErrInvalidDiscountCode
			}
			upd.DiscountCodeID = &code.ID
		}

		switch {
		case in.AddressID != nil:
			addr, err := tx.Addresses.GetForUser(ctx, *in.AddressID, userID)
			if err != nil {
				return fmt.Errorf("load address: %w", err)
			}
			if addr == nil {
				return ErrAddressNotFound
			}
			upd.AddressID = &addr.ID
		case cart.AddressID == nil:
			addr, err := tx.Addresses.GetDefault(ctx, userID)
			if err != nil {
				return fmt.Errorf("load default address: %w", err)
			}
			if addr != nil {
				upd.AddressID = &addr.ID
			}
		}

		if err := recalculate(ctx, tx, cart, rule); err != nil {
			return err
		}
		if err := tx.Orders.MarkPaid(ctx, cart.ID, upd); err != nil {
			return fmt.Errorf("mark paid: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	s.log.Info("Заказ оформлен",
		zap.String("order_id", ord.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("final_price", ord.FinalPrice.String()),
	)

	s.publishPaid(ctx, ord, now)
	s.sendEmail(ctx, u.Email, producer.EmailMessage{
		To:       u.Email,
		Subject:  "Ваш заказ оформлен",
		Template: "order_confirmation",
		Data: map[string]any{
			"order_id":        ord.ID.String(),
			"first_name":      u.FirstName,
			"total_price":     ord.TotalPrice.String(),
			"discount_amount": ord.DiscountAmount.String(),
			"shipping_cost":   ord.ShippingCost.String(),
			"final_price":     ord.FinalPrice.String(),
		},
	})

	return &CheckoutPreview{Order: ord, User: u}, nil
}

func (s *cartService) ListPaidOrders(ctx context.Context, f PaidOrderFilter) ([]models.Order, int64, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.Orders.ListPaid(ctx, repository.PaidOrderFilter{
		UserID: userID,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
}

// ConfirmReceipt: альтернативное подтверждение без промокода
func (s *cartService) ConfirmReceipt(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ord, err := tx.Orders.LockByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if ord == nil || ord.UserID != userID {
			return ErrOrderNotFound
		}
		if ord.IsPaid {
			return ErrAlreadyConfirmed
		}
		if err := recalculate(ctx, tx, ord, nil); err != nil {
			return err
		}
		return tx.Orders.MarkPaid(ctx, ord.ID, repository.CheckoutUpdate{Status: models.OrderStatusProcessing})
	})
	if err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	s.publishPaid(ctx, ord, s.now())
	return ord, nil
}

func (s *cartService) LatestPaidOrder(ctx context.Context) (*models.Order, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	ord, err := s.repo.Orders.LatestPaid(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *cartService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	var from models.OrderStatus
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ord, err := tx.Orders.LockByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if ord == nil || !ord.IsPaid {
			return ErrOrderNotFound
		}
		if !ord.Status.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ord.Status, status)
		}
		from = ord.Status
		ok, err := tx.Orders.UpdateStatus(ctx, ord.ID, ord.Status, status)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if !ok {
			return ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	s.log.Info("Статус заказа изменён",
		zap.String("order_id", ord.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
	)

	if s.events != nil {
		if err := s.events.PublishOrderStatusChanged(ctx, producer.OrderStatusChangedEvent{
			OrderID:   ord.ID,
			UserID:    ord.UserID,
			From:      string(from),
			To:        string(status),
			ChangedAt: s.now(),
		}); err != nil {
			s.log.Warn("Не удалось опубликовать смену статуса", zap.String("order_id", ord.ID.String()), zap.Error(err))
		}
	}

	if u, err := s.repo.Users.GetByID(ctx, ord.UserID); err == nil && u != nil {
		s.sendEmail(ctx, u.Email, producer.EmailMessage{
			To:       u.Email,
			Subject:  "Статус заказа изменён",
			Template: "order_status",
			Data: map[string]any{
				"order_id":   ord.ID.String(),
				"first_name": u.FirstName,
				"status":     string(status),
			},
		})
	}

	return ord, nil
}

func (s *cartService) publishPaid(ctx context.Context, ord *models.Order, at time.Time) {
	if s.events == nil {
		return
	}
	items := make([]producer.OrderItemEvent, 0, len(ord.Items))
	for _, it := range ord.Items {
		items = append(items, producer.OrderItemEvent{
			ProductID:  it.ProductID,
			StockID:    it.StockID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			TotalPrice: it.TotalPrice,
		})
	}
	if err := s.events.PublishOrderPaid(ctx, producer.OrderPaidEvent{
		OrderID:        ord.ID,
		UserID:         ord.UserID,
		DiscountCodeID: ord.DiscountCodeID,
		Items:          items,
		TotalPrice:     ord.TotalPrice,
		DiscountAmount: ord.DiscountAmount,
		ShippingCost:   ord.ShippingCost,
		FinalPrice:     ord.FinalPrice,
		PaidAt:         at,
	}); err != nil {
		s.log.Warn("Не удалось опубликовать order.paid", zap.String("order_id", ord.ID.String()), zap.Error(err))
	}
}

func (s *cartService) sendEmail(ctx context.Context, key string, msg producer.EmailMessage) {
	if s.emails == nil {
		return
	}
	if err := s.emails.SendEmail(ctx, key, msg); err != nil {
		s.log.Warn("Не удалось поставить письмо в очередь",
			zap.String("template", msg.Template),
			zap.String("to", msg.To),
			zap.Error(err),
		)
	}
}
