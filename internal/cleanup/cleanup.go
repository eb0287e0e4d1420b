package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type CartStore interface {
	SoftDeleteStaleEmptyCarts(ctx context.Context, before time.Time) (int64, error)
}

type DiscountCodeStore interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type CleanupService struct {
	carts   CartStore
	codes   DiscountCodeStore
	cartTTL time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewCleanupService(carts CartStore, codes DiscountCodeStore, cartTTL time.Duration, log *zap.Logger) *CleanupService {
	return &CleanupService{
		carts:   carts,
		codes:   codes,
		cartTTL: cartTTL,
		log:     log,
		now:     time.Now,
	}
}

// CleanupStaleCarts помечает удалёнными пустые неоплаченные корзины, не менявшиеся дольше cartTTL
func (c *CleanupService) CleanupStaleCarts(ctx context.Context) error {
	n, err := c.carts.SoftDeleteStaleEmptyCarts(ctx, c.now().Add(-c.cartTTL))
	if err != nil {
		c.log.Error("failed to cleanup stale carts", zap.Error(err))
		return err
	}
	if n > 0 {
		c.log.Info("cleaned up stale carts", zap.Int64("count", n))
	}
	return nil
}

// DeactivateExpiredCodes выключает промокоды с истёкшим end_date
func (c *CleanupService) DeactivateExpiredCodes(ctx context.Context) error {
	n, err := c.codes.DeactivateExpired(ctx, c.now())
	if err != nil {
		c.log.Error("failed to deactivate expired discount codes", zap.Error(err))
		return err
	}
	if n > 0 {
		c.log.Info("deactivated expired discount codes", zap.Int64("count", n))
	}
	return nil
}

func (c *CleanupService) RunFullCleanup(ctx context.Context) error {
	c.log.Info("starting full cleanup")

	if err := c.CleanupStaleCarts(ctx); err != nil {
		return err
	}
	if err := c.DeactivateExpiredCodes(ctx); err != nil {
		return err
	}

	c.log.Info("full cleanup completed")
	return nil
}
