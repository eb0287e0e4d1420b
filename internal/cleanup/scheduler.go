package cleanup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	cleanup          *CleanupService
	cartInterval     time.Duration
	discountInterval time.Duration
	log              *zap.Logger
	stopCh           chan struct{}
	stopOnce         sync.Once
	wg               sync.WaitGroup
}

func NewScheduler(cleanup *CleanupService, cartInterval, discountInterval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cleanup:          cleanup,
		cartInterval:     cartInterval,
		discountInterval: discountInterval,
		log:              log,
		stopCh:           make(chan struct{}),
	}
}

// Start запускает обе задачи; каждая выполняется сразу и затем по своему тикеру
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting cleanup scheduler",
		zap.Duration("cart_interval", s.cartInterval),
		zap.Duration("discount_interval", s.discountInterval),
	)

	s.wg.Add(2)
	go s.loop(ctx, "stale carts", s.cartInterval, s.cleanup.CleanupStaleCarts)
	go s.loop(ctx, "expired discount codes", s.discountInterval, s.cleanup.DeactivateExpiredCodes)
}

// Stop останавливает планировщик и ждёт завершения задач
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.log.Info("stopping cleanup scheduler")
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, name string, every time.Duration, task func(context.Context) error) {
	defer s.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	if err := task(ctx); err != nil {
		s.log.Error("initial cleanup failed", zap.String("task", name), zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := task(ctx); err != nil {
				s.log.Error("cleanup failed", zap.String("task", name), zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("cleanup stopped", zap.String("task", name))
			return
		case <-ctx.Done():
			s.log.Info("cleanup cancelled", zap.String("task", name))
			return
		}
	}
}

// RunOnceNow выполняет полную очистку немедленно
func (s *Scheduler) RunOnceNow(ctx context.Context) error {
	return s.cleanup.RunFullCleanup(ctx)
}
