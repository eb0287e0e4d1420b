package cleanup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCartStore struct {
	SoftDeleteStaleEmptyCartsFunc func(ctx context.Context, before time.Time) (int64, error)
	calls                         atomic.Int32
}

func (m *MockCartStore) SoftDeleteStaleEmptyCarts(ctx context.Context, before time.Time) (int64, error) {
	m.calls.Add(1)
	return m.SoftDeleteStaleEmptyCartsFunc(ctx, before)
}

type MockDiscountCodeStore struct {
	DeactivateExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
	calls                 atomic.Int32
}

func (m *MockDiscountCodeStore) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	m.calls.Add(1)
	return m.DeactivateExpiredFunc(ctx, now)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(carts *MockCartStore, codes *MockDiscountCodeStore) *CleanupService {
	s := NewCleanupService(carts, codes, 48*time.Hour, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestCleanupService_Cutoffs(t *testing.T) {
	var gotBefore, gotNow time.Time
	carts := &MockCartStore{SoftDeleteStaleEmptyCartsFunc: func(_ context.Context, before time.Time) (int64, error) {
		gotBefore = before
		return 3, nil
	}}
	codes := &MockDiscountCodeStore{DeactivateExpiredFunc: func(_ context.Context, now time.Time) (int64, error) {
		gotNow = now
		return 0, nil
	}}

	require.NoError(t, newService(carts, codes).RunFullCleanup(context.Background()))
	assert.Equal(t, fixedNow.Add(-48*time.Hour), gotBefore)
	assert.Equal(t, fixedNow, gotNow)
}

func TestCleanupService_StopsOnError(t *testing.T) {
	boom := errors.New("db down")
	carts := &MockCartStore{SoftDeleteStaleEmptyCartsFunc: func(context.Context, time.Time) (int64, error) {
		return 0, boom
	}}
	codes := &MockDiscountCodeStore{DeactivateExpiredFunc: func(context.Context, time.Time) (int64, error) {
		return 0, nil
	}}

	err := newService(carts, codes).RunFullCleanup(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(0), codes.calls.Load())
}

func TestScheduler_RunsAndStops(t *testing.T) {
	carts := &MockCartStore{SoftDeleteStaleEmptyCartsFunc: func(context.Context, time.Time) (int64, error) {
		return 0, nil
	}}
	codes := &MockDiscountCodeStore{DeactivateExpiredFunc: func(context.Context, time.Time) (int64, error) {
		return 0, errors.New("transient")
	}}

	s := NewScheduler(newService(carts, codes), 10*time.Millisecond, 10*time.Millisecond, zap.NewNop())
	s.Start(context.Background())

	require.Eventually(t, func() bool {
		return carts.calls.Load() >= 3 && codes.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()

	after := carts.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, carts.calls.Load())
}

func TestScheduler_ContextCancel(t *testing.T) {
	carts := &MockCartStore{SoftDeleteStaleEmptyCartsFunc: func(context.Context, time.Time) (int64, error) {
		return 0, nil
	}}
	codes := &MockDiscountCodeStore{DeactivateExpiredFunc: func(context.Context, time.Time) (int64, error) {
		return 0, nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(newService(carts, codes), time.Hour, time.Hour, zap.NewNop())
	s.Start(ctx)
	cancel()
	s.Stop()

	assert.Equal(t, int32(1), carts.calls.Load())
	assert.Equal(t, int32(1), codes.calls.Load())
}
