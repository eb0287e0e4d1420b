package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss: кода нет или истёк TTL
var ErrMiss = errors.New("cache miss")

// RedisClient хранит одноразовые коды подтверждения email и окна повторной отправки
type RedisClient struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisClient(addr, password string, db int, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis подключён", zap.String("addr", addr), zap.Int("db", db))
	return newRedisClient(rdb, log), nil
}

func newRedisClient(rdb *redis.Client, log *zap.Logger) *RedisClient {
	return &RedisClient{rdb: rdb, log: log}
}

func (r *RedisClient) Close() error {
	return r.rdb.Close()
}

func OTPKey(email string) string {
	return "otp:" + strings.ToLower(strings.TrimSpace(email))
}

func OTPRateLimitKey(email string) string {
	return "otp:rl:" + strings.ToLower(strings.TrimSpace(email))
}

func OTPAttemptsKey(email string) string {
	return "otp:attempts:" + strings.ToLower(strings.TrimSpace(email))
}

// ReserveResend занимает окно повторной отправки кода.
// false означает, что прошлое окно ещё не истекло.
func (r *RedisClient) ReserveResend(ctx context.Context, email string, wait time.Duration) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, OTPRateLimitKey(email), 1, wait).Result()
	if err != nil {
		return false, fmt.Errorf("reserve otp resend: %w", err)
	}
	return ok, nil
}

// SaveCode заменяет хэш кода и обнуляет счётчик неверных попыток
func (r *RedisClient) SaveCode(ctx context.Context, email, hash string, ttl time.Duration) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, OTPKey(email), hash, ttl)
		p.Del(ctx, OTPAttemptsKey(email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

// RegisterMiss увеличивает счётчик неверных попыток и возвращает новое значение.
// TTL счётчика совпадает с TTL кода.
func (r *RedisClient) RegisterMiss(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, OTPAttemptsKey(email))
		p.Expire(ctx, OTPAttemptsKey(email), ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("register otp miss: %w", err)
	}
	return incr.Val(), nil
}

func (r *RedisClient) CodeHash(ctx context.Context, email string) (string, error) {
	v, err := r.rdb.Get(ctx, OTPKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("load otp: %w", err)
	}
	return v, nil
}

// DropCode удаляет код вместе с окном повторной отправки и счётчиком попыток
func (r *RedisClient) DropCode(ctx context.Context, email string) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, OTPKey(email), OTPRateLimitKey(email), OTPAttemptsKey(email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("drop otp: %w", err)
	}
	return nil
}
