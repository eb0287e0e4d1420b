package service

import (
	"context"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/producer"

	"github.com/google/uuid"
)

// UserRepo: то, что нужно сервису аутентификации от хранилища пользователей
type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Activate(ctx context.Context, id uuid.UUID) (bool, error)
}

// RefreshTokenRepo хранит только sha256 от refresh-токена.
// RevokeByHash возвращает false, если токен уже отозван или не найден.
type RefreshTokenRepo interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	GetActiveByHash(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error)
	RevokeByHash(ctx context.Context, hash string, at time.Time) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Claims struct {
	UserID uuid.UUID
	Role   string
	Exp    time.Time
}

type TokenProvider interface {
	SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (token string, exp time.Time, err error)
	ParseAndValidateAccess(ctx context.Context, token string) (*Claims, error)
}

// OTPStore хранит хэши кодов подтверждения email.
// CodeHash возвращает cache.ErrMiss, если кода нет.
type OTPStore interface {
	ReserveResend(ctx context.Context, email string, wait time.Duration) (bool, error)
	SaveCode(ctx context.Context, email, hash string, ttl time.Duration) error
	CodeHash(ctx context.Context, email string) (string, error)
	// RegisterMiss возвращает число неверных попыток с учётом текущей
	RegisterMiss(ctx context.Context, email string, ttl time.Duration) (int64, error)
	DropCode(ctx context.Context, email string) error
}

type EmailProducer interface {
	SendEmail(ctx context.Context, key string, msg producer.EmailMessage) error
}

type EventBus interface {
	PublishOrderPaid(ctx context.Context, e producer.OrderPaidEvent) error
	PublishOrderStatusChanged(ctx context.Context, e producer.OrderStatusChangedEvent) error
}
