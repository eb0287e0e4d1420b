package service

import (
	"context"
	"regexp"
	"time"

	"shop-service/internal/models"

	"github.com/google/uuid"
)

var (
	phoneRe      = regexp.MustCompile(`^09\d{9}$`)
	postalCodeRe = regexp.MustCompile(`^\d{10}$`)
)

const (
	otpLength      = 6
	otpTTL         = 180 * time.Second
	otpResendWait  = 60 * time.Second
	otpMaxAttempts = 5
	minPassword    = 8
)

type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber *string
}

// TokenPair: access-токен и opaque refresh-токен, выданные вместе
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AddressInput struct {
	Province   string
	City       string
	Street     string
	PostalCode string
	No         string
	IsDefault  bool
}

type Profile struct {
	User       *models.User
	Addresses  []models.Address
	HasAddress bool
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type ProfileService interface {
	Me(ctx context.Context) (*Profile, error)
	UpdatePhone(ctx context.Context, phone string) (*models.User, error)
	ListAddresses(ctx context.Context) ([]models.Address, error)
	CreateAddress(ctx context.Context, in AddressInput) (*models.Address, error)
	SetDefaultAddress(ctx context.Context, id uuid.UUID) error
	DeleteAddress(ctx context.Context, id uuid.UUID) error
}
