package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrCartNotFound        = errors.New("no active cart")
	ErrOrderNotFound       = errors.New("order not found")
	ErrAddressNotFound     = errors.New("address not found")
	ErrInvalidVariant      = errors.New("invalid variant")
	ErrOutOfStock          = errors.New("no stock for this combination")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidDiscountCode = errors.New("invalid discount code")
	ErrAlreadyConfirmed    = errors.New("order already confirmed")
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotActive           = errors.New("account is not active")
	ErrOTPExpired          = errors.New("otp expired or not requested")
	ErrOTPIncorrect        = errors.New("otp incorrect")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInvalidRefresh      = errors.New("invalid or expired refresh token")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// InsufficientStockError несёт доступный остаток; errors.Is(err, ErrInsufficientStock) == true
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d items available in stock", e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
