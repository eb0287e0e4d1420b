package dto

import (
	"time"

	"shop-service/internal/models"
	"shop-service/internal/service"
)

type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,max=72"`
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	PhoneNumber *string `json:"phone_number"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber *string   `json:"phone_number"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken      string    `json:"access_token"`
	TokenType        string    `json:"token_type"`
	AccessExpiresIn  int64     `json:"access_expires_in"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresIn int64     `json:"refresh_expires_in"`
}

// RefreshRequest: тело /auth/refresh и /auth/logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdatePhoneRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type ProfileResponse struct {
	User       UserResponse      `json:"user"`
	Addresses  []AddressResponse `json:"addresses"`
	HasAddress bool              `json:"has_address"`
}

type AddressRequest struct {
	Province   string `json:"province" binding:"required"`
	City       string `json:"city" binding:"required"`
	Street     string `json:"street" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	No         string `json:"no" binding:"required,max=10"`
	IsDefault  bool   `json:"is_default"`
}

type AddressResponse struct {
	ID         string `json:"id"`
	Province   string `json:"province"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	No         string `json:"no"`
	IsDefault  bool   `json:"is_default"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}

func NewAddressResponse(a *models.Address) AddressResponse {
	return AddressResponse{
		ID:         a.ID.String(),
		Province:   a.Province,
		City:       a.City,
		Street:     a.Street,
		PostalCode: a.PostalCode,
		No:         a.No,
		IsDefault:  a.IsDefault,
	}
}

func NewAddressesResponse(list []models.Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(list))
	for i := range list {
		out = append(out, NewAddressResponse(&list[i]))
	}
	return out
}

func NewProfileResponse(p *service.Profile) ProfileResponse {
	return ProfileResponse{
		User:       NewUserResponse(p.User),
		Addresses:  NewAddressesResponse(p.Addresses),
		HasAddress: p.HasAddress,
	}
}

func NewLoginResponse(t *service.TokenPair, now time.Time) LoginResponse {
	return LoginResponse{
		AccessToken:      t.AccessToken,
		TokenType:        "Bearer",
		AccessExpiresIn:  int64(t.AccessExpiresAt.Sub(now).Seconds()),
		ExpiresAt:        t.AccessExpiresAt,
		RefreshToken:     t.RefreshToken,
		RefreshExpiresIn: int64(t.RefreshExpiresAt.Sub(now).Seconds()),
	}
}
