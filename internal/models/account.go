package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "ROLE_CUSTOMER"
	RoleAdmin    Role = "ROLE_ADMIN"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email       string    `gorm:"type:text;not null"` // уникальность через индекс lower(email)
	Password    string    `gorm:"not null"`           // bcrypt hash
	FirstName   string    `gorm:"type:text;not null;default:''"`
	LastName    string    `gorm:"type:text;not null;default:''"`
	PhoneNumber *string   `gorm:"type:varchar(11);uniqueIndex"`
	Role        Role      `gorm:"type:text;not null;default:'ROLE_CUSTOMER';index"`
	IsActive    bool      `gorm:"not null;default:false;index"` // становится true после подтверждения OTP

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Province   string    `gorm:"type:text;not null"`
	City       string    `gorm:"type:text;not null;index"`
	Street     string    `gorm:"type:text;not null"`
	PostalCode string    `gorm:"type:varchar(10);not null;index"`
	No         string    `gorm:"type:varchar(10);not null"`
	IsDefault  bool      `gorm:"not null;default:false"`
	IsDeleted  bool      `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Address) TableName() string { return "addresses" }

// RefreshToken: opaque refresh-токен, в базе только его sha256
type RefreshToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	TokenHash string     `gorm:"type:text;not null;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	RevokedAt *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"not null;default:now()"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
