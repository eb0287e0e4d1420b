package repository

import (
	"context"
	"errors"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRepo interface {
	Create(ctx context.Context, a *models.Address) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	ClearDefault(ctx context.Context, userID uuid.UUID) error
	SetDefault(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id, userID uuid.UUID) (bool, error)
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

type addressRepo struct{ db *gorm.DB }

func NewAddressRepo(db *gorm.DB) AddressRepo { return &addressRepo{db: db} }

func (r *addressRepo) Create(ctx context.Context, a *models.Address) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *addressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = false", userID).
		Order("is_default DESC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *addressRepo) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	var a models.Address
	err := r.db.WithContext(ctx).First(&a, "id = ? AND user_id = ? AND is_deleted = false", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *addressRepo) GetDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	var a models.Address
	err := r.db.WithContext(ctx).First(&a, "user_id = ? AND is_default = true AND is_deleted = false", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *addressRepo) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Address{}).
		Where("user_id = ? AND is_default = true", userID).
		Update("is_default", false).Error
}

func (r *addressRepo) SetDefault(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Address{}).Where("id = ?", id).Update("is_default", true).Error
}

func (r *addressRepo) SoftDelete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND user_id = ? AND is_deleted = false", id, userID).
		Updates(map[string]any{"is_deleted": true, "is_default": false})
	return tx.RowsAffected > 0, tx.Error
}

func (r *addressRepo) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Address{}).Where("user_id = ? AND is_deleted = false", userID).Count(&cnt).Error
	return cnt > 0, err
}
