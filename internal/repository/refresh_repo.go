package repository

import (
	"context"
	"errors"
	"time"

	"shop-service/internal/models"

	"gorm.io/gorm"
)

type RefreshTokenRepo interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	GetActiveByHash(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error)
	RevokeByHash(ctx context.Context, hash string, at time.Time) (bool, error)
}

type refreshTokenRepo struct{ db *gorm.DB }

func NewRefreshTokenRepo(db *gorm.DB) RefreshTokenRepo { return &refreshTokenRepo{db: db} }

func (r *refreshTokenRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *refreshTokenRepo) GetActiveByHash(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hash, now).
		Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *refreshTokenRepo) RevokeByHash(ctx context.Context, hash string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", at)
	return res.RowsAffected > 0, res.Error
}
