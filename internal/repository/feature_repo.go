package repository

import (
	"context"
	"errors"
	"strings"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeatureRepo interface {
	GetOrCreateFeature(ctx context.Context, name string) (*models.Feature, error)
	GetOrCreateValue(ctx context.Context, featureID uuid.UUID, value string, hex *string) (*models.FeatureValue, error)
	// FindValue ищет значение по имени характеристики и самому значению, например ("Storage", "128GB")
	FindValue(ctx context.Context, featureName, value string) (*models.FeatureValue, error)
	GetValuesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.FeatureValue, error)
}

type featureRepo struct{ db *gorm.DB }

func NewFeatureRepo(db *gorm.DB) FeatureRepo { return &featureRepo{db: db} }

func (r *featureRepo) GetOrCreateFeature(ctx context.Context, name string) (*models.Feature, error) {
	name = strings.TrimSpace(name)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Omit("Values").
		Create(&models.Feature{Name: name}).Error; err != nil {
		return nil, err
	}

	var f models.Feature
	if err := r.db.WithContext(ctx).First(&f, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *featureRepo) GetOrCreateValue(ctx context.Context, featureID uuid.UUID, value string, hex *string) (*models.FeatureValue, error) {
	value = strings.TrimSpace(value)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "feature_id"}, {Name: "value"}}, DoNothing: true}).
		Omit("Feature").
		Create(&models.FeatureValue{FeatureID: featureID, Value: value, HexCode: hex}).Error; err != nil {
		return nil, err
	}

	var fv models.FeatureValue
	if err := r.db.WithContext(ctx).Preload("Feature").First(&fv, "feature_id = ? AND value = ?", featureID, value).Error; err != nil {
		return nil, err
	}
	return &fv, nil
}

func (r *featureRepo) FindValue(ctx context.Context, featureName, value string) (*models.FeatureValue, error) {
	var fv models.FeatureValue
	err := r.db.WithContext(ctx).
		Joins("JOIN features f ON f.id = feature_values.feature_id").
		Where("f.name = ? AND feature_values.value = ?", featureName, value).
		Preload("Feature").
		First(&fv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &fv, err
}

func (r *featureRepo) GetValuesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.FeatureValue, error) {
	if len(ids) == 0 {
		return []models.FeatureValue{}, nil
	}
	var list []models.FeatureValue
	err := r.db.WithContext(ctx).Preload("Feature").Where("id IN ?", ids).Find(&list).Error
	return list, err
}
