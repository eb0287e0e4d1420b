package service

import (
	"context"
	"fmt"
	"strings"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type profileService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewProfileService(repo *repository.Repository, log *zap.Logger) ProfileService {
	return &profileService{repo: repo, log: log}
}

func (s *profileService) currentUser(ctx context.Context) (*models.User, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	return u, nil
}

func (s *profileService) Me(ctx context.Context) (*Profile, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	addrs, err := s.repo.Addresses.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, Addresses: addrs, HasAddress: len(addrs) > 0}, nil
}

func (s *profileService) UpdatePhone(ctx context.Context, phone string) (*models.User, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	phone = strings.TrimSpace(phone)
	if !phoneRe.MatchString(phone) {
		return nil, validationf("phone number must match 09XXXXXXXXX")
	}
	if err := s.repo.Users.UpdatePhone(ctx, u.ID, phone); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	u.PhoneNumber = &phone
	return u, nil
}

func (s *profileService) ListAddresses(ctx context.Context) ([]models.Address, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Addresses.ListByUser(ctx, userID)
}

func (s *profileService) CreateAddress(ctx context.Context, in AddressInput) (*models.Address, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	if !postalCodeRe.MatchString(in.PostalCode) {
		return nil, validationf("postal code must be 10 digits")
	}
	if strings.TrimSpace(in.Province) == "" || strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.Street) == "" || strings.TrimSpace(in.No) == "" {
		return nil, validationf("province, city, street and no are required")
	}

	a := &models.Address{
		UserID:     userID,
		Province:   strings.TrimSpace(in.Province),
		City:       strings.TrimSpace(in.City),
		Street:     strings.TrimSpace(in.Street),
		PostalCode: in.PostalCode,
		No:         strings.TrimSpace(in.No),
		IsDefault:  in.IsDefault,
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if a.IsDefault {
			if err := tx.Addresses.ClearDefault(ctx, userID); err != nil {
				return fmt.Errorf("clear default address: %w", err)
			}
		}
		if err := tx.Addresses.Create(ctx, a); err != nil {
			return fmt.Errorf("create address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *profileService) SetDefaultAddress(ctx context.Context, id uuid.UUID) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		a, err := tx.Addresses.GetForUser(ctx, id, userID)
		if err != nil {
			return err
		}
		if a == nil {
			return ErrAddressNotFound
		}
		if err := tx.Addresses.ClearDefault(ctx, userID); err != nil {
			return fmt.Errorf("clear default address: %w", err)
		}
		return tx.Addresses.SetDefault(ctx, a.ID)
	})
}

func (s *profileService) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	ok, err := s.repo.Addresses.SoftDelete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAddressNotFound
	}
	return nil
}
