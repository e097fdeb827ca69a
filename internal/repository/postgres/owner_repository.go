package postgres

import (
	"context"
	"errors"
	"fmt"

	"shopRadar/domain"

	"gorm.io/gorm"
)

type OwnerRepository struct {
	DB *gorm.DB
}

func NewOwnerRepository(db *gorm.DB) *OwnerRepository {
	return &OwnerRepository{
		DB: db,
	}
}

func (r *OwnerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(owner).Error; err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}

	return nil
}

func (r *OwnerRepository) FindByID(ctx context.Context, id uint64) (domain.Owner, error) {
	if err := ctx.Err(); err != nil {
		return domain.Owner{}, fmt.Errorf("context error: %w", err)
	}

	var owner domain.Owner

	err := r.DB.WithContext(ctx).First(&owner, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Owner{}, errors.New("owner not found")
		}
		return domain.Owner{}, fmt.Errorf("failed to find owner: %w", err)
	}

	return owner, nil
}

func (r *OwnerRepository) FindByEmail(ctx context.Context, email string) (domain.Owner, error) {
	if err := ctx.Err(); err != nil {
		return domain.Owner{}, fmt.Errorf("context error: %w", err)
	}

	var owner domain.Owner

	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Owner{}, errors.New("owner not found")
		}
		return domain.Owner{}, fmt.Errorf("failed to find owner: %w", err)
	}

	return owner, nil
}

func (r *OwnerRepository) UpdateEmailVerification(ctx context.Context, id uint64, isVerified bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Owner{}).
		Where("id = ?", id).
		Update("is_verified", isVerified)
	if result.Error != nil {
		return fmt.Errorf("failed to update owner verification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("owner not found")
	}

	return nil
}
