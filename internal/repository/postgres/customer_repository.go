package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopRadar/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository struct {
	DB *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{
		DB: db,
	}
}

// GetOrCreate resolves a customer by (owner, identifier), inserting the row
// on first sight. first_seen is written exactly once; a concurrent insert
// for the same identifier is absorbed by DO NOTHING and read back.
func (r *CustomerRepository) GetOrCreate(ctx context.Context, ownerID uint64, identifier string) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, fmt.Errorf("context error: %w", err)
	}

	now := time.Now()
	customer := domain.Customer{
		OwnerID:    ownerID,
		Identifier: identifier,
		FirstSeen:  now,
		LastSeen:   now,
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "identifier"}},
			DoNothing: true,
		}).
		Create(&customer).Error
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}

	if customer.ID == 0 {
		var existing domain.Customer
		err := r.DB.WithContext(ctx).
			Where("owner_id = ? AND identifier = ?", ownerID, identifier).
			First(&existing).Error
		if err != nil {
			return domain.Customer{}, fmt.Errorf("failed to reload customer: %w", err)
		}
		return existing, nil
	}

	return customer, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id uint64) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, fmt.Errorf("context error: %w", err)
	}

	var customer domain.Customer

	err := r.DB.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Customer{}, errors.New("customer not found")
		}
		return domain.Customer{}, fmt.Errorf("failed to find customer: %w", err)
	}

	return customer, nil
}

func (r *CustomerRepository) TouchLastSeen(ctx context.Context, customerID uint64, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ? AND last_seen < ?", customerID, at).
		Update("last_seen", at).Error
	if err != nil {
		return fmt.Errorf("failed to update last_seen: %w", err)
	}

	return nil
}
