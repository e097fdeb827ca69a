package postgres

import (
	"context"
	"errors"
	"fmt"

	"shopRadar/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

// UpsertFromTracker creates the product on first sight and refreshes the
// page fields on every later event. The row keyed by (owner_id,
// external_id) always reflects the latest state the snippet saw.
func (r *ProductRepository) UpsertFromTracker(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name",
				"price",
				"page_url",
				"stock",
				"category",
				"discount",
				"updated_at",
			}),
		}).
		Create(product).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	if product.ID == 0 {
		// Conflict path: gorm does not backfill the id with RETURNING
		// disabled, so read it back.
		var existing domain.Product
		err := r.DB.WithContext(ctx).
			Where("owner_id = ? AND external_id = ?", product.OwnerID, product.ExternalID).
			First(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to reload upserted product: %w", err)
		}
		product.ID = existing.ID
	}

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := r.DB.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, errors.New("product not found")
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) FindByExternalID(ctx context.Context, ownerID uint64, externalID string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND external_id = ?", ownerID, externalID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, errors.New("product not found")
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) FindByOwner(ctx context.Context, ownerID uint64) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}
