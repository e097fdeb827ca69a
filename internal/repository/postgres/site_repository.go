package postgres

import (
	"context"
	"errors"
	"fmt"

	"shopRadar/domain"

	"gorm.io/gorm"
)

type SiteRepository struct {
	DB *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{
		DB: db,
	}
}

func (r *SiteRepository) Create(ctx context.Context, site *domain.Site) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(site).Error; err != nil {
		return fmt.Errorf("failed to create site: %w", err)
	}

	return nil
}

func (r *SiteRepository) FindByAPIKey(ctx context.Context, apiKey string) (domain.Site, error) {
	if err := ctx.Err(); err != nil {
		return domain.Site{}, fmt.Errorf("context error: %w", err)
	}

	var site domain.Site

	err := r.DB.WithContext(ctx).Where("api_key = ?", apiKey).First(&site).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Site{}, errors.New("site not found")
		}
		return domain.Site{}, fmt.Errorf("failed to find site: %w", err)
	}

	return site, nil
}

func (r *SiteRepository) FindByOwner(ctx context.Context, ownerID uint64) ([]domain.Site, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var sites []domain.Site
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&sites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find sites: %w", err)
	}

	return sites, nil
}

func (r *SiteRepository) Update(ctx context.Context, site *domain.Site) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Site{}).
		Where("id = ?", site.ID).
		Updates(map[string]interface{}{
			"site_url":  site.SiteURL,
			"is_active": site.IsActive,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update site: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("site not found")
	}

	return nil
}
