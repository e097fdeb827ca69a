package site

import (
	"context"
	"errors"
	"strings"

	"shopRadar/domain"
	"shopRadar/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SiteRepository contract interface
type SiteRepository interface {
	Create(ctx context.Context, site *domain.Site) error
	FindByAPIKey(ctx context.Context, apiKey string) (domain.Site, error)
	FindByOwner(ctx context.Context, ownerID uint64) ([]domain.Site, error)
	Update(ctx context.Context, site *domain.Site) error
}

// SiteCache contract interface (optional, backed by Redis)
type SiteCache interface {
	GetSite(ctx context.Context, apiKey string) (*domain.Site, error)
	StoreSite(ctx context.Context, site domain.Site) error
	InvalidateSite(ctx context.Context, apiKey string) error
}

type siteService struct {
	siteRepo SiteRepository
	cache    SiteCache // nil disables caching
	validate *validator.Validate
}

func NewSiteService(siteRepo SiteRepository, cache SiteCache, validate *validator.Validate) *siteService {
	return &siteService{
		siteRepo: siteRepo,
		cache:    cache,
		validate: validate,
	}
}

// Connect registers a storefront for the owner and issues the API key the
// tracker snippet authenticates with.
func (s *siteService) Connect(ctx context.Context, ownerID uint64, siteURL string) (domain.Site, error) {
	if err := s.validate.Var(siteURL, "required,url"); err != nil {
		logger.Error("Invalid site url", err)
		return domain.Site{}, errors.New("invalid site url")
	}

	newSite := domain.Site{
		OwnerID:  ownerID,
		SiteURL:  strings.TrimRight(siteURL, "/"),
		APIKey:   "sk_" + uuid.NewString(),
		IsActive: true,
	}

	if err := s.siteRepo.Create(ctx, &newSite); err != nil {
		logger.Error("Failed to create site", err)
		return domain.Site{}, err
	}

	return newSite, nil
}

// Authenticate resolves an API key sent by the tracker snippet. Inactive
// sites are rejected so a revoked key stops reporting immediately.
func (s *siteService) Authenticate(ctx context.Context, apiKey string) (domain.Site, error) {
	if apiKey == "" {
		return domain.Site{}, errors.New("api key is required")
	}

	if s.cache != nil {
		if cached, err := s.cache.GetSite(ctx, apiKey); err == nil {
			if !cached.IsActive {
				return domain.Site{}, errors.New("site is deactivated")
			}
			return *cached, nil
		}
	}

	site, err := s.siteRepo.FindByAPIKey(ctx, apiKey)
	if err != nil {
		return domain.Site{}, errors.New("invalid api key")
	}

	if !site.IsActive {
		return domain.Site{}, errors.New("site is deactivated")
	}

	if s.cache != nil {
		if err := s.cache.StoreSite(ctx, site); err != nil {
			logger.Warn("failed to cache site", "error", err)
		}
	}

	return site, nil
}

func (s *siteService) GetSitesByOwner(ctx context.Context, ownerID uint64) ([]domain.Site, error) {
	sites, err := s.siteRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("Failed to get sites by owner", err)
		return nil, err
	}

	return sites, nil
}

// Deactivate revokes a site's API key without deleting its history.
func (s *siteService) Deactivate(ctx context.Context, ownerID, siteID uint64) error {
	sites, err := s.siteRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	for i := range sites {
		if sites[i].ID == siteID {
			sites[i].IsActive = false
			if err := s.siteRepo.Update(ctx, &sites[i]); err != nil {
				return err
			}
			if s.cache != nil {
				if err := s.cache.InvalidateSite(ctx, sites[i].APIKey); err != nil {
					logger.Warn("failed to invalidate cached site", "error", err)
				}
			}
			return nil
		}
	}

	return errors.New("site not found")
}
