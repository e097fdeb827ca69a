package site

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shopRadar/domain"

	"github.com/go-playground/validator/v10"
)

type fakeSiteRepo struct {
	sites       []domain.Site
	findByKey   int
	lastUpdated *domain.Site
}

func (f *fakeSiteRepo) Create(_ context.Context, site *domain.Site) error {
	site.ID = uint64(len(f.sites) + 1)
	f.sites = append(f.sites, *site)
	return nil
}

func (f *fakeSiteRepo) FindByAPIKey(_ context.Context, apiKey string) (domain.Site, error) {
	f.findByKey++
	for _, s := range f.sites {
		if s.APIKey == apiKey {
			return s, nil
		}
	}
	return domain.Site{}, errors.New("site not found")
}

func (f *fakeSiteRepo) FindByOwner(_ context.Context, ownerID uint64) ([]domain.Site, error) {
	var out []domain.Site
	for _, s := range f.sites {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSiteRepo) Update(_ context.Context, site *domain.Site) error {
	f.lastUpdated = site
	for i := range f.sites {
		if f.sites[i].ID == site.ID {
			f.sites[i] = *site
		}
	}
	return nil
}

type fakeSiteCache struct {
	entries     map[string]domain.Site
	invalidated []string
}

func newFakeSiteCache() *fakeSiteCache {
	return &fakeSiteCache{entries: map[string]domain.Site{}}
}

func (f *fakeSiteCache) GetSite(_ context.Context, apiKey string) (*domain.Site, error) {
	s, ok := f.entries[apiKey]
	if !ok {
		return nil, errors.New("site not cached")
	}
	return &s, nil
}

func (f *fakeSiteCache) StoreSite(_ context.Context, site domain.Site) error {
	f.entries[site.APIKey] = site
	return nil
}

func (f *fakeSiteCache) InvalidateSite(_ context.Context, apiKey string) error {
	delete(f.entries, apiKey)
	f.invalidated = append(f.invalidated, apiKey)
	return nil
}

func TestConnectIssuesAPIKey(t *testing.T) {
	repo := &fakeSiteRepo{}
	svc := NewSiteService(repo, nil, validator.New())

	site, err := svc.Connect(context.Background(), 7, "https://shop.example.com/")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !strings.HasPrefix(site.APIKey, "sk_") {
		t.Errorf("api key = %q, want sk_ prefix", site.APIKey)
	}
	if site.SiteURL != "https://shop.example.com" {
		t.Errorf("site url = %q, want trailing slash stripped", site.SiteURL)
	}
	if !site.IsActive {
		t.Error("new site must start active")
	}

	if _, err := svc.Connect(context.Background(), 7, "not a url"); err == nil {
		t.Error("expected error for bogus url")
	}
}

func TestAuthenticateUsesCache(t *testing.T) {
	repo := &fakeSiteRepo{}
	cache := newFakeSiteCache()
	svc := NewSiteService(repo, cache, validator.New())

	site, err := svc.Connect(context.Background(), 7, "https://shop.example.com")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	// first hit misses the cache and falls through to the repo
	got, err := svc.Authenticate(context.Background(), site.APIKey)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != site.ID {
		t.Fatalf("authenticated site id = %d, want %d", got.ID, site.ID)
	}
	if repo.findByKey != 1 {
		t.Fatalf("repo lookups = %d, want 1", repo.findByKey)
	}

	// second hit is served from the cache
	if _, err := svc.Authenticate(context.Background(), site.APIKey); err != nil {
		t.Fatalf("cached Authenticate: %v", err)
	}
	if repo.findByKey != 1 {
		t.Errorf("repo lookups = %d, want still 1", repo.findByKey)
	}
}

func TestDeactivateRevokesKey(t *testing.T) {
	repo := &fakeSiteRepo{}
	cache := newFakeSiteCache()
	svc := NewSiteService(repo, cache, validator.New())

	site, err := svc.Connect(context.Background(), 7, "https://shop.example.com")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), site.APIKey); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	if err := svc.Deactivate(context.Background(), 7, site.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != site.APIKey {
		t.Errorf("invalidated = %v, want [%s]", cache.invalidated, site.APIKey)
	}

	// revoked key stops authenticating immediately
	if _, err := svc.Authenticate(context.Background(), site.APIKey); err == nil {
		t.Error("expected error for deactivated site")
	}

	// someone else's site id is rejected
	if err := svc.Deactivate(context.Background(), 99, site.ID); err == nil {
		t.Error("expected error for foreign owner")
	}
}

func TestAuthenticateRejectsUnknownKey(t *testing.T) {
	svc := NewSiteService(&fakeSiteRepo{}, nil, validator.New())

	if _, err := svc.Authenticate(context.Background(), ""); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := svc.Authenticate(context.Background(), "sk_nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}
