package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopRadar/domain"
	"shopRadar/pkg/logger"
	"shopRadar/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// EventRepository contract interface
type EventRepository interface {
	CountProductEvents(ctx context.Context, productID uint64, eventType string, since time.Time) (int64, error)
	CountOwnerEvents(ctx context.Context, ownerID uint64, eventType string, since time.Time) (int64, error)
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindByOwner(ctx context.Context, ownerID uint64) ([]domain.Product, error)
}

// RecommendationRepository is the engine's single write surface. Both
// methods run their statements in one transaction per subject so dashboard
// reads never observe a half-reconciled state.
type RecommendationRepository interface {
	// ReconcileActive applies the upsert-and-deactivate protocol for one
	// subject (ownerID + productID, nil meaning site-wide). A nil match
	// deactivates every non-AI row for the subject. Returns true when the
	// subject's active reason actually changed.
	ReconcileActive(ctx context.Context, ownerID uint64, productID *uint64, match *RuleMatch, details map[string]interface{}) (bool, error)
	// UpsertAISuggestion stores an AI_GENERATED row without touching any
	// sibling: AI suggestions coexist with rule-based ones.
	UpsertAISuggestion(ctx context.Context, ownerID uint64, productID *uint64, text string, confidence float64) error
	FindActiveByOwner(ctx context.Context, ownerID uint64) ([]domain.Recommendation, error)
}

// AIAdvisor contract interface (optional external service)
type AIAdvisor interface {
	Suggest(ctx context.Context, req domain.AIAdvisorRequest) (domain.AIAdvisorResponse, error)
}

// OwnerRepository contract interface
type OwnerRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Owner, error)
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) error
}

// PassSummary reports what one evaluation pass did.
type PassSummary struct {
	ProductsEvaluated int        `json:"products_evaluated"`
	RuleMatches       int        `json:"rule_matches"`
	SiteMatch         *RuleMatch `json:"site_match,omitempty"`
	AISuggestions     int        `json:"ai_suggestions"`
}

type recommendationService struct {
	cfg         Config
	eventRepo   EventRepository
	productRepo ProductRepository
	recoRepo    RecommendationRepository
	ownerRepo   OwnerRepository
	aiAdvisor   AIAdvisor              // nil disables AI augmentation
	notifRepo   NotificationRepository // nil disables email alerts
}

func NewRecommendationService(
	cfg Config,
	eventRepo EventRepository,
	productRepo ProductRepository,
	recoRepo RecommendationRepository,
	ownerRepo OwnerRepository,
	aiAdvisor AIAdvisor,
	notifRepo NotificationRepository,
) *recommendationService {
	return &recommendationService{
		cfg:         cfg,
		eventRepo:   eventRepo,
		productRepo: productRepo,
		recoRepo:    recoRepo,
		ownerRepo:   ownerRepo,
		aiAdvisor:   aiAdvisor,
		notifRepo:   notifRepo,
	}
}

// EvaluateProduct runs the rule chain for one product and reconciles its
// recommendation rows. Running it again without new events is a no-op.
func (s *recommendationService) EvaluateProduct(ctx context.Context, ownerID, productID uint64) (*RuleMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		logger.Error("product not found for evaluation", "product_id", productID, "error", err)
		return nil, err
	}
	if product.OwnerID != ownerID {
		return nil, errors.New("product not found")
	}

	match, _, err := s.evaluateOne(ctx, product)
	if err != nil {
		return nil, err
	}

	return match, nil
}

// EvaluateSite runs a full engine pass: every product, then the site-wide
// rules, then the optional AI augmentation. Each subject's writes happen in
// their own transaction; a failing AI call never aborts the pass.
func (s *recommendationService) EvaluateSite(ctx context.Context, ownerID uint64) (PassSummary, error) {
	timer := prometheus.NewTimer(metrics.RecommendationPassLatency)
	defer timer.ObserveDuration()

	if err := ctx.Err(); err != nil {
		return PassSummary{}, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("failed to load products for evaluation", "owner_id", ownerID, "error", err)
		return PassSummary{}, err
	}

	summary := PassSummary{ProductsEvaluated: len(products)}
	var activated []RuleMatch

	for _, product := range products {
		match, changed, err := s.evaluateOne(ctx, product)
		if err != nil {
			return PassSummary{}, err
		}
		if match != nil {
			summary.RuleMatches++
			if changed {
				activated = append(activated, *match)
			}
		}
	}

	siteMetrics, err := s.siteMetrics(ctx, ownerID, len(products))
	if err != nil {
		return PassSummary{}, err
	}

	siteMatch := EvaluateSiteRules(s.cfg, siteMetrics)
	changed, err := s.recoRepo.ReconcileActive(ctx, ownerID, nil, siteMatch, siteMetricsDetails(siteMetrics))
	if err != nil {
		logger.Error("failed to reconcile site-wide recommendation", "owner_id", ownerID, "error", err)
		return PassSummary{}, err
	}
	if siteMatch != nil {
		summary.SiteMatch = siteMatch
		metrics.RecommendationMatchesTotal.WithLabelValues(siteMatch.Reason).Inc()
		if changed {
			activated = append(activated, *siteMatch)
		}
	}

	summary.AISuggestions = s.augmentWithAI(ctx, ownerID, siteMetrics)

	s.notifyOwner(ctx, ownerID, activated)

	return summary, nil
}

func (s *recommendationService) ActiveRecommendations(ctx context.Context, ownerID uint64) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	return s.recoRepo.FindActiveByOwner(ctx, ownerID)
}

// evaluateOne computes one product's window metrics, picks the winning rule
// (if any) and reconciles the product's rows.
func (s *recommendationService) evaluateOne(ctx context.Context, product domain.Product) (*RuleMatch, bool, error) {
	m, err := s.productMetrics(ctx, product)
	if err != nil {
		return nil, false, err
	}

	match := EvaluateProductRules(s.cfg, m)

	productID := product.ID
	changed, err := s.recoRepo.ReconcileActive(ctx, product.OwnerID, &productID, match, productMetricsDetails(m))
	if err != nil {
		logger.Error("failed to reconcile product recommendation", "product_id", product.ID, "error", err)
		return nil, false, err
	}

	if match != nil {
		metrics.RecommendationMatchesTotal.WithLabelValues(match.Reason).Inc()
	}

	return match, changed, nil
}

func (s *recommendationService) productMetrics(ctx context.Context, product domain.Product) (ProductMetrics, error) {
	since := time.Now().AddDate(0, 0, -s.cfg.WindowDays)

	views, err := s.eventRepo.CountProductEvents(ctx, product.ID, domain.EventTypeView, since)
	if err != nil {
		return ProductMetrics{}, fmt.Errorf("failed to count views: %w", err)
	}
	carts, err := s.eventRepo.CountProductEvents(ctx, product.ID, domain.EventTypeAddToCart, since)
	if err != nil {
		return ProductMetrics{}, fmt.Errorf("failed to count carts: %w", err)
	}
	purchases, err := s.eventRepo.CountProductEvents(ctx, product.ID, domain.EventTypePurchase, since)
	if err != nil {
		return ProductMetrics{}, fmt.Errorf("failed to count purchases: %w", err)
	}

	m := ProductMetrics{
		ProductID: product.ID,
		Name:      product.Name,
		Views:     int(views),
		Carts:     int(carts),
		Purchases: int(purchases),
		Stock:     product.Stock,
		Discount:  product.Discount,
		AgeDays:   int(time.Since(product.CreatedAt).Hours() / 24),
	}
	if m.Views > 0 {
		m.ConversionRate = float64(m.Carts) / float64(m.Views) * 100
	}

	return m, nil
}

func (s *recommendationService) siteMetrics(ctx context.Context, ownerID uint64, productCount int) (SiteMetrics, error) {
	since := time.Now().AddDate(0, 0, -s.cfg.WindowDays)

	views, err := s.eventRepo.CountOwnerEvents(ctx, ownerID, domain.EventTypeView, since)
	if err != nil {
		return SiteMetrics{}, fmt.Errorf("failed to count site views: %w", err)
	}
	carts, err := s.eventRepo.CountOwnerEvents(ctx, ownerID, domain.EventTypeAddToCart, since)
	if err != nil {
		return SiteMetrics{}, fmt.Errorf("failed to count site carts: %w", err)
	}
	purchases, err := s.eventRepo.CountOwnerEvents(ctx, ownerID, domain.EventTypePurchase, since)
	if err != nil {
		return SiteMetrics{}, fmt.Errorf("failed to count site purchases: %w", err)
	}

	m := SiteMetrics{
		TotalViews:     int(views),
		TotalCarts:     int(carts),
		TotalPurchases: int(purchases),
		ProductCount:   productCount,
	}
	if m.TotalViews > 0 {
		m.OverallConversion = float64(m.TotalPurchases) / float64(m.TotalViews) * 100
	}

	return m, nil
}

// augmentWithAI submits the aggregate metrics to the external advisor and
// stores whatever usable suggestions come back. The service is untrusted:
// any failure is logged and swallowed so the rule-based pass stands.
func (s *recommendationService) augmentWithAI(ctx context.Context, ownerID uint64, m SiteMetrics) int {
	if s.aiAdvisor == nil {
		return 0
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.cfg.AITimeout)
	defer cancel()

	resp, err := s.aiAdvisor.Suggest(aiCtx, domain.AIAdvisorRequest{
		Views:          m.TotalViews,
		Carts:          m.TotalCarts,
		Purchases:      m.TotalPurchases,
		ConversionRate: m.OverallConversion,
		ProductCount:   m.ProductCount,
	})
	if err != nil {
		logger.Warn("ai advisor call failed, skipping ai suggestions", "owner_id", ownerID, "error", err)
		return 0
	}

	stored := 0
	for _, suggestion := range resp.Recommendations {
		text := strings.TrimSpace(suggestion.Text)
		if text == "" {
			continue
		}

		// a product-scoped suggestion must reference one of the owner's
		// own products
		var productID *uint64
		if suggestion.ProductID != nil {
			product, err := s.productRepo.FindByID(ctx, *suggestion.ProductID)
			if err != nil || product.OwnerID != ownerID {
				logger.Warn("ai suggestion references unknown product, skipping", "product_id", *suggestion.ProductID)
				continue
			}
			id := product.ID
			productID = &id
		}

		if err := s.recoRepo.UpsertAISuggestion(ctx, ownerID, productID, text, suggestion.Confidence); err != nil {
			logger.Warn("failed to store ai suggestion", "owner_id", ownerID, "error", err)
			continue
		}
		stored++
	}

	return stored
}

// notifyOwner emails a digest of newly activated suggestions. Best effort.
func (s *recommendationService) notifyOwner(ctx context.Context, ownerID uint64, activated []RuleMatch) {
	if s.notifRepo == nil || len(activated) == 0 {
		return
	}

	owner, err := s.ownerRepo.FindByID(ctx, ownerID)
	if err != nil {
		logger.Warn("owner lookup failed for notification", "owner_id", ownerID, "error", err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d new suggestions on your dashboard:\n\n", len(activated))
	for _, match := range activated {
		fmt.Fprintf(&b, "- %s\n", match.Text)
	}

	if err := s.notifRepo.SendEmail(owner.FullName, owner.Email, "New suggestions for your store", b.String()); err != nil {
		logger.Warn("failed to send suggestion digest", "owner_id", ownerID, "error", err)
	}
}

func productMetricsDetails(m ProductMetrics) map[string]interface{} {
	return map[string]interface{}{
		"views":           m.Views,
		"carts":           m.Carts,
		"purchases":       m.Purchases,
		"conversion_rate": m.ConversionRate,
		"stock":           m.Stock,
		"discount":        m.Discount,
		"age_days":        m.AgeDays,
	}
}

func siteMetricsDetails(m SiteMetrics) map[string]interface{} {
	return map[string]interface{}{
		"total_views":        m.TotalViews,
		"total_carts":        m.TotalCarts,
		"total_purchases":    m.TotalPurchases,
		"overall_conversion": m.OverallConversion,
		"product_count":      m.ProductCount,
	}
}
