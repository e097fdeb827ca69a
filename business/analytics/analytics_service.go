package analytics

import (
	"context"
	"fmt"
	"time"

	"shopRadar/domain"
	"shopRadar/pkg/logger"
	"shopRadar/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// EventRepository contract interface
type EventRepository interface {
	FindRowsInRange(ctx context.Context, ownerID uint64, start, end time.Time) ([]domain.EventRow, error)
	FindProductRowsInRange(ctx context.Context, ownerID, productID uint64, start, end time.Time) ([]domain.EventRow, error)
	FindPurchaseRows(ctx context.Context, ownerID uint64) ([]domain.EventRow, error)
	FindDailySales(ctx context.Context, ownerID, productID uint64, since, until time.Time) ([]domain.DailySales, error)
	FindCustomerCohorts(ctx context.Context, ownerID uint64) ([]domain.CustomerCohort, error)
	FindActivityMonths(ctx context.Context, ownerID uint64) ([]domain.CustomerMonth, error)
}

// ABTestRepository contract interface
type ABTestRepository interface {
	FindTestEvents(ctx context.Context, ownerID, testID uint64) ([]domain.ABTestEvent, error)
}

type analyticsService struct {
	eventRepo  EventRepository
	abTestRepo ABTestRepository

	segmentOpts  SegmentOptions
	basketOpts   MarketBasketOptions
	forecastOpts ForecastOptions
}

func NewAnalyticsService(eventRepo EventRepository, abTestRepo ABTestRepository) *analyticsService {
	return &analyticsService{
		eventRepo:    eventRepo,
		abTestRepo:   abTestRepo,
		segmentOpts:  DefaultSegmentOptions(),
		basketOpts:   DefaultMarketBasketOptions(),
		forecastOpts: DefaultForecastOptions(),
	}
}

func (s *analyticsService) Funnel(ctx context.Context, ownerID uint64, start, end time.Time) (FunnelReport, error) {
	timer := prometheus.NewTimer(metrics.AnalyzerLatency.WithLabelValues("funnel"))
	defer timer.ObserveDuration()

	rows, err := s.fetchRows(ctx, ownerID, start, end)
	if err != nil {
		return FunnelReport{}, err
	}

	return BuildFunnel(rows), nil
}

func (s *analyticsService) Segments(ctx context.Context, ownerID uint64, start, end time.Time) (CustomerSegments, error) {
	timer := prometheus.NewTimer(metrics.AnalyzerLatency.WithLabelValues("segments"))
	defer timer.ObserveDuration()

	rows, err := s.fetchRows(ctx, ownerID, start, end)
	if err != nil {
		return CustomerSegments{}, err
	}

	return BuildSegments(rows, s.segmentOpts), nil
}

// MarketBasket mines the owner's full purchase history. The middle return
// value carries the human-readable reason when no rules come back.
func (s *analyticsService) MarketBasket(ctx context.Context, ownerID uint64) ([]AssociationRule, string, error) {
	timer := prometheus.NewTimer(metrics.AnalyzerLatency.WithLabelValues("basket"))
	defer timer.ObserveDuration()

	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("context error: %w", err)
	}

	purchases, err := s.eventRepo.FindPurchaseRows(ctx, ownerID)
	if err != nil {
		logger.Error("failed to load purchase rows", "error", err)
		return nil, "", err
	}

	rules, reason := BuildMarketBasket(purchases, s.basketOpts)
	return rules, reason, nil
}

func (s *analyticsService) Forecast(ctx context.Context, ownerID, productID uint64, horizonDays int) (*SalesForecast, string, error) {
	timer := prometheus.NewTimer(metrics.AnalyzerLatency.WithLabelValues("forecast"))
	defer timer.ObserveDuration()

	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("context error: %w", err)
	}

	now := time.Now()
	since := now.AddDate(0, 0, -s.forecastOpts.LookbackDays)

	daily, err := s.eventRepo.FindDailySales(ctx, ownerID, productID, since, now)
	if err != nil {
		logger.Error("failed to load daily sales", "product_id", productID, "error", err)
		return nil, "", err
	}

	forecast, reason := BuildForecast(daily, horizonDays, s.forecastOpts)
	return forecast, reason, nil
}

func (s *analyticsService) Cohorts(ctx context.Context, ownerID uint64) (*CohortMatrix, string, error) {
	timer := prometheus.NewTimer(metrics.AnalyzerLatency.WithLabelValues("cohort"))
	defer timer.ObserveDuration()

	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("context error: %w", err)
	}

	customers, err := s.eventRepo.FindCustomerCohorts(ctx, ownerID)
	if err != nil {
		logger.Error("failed to load customer cohorts", "error", err)
		return nil, "", err
	}

	activity, err := s.eventRepo.FindActivityMonths(ctx, ownerID)
	if err != nil {
		logger.Error("failed to load activity months", "error", err)
		return nil, "", err
	}

	matrix, reason := BuildCohorts(customers, activity)
	return matrix, reason, nil
}

func (s *analyticsService) TestResults(ctx context.Context, ownerID, testID uint64) (ABTestResult, error) {
	if err := ctx.Err(); err != nil {
		return ABTestResult{}, fmt.Errorf("context error: %w", err)
	}

	events, err := s.abTestRepo.FindTestEvents(ctx, ownerID, testID)
	if err != nil {
		logger.Error("failed to load test events", "test_id", testID, "error", err)
		return ABTestResult{}, err
	}

	return BuildTestResult(events), nil
}

func (s *analyticsService) Overview(ctx context.Context, ownerID uint64, start, end time.Time) (OverviewReport, error) {
	timer := prometheus.NewTimer(metrics.AnalyzerLatency.WithLabelValues("overview"))
	defer timer.ObserveDuration()

	rows, err := s.fetchRows(ctx, ownerID, start, end)
	if err != nil {
		return OverviewReport{}, err
	}

	return BuildOverview(rows, s.segmentOpts.Cap), nil
}

func (s *analyticsService) DailyEvents(ctx context.Context, ownerID uint64, start, end time.Time) (DailyBreakdown, error) {
	rows, err := s.fetchRows(ctx, ownerID, start, end)
	if err != nil {
		return DailyBreakdown{}, err
	}

	return BuildDailyBreakdown(rows, start, end), nil
}

func (s *analyticsService) ProductSummary(ctx context.Context, ownerID, productID uint64, start, end time.Time) (ProductSummary, error) {
	if err := ctx.Err(); err != nil {
		return ProductSummary{}, fmt.Errorf("context error: %w", err)
	}

	rows, err := s.eventRepo.FindProductRowsInRange(ctx, ownerID, productID, start, end)
	if err != nil {
		logger.Error("failed to load product rows", "product_id", productID, "error", err)
		return ProductSummary{}, err
	}

	return BuildProductSummary(rows), nil
}

func (s *analyticsService) fetchRows(ctx context.Context, ownerID uint64, start, end time.Time) ([]domain.EventRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rows, err := s.eventRepo.FindRowsInRange(ctx, ownerID, start, end)
	if err != nil {
		logger.Error("failed to load event rows", "owner_id", ownerID, "error", err)
		return nil, err
	}

	return rows, nil
}
