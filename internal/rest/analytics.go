package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"shopRadar/business/analytics"
	"shopRadar/internal/middleware"
	"shopRadar/pkg/logger"

	"github.com/labstack/echo/v4"
)

type AnalyticsService interface {
	Overview(ctx context.Context, ownerID uint64, start, end time.Time) (analytics.OverviewReport, error)
	Funnel(ctx context.Context, ownerID uint64, start, end time.Time) (analytics.FunnelReport, error)
	Segments(ctx context.Context, ownerID uint64, start, end time.Time) (analytics.CustomerSegments, error)
	MarketBasket(ctx context.Context, ownerID uint64) ([]analytics.AssociationRule, string, error)
	Forecast(ctx context.Context, ownerID, productID uint64, horizonDays int) (*analytics.SalesForecast, string, error)
	Cohorts(ctx context.Context, ownerID uint64) (*analytics.CohortMatrix, string, error)
	TestResults(ctx context.Context, ownerID, testID uint64) (analytics.ABTestResult, error)
	DailyEvents(ctx context.Context, ownerID uint64, start, end time.Time) (analytics.DailyBreakdown, error)
	ProductSummary(ctx context.Context, ownerID, productID uint64, start, end time.Time) (analytics.ProductSummary, error)
}

type AnalyticsHandler struct {
	analyticsService AnalyticsService
	timeout          time.Duration
}

func NewAnalyticsHandler(analyticsService AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		timeout:          30 * time.Second,
	}
}

const dateLayout = "2006-01-02"

// parseDateRange reads start_date/end_date query params, defaulting to the
// last 30 days. The returned end is exclusive.
func parseDateRange(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if s := c.QueryParam("start_date"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("start_date must be formatted YYYY-MM-DD")
		}
		start = parsed
	}

	if s := c.QueryParam("end_date"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("end_date must be formatted YYYY-MM-DD")
		}
		end = parsed.AddDate(0, 0, 1)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end_date must not be before start_date")
	}

	return start, end, nil
}

func (h *AnalyticsHandler) Overview(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.analyticsService.Overview(ctx, middleware.OwnerID(c), start, end)
	if err != nil {
		logger.Error("Failed to build overview", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully built overview",
		"overview": report,
	})
}

func (h *AnalyticsHandler) Funnel(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	funnel, err := h.analyticsService.Funnel(ctx, middleware.OwnerID(c), start, end)
	if err != nil {
		logger.Error("Failed to build funnel", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully built funnel",
		"funnel":  funnel,
	})
}

func (h *AnalyticsHandler) Segments(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	segments, err := h.analyticsService.Segments(ctx, middleware.OwnerID(c), start, end)
	if err != nil {
		logger.Error("Failed to build segments", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully built segments",
		"segments": segments,
	})
}

func (h *AnalyticsHandler) MarketBasket(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rules, reason, err := h.analyticsService.MarketBasket(ctx, middleware.OwnerID(c))
	if err != nil {
		logger.Error("Failed to build market basket", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	if rules == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": reason,
			"rules":   []analytics.AssociationRule{},
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully built market basket",
		"rules":   rules,
	})
}

func (h *AnalyticsHandler) Forecast(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	days := 0
	if s := c.QueryParam("days"); s != "" {
		days, err = strconv.Atoi(s)
		if err != nil || days <= 0 || days > 365 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "days must be between 1 and 365"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	forecast, reason, err := h.analyticsService.Forecast(ctx, middleware.OwnerID(c), productID, days)
	if err != nil {
		logger.Error("Failed to build forecast", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	if forecast == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message":  reason,
			"forecast": nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully built forecast",
		"forecast": forecast,
	})
}

func (h *AnalyticsHandler) Cohorts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	matrix, reason, err := h.analyticsService.Cohorts(ctx, middleware.OwnerID(c))
	if err != nil {
		logger.Error("Failed to build cohorts", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	if matrix == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": reason,
			"cohorts": nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully built cohorts",
		"cohorts": matrix,
	})
}

func (h *AnalyticsHandler) TestResults(c echo.Context) error {
	testID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid test id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.analyticsService.TestResults(ctx, middleware.OwnerID(c), testID)
	if err != nil {
		logger.Error("Failed to build test results", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully built test results",
		"results": result,
	})
}

func (h *AnalyticsHandler) DailyEvents(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	breakdown, err := h.analyticsService.DailyEvents(ctx, middleware.OwnerID(c), start, end)
	if err != nil {
		logger.Error("Failed to build daily breakdown", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully built daily breakdown",
		"daily":   breakdown,
	})
}

func (h *AnalyticsHandler) ProductSummary(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.analyticsService.ProductSummary(ctx, middleware.OwnerID(c), productID, start, end)
	if err != nil {
		logger.Error("Failed to build product summary", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully built product summary",
		"summary": summary,
	})
}
