package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shopRadar/business/recommendation"
	"shopRadar/domain"
	"shopRadar/internal/middleware"
	"shopRadar/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type RecommendationService interface {
	EvaluateSite(ctx context.Context, ownerID uint64) (recommendation.PassSummary, error)
	EvaluateProduct(ctx context.Context, ownerID, productID uint64) (*recommendation.RuleMatch, error)
	ActiveRecommendations(ctx context.Context, ownerID uint64) ([]domain.Recommendation, error)
}

type RecommendationHandler struct {
	recommendationService RecommendationService
	timeout               time.Duration
}

func NewRecommendationHandler(recommendationService RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		timeout:               60 * time.Second,
	}
}

func (h *RecommendationHandler) GetActive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recommendations, err := h.recommendationService.ActiveRecommendations(ctx, middleware.OwnerID(c))
	if err != nil {
		logger.Error("Failed to get recommendations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recommendations))
}

// Refresh runs a full evaluation pass over the owner's catalog.
func (h *RecommendationHandler) Refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.recommendationService.EvaluateSite(ctx, middleware.OwnerID(c))
	if err != nil {
		logger.Error("Failed to run recommendation pass", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

func (h *RecommendationHandler) EvaluateProduct(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	match, err := h.recommendationService.EvaluateProduct(ctx, middleware.OwnerID(c), productID)
	if err != nil {
		if err.Error() == "product not found" || err.Error() == "product does not belong to owner" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "product not found"})
		}
		logger.Error("Failed to evaluate product", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(match))
}
