package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shopRadar/domain"
	"shopRadar/internal/middleware"
	"shopRadar/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ABTestService interface {
	Create(ctx context.Context, ownerID uint64, test *domain.ABTest) (domain.ABTest, error)
	GetTestsByOwner(ctx context.Context, ownerID uint64) ([]domain.ABTest, error)
	Stop(ctx context.Context, ownerID, testID uint64) (domain.ABTest, error)
}

type ABTestHandler struct {
	abTestService ABTestService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewABTestHandler(abTestService ABTestService) *ABTestHandler {
	return &ABTestHandler{
		abTestService: abTestService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type CreateABTestRequest struct {
	ProductID    uint64 `json:"product_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Variable     string `json:"variable" validate:"required,oneof=PRICE NAME"`
	ControlValue string `json:"control_value"`
	VariantValue string `json:"variant_value" validate:"required"`
}

func (h *ABTestHandler) Create(c echo.Context) error {
	var req CreateABTestRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	test, err := h.abTestService.Create(ctx, middleware.OwnerID(c), &domain.ABTest{
		ProductID:    req.ProductID,
		Name:         req.Name,
		Variable:     req.Variable,
		ControlValue: req.ControlValue,
		VariantValue: req.VariantValue,
	})
	if err != nil {
		if err.Error() == "product not found" || err.Error() == "product does not belong to owner" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "product not found"})
		}
		if err.Error() == "product already has an active test" {
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "successfully created test",
		"test":    test,
	})
}

func (h *ABTestHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	tests, err := h.abTestService.GetTestsByOwner(ctx, middleware.OwnerID(c))
	if err != nil {
		logger.Error("Failed to get tests", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get tests",
		"tests":   tests,
	})
}

func (h *ABTestHandler) Stop(c echo.Context) error {
	testID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid test id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	test, err := h.abTestService.Stop(ctx, middleware.OwnerID(c), testID)
	if err != nil {
		if err.Error() == "test not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully stopped test",
		"test":    test,
	})
}
