package rest

import (
	"context"
	"net/http"
	"time"

	"shopRadar/business/tracking"
	"shopRadar/domain"
	"shopRadar/internal/middleware"
	"shopRadar/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type TrackingService interface {
	Track(ctx context.Context, site domain.Site, payload tracking.TrackPayload) (*domain.Event, error)
	PickVariant(ctx context.Context, site domain.Site, productExternalID, customerIdentifier string) (tracking.VariantDecision, error)
}

type TrackingHandler struct {
	trackingService TrackingService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewTrackingHandler(trackingService TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type TrackProductRequest struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	URL      string   `json:"url"`
	Category string   `json:"category"`
	Stock    *int     `json:"stock"`
	Discount *float64 `json:"discount"`
}

type TrackRequest struct {
	EventType     string              `json:"event_type" validate:"required,oneof=VIEW ADD_TO_CART PURCHASE"`
	CustomerID    string              `json:"customer_id"`
	Product       TrackProductRequest `json:"product" validate:"required"`
	ABTestID      *uint64             `json:"ab_test_id"`
	ABTestVariant string              `json:"ab_test_variant"`
}

func (h *TrackingHandler) Track(c echo.Context) error {
	var req TrackRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind track request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	// Anonymous visitors are identified by remote IP.
	customerID := req.CustomerID
	if customerID == "" {
		customerID = c.RealIP()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	event, err := h.trackingService.Track(ctx, middleware.Site(c), tracking.TrackPayload{
		EventType: req.EventType,
		Product: tracking.ProductPayload{
			ExternalID: req.Product.ID,
			Name:       req.Product.Name,
			Price:      req.Product.Price,
			URL:        req.Product.URL,
			Category:   req.Product.Category,
			Stock:      req.Product.Stock,
			Discount:   req.Product.Discount,
		},
		CustomerID:    customerID,
		ABTestID:      req.ABTestID,
		ABTestVariant: req.ABTestVariant,
	})
	if err != nil {
		logger.Error("Failed to track event", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "event tracked",
		"event_id": event.ID,
	})
}

// Variant tells the snippet which version of a product page to render.
func (h *TrackingHandler) Variant(c echo.Context) error {
	productExternalID := c.QueryParam("product_id")
	if productExternalID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "product_id is required"})
	}

	customerID := c.QueryParam("customer_id")
	if customerID == "" {
		customerID = c.RealIP()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	decision, err := h.trackingService.PickVariant(ctx, middleware.Site(c), productExternalID, customerID)
	if err != nil {
		if err.Error() == "product not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to pick variant", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, decision)
}
