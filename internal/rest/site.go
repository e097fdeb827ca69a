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

type SiteService interface {
	Connect(ctx context.Context, ownerID uint64, siteURL string) (domain.Site, error)
	GetSitesByOwner(ctx context.Context, ownerID uint64) ([]domain.Site, error)
	Deactivate(ctx context.Context, ownerID, siteID uint64) error
}

type SiteHandler struct {
	siteService SiteService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewSiteHandler(siteService SiteService) *SiteHandler {
	return &SiteHandler{
		siteService: siteService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type ConnectSiteRequest struct {
	SiteURL string `json:"site_url" validate:"required,url"`
}

func (h *SiteHandler) Connect(c echo.Context) error {
	var req ConnectSiteRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	site, err := h.siteService.Connect(ctx, middleware.OwnerID(c), req.SiteURL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "successfully connected site",
		"site":    site,
	})
}

func (h *SiteHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sites, err := h.siteService.GetSitesByOwner(ctx, middleware.OwnerID(c))
	if err != nil {
		logger.Error("Failed to get sites", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get sites",
		"sites":   sites,
	})
}

func (h *SiteHandler) Deactivate(c echo.Context) error {
	siteID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid site id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.siteService.Deactivate(ctx, middleware.OwnerID(c), siteID); err != nil {
		if err.Error() == "site not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully deactivated site",
	})
}
