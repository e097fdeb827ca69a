package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shopRadar/domain"
	"shopRadar/internal/middleware"
	"shopRadar/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetProductsByOwner(ctx context.Context, ownerID uint64) ([]domain.Product, error)
	GetProductByID(ctx context.Context, ownerID, productID uint64) (domain.Product, error)
}

type ProductHandler struct {
	productService ProductService
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		timeout:        10 * time.Second,
	}
}

func (h *ProductHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetProductsByOwner(ctx, middleware.OwnerID(c))
	if err != nil {
		logger.Error("Failed to get products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get products",
		"products": products,
	})
}

func (h *ProductHandler) GetByID(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, middleware.OwnerID(c), productID)
	if err != nil {
		if err.Error() == "product not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get product",
		"product": product,
	})
}
