package rest

import (
	"context"
	"net/http"
	"time"

	"shopRadar/domain"
	"shopRadar/internal/middleware"
	"shopRadar/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type OwnerService interface {
	Register(ctx context.Context, owner *domain.Owner) (domain.Owner, error)
	Login(ctx context.Context, email, password string) (string, domain.Owner, error)
	VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error
	GetOwnerByID(ctx context.Context, id uint64) (domain.Owner, error)
}

type OwnerHandler struct {
	ownerService OwnerService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewOwnerHandler(ownerService OwnerService) *OwnerHandler {
	return &OwnerHandler{
		ownerService: ownerService,
		validator:    validator.New(),
		timeout:      10 * time.Second,
	}
}

type ResponseError struct {
	Message string `json:"message"`
}

type RegisterOwnerRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginOwnerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *OwnerHandler) Register(c echo.Context) error {
	var req RegisterOwnerRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate register request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	owner := domain.Owner{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}

	newOwner, err := h.ownerService.Register(ctx, &owner)
	if err != nil {
		if err.Error() == "email already exists" {
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "successfully registered, check your email for activation",
		"owner":   newOwner,
	})
}

func (h *OwnerHandler) Login(c echo.Context) error {
	var req LoginOwnerRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, owner, err := h.ownerService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "invalid credentials"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully logged in",
		"token":   token,
		"owner":   owner,
	})
}

func (h *OwnerHandler) VerifyEmail(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "verification code is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ownerService.VerifyEmail(ctx, code); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "email successfully verified",
	})
}

func (h *OwnerHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	owner, err := h.ownerService.GetOwnerByID(ctx, middleware.OwnerID(c))
	if err != nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get owner",
		"owner":   owner,
	})
}
