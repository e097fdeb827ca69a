package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shopRadar/domain"
	"shopRadar/pkg/logger"
	"shopRadar/pkg/utils"

	jsonres "shopRadar/pkg/response"

	"github.com/labstack/echo/v4"
)

// SiteAuthenticator resolves a tracker API key to its site.
type SiteAuthenticator interface {
	Authenticate(ctx context.Context, apiKey string) (domain.Site, error)
}

// AuthMiddleware validates the dashboard JWT and stores the owner id on the
// request context.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			claims, err := utils.ValidateJWT(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			expAt, err := claims.GetExpirationTime()
			if err != nil {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Status Forbidden", nil,
				))
			}

			if time.Now().After(expAt.Time) {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Status Forbidden", nil,
				))
			}

			ownerID, err := strconv.ParseUint(claims.OwnerID, 10, 64)
			if err != nil {
				logger.Error("Invalid owner ID in token", err)
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Invalid owner ID in token", nil,
				))
			}

			c.Set("owner_id", ownerID)
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

// APIKeyMiddleware authenticates tracker snippet calls. The key comes from
// the X-API-Key header, or the api_key query parameter for script-tag GETs
// that cannot set headers.
func APIKeyMiddleware(sites SiteAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey := c.Request().Header.Get("X-API-Key")
			if apiKey == "" {
				apiKey = c.QueryParam("api_key")
			}
			if apiKey == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing api key", nil,
				))
			}

			site, err := sites.Authenticate(c.Request().Context(), apiKey)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid api key", nil,
				))
			}

			c.Set("site", site)

			return next(c)
		}
	}
}

// OwnerID reads the owner id stored by AuthMiddleware.
func OwnerID(c echo.Context) uint64 {
	id, _ := c.Get("owner_id").(uint64)
	return id
}

// Site reads the site stored by APIKeyMiddleware.
func Site(c echo.Context) domain.Site {
	site, _ := c.Get("site").(domain.Site)
	return site
}
