package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"shopBackend/domain"
	"shopBackend/pkg/logger"
	"shopBackend/pkg/utils"

	jsonres "shopBackend/pkg/response"

	"github.com/labstack/echo/v4"
)

// IdentityKey is the echo context key holding the authenticated domain.Identity.
const IdentityKey = "identity"

// TokenParser verifies a signed token and returns its claims
type TokenParser interface {
	ParseJWT(token string) (*utils.JWTClaims, error)
}

// TokenValidator checks that a token is still registered in the session store
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// IdentityFrom returns the identity stored by the auth middleware.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(IdentityKey).(domain.Identity)
	return identity, ok
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", c.JSON(http.StatusUnauthorized, jsonres.Error(
			"UNAUTHORIZED", "Missing authorization header", nil,
		))
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
		return "", c.JSON(http.StatusUnauthorized, jsonres.Error(
			"UNAUTHORIZED", "Invalid authorization format", nil,
		))
	}

	return tokenParts[1], nil
}

// AuthMiddleware verifies the bearer JWT signature and expiry only.
func AuthMiddleware(parser TokenParser) echo.MiddlewareFunc {
	return AuthMiddlewareWithRedis(parser, nil)
}

// AuthMiddlewareWithRedis verifies the bearer JWT and, when tokenValidator is
// not nil, requires the token to be a live session issued to the same user.
func AuthMiddlewareWithRedis(parser TokenParser, tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if tokenString == "" {
				return err
			}

			claims, err := parser.ParseJWT(tokenString)
			if err != nil {
				logger.Warn("Failed to parse JWT", "error", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			if claims.Subject == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			if tokenValidator != nil {
				ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
				defer cancel()

				userID, err := tokenValidator.ValidateToken(ctx, tokenString)
				if err != nil {
					logger.Warn("Token not found in session store", "error", err)
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Token expired or invalid", nil,
					))
				}

				if userID != claims.Subject {
					logger.Warn("Subject mismatch between JWT and session store")
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Invalid token", nil,
					))
				}
			}

			c.Set(IdentityKey, domain.Identity{
				Subject: claims.Subject,
				Role:    claims.Role,
				Token:   tokenString,
			})

			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok || !strings.EqualFold(identity.Role, domain.RoleAdmin) {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}

			return next(c)
		}
	}
}
