package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/domain/token"
	"github.com/makkenzo/image-moderation-api/internal/ierr"
	"github.com/makkenzo/image-moderation-api/internal/service"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "bearer"
	tokenContextKey     = "authToken"
)

// BearerAuth extracts and resolves the bearer credential. The failure
// order is fixed: missing header, malformed header, wrong scheme,
// unknown token. Each failure short-circuits; no later step runs.
func BearerAuth(tokens *service.TokenService, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("BearerAuth")
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			log.Debug("Authorization header is missing")
			_ = c.Error(fmt.Errorf("%w: Missing Authorization header", ierr.ErrUnauthorized))
			c.Abort()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 {
			log.Debug("Authorization header format is invalid")
			_ = c.Error(fmt.Errorf("%w: Invalid Authorization header format", ierr.ErrUnauthorized))
			c.Abort()
			return
		}

		if !strings.EqualFold(parts[0], bearerScheme) {
			log.Debug("Authorization scheme is not Bearer", zap.String("scheme", parts[0]))
			_ = c.Error(fmt.Errorf("%w: Invalid authentication scheme", ierr.ErrUnauthorized))
			c.Abort()
			return
		}

		resolved, err := tokens.ResolveToken(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, token.ErrTokenNotFound) {
				log.Warn("Unknown or expired token presented")
				_ = c.Error(fmt.Errorf("%w: Invalid or expired token", ierr.ErrUnauthorized))
				c.Abort()
				return
			}
			log.Error("Failed to resolve token", zap.Error(err))
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(tokenContextKey, resolved)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. It runs strictly after
// BearerAuth: a valid non-admin token gets 403, never 401.
func RequireAdmin(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("RequireAdmin")
	return func(c *gin.Context) {
		resolved := TokenFromContext(c)
		if resolved == nil {
			log.Error("Admin check reached without an authenticated token in context")
			_ = c.Error(ierr.ErrInternalServer)
			c.Abort()
			return
		}

		if !resolved.IsAdmin {
			log.Debug("Non-admin token on admin-only route")
			_ = c.Error(fmt.Errorf("%w: Not enough permissions", ierr.ErrForbidden))
			c.Abort()
			return
		}

		c.Next()
	}
}

// LogUsage appends a usage record for the authenticated token. The
// append is best-effort: a failed write is logged but never downgrades
// an otherwise-successful response.
func LogUsage(tokens *service.TokenService, endpoint string, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("LogUsage")
	return func(c *gin.Context) {
		resolved := TokenFromContext(c)
		if resolved == nil {
			log.Error("Usage logging reached without an authenticated token in context")
			_ = c.Error(ierr.ErrInternalServer)
			c.Abort()
			return
		}

		if err := tokens.LogUsage(c.Request.Context(), resolved.Value, endpoint); err != nil {
			log.Error("Failed to log usage", zap.String("endpoint", endpoint), zap.Error(err))
		}

		c.Next()
	}
}

// TokenFromContext returns the token resolved by BearerAuth, or nil.
func TokenFromContext(c *gin.Context) *token.Token {
	value, exists := c.Get(tokenContextKey)
	if !exists {
		return nil
	}
	resolved, ok := value.(*token.Token)
	if !ok {
		return nil
	}
	return resolved
}
