package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
	pkgAuth "github.com/polkiloo/craftmarket/internal/pkg/auth"
	"github.com/polkiloo/craftmarket/internal/server/http/dto"
)

const (
	// ActorContextKey is a gin context key for the authenticated model.Actor.
	ActorContextKey = "actor"
	authCookieName  = "craftmarket_token"
)

// SessionResolver turns a session token into the acting user.
type SessionResolver interface {
	Session(ctx context.Context, token string) (model.Actor, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}

		actor, err := resolver.Session(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			switch {
			case errors.Is(err, pkgAuth.ErrInvalidToken), errors.Is(err, domainErrors.ErrUserNotFound):
				abort(c, http.StatusUnauthorized, "invalid or expired session")
			case errors.Is(err, domainErrors.ErrAccountNotApproved):
				abort(c, http.StatusForbidden, err.Error())
			case errors.Is(err, domainErrors.ErrUnavailable):
				abort(c, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
			default:
				abort(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
			return
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}

// RequireRole rejects actors whose role is not listed. It must run after AuthRequired.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, domainErrors.ErrForbidden.Error())
	}
}

// CurrentActor returns the actor stored by AuthRequired.
func CurrentActor(c *gin.Context) (model.Actor, bool) {
	val, ok := c.Get(ActorContextKey)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := val.(model.Actor)
	return actor, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
