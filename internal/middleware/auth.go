package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/response"
	"github.com/harentsoaR/hospital-api/internal/services"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

// TokenCookie is the httpOnly session cookie name. When both the cookie and
// an Authorization header are present, the cookie wins.
const TokenCookie = "token"

const actorKey = "actor"

// Auth verifies the session token and resolves the live actor record for
// every request. Resolution re-checks active status against the store, so a
// deactivation takes effect immediately despite the token staying valid.
func Auth(secret string, resolver *services.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			response.AbortError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := utils.ValidateToken(tokenStr, secret)
		if err != nil {
			response.AbortError(c, apperr.Status(err), apperr.PublicMessage(err))
			return
		}

		actor, err := resolver.Resolve(c.Request.Context(), claims)
		if err != nil {
			response.AbortError(c, apperr.Status(err), apperr.PublicMessage(err))
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the resolved actor set by Auth.
func ActorFrom(c *gin.Context) *models.AuthActor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*models.AuthActor)
	return actor
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
