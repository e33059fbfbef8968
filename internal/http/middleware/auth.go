package middleware

import (
	"net/http"
	"strings"

	"speed-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "userID"
	userTypeKey = "userType"
)

// TokenParser validates a bearer token.
type TokenParser interface {
	ParseToken(raw string) (domain.RequestContext, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's id and user type on the context.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized: token tidak ditemukan",
				"request_id": GetRequestID(c),
			})
			return
		}
		rc, err := parser.ParseToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized: token tidak valid",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(userIDKey, rc.UserID)
		c.Set(userTypeKey, rc.UserType)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// CurrentUser returns the authenticated caller set by RequireAuth.
func CurrentUser(c *gin.Context) (domain.RequestContext, bool) {
	id := c.GetInt64(userIDKey)
	if id <= 0 {
		return domain.RequestContext{}, false
	}
	return domain.RequestContext{UserID: id, UserType: c.GetString(userTypeKey)}, true
}
