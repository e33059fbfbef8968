package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireUserType only lets through callers whose token carries one of the
// allowed user types. It must run after RequireAuth.
func RequireUserType(allowed ...string) gin.HandlerFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	return func(c *gin.Context) {
		userType := c.GetString(userTypeKey)
		if userType == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized: tipe user tidak ditemukan pada context",
				"request_id": GetRequestID(c),
			})
			return
		}
		if _, ok := set[strings.ToLower(strings.TrimSpace(userType))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "forbidden: tipe user tidak diizinkan",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
