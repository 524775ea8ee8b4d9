package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkvault/core/internal/pkg/response"
)

// AdminAuth returns a middleware guarding operator endpoints with a static
// bearer token from config. An empty configured token disables the admin
// surface entirely rather than leaving it open.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			response.Forbidden(c)
			return
		}
		presented := NormalizeToken(c.GetHeader("Authorization"))
		if presented == "" {
			response.Unauthorized(c)
			return
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}

// NormalizeToken strips an optional "Bearer " prefix and whitespace.
func NormalizeToken(raw string) string {
	t := strings.TrimSpace(raw)
	if len(t) >= 7 && strings.EqualFold(t[:7], "bearer ") {
		t = strings.TrimSpace(t[7:])
	}
	return t
}
