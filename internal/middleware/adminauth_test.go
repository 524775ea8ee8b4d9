package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func adminTestRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", AdminAuth(token), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func getWithAuth(r *gin.Engine, header string) int {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAdminAuth(t *testing.T) {
	r := adminTestRouter("seekrit")

	assert.Equal(t, http.StatusUnauthorized, getWithAuth(r, ""))
	assert.Equal(t, http.StatusUnauthorized, getWithAuth(r, "Bearer wrong"))
	assert.Equal(t, http.StatusOK, getWithAuth(r, "Bearer seekrit"))
	assert.Equal(t, http.StatusOK, getWithAuth(r, "seekrit"))
}

func TestAdminAuthDisabledWithoutToken(t *testing.T) {
	r := adminTestRouter("")

	// No configured token closes the surface instead of opening it.
	assert.Equal(t, http.StatusForbidden, getWithAuth(r, "Bearer anything"))
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "abc", NormalizeToken("Bearer abc"))
	assert.Equal(t, "abc", NormalizeToken("bearer abc"))
	assert.Equal(t, "abc", NormalizeToken("  abc  "))
	assert.Equal(t, "", NormalizeToken(""))
}
