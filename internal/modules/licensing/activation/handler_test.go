package activation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, db := newTestService(t)
	seedLicense(t, db, nil)

	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateEndpoint(t *testing.T) {
	r := newHandlerRouter(t)

	w := postJSON(r, "/api/v1/licenses/validate", gin.H{"code": "qk3m-7hwp-2rzd-x9fa"})
	require.Equal(t, http.StatusOK, w.Code)

	var res ValidateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Valid)
	assert.True(t, res.CanActivate)
	assert.Equal(t, 2, res.MaxDevices)
}

// Policy refusals are 200s with an error code in the body; only transport and
// validation problems use 4xx.
func TestValidateEndpointUnknownCode(t *testing.T) {
	r := newHandlerRouter(t)

	w := postJSON(r, "/api/v1/licenses/validate", gin.H{"code": "NOPE-NOPE-NOPE-NOPE"})
	require.Equal(t, http.StatusOK, w.Code)

	var res ValidateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Valid)
	assert.Equal(t, ErrCodeInvalid, res.ErrorCode)
}

func TestValidateEndpointRequiresCode(t *testing.T) {
	r := newHandlerRouter(t)

	w := postJSON(r, "/api/v1/licenses/validate", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivateEndpoint(t *testing.T) {
	r := newHandlerRouter(t)

	w := postJSON(r, "/api/v1/licenses/activate", gin.H{
		"code":        "QK3M-7HWP-2RZD-X9FA",
		"fingerprint": "fp-1",
		"device_type": "ios",
		"device_name": "Ada's phone",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var res ActivateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.ActivationID)
	require.NotNil(t, res.RemainingActivations)
	assert.Equal(t, 1, *res.RemainingActivations)
}

// A client retrying the exact same activation request must get a success
// both times, not a duplicate-request rejection: the engine treats a known
// fingerprint as a refresh, and the transport layer must not get in the way.
func TestActivateEndpointRetrySucceeds(t *testing.T) {
	r := newHandlerRouter(t)
	body := gin.H{
		"code":        "QK3M-7HWP-2RZD-X9FA",
		"fingerprint": "fp-retry",
		"device_type": "macos",
	}

	first := postJSON(r, "/api/v1/licenses/activate", body)
	require.Equal(t, http.StatusOK, first.Code)
	var firstRes ActivateResult
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstRes))
	require.True(t, firstRes.Success)

	second := postJSON(r, "/api/v1/licenses/activate", body)
	require.Equal(t, http.StatusOK, second.Code)
	var secondRes ActivateResult
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondRes))
	assert.True(t, secondRes.Success)
	assert.Equal(t, firstRes.ActivationID, secondRes.ActivationID)
}

func TestActivateEndpointRequiresFields(t *testing.T) {
	r := newHandlerRouter(t)

	w := postJSON(r, "/api/v1/licenses/activate", gin.H{"code": "QK3M-7HWP-2RZD-X9FA"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
