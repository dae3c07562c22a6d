package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	Store
	counts map[string]int
}

func (f fakeStore) Counts() map[string]int { return f.counts }

func serve(t *testing.T, h gin.HandlerFunc) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	body["code"] = float64(w.Code)
	return body
}

func TestHealthCheck(t *testing.T) {
	body := serve(t, NewHealthHandler(fakeStore{counts: map[string]int{"persons": 3}}).HealthCheck)

	assert.EqualValues(t, http.StatusOK, body["code"])
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "k-families-data", body["service"])
	assert.Contains(t, body, "timestamp")
	assert.Contains(t, body, "version")
	assert.Equal(t, map[string]any{"persons": float64(3)}, body["tables"])
}

func TestHealthCheckNotReady(t *testing.T) {
	body := serve(t, NewHealthHandler(nil).HealthCheck)

	assert.EqualValues(t, http.StatusServiceUnavailable, body["code"])
	assert.Equal(t, "not_ready", body["status"])
}

func TestLivenessCheck(t *testing.T) {
	body := serve(t, NewHealthHandler(nil).LivenessCheck)

	assert.EqualValues(t, http.StatusOK, body["code"])
	assert.Equal(t, "alive", body["status"])
}
