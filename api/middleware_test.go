package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/sidecut/api/types"
	"github.com/waxworks/sidecut/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := NewServer(config.Get())
	s.SetDependencies(&types.Dependencies{Config: config.Get()})
	require.NoError(t, s.Initialize())
	return s
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")
}

func TestInitializeRequiresDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewServer(config.Get())
	assert.Error(t, s.Initialize())
}
