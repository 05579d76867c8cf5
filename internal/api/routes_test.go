package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eg4lux/luxpower/internal/health"
	"github.com/eg4lux/luxpower/pkg/logger"
)

func TestSetupRoutesServesHealthAndDeviceListEndpoints(t *testing.T) {
	h := NewHandlers(testStation(), health.NewHealthService(), nil)
	router := SetupRoutes(h, logger.GetLogger())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/devices", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRoutesReturns404ForUnknownDevice(t *testing.T) {
	h := NewHandlers(testStation(), health.NewHealthService(), nil)
	router := SetupRoutes(h, logger.GetLogger())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/devices/GHOST/runtime", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
