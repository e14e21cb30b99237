package main

import (
	"context"
	"finsight/config"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppServesHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Gemini.APIKey = ""

	application, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	defer application.events.Close()

	w := httptest.NewRecorder()
	application.router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"none"`)
}

func TestNewAppRejectsUnknownEventsBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Events.Backend = "carrier-pigeon"

	_, err := newApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestMaxBodyBytesCoversBase64Payload(t *testing.T) {
	cfg := config.Default()
	application := &app{cfg: cfg}
	assert.Greater(t, application.maxBodyBytes(), cfg.Ingest.MaxFileBytes*4/3)
}
