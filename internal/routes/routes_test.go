package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "escpos-service/docs"
	"escpos-service/internal/config"
	"escpos-service/internal/service"
)

func TestSetupRouter(t *testing.T) {
	cfg, err := config.LoadFrom(t.TempDir())
	require.NoError(t, err)
	cfg.App.Environment = "production"

	logger := zap.NewNop()
	bus := service.NewEventBus(logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Run(ctx)

	router := NewRouter(cfg, logger,
		service.NewCommandService(nil, &cfg.Printer, logger),
		service.NewDiscoveryService(&cfg.Discovery, logger),
		bus,
	).SetupRouter()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/commands", http.StatusOK},
		{http.MethodGet, "/api/v1/commands/cut", http.StatusOK},
		{http.MethodGet, "/api/v1/discovery/scanners", http.StatusOK},
		{http.MethodGet, "/api/v1/printer/status", http.StatusServiceUnavailable},
		{http.MethodGet, "/docs", http.StatusMovedPermanently},
		{http.MethodGet, "/swagger/doc.json", http.StatusOK},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, w.Code, tt.path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), tt.path)
	}
}
