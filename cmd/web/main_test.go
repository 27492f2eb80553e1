package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sales-insights/internal/config"
	"sales-insights/internal/loader"
	"sales-insights/internal/models"
	"sales-insights/internal/server"
	"sales-insights/internal/services"
)

func newTestServer() *server.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := services.NewStore(func(ctx context.Context, path string) ([]models.RawOrder, error) {
		return loader.FixtureOrders(), nil
	}, logger)
	templateHandlers := &server.TemplateHandlers{Dashboard: handleDashboard}
	return server.NewServer(store, config.DataConfig{CSVFile: "fixture.csv", TopN: 10}, logger, templateHandlers)
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		path        string
		contentType string
	}{
		{"/", "text/html"},
		{"/health", "application/json"},
		{"/admin/stats", "application/json"},
		{"/api/kpis", "application/json"},
		{"/api/products", "application/json"},
		{"/api/customers", "application/json"},
		{"/api/regions", "application/json"},
		{"/api/categories", "application/json"},
		{"/api/trend", "application/json"},
		{"/api/pareto", "application/json"},
		{"/api/meta", "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}
			if tt.contentType == "application/json" {
				var result any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Errorf("invalid json: %v", err)
				}
			}
		})
	}
}

func TestServer_SSERoutes(t *testing.T) {
	srv := newTestServer()

	routes := []string{
		"/sse/kpis",
		"/sse/products",
		"/sse/customers",
		"/sse/breakdown",
		"/sse/trend",
		"/sse/pareto",
		"/sse/refresh",
	}

	for _, route := range routes {
		t.Run(route, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest("GET", route, nil))

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
				t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		method string
		path   string
	}{
		{"POST", "/api/kpis"},
		{"PUT", "/"},
		{"DELETE", "/health"},
		{"PATCH", "/api/pareto"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
			}
		})
	}
}

func TestDashboardTemplate(t *testing.T) {
	w := httptest.NewRecorder()
	handleDashboard(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, component := range []string{
		"Sales Insights",
		"kpi-content",
		"products-content",
		"customers-content",
		"breakdown-content",
		"trend-content",
		"pareto-content",
		"/sse/refresh",
	} {
		if !strings.Contains(body, component) {
			t.Errorf("dashboard should contain %q", component)
		}
	}
}
