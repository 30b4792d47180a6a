package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/arriveontime/internal/attendance"
	"github.com/yourorg/arriveontime/internal/cache"
	"github.com/yourorg/arriveontime/internal/middleware"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakeHub struct{ n int }

func (f fakeHub) ClientCount() int { return f.n }

func getJSON(t *testing.T, app *fiber.App, method, path string, out interface{}) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
	}
	return resp.StatusCode
}

func TestHealthHealthy(t *testing.T) {
	app := fiber.New()
	app.Get("/api/health", NewHealthHandler(fakePinger{}, fakeHub{n: 2}).Health)

	var out HealthResponse
	if code := getJSON(t, app, "GET", "/api/health", &out); code != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if out.Status != "healthy" || out.Services["database"] != "healthy" || out.WSClients != 2 {
		t.Errorf("Unexpected response %+v", out)
	}
}

func TestHealthDegraded(t *testing.T) {
	app := fiber.New()
	app.Get("/api/health", NewHealthHandler(fakePinger{err: errors.New("connection refused")}, nil).Health)

	var out HealthResponse
	if code := getJSON(t, app, "GET", "/api/health", &out); code != fiber.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", code)
	}
	if out.Status != "degraded" {
		t.Errorf("Expected degraded, got %s", out.Status)
	}
}

func TestHealthWithoutDatabase(t *testing.T) {
	app := fiber.New()
	app.Get("/api/health", NewHealthHandler(nil, nil).Health)

	if code := getJSON(t, app, "GET", "/api/health", nil); code != fiber.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", code)
	}
}

func TestCacheStatsAndClear(t *testing.T) {
	history := cache.New(time.Minute, time.Minute)
	defer history.Stop()
	history.Set(attendance.HistoryKey("E1"), "a")
	history.Set(attendance.HistoryKey("E12"), "b")
	history.Set(attendance.HistoryKey("E2"), "c")

	h := NewStatusHandler(middleware.NewRequestMetrics(), history, fakeHub{})
	app := fiber.New()
	app.Get("/api/cache/stats", h.GetCacheStats)
	app.Delete("/api/cache", h.ClearCache)

	var stats struct {
		Historial cache.Stats `json:"historial"`
	}
	getJSON(t, app, "GET", "/api/cache/stats", &stats)
	if stats.Historial.ValidItems != 3 {
		t.Errorf("Expected 3 valid items, got %+v", stats.Historial)
	}

	var cleared struct {
		Cleared int `json:"cleared"`
	}
	getJSON(t, app, "DELETE", "/api/cache?employee_id=E1", &cleared)
	if cleared.Cleared != 1 {
		t.Errorf("Expected 1 cleared, got %d", cleared.Cleared)
	}
	if _, ok := history.Get(attendance.HistoryKey("E12")); !ok {
		t.Error("E12 must survive clearing E1")
	}

	getJSON(t, app, "DELETE", "/api/cache", &cleared)
	if cleared.Cleared != 2 || history.Count() != 0 {
		t.Errorf("Expected everything cleared, got %d (left %d)", cleared.Cleared, history.Count())
	}
}

func TestMetrics(t *testing.T) {
	m := middleware.NewRequestMetrics()
	h := NewStatusHandler(m, nil, fakeHub{n: 1})
	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/api/metrics", h.GetMetrics)

	getJSON(t, app, "GET", "/api/metrics", nil)
	var out SystemMetrics
	getJSON(t, app, "GET", "/api/metrics", &out)

	if out.HTTP.Requests < 1 || out.WSClients != 1 || out.Goroutines == 0 {
		t.Errorf("Unexpected metrics %+v", out)
	}
}
