package handlers

import (
	"runtime"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/arriveontime/internal/attendance"
	"github.com/yourorg/arriveontime/internal/cache"
	"github.com/yourorg/arriveontime/internal/middleware"
)

// StatusHandler expone métricas del proceso y el estado del caché de historial
type StatusHandler struct {
	metrics *middleware.RequestMetrics
	history *cache.Cache
	hub     ClientCounter
}

func NewStatusHandler(metrics *middleware.RequestMetrics, history *cache.Cache, hub ClientCounter) *StatusHandler {
	return &StatusHandler{metrics: metrics, history: history, hub: hub}
}

// SystemMetrics representa las métricas del sistema
type SystemMetrics struct {
	HTTP       middleware.MetricsSnapshot `json:"http"`
	MemoryMB   uint64                     `json:"memory_mb"`
	Goroutines int                        `json:"goroutines"`
	WSClients  int                        `json:"ws_clients"`
	Cache      cache.Stats                `json:"cache"`
}

// GetMetrics GET /api/metrics
func (h *StatusHandler) GetMetrics(c *fiber.Ctx) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	out := SystemMetrics{
		MemoryMB:   m.Alloc / 1024 / 1024,
		Goroutines: runtime.NumGoroutine(),
	}
	if h.metrics != nil {
		out.HTTP = h.metrics.Snapshot()
	}
	if h.hub != nil {
		out.WSClients = h.hub.ClientCount()
	}
	if h.history != nil {
		out.Cache = h.history.GetStats()
	}
	return c.JSON(out)
}

// GetCacheStats GET /api/cache/stats
func (h *StatusHandler) GetCacheStats(c *fiber.Ctx) error {
	if h.history == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "cache disabled"})
	}
	return c.JSON(fiber.Map{
		"status":    "ok",
		"historial": h.history.GetStats(),
	})
}

// ClearCache limpia el historial cacheado de un empleado o todo
// DELETE /api/cache?employee_id=E123
// DELETE /api/cache
func (h *StatusHandler) ClearCache(c *fiber.Ctx) error {
	if h.history == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "cache disabled"})
	}

	employeeID := strings.TrimSpace(c.Query("employee_id"))
	var cleared int
	if employeeID != "" {
		key := attendance.HistoryKey(employeeID)
		if _, ok := h.history.Get(key); ok {
			cleared = 1
		}
		h.history.Delete(key)
	} else {
		cleared = h.history.DeletePrefix(attendance.HistoryKeyPrefix)
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Cache cleared",
		"cleared": cleared,
	})
}
