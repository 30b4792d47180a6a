package middleware

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestMetrics cuenta requests y latencia acumulada del proceso
type RequestMetrics struct {
	total       atomic.Int64
	clientErrs  atomic.Int64
	serverErrs  atomic.Int64
	latencyNano atomic.Int64
	startedAt   time.Time
}

// MetricsSnapshot es una lectura puntual de RequestMetrics
type MetricsSnapshot struct {
	Requests       int64   `json:"requests"`
	ClientErrors   int64   `json:"client_errors"`
	ServerErrors   int64   `json:"server_errors"`
	AvgLatencyMs   float64 `json:"avg_latency_ms"`
	RequestsPerMin float64 `json:"requests_per_min"`
	UptimeSeconds  int64   `json:"uptime_seconds"`
}

func NewRequestMetrics() *RequestMetrics {
	return &RequestMetrics{startedAt: time.Now()}
}

// Handler captura status y duración de cada request
func (m *RequestMetrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		m.latencyNano.Add(int64(time.Since(start)))
		m.total.Add(1)

		status := c.Response().StatusCode()
		if err != nil {
			// El error handler de Fiber todavía no escribió el status
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		switch {
		case status >= 500:
			m.serverErrs.Add(1)
		case status >= 400:
			m.clientErrs.Add(1)
		}
		return err
	}
}

func (m *RequestMetrics) Snapshot() MetricsSnapshot {
	total := m.total.Load()
	uptime := time.Since(m.startedAt)

	s := MetricsSnapshot{
		Requests:      total,
		ClientErrors:  m.clientErrs.Load(),
		ServerErrors:  m.serverErrs.Load(),
		UptimeSeconds: int64(uptime.Seconds()),
	}
	if total > 0 {
		s.AvgLatencyMs = float64(m.latencyNano.Load()) / float64(total) / float64(time.Millisecond)
	}
	if mins := uptime.Minutes(); mins > 0 {
		s.RequestsPerMin = float64(total) / mins
	}
	return s
}
