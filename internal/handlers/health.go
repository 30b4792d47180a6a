package handlers

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger es lo mínimo que se necesita de la base de datos (*sql.DB lo cumple)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ClientCounter reporta clientes websocket conectados
type ClientCounter interface {
	ClientCount() int
}

// HealthResponse representa el estado de salud del sistema
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	WSClients int               `json:"ws_clients"`
	Version   string            `json:"version,omitempty"`
}

type HealthHandler struct {
	db      Pinger
	hub     ClientCounter
	timeout time.Duration
}

func NewHealthHandler(db Pinger, hub ClientCounter) *HealthHandler {
	return &HealthHandler{db: db, hub: hub, timeout: 2 * time.Second}
}

// Health GET /api/health. 503 si la base de datos no responde.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	services := make(map[string]string)
	overall := "healthy"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			services["database"] = "unhealthy: " + err.Error()
			overall = "degraded"
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "not_initialized"
		overall = "degraded"
	}

	resp := HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  services,
		Version:   os.Getenv("APP_VERSION"),
	}
	if h.hub != nil {
		resp.WSClients = h.hub.ClientCount()
	}

	statusCode := fiber.StatusOK
	if overall == "degraded" {
		statusCode = fiber.StatusServiceUnavailable
	}
	return c.Status(statusCode).JSON(resp)
}
