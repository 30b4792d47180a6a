package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/yourorg/arriveontime/internal/events"
	"github.com/yourorg/arriveontime/internal/handlers"
	"github.com/yourorg/arriveontime/internal/web"
)

// Deps son los componentes que atienden cada grupo de rutas.
// Los que vienen en nil no se registran.
type Deps struct {
	APIBasePath string

	Assistance AssistanceHandlers
	Login      *web.LoginPage
	Health     *handlers.HealthHandler
	Status     *handlers.StatusHandler
	Hub        *events.Hub
}

func Register(app *fiber.App, d Deps) {
	// ============================================================================
	// PANTALLA DE LOGIN
	// ============================================================================
	if d.Login != nil {
		app.Get("/", d.Login.Root)
		app.Get("/login", d.Login.Show)
		app.Post("/login", d.Login.Submit)
	}

	// ============================================================================
	// API INTERNA (salud y monitoreo)
	// ============================================================================
	api := app.Group("/api")
	if d.Health != nil {
		api.Get("/health", d.Health.Health)
	}
	if d.Status != nil {
		api.Get("/metrics", d.Status.GetMetrics)
		api.Get("/cache/stats", d.Status.GetCacheStats)
		api.Delete("/cache", d.Status.ClearCache)
	}

	// ============================================================================
	// API PÚBLICA DE ASISTENCIA
	// ============================================================================
	if d.Assistance != nil {
		Mount(app.Group(d.APIBasePath), PublicAssistance(d.Assistance))
	}

	// ============================================================================
	// EVENTOS EN TIEMPO REAL
	// ============================================================================
	if d.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws/asistencias", websocket.New(d.Hub.Handle))
	}
}
