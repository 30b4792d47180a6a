package routes

import (
	"github.com/gofiber/fiber/v2"
)

// Route es una entrada de la tabla de rutas: método, path y handler.
// La tabla no agrega lógica; el handler escribe la respuesta tal cual.
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// AssistanceHandlers es el controlador al que delega la API pública de asistencia
type AssistanceHandlers interface {
	RecordAssistance(c *fiber.Ctx) error
	GetAssistanceHistory(c *fiber.Ctx) error
	DeleteAssistanceRecord(c *fiber.Ctx) error
}

// PublicAssistance retorna la tabla de la API pública de asistencia
func PublicAssistance(h AssistanceHandlers) []Route {
	return []Route{
		// Registrar una nueva asistencia (entrada/salida)
		{Method: fiber.MethodPost, Path: "/record", Handler: h.RecordAssistance},
		// Historial de asistencia de un empleado
		{Method: fiber.MethodGet, Path: "/:employeeId", Handler: h.GetAssistanceHistory},
		// Eliminar un registro de asistencia
		{Method: fiber.MethodDelete, Path: "/delete/:id", Handler: h.DeleteAssistanceRecord},
	}
}

// Mount registra cada entrada de la tabla en el router
func Mount(router fiber.Router, table []Route) {
	for _, r := range table {
		router.Add(r.Method, r.Path, r.Handler)
	}
}
