package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderRequestID es el header de correlación entre servicios
const HeaderRequestID = "X-Request-ID"

// LocalsRequestID es la key en c.Locals donde queda el id
const LocalsRequestID = "requestid"

// RequestID reutiliza el X-Request-ID entrante o genera uno nuevo
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Locals(LocalsRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}
