package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Logger escribe una línea por request con el id de correlación
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${time} | ${locals:" + LocalsRequestID + "} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006/01/02 15:04:05",
	})
}

// CORS permite que el frontend de asistencia (iframe) consuma la API pública.
// allowOrigins es una lista separada por comas.
func CORS(allowOrigins string) fiber.Handler {
	origins := strings.Join(strings.Fields(strings.ReplaceAll(allowOrigins, ",", " ")), ",")
	if origins == "" {
		origins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, " + HeaderRequestID,
		ExposeHeaders: HeaderRequestID,
	})
}
