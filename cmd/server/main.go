package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/yourorg/arriveontime/internal/attendance"
	"github.com/yourorg/arriveontime/internal/cache"
	"github.com/yourorg/arriveontime/internal/config"
	appdb "github.com/yourorg/arriveontime/internal/db"
	"github.com/yourorg/arriveontime/internal/events"
	"github.com/yourorg/arriveontime/internal/handlers"
	"github.com/yourorg/arriveontime/internal/loginui"
	"github.com/yourorg/arriveontime/internal/middleware"
	"github.com/yourorg/arriveontime/internal/routes"
	"github.com/yourorg/arriveontime/internal/web"
)

const dbConnectAttempts = 10

func main() {
	config.LoadEnv()
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		AppName:               "Arrive On Time",
		Views:                 web.NewViews(),
		DisableStartupMessage: true,
	})

	metrics := middleware.NewRequestMetrics()
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(metrics.Handler())
	app.Use(middleware.CORS(cfg.AllowOrigins))

	// ============================================================================
	// DB CONNECTION
	// ============================================================================
	db := connectDB()

	// ============================================================================
	// SERVICIOS
	// ============================================================================
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := events.NewHub()
	go hub.Run(hubCtx)

	history := cache.New(cfg.HistorialCacheTTL, time.Minute)

	auth := loginui.NewHTTPAuthenticator(cfg.AuthURL, cfg.AuthTimeout, cfg.AuthInsecureTLS)
	screen := loginui.NewScreen(auth, cfg.GoogleLoginURL)

	routes.Register(app, routes.Deps{
		APIBasePath: cfg.APIBasePath,
		Assistance:  attendance.NewController(attendance.NewMySQLStore(db), history, hub),
		Login:       web.NewLoginPage(screen, cfg.AsistenciaFrontendURL),
		Health:      handlers.NewHealthHandler(db, hub),
		Status:      handlers.NewStatusHandler(metrics, history, hub),
		Hub:         hub,
	})
	app.Use(web.Static())

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("🛑 Señal de terminación recibida, cerrando servidor...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("⚠️  Error cerrando servidor: %v", err)
		}
	}()

	log.Printf("🚀 Servidor escuchando en :%s", cfg.Port)
	log.Println("📍 Endpoints disponibles:")
	log.Println("   GET  /login                        - Pantalla de inicio de sesión")
	log.Printf("   POST %s/record                - Registrar asistencia", cfg.APIBasePath)
	log.Printf("   GET  %s/:employeeId           - Historial de asistencia", cfg.APIBasePath)
	log.Printf("   DEL  %s/delete/:id            - Eliminar registro", cfg.APIBasePath)
	log.Println("   WS   /ws/asistencias               - Eventos en tiempo real")
	log.Println("   GET  /api/health                   - Estado del servicio")
	log.Println("💡 Presiona Ctrl+C para detener")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ %v", err)
	}

	stopHub()
	history.Stop()
	if err := db.Close(); err != nil {
		log.Printf("⚠️  Error cerrando la base de datos: %v", err)
	}
	log.Println("✅ Servidor cerrado correctamente")
}

// connectDB reintenta hasta que MySQL responde y el esquema existe
func connectDB() *sql.DB {
	for attempt := 1; ; attempt++ {
		db, err := appdb.Connect()
		if err == nil {
			if err = appdb.EnsureSchema(db); err == nil {
				log.Println("✅ Database ready")
				return db
			}
			db.Close()
		}
		if attempt >= dbConnectAttempts {
			log.Fatalf("❌ No se pudo conectar a la base de datos: %v", err)
		}
		log.Printf("db connect error: %v (retrying in 5s)", err)
		time.Sleep(5 * time.Second)
	}
}
