package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/arriveontime/internal/attendance"
	"github.com/yourorg/arriveontime/internal/config"
	appdb "github.com/yourorg/arriveontime/internal/db"
	"github.com/yourorg/arriveontime/internal/models"
	"github.com/yourorg/arriveontime/internal/smoke"
)

func main() {
	config.LoadEnv()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== Arrive On Time CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Seed database (sample asistencias)")
		fmt.Println("3) Smoke test pantalla de login (Chrome headless)")
		fmt.Println("4) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doSeed()
		case "3":
			doSmoke()
		case "4":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func baseURL() string {
	return strings.TrimRight(config.GetEnv("BASE_URL", "http://127.0.0.1:8080"), "/")
}

func doHealthCheck() {
	agent := fiber.Get(baseURL() + "/api/health")
	agent.Timeout(5 * time.Second)
	code, body, errs := agent.String()
	if len(errs) > 0 {
		fmt.Println("Health: ERROR:", errs[0])
		return
	}
	fmt.Printf("Health status: %d\n%s\n", code, body)
}

func doSeed() {
	db, err := appdb.Connect()
	if err != nil {
		log.Println("DB connect error:", err)
		return
	}
	defer db.Close()
	if err := appdb.EnsureSchema(db); err != nil {
		log.Println("Ensure schema error:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := attendance.NewMySQLStore(db)
	created, err := seedAttendance(ctx, store, []string{"E001", "E002", "E003"}, 3, time.Now())
	if err != nil {
		fmt.Println("Seed: insert error:", err)
		return
	}
	fmt.Printf("Seed: %d asistencias creadas\n", created)

	// El servidor puede tener historiales cacheados de antes del seed
	if err := clearServerCache(baseURL()); err != nil {
		fmt.Println("Seed: no se pudo limpiar el caché del servidor:", err)
		fmt.Println("      ejecuta DELETE " + baseURL() + "/api/cache o espera HISTORIAL_CACHE_TTL")
		return
	}
	fmt.Println("Seed: caché de historial del servidor limpiado")
}

// clearServerCache llama DELETE /api/cache en el servidor
func clearServerCache(base string) error {
	agent := fiber.Delete(base + "/api/cache")
	agent.Timeout(5 * time.Second)
	code, body, errs := agent.String()
	if len(errs) > 0 {
		return errs[0]
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("status %d: %s", code, body)
	}
	return nil
}

// seedAttendance crea días de entrada/salida para cada empleado, partiendo
// `days` días antes de now.
func seedAttendance(ctx context.Context, store attendance.Store, employees []string, days int, now time.Time) (int, error) {
	created := 0
	start := now.AddDate(0, 0, -days).Truncate(24 * time.Hour)
	for _, emp := range employees {
		for d := 0; d < days; d++ {
			day := start.AddDate(0, 0, d)
			for _, mark := range []struct {
				typ models.AttendanceType
				at  time.Time
			}{
				{models.AttendanceEntry, day.Add(8*time.Hour + 55*time.Minute)},
				{models.AttendanceExit, day.Add(18 * time.Hour)},
			} {
				rec := &models.AttendanceRecord{EmployeeID: emp, Type: mark.typ, Timestamp: mark.at}
				if err := store.Create(ctx, rec); err != nil {
					return created, err
				}
				created++
			}
		}
	}
	return created, nil
}

func doSmoke() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := smoke.Check(ctx, baseURL(), 30*time.Second)
	if err != nil {
		fmt.Println("Smoke: ERROR:", err)
	}
	problems := report.Problems()
	if len(problems) == 0 {
		fmt.Printf("Smoke OK: %s (%q)\n", report.URL, report.Title)
		return
	}
	fmt.Printf("Smoke: %d problemas en %s\n", len(problems), report.URL)
	for _, p := range problems {
		fmt.Println("  -", p)
	}
}
