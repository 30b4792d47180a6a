package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa la configuración del servidor leída desde el entorno.
type Config struct {
	Port string

	APIBasePath string

	AuthURL         string
	AuthTimeout     time.Duration
	AuthInsecureTLS bool

	GoogleLoginURL        string
	AsistenciaFrontendURL string

	AllowOrigins string

	HistorialCacheTTL time.Duration
}

// Valores por defecto (entorno de desarrollo local)
const (
	DefaultPort                  = "8080"
	DefaultAPIBasePath           = "/api/asistencias"
	DefaultAuthURL               = "https://localhost:5000/auth/login"
	DefaultGoogleLoginURL        = "https://localhost:5000/auth/login/google"
	DefaultAsistenciaFrontendURL = "https://localhost:3000"
	DefaultAllowOrigins          = "https://localhost:3000,http://localhost:3000"
	DefaultAuthTimeout           = 10 * time.Second
	DefaultHistorialCacheTTL     = 30 * time.Second
)

// LoadEnv carga el archivo .env si existe. Sin .env se usa el entorno del sistema.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No se encontró .env, usando variables del sistema")
	} else {
		log.Println("✅ .env cargado")
	}
}

// Load construye la configuración a partir de las variables de entorno.
func Load() Config {
	cfg := Config{
		Port:                  GetEnv("PORT", DefaultPort),
		APIBasePath:           normalizeBasePath(GetEnv("API_BASE_PATH", DefaultAPIBasePath)),
		AuthURL:               GetEnv("AUTH_URL", DefaultAuthURL),
		AuthTimeout:           getDuration("AUTH_TIMEOUT", DefaultAuthTimeout),
		AuthInsecureTLS:       getBool("AUTH_INSECURE_SKIP_VERIFY"),
		GoogleLoginURL:        GetEnv("GOOGLE_LOGIN_URL", DefaultGoogleLoginURL),
		AsistenciaFrontendURL: GetEnv("ASISTENCIA_FRONTEND_URL", DefaultAsistenciaFrontendURL),
		AllowOrigins:          GetEnv("ALLOW_ORIGINS", DefaultAllowOrigins),
		HistorialCacheTTL:     getDuration("HISTORIAL_CACHE_TTL", DefaultHistorialCacheTTL),
	}
	return cfg
}

// GetEnv retorna el valor de key, o el default si no está definida o está vacía.
func GetEnv(key string, defaultValue ...string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := GetEnv(key)
	if raw == "" {
		return def
	}
	dur, err := time.ParseDuration(raw)
	if err != nil || dur <= 0 {
		log.Printf("invalid %s=%q, using default %s", key, raw, def)
		return def
	}
	return dur
}

func getBool(key string) bool {
	v := GetEnv(key)
	return strings.EqualFold(v, "true") || v == "1"
}

// normalizeBasePath deja la ruta con "/" inicial y sin "/" final.
func normalizeBasePath(p string) string {
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return ""
	}
	return p
}
