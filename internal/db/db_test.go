package db

import (
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestBuildDSNParses(t *testing.T) {
	dsn := BuildDSN("rrhh", "secreto", "db.local", "3307", "arrive")

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("Expected valid DSN, got error: %v", err)
	}
	if cfg.User != "rrhh" || cfg.Passwd != "secreto" {
		t.Errorf("Unexpected credentials: %s/%s", cfg.User, cfg.Passwd)
	}
	if cfg.Addr != "db.local:3307" {
		t.Errorf("Expected addr db.local:3307, got %s", cfg.Addr)
	}
	if cfg.DBName != "arrive" {
		t.Errorf("Expected db arrive, got %s", cfg.DBName)
	}
	if !cfg.ParseTime {
		t.Error("Expected parseTime=true")
	}
}

func TestDSNFromEnvDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASS", "p")
	t.Setenv("DB_NAME", "n")

	cfg, err := mysql.ParseDSN(DSNFromEnv())
	if err != nil {
		t.Fatalf("Expected valid DSN, got error: %v", err)
	}
	if cfg.Addr != "127.0.0.1:3306" {
		t.Errorf("Expected default addr, got %s", cfg.Addr)
	}
}
