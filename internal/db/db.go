package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Connect returns a MariaDB/MySQL pool using env vars.
func Connect() (*sql.DB, error) {
	db, err := sql.Open("mysql", DSNFromEnv())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// DSNFromEnv arma el DSN a partir de DB_USER, DB_PASS, DB_HOST, DB_PORT y DB_NAME.
func DSNFromEnv() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "3306"
	}
	return BuildDSN(os.Getenv("DB_USER"), os.Getenv("DB_PASS"), host, port, os.Getenv("DB_NAME"))
}

// BuildDSN arma un DSN de go-sql-driver/mysql con parseTime activo.
func BuildDSN(user, pass, host, port, name string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4,utf8", user, pass, host, port, name)
}

// EnsureSchema creates required tables if not exist.
func EnsureSchema(db *sql.DB) error {
	if skip := strings.TrimSpace(os.Getenv("DB_SKIP_SCHEMA")); strings.EqualFold(skip, "true") || skip == "1" {
		log.Printf("EnsureSchema: skipped (DB_SKIP_SCHEMA=%q)", skip)
		return nil
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS asistencias (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			employee_id VARCHAR(32) NOT NULL,
			tipo ENUM('entrada','salida') NOT NULL,
			marcada_en DATETIME(3) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	if _, err := db.Exec(`
		CREATE INDEX idx_asistencias_employee ON asistencias(employee_id, marcada_en);
	`); err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") {
			// el índice ya existe
		} else if strings.Contains(errMsg, "permission denied") {
			log.Printf("EnsureSchema: unable to create asistencias index (permission denied): %v", err)
		} else {
			return err
		}
	}

	return nil
}
