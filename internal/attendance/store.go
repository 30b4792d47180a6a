package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yourorg/arriveontime/internal/models"
)

// ErrNotFound indica que no existe el registro (o el empleado no tiene marcas)
var ErrNotFound = errors.New("attendance record not found")

// MaxHistory limita cuántas marcas retorna el historial de un empleado
const MaxHistory = 500

// Store es el acceso a datos de asistencia
type Store interface {
	Create(ctx context.Context, rec *models.AttendanceRecord) error
	Last(ctx context.Context, employeeID string) (*models.AttendanceRecord, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.AttendanceRecord, error)
	Delete(ctx context.Context, id int64) (*models.AttendanceRecord, error)
}

// MySQLStore implementa Store sobre la tabla asistencias
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

const selectColumns = `SELECT id, employee_id, tipo, marcada_en, created_at FROM asistencias`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.AttendanceRecord, error) {
	var (
		rec  models.AttendanceRecord
		tipo string
	)
	if err := row.Scan(&rec.ID, &rec.EmployeeID, &tipo, &rec.Timestamp, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Type = models.AttendanceType(tipo)
	return &rec, nil
}

// Create inserta la marca y completa ID y CreatedAt
func (s *MySQLStore) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO asistencias (employee_id, tipo, marcada_en) VALUES (?, ?, ?)`,
		rec.EmployeeID, string(rec.Type), rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert asistencia: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert asistencia: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = time.Now()
	return nil
}

// Last retorna la marca más reciente del empleado
func (s *MySQLStore) Last(ctx context.Context, employeeID string) (*models.AttendanceRecord, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE employee_id = ? ORDER BY marcada_en DESC, id DESC LIMIT 1`,
		employeeID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("last asistencia: %w", err)
	}
	return rec, nil
}

// ListByEmployee retorna el historial del empleado, más reciente primero
func (s *MySQLStore) ListByEmployee(ctx context.Context, employeeID string) ([]models.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` WHERE employee_id = ? ORDER BY marcada_en DESC, id DESC LIMIT ?`,
		employeeID, MaxHistory,
	)
	if err != nil {
		return nil, fmt.Errorf("list asistencias: %w", err)
	}
	defer rows.Close()

	records := []models.AttendanceRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asistencia: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Delete elimina la marca y retorna lo que se eliminó
func (s *MySQLStore) Delete(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("delete asistencia: %w", err)
	}
	defer tx.Rollback()

	rec, err := scanRecord(tx.QueryRowContext(ctx, selectColumns+` WHERE id = ? FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete asistencia: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM asistencias WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete asistencia: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("delete asistencia: %w", err)
	}
	return rec, nil
}
