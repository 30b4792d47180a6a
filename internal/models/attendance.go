package models

import "time"

// AttendanceType es el marcador de la asistencia: entrada o salida
type AttendanceType string

const (
	AttendanceEntry AttendanceType = "entrada"
	AttendanceExit  AttendanceType = "salida"
)

// Next retorna el marcador que sigue a t (entrada -> salida -> entrada)
func (t AttendanceType) Next() AttendanceType {
	if t == AttendanceEntry {
		return AttendanceExit
	}
	return AttendanceEntry
}

// AttendanceRecord representa una marca de asistencia de un empleado
type AttendanceRecord struct {
	ID         int64          `json:"id" db:"id"`
	EmployeeID string         `json:"employee_id" db:"employee_id"`
	Type       AttendanceType `json:"type" db:"tipo"`
	Timestamp  time.Time      `json:"timestamp" db:"marcada_en"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// AttendanceCreateRequest es el cuerpo de POST /record.
// Sin type, el marcador alterna respecto a la última marca del empleado.
type AttendanceCreateRequest struct {
	EmployeeID string     `json:"employee_id" validate:"required,max=32"`
	Type       string     `json:"type,omitempty" validate:"omitempty,oneof=entrada salida"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// AttendanceHistoryResponse es la respuesta de GET /:employeeId
type AttendanceHistoryResponse struct {
	EmployeeID string             `json:"employee_id"`
	Records    []AttendanceRecord `json:"records"`
	Count      int                `json:"count"`
}
