package loginui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// AdminRoleID es el rol_id que identifica a un administrador
const AdminRoleID = 1

// Credentials es lo que se envía al servicio de autenticación
type Credentials struct {
	Cedula   string `json:"cedula"`
	Password string `json:"contraseña"`
}

// User es el usuario que retorna el servicio de autenticación.
// RolID se guarda crudo: solo el número 1 es administrador.
type User struct {
	ID     interface{}     `json:"id,omitempty"`
	Cedula string          `json:"cedula,omitempty"`
	Nombre string          `json:"nombre,omitempty"`
	Email  string          `json:"email,omitempty"`
	RolID  json.RawMessage `json:"rol_id,omitempty"`
}

// IsAdmin reporta si rol_id es el número 1 (1 y 1.0 cuentan; "1" no)
func (u *User) IsAdmin() bool {
	raw := bytes.TrimSpace(u.RolID)
	if len(raw) == 0 || raw[0] == '"' {
		return false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	return n == AdminRoleID
}

// Session es la respuesta exitosa del servicio de autenticación
type Session struct {
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}

// Authenticator valida credenciales contra el servicio externo.
// Un rechazo del servicio se retorna como *RejectedError; cualquier otro
// error es de transporte o de formato.
type Authenticator interface {
	Authenticate(ctx context.Context, cred Credentials) (*Session, error)
}

// RejectedError es un rechazo del servicio de autenticación
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// HTTPAuthenticator llama al endpoint de autenticación con el cliente de Fiber
type HTTPAuthenticator struct {
	url         string
	timeout     time.Duration
	insecureTLS bool
}

// NewHTTPAuthenticator crea el cliente. insecureTLS acepta certificados
// autofirmados (servicio de auth local en https://localhost:5000).
func NewHTTPAuthenticator(url string, timeout time.Duration, insecureTLS bool) *HTTPAuthenticator {
	return &HTTPAuthenticator{url: url, timeout: timeout, insecureTLS: insecureTLS}
}

// Authenticate hace POST {cedula, contraseña} y decodifica {user: {...}}
func (a *HTTPAuthenticator) Authenticate(ctx context.Context, cred Credentials) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := a.timeout
	if dl, ok := ctx.Deadline(); ok {
		rem := time.Until(dl)
		if rem <= 0 {
			return nil, context.DeadlineExceeded
		}
		if rem < timeout || timeout <= 0 {
			timeout = rem
		}
	}

	agent := fiber.Post(a.url)
	agent.JSON(cred)
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	if a.insecureTLS {
		agent.InsecureSkipVerify()
	}

	// El agente no recibe ctx: si el request del navegador se cancela se deja
	// de esperar y la llamada termina sola por su timeout.
	done := make(chan agentResult, 1)
	go func() {
		var r agentResult
		r.status, r.body, r.errs = agent.Bytes()
		done <- r
	}()

	var res agentResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	status, body := res.status, res.body
	if len(res.errs) > 0 {
		return nil, fmt.Errorf("auth request: %w", errors.Join(res.errs...))
	}

	if status < 200 || status > 299 {
		return nil, &RejectedError{Status: status, Message: rejectMessage(status, body)}
	}

	var sess Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("auth response: %w", err)
	}
	return &sess, nil
}

type agentResult struct {
	status int
	body   []byte
	errs   []error
}

// rejectMessage extrae message o error del cuerpo; si no hay, usa el texto del status
func rejectMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := utils.StatusMessage(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
