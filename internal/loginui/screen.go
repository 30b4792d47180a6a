package loginui

import (
	"context"
	"errors"
)

// State es el estado de la pantalla de login. Vive lo mismo que la página.
type State struct {
	Identifier    string // cédula
	Secret        string // contraseña
	SecretVisible bool
	ModalOpen     bool
}

// Action es una acción del usuario sobre la pantalla
type Action string

const (
	ActionSubmit       Action = "ingresar"
	ActionToggleSecret Action = "mostrar_contrasena"
	ActionGoogle       Action = "google"
	ActionOpenModal    Action = "abrir_asistencia"
	ActionCloseModal   Action = "cerrar_asistencia"
)

// ParseAction valida el nombre de una acción recibida desde el formulario
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionSubmit, ActionToggleSecret, ActionGoogle, ActionOpenModal, ActionCloseModal:
		return a, true
	}
	return "", false
}

// Severity de las notificaciones (toasts)
type Severity string

const (
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

var summaries = map[Severity]string{
	SeverityWarn:  "Advertencia",
	SeverityError: "Error",
}

// Mensajes de la pantalla
const (
	MsgMissingFields = "Por favor llena todos los campos"
	MsgMissingUser   = "La respuesta de autenticación no incluye el usuario"
)

// Rutas de aterrizaje según el rol
const (
	AdminPath = "/admin"
	UserPath  = "/user"
)

// Effect es el resultado observable de una acción
type Effect interface {
	isEffect()
}

// Navigate reemplaza la página completa por URL
type Navigate struct {
	URL string
}

// Notify muestra una notificación transitoria
type Notify struct {
	Severity Severity
	Summary  string
	Detail   string
}

func (Navigate) isEffect() {}
func (Notify) isEffect()   {}

func notify(sev Severity, detail string) Notify {
	return Notify{Severity: sev, Summary: summaries[sev], Detail: detail}
}

// Screen aplica las acciones del login sobre un State
type Screen struct {
	auth           Authenticator
	googleLoginURL string
}

func NewScreen(auth Authenticator, googleLoginURL string) *Screen {
	return &Screen{auth: auth, googleLoginURL: googleLoginURL}
}

// GoogleLoginURL retorna el destino del login federado
func (s *Screen) GoogleLoginURL() string {
	return s.googleLoginURL
}

// Handle aplica a sobre st y retorna el efecto resultante, o nil si la
// acción solo cambia el estado.
func (s *Screen) Handle(ctx context.Context, st *State, a Action) Effect {
	switch a {
	case ActionSubmit:
		return s.submit(ctx, st)
	case ActionToggleSecret:
		st.SecretVisible = !st.SecretVisible
	case ActionGoogle:
		return Navigate{URL: s.googleLoginURL}
	case ActionOpenModal:
		st.ModalOpen = true
	case ActionCloseModal:
		st.ModalOpen = false
	}
	return nil
}

func (s *Screen) submit(ctx context.Context, st *State) Effect {
	if st.Identifier == "" || st.Secret == "" {
		return notify(SeverityWarn, MsgMissingFields)
	}

	sess, err := s.auth.Authenticate(ctx, Credentials{Cedula: st.Identifier, Password: st.Secret})
	if err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			return notify(SeverityError, rejected.Message)
		}
		return notify(SeverityError, err.Error())
	}
	if sess == nil || sess.User == nil {
		return notify(SeverityError, MsgMissingUser)
	}

	if sess.User.IsAdmin() {
		return Navigate{URL: AdminPath}
	}
	return Navigate{URL: UserPath}
}
