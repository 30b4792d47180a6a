package web

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/arriveontime/internal/loginui"
)

const pageTitle = "Iniciar sesión | Arrive On Time"

// LoginPage traduce el formulario HTML a acciones de loginui.Screen.
// El estado de la pantalla viaja en el propio formulario, no hay sesión.
type LoginPage struct {
	screen      *loginui.Screen
	frontendURL string
}

func NewLoginPage(screen *loginui.Screen, frontendURL string) *LoginPage {
	return &LoginPage{screen: screen, frontendURL: frontendURL}
}

// Root redirige a /login
func (p *LoginPage) Root(c *fiber.Ctx) error {
	return c.Redirect("/login", fiber.StatusFound)
}

// Show GET /login
func (p *LoginPage) Show(c *fiber.Ctx) error {
	return p.render(c, loginui.State{}, nil)
}

// Submit POST /login
func (p *LoginPage) Submit(c *fiber.Ctx) error {
	st := loginui.State{
		Identifier:    c.FormValue("cedula"),
		Secret:        c.FormValue("contrasena"),
		SecretVisible: c.FormValue("mostrar") == "1",
		ModalOpen:     c.FormValue("modal") == "1",
	}

	// Enter en un campo llega sin acción: equivale a "Iniciar Sesión"
	action := loginui.ActionSubmit
	if raw := c.FormValue("accion"); raw != "" {
		a, ok := loginui.ParseAction(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).SendString("acción desconocida")
		}
		action = a
	}

	switch eff := p.screen.Handle(c.UserContext(), &st, action).(type) {
	case loginui.Navigate:
		return c.Redirect(eff.URL, fiber.StatusSeeOther)
	case loginui.Notify:
		if eff.Severity == loginui.SeverityError {
			log.Printf("⚠️  Login rechazado: %s", eff.Detail)
			// Un intento fallido no devuelve la contraseña al HTML
			st.Secret = ""
		}
		return p.render(c, st, &eff)
	default:
		return p.render(c, st, nil)
	}
}

func (p *LoginPage) render(c *fiber.Ctx, st loginui.State, toast *loginui.Notify) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Render("login", fiber.Map{
		"Title":       pageTitle,
		"Cedula":      st.Identifier,
		"Contrasena":  st.Secret,
		"Mostrar":     st.SecretVisible,
		"Modal":       st.ModalOpen,
		"Toast":       toast,
		"FrontendURL": p.frontendURL,
	})
}
