// Package smoke abre la pantalla de login en un Chrome headless y verifica
// que los controles principales estén presentes y respondan.
package smoke

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Report es lo observado en la pantalla de login
type Report struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	HasCedula     bool   `json:"has_cedula"`
	HasPassword   bool   `json:"has_password"`
	HasSubmit     bool   `json:"has_submit"`
	HasGoogle     bool   `json:"has_google"`
	HasAsistencia bool   `json:"has_asistencia"`
	// Tipo del input de contraseña antes y después de apretar el ojo
	PasswordType        string `json:"password_type"`
	PasswordTypeToggled string `json:"password_type_toggled"`
}

// Problems lista lo que no cumple la pantalla. Vacío = OK.
func (r Report) Problems() []string {
	var out []string
	if !strings.Contains(r.Title, "Iniciar sesión") {
		out = append(out, fmt.Sprintf("título inesperado %q", r.Title))
	}
	checks := []struct {
		ok   bool
		what string
	}{
		{r.HasCedula, "campo cédula"},
		{r.HasPassword, "campo contraseña"},
		{r.HasSubmit, "botón Iniciar Sesión"},
		{r.HasGoogle, "botón Google"},
		{r.HasAsistencia, "botón Marcar Asistencia"},
	}
	for _, c := range checks {
		if !c.ok {
			out = append(out, "falta "+c.what)
		}
	}
	if r.PasswordType != "password" {
		out = append(out, fmt.Sprintf("la contraseña debe partir oculta (type=%q)", r.PasswordType))
	}
	if r.PasswordTypeToggled != "text" {
		out = append(out, fmt.Sprintf("el ojo no muestra la contraseña (type=%q)", r.PasswordTypeToggled))
	}
	return out
}

const presenceJS = `(() => ({
	cedula: !!document.querySelector('#cedula'),
	password: !!document.querySelector('#contrasena'),
	submit: !!document.querySelector('button[value="ingresar"].login-button'),
	google: !!document.querySelector('button[value="google"]'),
	asistencia: !!document.querySelector('button[value="abrir_asistencia"]'),
}))()`

// Check navega a baseURL/login y arma el Report
func Check(ctx context.Context, baseURL string, timeout time.Duration) (Report, error) {
	report := Report{URL: strings.TrimRight(baseURL, "/") + "/login"}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("ignore-certificate-errors", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	log.Printf("🌐 Abriendo %s en Chrome headless", report.URL)

	var presence struct {
		Cedula     bool `json:"cedula"`
		Password   bool `json:"password"`
		Submit     bool `json:"submit"`
		Google     bool `json:"google"`
		Asistencia bool `json:"asistencia"`
	}
	var ok bool

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(report.URL),
		chromedp.WaitVisible(`#cedula`, chromedp.ByQuery),
		chromedp.Title(&report.Title),
		chromedp.Evaluate(presenceJS, &presence),
		chromedp.AttributeValue(`#contrasena`, "type", &report.PasswordType, &ok, chromedp.ByQuery),
		chromedp.Click(`button[value="mostrar_contrasena"]`, chromedp.ByQuery),
		chromedp.WaitVisible(`#contrasena[type="text"]`, chromedp.ByQuery),
		chromedp.AttributeValue(`#contrasena`, "type", &report.PasswordTypeToggled, &ok, chromedp.ByQuery),
	)

	report.HasCedula = presence.Cedula
	report.HasPassword = presence.Password
	report.HasSubmit = presence.Submit
	report.HasGoogle = presence.Google
	report.HasAsistencia = presence.Asistencia

	if err != nil {
		return report, fmt.Errorf("chromedp: %w", err)
	}
	return report, nil
}
