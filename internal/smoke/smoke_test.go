package smoke

import (
	"strings"
	"testing"
)

func healthyReport() Report {
	return Report{
		Title:               "Iniciar sesión | Arrive On Time",
		HasCedula:           true,
		HasPassword:         true,
		HasSubmit:           true,
		HasGoogle:           true,
		HasAsistencia:       true,
		PasswordType:        "password",
		PasswordTypeToggled: "text",
	}
}

func TestProblemsHealthy(t *testing.T) {
	if p := healthyReport().Problems(); len(p) != 0 {
		t.Errorf("Expected no problems, got %v", p)
	}
}

func TestProblemsMissingControls(t *testing.T) {
	r := healthyReport()
	r.HasGoogle = false
	r.HasAsistencia = false

	p := r.Problems()
	if len(p) != 2 {
		t.Fatalf("Expected 2 problems, got %v", p)
	}
	if !strings.Contains(p[0], "Google") || !strings.Contains(p[1], "Marcar Asistencia") {
		t.Errorf("Unexpected problems %v", p)
	}
}

func TestProblemsPasswordToggle(t *testing.T) {
	r := healthyReport()
	r.PasswordType = "text"
	r.PasswordTypeToggled = "password"

	if p := r.Problems(); len(p) != 2 {
		t.Errorf("Expected both visibility problems, got %v", p)
	}
}

func TestProblemsWrongPage(t *testing.T) {
	r := Report{}
	// título, 5 controles y 2 de visibilidad
	if p := r.Problems(); len(p) != 8 {
		t.Errorf("Expected 8 problems, got %d: %v", len(p), p)
	}
}
