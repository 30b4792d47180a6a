package loginui

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

// startAuthServer levanta un servicio de autenticación falso en 127.0.0.1
func startAuthServer(t *testing.T, handler fiber.Handler) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/auth/login", handler)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String() + "/auth/login"
}

func TestHTTPAuthenticatorSuccess(t *testing.T) {
	received := make(chan Credentials, 1)
	url := startAuthServer(t, func(c *fiber.Ctx) error {
		var got Credentials
		if err := c.BodyParser(&got); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		received <- got
		return c.JSON(fiber.Map{
			"message": "ok",
			"user":    fiber.Map{"id": 4, "cedula": got.Cedula, "nombre": "Ana", "rol_id": 1},
		})
	})

	a := NewHTTPAuthenticator(url, 2*time.Second, false)
	sess, err := a.Authenticate(context.Background(), Credentials{Cedula: "0102030405", Password: "clave"})
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if got := <-received; got.Cedula != "0102030405" || got.Password != "clave" {
		t.Errorf("Server received %+v", got)
	}
	if sess.User == nil || sess.User.Nombre != "Ana" || !sess.User.IsAdmin() {
		t.Errorf("Unexpected session %+v", sess.User)
	}
}

func TestHTTPAuthenticatorRejected(t *testing.T) {
	url := startAuthServer(t, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Usuario no encontrado"})
	})

	a := NewHTTPAuthenticator(url, 2*time.Second, false)
	_, err := a.Authenticate(context.Background(), Credentials{Cedula: "9", Password: "x"})

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Expected RejectedError, got %v", err)
	}
	if rejected.Status != fiber.StatusUnauthorized || rejected.Message != "Usuario no encontrado" {
		t.Errorf("Unexpected rejection %+v", rejected)
	}
}

func TestHTTPAuthenticatorRejectedWithoutBody(t *testing.T) {
	url := startAuthServer(t, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusForbidden)
	})

	a := NewHTTPAuthenticator(url, 2*time.Second, false)
	_, err := a.Authenticate(context.Background(), Credentials{Cedula: "9", Password: "x"})

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Expected RejectedError, got %v", err)
	}
	if rejected.Message != "Forbidden" {
		t.Errorf("Expected status text, got %q", rejected.Message)
	}
}

func TestHTTPAuthenticatorTransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	a := NewHTTPAuthenticator("http://"+addr+"/auth/login", time.Second, false)
	_, err = a.Authenticate(context.Background(), Credentials{Cedula: "9", Password: "x"})
	if err == nil {
		t.Fatal("Expected transport error")
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		t.Errorf("Transport failure must not be a RejectedError: %v", err)
	}
}

func TestHTTPAuthenticatorCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewHTTPAuthenticator("http://127.0.0.1:1/auth/login", time.Second, false)
	if _, err := a.Authenticate(ctx, Credentials{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestHTTPAuthenticatorMalformedResponse(t *testing.T) {
	url := startAuthServer(t, func(c *fiber.Ctx) error {
		return c.SendString("<html>not json</html>")
	})

	a := NewHTTPAuthenticator(url, 2*time.Second, false)
	_, err := a.Authenticate(context.Background(), Credentials{Cedula: "9", Password: "x"})
	if err == nil {
		t.Fatal("Expected decode error")
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		t.Errorf("Decode failure must not be a RejectedError: %v", err)
	}
}

func TestHTTPAuthenticatorStopsWaitingOnCancel(t *testing.T) {
	url := startAuthServer(t, func(c *fiber.Ctx) error {
		time.Sleep(1500 * time.Millisecond)
		return c.JSON(fiber.Map{"user": fiber.Map{"rol_id": 2}})
	})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	a := NewHTTPAuthenticator(url, 10*time.Second, false)
	start := time.Now()
	_, err := a.Authenticate(ctx, Credentials{Cedula: "1", Password: "x"})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected to return soon after cancel, took %s", elapsed)
	}
}

func TestHTTPAuthenticatorExpiredDeadline(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	a := NewHTTPAuthenticator("http://127.0.0.1:1/auth/login", time.Second, false)
	if _, err := a.Authenticate(ctx, Credentials{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
}
