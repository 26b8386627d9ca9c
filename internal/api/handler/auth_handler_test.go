package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/api/middleware"
	"github.com/todoapp/todo-api/internal/core/domain"
)

func TestAuthHandler_Register_Created(t *testing.T) {
	svc := &stubAuthService{registerFn: func(username, _ string) (*domain.User, error) {
		return &domain.User{ID: 7, Username: username, Role: domain.RoleUser, PasswordHash: "secret-hash"}, nil
	}}
	c, rec := jsonContext(http.MethodPost, "/api/auth/register", `{"username":"alice","password":"hunter22"}`)

	if err := NewAuthHandler(svc).Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var got map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got["user_id"] != float64(7) || got["username"] != "alice" || got["role"] != "user" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if _, leaked := got["password_hash"]; leaked {
		t.Fatal("hash must not be serialized")
	}
}

func TestAuthHandler_Register_ShortPasswordIs422(t *testing.T) {
	svc := &stubAuthService{registerFn: func(string, string) (*domain.User, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	c, _ := jsonContext(http.MethodPost, "/api/auth/register", `{"username":"alice","password":"123"}`)

	err := NewAuthHandler(svc).Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAuthHandler_Register_MultibytePasswordOverByteLimitIs422(t *testing.T) {
	svc := &stubAuthService{registerFn: func(string, string) (*domain.User, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	// 40 runes, 80 bytes.
	body := `{"username":"alice","password":"` + strings.Repeat("é", 40) + `"}`
	c, _ := jsonContext(http.MethodPost, "/api/auth/register", body)

	err := NewAuthHandler(svc).Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if msg, _ := he.Message.(string); !strings.Contains(msg, "password must be at most 72 bytes") {
		t.Fatalf("unexpected message %v", he.Message)
	}
}

func TestAuthHandler_Register_DuplicatePropagates(t *testing.T) {
	svc := &stubAuthService{registerFn: func(string, string) (*domain.User, error) {
		return nil, domain.ErrUserExists
	}}
	c, _ := jsonContext(http.MethodPost, "/api/auth/register", `{"username":"alice","password":"hunter22"}`)

	if err := NewAuthHandler(svc).Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_BasicAuth(t *testing.T) {
	var gotUser, gotPass, gotAddr string
	svc := &stubAuthService{loginFn: func(u, p, addr string) (string, error) {
		gotUser, gotPass, gotAddr = u, p, addr
		return "tok", nil
	}}
	c, rec := newContext(http.MethodPost, "/api/auth/login", nil, "")
	c.Request().SetBasicAuth("bob", "pw")

	if err := NewAuthHandler(svc).Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUser != "bob" || gotPass != "pw" || gotAddr != "192.0.2.1" {
		t.Fatalf("unexpected login args: %q %q %q", gotUser, gotPass, gotAddr)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"token\":\"tok\"}\n" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_Login_JSONFallback(t *testing.T) {
	svc := &stubAuthService{loginFn: func(u, p, _ string) (string, error) {
		if u != "carol" || p != "secret" {
			t.Fatalf("unexpected credentials %q %q", u, p)
		}
		return "tok", nil
	}}
	c, rec := jsonContext(http.MethodPost, "/api/auth/login", `{"username":"carol","password":"secret"}`)

	if err := NewAuthHandler(svc).Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	for _, want := range []error{domain.ErrUserNotFound, domain.ErrInvalidCredentials} {
		svc := &stubAuthService{loginFn: func(string, string, string) (string, error) { return "", want }}
		c, _ := jsonContext(http.MethodPost, "/api/auth/login", `{"username":"dave","password":"x"}`)

		if err := NewAuthHandler(svc).Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Login_MissingCredentials(t *testing.T) {
	svc := &stubAuthService{}
	c, _ := jsonContext(http.MethodPost, "/api/auth/login", `{}`)

	err := NewAuthHandler(svc).Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var gotToken string
	svc := &stubAuthService{logoutFn: func(u *domain.User, token string) error {
		gotToken = token
		return nil
	}}
	c, rec := newContext(http.MethodPost, "/api/auth/logout", nil, "")
	asUser(c, 1, domain.RoleUser)
	c.Set("auth.token", "the-token")

	if err := NewAuthHandler(svc).Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if gotToken != middleware.CurrentToken(c) || gotToken != "the-token" {
		t.Fatalf("token not forwarded: %q", gotToken)
	}
}

func TestAuthHandler_Logout_WithoutUser(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/auth/logout", nil, "")

	if err := NewAuthHandler(&stubAuthService{}).Logout(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
