package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubUserService struct {
	ports.UserService
	getFn func(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
}

func (s *stubUserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	return s.getFn(ctx, actor, id)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// withActor sets the claims the Auth middleware would inject.
func withActor(c echo.Context, id string, role domain.Role) {
	c.Set("user_id", id)
	c.Set("role", string(role))
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u1", Email: email, FirstName: "Alice", LastName: "Martin", Role: domain.RoleChef, PasswordHash: "hash"}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["display_name"] != "Alice Martin" || user["role"] != "chef" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatal("password hash must never be serialized")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, nil)

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`), httptest.NewRecorder())

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", "{"), httptest.NewRecorder())
	if code := httpCode(t, handler.Login(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`), httptest.NewRecorder())
	if code := httpCode(t, handler.Login(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

// ---------------------------------------------------------------------------
// Me
// ---------------------------------------------------------------------------

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	users := &stubUserService{
		getFn: func(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
			if id != actor.ID {
				t.Fatalf("me must read the caller's own account, got %s", id)
			}
			return &domain.User{ID: id, Email: "r@example.com", Role: domain.RoleResponsable}, nil
		},
	}
	handler := NewAuthHandler(nil, users)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/me", nil), rec)
	withActor(c, "u7", domain.RoleResponsable)

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		User        map[string]any `json:"user"`
		Permissions []string       `json:"permissions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	want := []string{"dossier.view", "dossier.edit", "dossier.delete"}
	if strings.Join(resp.Permissions, ",") != strings.Join(want, ",") {
		t.Fatalf("expected permissions %v, got %v", want, resp.Permissions)
	}
}

func TestAuthHandler_Me_RequiresClaims(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(nil, &stubUserService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/me", nil), httptest.NewRecorder())
	if code := httpCode(t, handler.Me(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/me", nil), httptest.NewRecorder())
	withActor(c, "u1", domain.Role("guest"))
	if code := httpCode(t, handler.Me(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown role, got %d", code)
	}
}
