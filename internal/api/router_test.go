package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/arsn/dossier-tracking/internal/core/audit"
	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
	"github.com/arsn/dossier-tracking/internal/core/service"
	"github.com/arsn/dossier-tracking/internal/infrastructure/db/memory"
)

const testSecret = "router-secret"

// The router registers HTTP metrics on the default Prometheus registry, so
// the whole flow runs against a single instance.
func TestRouter_DossierLifecycle(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()

	catalog := memory.NewServiceCatalog(domain.DefaultServices()...)
	users := memory.NewUserStore()
	dossiers := memory.NewDossierStore(audit.NewAppender(), ports.DeleteTombstone)
	if _, err := service.BootstrapAdmin(ctx, users, "admin@example.com", "admin-pass", []string{"CT-01"}); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	userService := service.NewUserService(users, catalog, log)
	e := NewRouter(Dependencies{
		Logger:    log,
		JWTSecret: testSecret,
		Auth:      service.NewAuthService(users, testSecret, time.Hour),
		Dossiers:  service.NewDossierService(dossiers, catalog, log),
		Catalog:   service.NewCatalogService(catalog, log),
		Users:     userService,
		Accounts:  users,
	})

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		t.Helper()
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	login := func(email, password string) string {
		t.Helper()
		rec := do(http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		return resp.Token
	}

	adminToken := login("admin@example.com", "admin-pass")

	for _, u := range []struct{ email, role string }{
		{"agent@example.com", "agent"},
		{"chef@example.com", "chef"},
		{"resp@example.com", "responsable"},
	} {
		body := `{"email":"` + u.email + `","first_name":"F","last_name":"L","password":"secret1","role":"` + u.role + `","services":["CT-01"]}`
		if rec := do(http.MethodPost, "/v1/users", adminToken, body); rec.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201, got %d: %s", u.role, rec.Code, rec.Body.String())
		}
	}

	agentToken := login("agent@example.com", "secret1")
	chefToken := login("chef@example.com", "secret1")
	respToken := login("resp@example.com", "secret1")

	var dossierID string

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		if rec := do(http.MethodGet, "/v1/dossiers", "", ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("bad password", func(t *testing.T) {
		rec := do(http.MethodPost, "/auth/login", "", `{"email":"agent@example.com","password":"nope"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("agent creates a dossier", func(t *testing.T) {
		rec := do(http.MethodPost, "/v1/dossiers", agentToken,
			`{"number":"2024-001","date":"2024-03-01","sender":"EDF","subject":"Inspection","services":["CT-01","SN-02"]}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			ID      string           `json:"id"`
			History []map[string]any `json:"history"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp.ID == "" || len(resp.History) != 1 || resp.History[0]["action"] != domain.ActionCreated {
			t.Fatalf("unexpected payload: %s", rec.Body.String())
		}
		dossierID = resp.ID
	})

	t.Run("unknown service is rejected", func(t *testing.T) {
		rec := do(http.MethodPost, "/v1/dossiers", agentToken,
			`{"number":"2024-002","date":"2024-03-01","sender":"EDF","subject":"x","services":["ZZ-99"]}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("chef cannot create or edit", func(t *testing.T) {
		rec := do(http.MethodPost, "/v1/dossiers", chefToken,
			`{"number":"2024-003","date":"2024-03-01","sender":"EDF","subject":"x","services":["CT-01"]}`)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("create: expected 403, got %d", rec.Code)
		}
		if rec := do(http.MethodPatch, "/v1/dossiers/"+dossierID, chefToken, `{"status":"urgent"}`); rec.Code != http.StatusForbidden {
			t.Fatalf("edit: expected 403, got %d", rec.Code)
		}
	})

	t.Run("responsable changes status", func(t *testing.T) {
		rec := do(http.MethodPatch, "/v1/dossiers/"+dossierID, respToken, `{"status":"urgent"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Status  string           `json:"status"`
			History []map[string]any `json:"history"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Status != "urgent" || len(resp.History) != 2 {
			t.Fatalf("unexpected payload: %s", rec.Body.String())
		}
	})

	t.Run("dashboard counts the urgent dossier", func(t *testing.T) {
		rec := do(http.MethodGet, "/v1/dashboard", chefToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp struct {
			Total    int64            `json:"total"`
			ByStatus map[string]int64 `json:"by_status"`
			Urgent   []map[string]any `json:"urgent"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Total != 1 || resp.ByStatus["urgent"] != 1 || len(resp.Urgent) != 1 {
			t.Fatalf("unexpected dashboard: %s", rec.Body.String())
		}
	})

	t.Run("search finds the dossier", func(t *testing.T) {
		rec := do(http.MethodGet, "/v1/dossiers?search=edf&service=SN-02", chefToken, "")
		var resp struct {
			Total int64 `json:"total"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if rec.Code != http.StatusOK || resp.Total != 1 {
			t.Fatalf("expected one hit, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("chef delete is denied, admin delete succeeds", func(t *testing.T) {
		if rec := do(http.MethodDelete, "/v1/dossiers/"+dossierID, chefToken, ""); rec.Code != http.StatusForbidden {
			t.Fatalf("chef: expected 403, got %d", rec.Code)
		}
		if rec := do(http.MethodDelete, "/v1/dossiers/"+dossierID, adminToken, ""); rec.Code != http.StatusNoContent {
			t.Fatalf("admin: expected 204, got %d", rec.Code)
		}
		if rec := do(http.MethodGet, "/v1/dossiers/"+dossierID, adminToken, ""); rec.Code != http.StatusNotFound {
			t.Fatalf("get after delete: expected 404, got %d", rec.Code)
		}
	})

	t.Run("lenient update of an unknown dossier", func(t *testing.T) {
		if rec := do(http.MethodPatch, "/v1/dossiers/ghost", respToken, `{"note":"x"}`); rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("only admins manage services and users", func(t *testing.T) {
		if rec := do(http.MethodPost, "/v1/services", respToken, `{"name":"Déchets"}`); rec.Code != http.StatusForbidden {
			t.Fatalf("services: expected 403, got %d", rec.Code)
		}
		if rec := do(http.MethodGet, "/v1/users", respToken, ""); rec.Code != http.StatusForbidden {
			t.Fatalf("users: expected 403, got %d", rec.Code)
		}
		if rec := do(http.MethodPost, "/v1/services", adminToken, `{"id":"DE-05","name":"Déchets"}`); rec.Code != http.StatusCreated {
			t.Fatalf("admin service create: expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("me lists permissions", func(t *testing.T) {
		rec := do(http.MethodGet, "/v1/me", agentToken, "")
		var resp struct {
			Permissions []string `json:"permissions"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if rec.Code != http.StatusOK || strings.Join(resp.Permissions, ",") != "dossier.view,dossier.create" {
			t.Fatalf("unexpected me response %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("role changes apply to issued tokens", func(t *testing.T) {
		resp, err := users.FindByEmail(ctx, "resp@example.com")
		if err != nil {
			t.Fatal(err)
		}
		if rec := do(http.MethodPut, "/v1/users/"+resp.ID, adminToken, `{"role":"agent"}`); rec.Code != http.StatusOK {
			t.Fatalf("demote: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec := do(http.MethodPatch, "/v1/dossiers/ghost", respToken, `{"note":"x"}`); rec.Code != http.StatusForbidden {
			t.Fatalf("demoted user edit: expected 403, got %d", rec.Code)
		}

		chef, err := users.FindByEmail(ctx, "chef@example.com")
		if err != nil {
			t.Fatal(err)
		}
		if rec := do(http.MethodDelete, "/v1/users/"+chef.ID, adminToken, ""); rec.Code != http.StatusNoContent {
			t.Fatalf("delete user: expected 204, got %d", rec.Code)
		}
		if rec := do(http.MethodGet, "/v1/dossiers", chefToken, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("deleted user: expected 401, got %d", rec.Code)
		}
	})

	t.Run("probes", func(t *testing.T) {
		if rec := do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("liveness: expected 200, got %d", rec.Code)
		}
		if rec := do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("readiness: expected 200, got %d", rec.Code)
		}
		if rec := do(http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("metrics: expected 200, got %d", rec.Code)
		}
	})
}
