package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cloudcorenow/backend/internal/client"
	"github.com/cloudcorenow/backend/internal/config"
	"github.com/cloudcorenow/backend/internal/model"
	"github.com/cloudcorenow/backend/internal/monitor"
	"github.com/cloudcorenow/backend/internal/password"
	"github.com/cloudcorenow/backend/internal/service"
)

type fakeStore struct {
	users map[string]*model.User
}

func (f *fakeStore) GetActiveUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.users[email]
	if !ok || !u.IsActive {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeStore) GetActiveUserByID(ctx context.Context, userID string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == userID && u.IsActive {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	if _, ok := f.users[u.Email]; ok {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	created := *u
	created.ID = "id-" + u.Email
	f.users[u.Email] = &created
	return &created, nil
}

func (f *fakeStore) TouchLastLogin(ctx context.Context, userID string) error { return nil }

func (f *fakeStore) InsertAuditLog(ctx context.Context, entry *model.AuditLog) error { return nil }

func (f *fakeStore) ListAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error) {
	return []model.AuditLog{{ID: "a1", Action: "login", Detail: "lamado@cloudcorenow.com", CreatedAt: time.Now()}}, nil
}

func (f *fakeStore) ListVMMetrics(ctx context.Context, vmID string, limit int) ([]model.VMMetric, error) {
	return []model.VMMetric{}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &fakeStore{users: map[string]*model.User{
		"lamado@cloudcorenow.com": {
			ID:           "id-bootstrap",
			Email:        "lamado@cloudcorenow.com",
			PasswordHash: password.BootstrapHash,
			FirstName:    "Luis",
			LastName:     "Amado",
			Role:         model.RoleAdmin,
			IsActive:     true,
		},
	}}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.NewAuthService(store, config.AuthConfig{JWTSecret: "test-secret"}, log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	registry := monitor.NewRegistry(
		monitor.NewLocalSource(store),
		monitor.NewUnavailableSource("aws"),
		monitor.NewUnavailableSource("azure"),
		monitor.NewUnavailableSource("proxmox"),
	)

	rmm := client.NewRMMClient(config.RMMConfig{})
	return NewRouter(svc, NewAuthHandler(svc), NewMonitorHandler(registry), NewRMMHandler(rmm)), store
}

func doJSON(r *gin.Engine, method, path, body, bearer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	r.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"email":"lamado@cloudcorenow.com","password":"admin123"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var res model.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad login response: %v", err)
	}
	return res.Token
}

func TestLoginSuccess(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"email":"lamado@cloudcorenow.com","password":"admin123"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res model.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if res.Token == "" || res.User.Role != "admin" || res.User.FirstName != "Luis" {
		t.Fatalf("unexpected response: %+v", res)
	}
	if strings.Contains(w.Body.String(), password.BootstrapHash) {
		t.Fatal("response must never include the password hash")
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS header, got %q", got)
	}
}

func TestLoginFailuresShareOneBody(t *testing.T) {
	r, _ := newTestRouter(t)

	wrongPW := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"email":"lamado@cloudcorenow.com","password":"wrong"}`, "")
	noUser := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@cloudcorenow.com","password":"admin123"}`, "")

	if wrongPW.Code != http.StatusUnauthorized || noUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPW.Code, noUser.Code)
	}
	if wrongPW.Body.String() != noUser.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", wrongPW.Body.String(), noUser.Body.String())
	}
	if wrongPW.Body.String() != `{"error":"Invalid credentials"}` {
		t.Fatalf("unexpected body: %s", wrongPW.Body.String())
	}
}

func TestLoginMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/login", `"not json"`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w.Body.String() != `{"error":"Invalid request body"}` {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestLoginInactiveUser(t *testing.T) {
	r, store := newTestRouter(t)
	store.users["lamado@cloudcorenow.com"].IsActive = false

	w := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"email":"lamado@cloudcorenow.com","password":"admin123"}`, "")
	if w.Code != http.StatusUnauthorized || w.Body.String() != `{"error":"Invalid credentials"}` {
		t.Fatalf("expected generic 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterAndConflict(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register",
		`{"email":"ops@cloudcorenow.com","password":"hunter22","first_name":"Op","last_name":"Erator","role":"operator"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var user model.UserInfo
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if user.Role != "operator" || user.ID == "" {
		t.Fatalf("unexpected user: %+v", user)
	}

	w = doJSON(r, http.MethodPost, "/api/auth/register",
		`{"email":"ops@cloudcorenow.com","password":"other"}`, "")
	if w.Code != http.StatusConflict || w.Body.String() != `{"error":"User already exists"}` {
		t.Fatalf("expected 409 conflict, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMeRequiresValidToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/auth/me", "", "")
	if w.Code != http.StatusUnauthorized || w.Body.String() != `{"error":"Unauthorized"}` {
		t.Fatalf("expected uniform 401, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/auth/me", "", "garbage.token.here")
	if w.Code != http.StatusUnauthorized || w.Body.String() != `{"error":"Unauthorized"}` {
		t.Fatalf("expected uniform 401, got %d: %s", w.Code, w.Body.String())
	}

	tok := loginToken(t, r)
	w = doJSON(r, http.MethodGet, "/api/auth/me", "", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res model.MeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if res.User.Email != "lamado@cloudcorenow.com" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
}

func TestOptionsPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "https://dashboard.cloudcorenow.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS origin header")
	}
	if w.Header().Get("Access-Control-Allow-Methods") != "GET, POST, PUT, DELETE, OPTIONS" {
		t.Fatalf("unexpected methods header: %q", w.Header().Get("Access-Control-Allow-Methods"))
	}
	if w.Header().Get("Access-Control-Allow-Headers") != "Content-Type, Authorization" {
		t.Fatalf("unexpected headers header: %q", w.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestUnroutedAPIPathsAnswer501(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/vms/vm-1/start", `{}`, "")
	if w.Code != http.StatusNotImplemented || w.Body.String() != `{"error":"Not implemented"}` {
		t.Fatalf("expected 501, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/somewhere-else", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 outside /api, got %d", w.Code)
	}
}

func TestMonitoringEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := loginToken(t, r)

	w := doJSON(r, http.MethodGet, "/api/monitoring/aws/logs", "", tok)
	if w.Code != http.StatusServiceUnavailable || w.Body.String() != `{"error":"Provider not available"}` {
		t.Fatalf("expected 503 for aws, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/monitoring/local/logs", "", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for local, got %d: %s", w.Code, w.Body.String())
	}
	var logs []model.AuditLog
	if err := json.Unmarshal(w.Body.Bytes(), &logs); err != nil || len(logs) != 1 {
		t.Fatalf("unexpected logs payload: %s", w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/monitoring/local/metrics?vm=vm-1", "", tok)
	if w.Code != http.StatusOK || w.Body.String() != `[]` {
		t.Fatalf("expected empty metric array, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/monitoring/gcp/logs", "", tok)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown provider, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/monitoring/local/logs", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestRMMUnconfigured(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := loginToken(t, r)

	w := doJSON(r, http.MethodGet, "/api/rmm/devices", "", tok)
	if w.Code != http.StatusServiceUnavailable || w.Body.String() != `{"error":"Provider not available"}` {
		t.Fatalf("expected 503 without RMM config, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/rmm/devices", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
