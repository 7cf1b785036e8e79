package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/worklog-hq/worklog/internal/models"
	"github.com/worklog-hq/worklog/internal/storage"
)

// testServer creates a test server backed by a temp SQLite file
func testServer(t *testing.T) (*Server, storage.Storage, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "worklog-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	tmpFile.Close()

	store := storage.NewSQLiteStorage(tmpFile.Name())
	if err := store.Open(); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("open storage: %v", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		os.Remove(tmpFile.Name())
		t.Fatalf("migrate storage: %v", err)
	}

	cfg := &Config{
		Address:          ":0",
		JWTSecret:        []byte("test-jwt-secret-32-bytes-long!!"),
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  24 * time.Hour,
		RateLimitPerIP:   100,
		RateLimitPerUser: 100,
		LockoutThreshold: 5,
		LockoutDuration:  30 * time.Minute,
		Verbose:          false,
	}

	srv, err := New(cfg, store)
	if err != nil {
		store.Close()
		os.Remove(tmpFile.Name())
		t.Fatalf("create server: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return srv, store, cleanup
}

// createTestUser creates an account in the database for testing
func createTestUser(t *testing.T, store storage.Storage, username, displayName, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           "test-" + username,
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	return user
}

// handler returns the HTTP handler for the server
func handler(srv *Server) http.Handler {
	return srv.server.Handler
}

// login authenticates and returns the access token
func login(t *testing.T, srv *Server, username, password string) string {
	t.Helper()

	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Data.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, cleanup := testServer(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	handler(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestLogin_Success(t *testing.T) {
	srv, store, cleanup := testServer(t)
	defer cleanup()

	createTestUser(t, store, "alice", "Alice Smith", "TestPassword123!", models.RoleEmployee)

	body := `{"username":"alice","password":"TestPassword123!"}`
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			TokenType    string `json:"token_type"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Data.AccessToken == "" {
		t.Error("expected non-empty access_token")
	}
	if resp.Data.RefreshToken == "" {
		t.Error("expected non-empty refresh_token")
	}
	if resp.Data.TokenType != "Bearer" {
		t.Errorf("token_type = %q, want Bearer", resp.Data.TokenType)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv, store, cleanup := testServer(t)
	defer cleanup()

	createTestUser(t, store, "alice", "Alice Smith", "TestPassword123!", models.RoleEmployee)

	body := `{"username":"alice","password":"wrongpassword"}`
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestProtectedEndpoint_NoToken(t *testing.T) {
	srv, _, cleanup := testServer(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()

	handler(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAdminEndpoint_Employee(t *testing.T) {
	srv, store, cleanup := testServer(t)
	defer cleanup()

	createTestUser(t, store, "alice", "Alice Smith", "TestPassword123!", models.RoleEmployee)
	token := login(t, srv, "alice", "TestPassword123!")

	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestAdminEndpoint_Admin(t *testing.T) {
	srv, store, cleanup := testServer(t)
	defer cleanup()

	createTestUser(t, store, "boss", "The Boss", "TestPassword123!", models.RoleAdmin)
	token := login(t, srv, "boss", "TestPassword123!")

	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

// Full report lifecycle across two accounts: an employee's report is
// invisible to another employee but visible to the admin.
func TestReportVisibility_EndToEnd(t *testing.T) {
	srv, store, cleanup := testServer(t)
	defer cleanup()

	createTestUser(t, store, "boss", "The Boss", "TestPassword123!", models.RoleAdmin)
	createTestUser(t, store, "alice", "Alice Smith", "TestPassword123!", models.RoleEmployee)
	createTestUser(t, store, "bob", "Bob Jones", "TestPassword123!", models.RoleEmployee)

	now := time.Now()
	client := &models.Client{ID: "c-1", Name: "ACME Inc", Slug: "acme-inc", CreatedAt: now, UpdatedAt: now}
	if err := store.Clients().Create(context.Background(), client); err != nil {
		t.Fatalf("create client: %v", err)
	}

	aliceToken := login(t, srv, "alice", "TestPassword123!")

	// Alice logs a report
	body := `{"date":"2024-03-04","client_slug":"acme-inc","project_name":"Website","task_description":"Navbar","hours":3}`
	req := httptest.NewRequest("POST", "/api/v1/reports", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rec := httptest.NewRecorder()
	handler(srv).ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create report status = %d; body: %s", rec.Code, rec.Body.String())
	}

	listReports := func(token string) int {
		req := httptest.NewRequest("GET", "/api/v1/reports", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler(srv).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("list reports status = %d; body: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode list response: %v", err)
		}
		return len(resp.Data)
	}

	if got := listReports(aliceToken); got != 1 {
		t.Errorf("alice sees %d reports, want 1", got)
	}
	if got := listReports(login(t, srv, "bob", "TestPassword123!")); got != 0 {
		t.Errorf("bob sees %d reports, want 0", got)
	}
	if got := listReports(login(t, srv, "boss", "TestPassword123!")); got != 1 {
		t.Errorf("admin sees %d reports, want 1", got)
	}
}

func TestUnknownRoute_JSONEnvelope(t *testing.T) {
	srv, _, cleanup := testServer(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/api/v1/nope", nil)
	rec := httptest.NewRecorder()

	handler(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeNotFound)
	}
}
