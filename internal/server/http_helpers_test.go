package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/moneta-app/moneta/internal/config"
	"github.com/moneta-app/moneta/internal/logging"
	"github.com/moneta-app/moneta/internal/server"
	"github.com/moneta-app/moneta/internal/store"
	"github.com/stretchr/testify/require"
)

// recorderMailer captures the verification handoff instead of sending.
type recorderMailer struct {
	To    string
	Token string
	Calls int
	Err   error
}

func (m *recorderMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	m.To = to
	m.Token = token
	return nil
}

type testEnv struct {
	app    *fiber.App
	mailer *recorderMailer
	repo   store.RepositoryManager
}

// newTestEnv wires the full HTTP surface against a private in-memory
// database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	db, err := store.Open(dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.RunMigrations(db.DB))

	repo := store.NewRepositoryManager(db)
	repo.MustValidate()

	cfg := &config.Config{
		Port:        "0",
		Environment: config.EnvDevelopment,
		BaseURL:     "http://localhost:8080",
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
		CookieName:  "token",
		MailBackend: "log",
	}

	mailer := &recorderMailer{}
	logger := logging.New(logging.Config{Level: slog.LevelError})

	srv := server.New(cfg, repo, mailer, logger)

	return &testEnv{app: srv.App(), mailer: mailer, repo: repo}
}

func request(method, target string, body any, cookies ...*http.Cookie) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

// do runs the request through the app and decodes the JSON body.
func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	body := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()

	return resp, body
}

// register signs up a user, redeems the captured verification token
// and returns nothing; pair with login.
func (e *testEnv) register(t *testing.T, email, password string) {
	t.Helper()

	resp, _ := e.do(t, request(http.MethodPost, "/register", fiber.Map{
		"first_name":       "Pepe",
		"last_name":        "Rone",
		"email":            email,
		"password":         password,
		"confirm_password": password,
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = e.do(t, request(http.MethodGet, "/verify-email?token="+e.mailer.Token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// login authenticates and returns the session cookie.
func (e *testEnv) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	resp, _ := e.do(t, request(http.MethodPost, "/login", fiber.Map{
		"email":    email,
		"password": password,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "token" && c.Value != "" {
			return c
		}
	}

	t.Fatal("login response carries no session cookie")
	return nil
}

// session registers, verifies and logs in a fresh user.
func (e *testEnv) session(t *testing.T, email string) *http.Cookie {
	t.Helper()

	e.register(t, email, "Password1!")
	return e.login(t, email, "Password1!")
}
