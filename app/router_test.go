package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"greanix/footprint-api/db"
	"greanix/footprint-api/internal"
	"greanix/footprint-api/internal/account"
	footprints "greanix/footprint-api/internal/footprint"
	"greanix/footprint-api/internal/store"
	"greanix/footprint-api/pkg/middleware"
	"greanix/footprint-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type captureMailer struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *captureMailer) SendResetLink(_ context.Context, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[to] = token
	return nil
}

type testServer struct {
	engine *gin.Engine
	mailer *captureMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.New(db.Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	hasher, err := security.NewHasher("bcrypt", bcrypt.MinCost)
	require.NoError(t, err)

	st := store.NewGormStore(gdb, hasher)
	mailer := &captureMailer{tokens: map[string]string{}}

	d := &internal.Deps{
		DB:         gdb,
		Store:      st,
		Sessions:   security.NewSessions("test-secret", time.Hour),
		Accounts:   account.NewService(st, hasher, account.NewResetManager(st, mailer, time.Hour), 255),
		Footprints: footprints.NewService(st, nil, 0),
	}

	return &testServer{
		engine: NewEngine(d, Options{CORSOrigins: []string{"http://localhost:3000"}}),
		mailer: mailer,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}

	return w.Code, out
}

func (s *testServer) signupLogin(t *testing.T, username, email, password string) (string, string) {
	t.Helper()

	code, body := s.do(t, http.MethodPost, "/signup", gin.H{"username": username, "email": email, "password": password}, "")
	require.Equal(t, http.StatusCreated, code, body)

	code, body = s.do(t, http.MethodPost, "/login", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, code, body)

	return body["accountId"].(string), body["token"].(string)
}

func TestSignupLoginRoundTrip(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodPost, "/signup", gin.H{"username": "alice", "email": "a@x.io", "password": "pw1"}, "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Account created successfully!", body["message"])
	accountID := body["accountId"].(string)

	code, body = s.do(t, http.MethodPost, "/login", gin.H{"email": "a@x.io", "password": "pw1"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, accountID, body["accountId"])
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, body, "passwordHash")
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.signupLogin(t, "alice", "a@x.io", "pw1")

	code, body := s.do(t, http.MethodPost, "/signup", gin.H{"username": "alice", "email": "A@X.IO", "password": "pw2"}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "An account with this email already exists.", body["message"])
	assert.NotEmpty(t, body["requestID"])
}

func TestSignupMalformed(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodPost, "/signup", gin.H{"username": "alice", "email": "", "password": "pw"}, "")
	assert.Equal(t, http.StatusBadRequest, code)

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	s := newTestServer(t)
	s.signupLogin(t, "alice", "a@x.io", "pw1")

	code1, body1 := s.do(t, http.MethodPost, "/login", gin.H{"email": "a@x.io", "password": "wrong"}, "")
	code2, body2 := s.do(t, http.MethodPost, "/login", gin.H{"email": "nobody@x.io", "password": "pw1"}, "")

	assert.Equal(t, http.StatusBadRequest, code1)
	assert.Equal(t, code1, code2)
	assert.Equal(t, false, body1["success"])
	assert.Equal(t, "Invalid email or password.", body1["message"])
	assert.Equal(t, body1["message"], body2["message"])
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)
	s.signupLogin(t, "alice", "a@x.io", "old")

	code1, known := s.do(t, http.MethodPost, "/request-password-reset", gin.H{"email": "a@x.io"}, "")
	code2, unknown := s.do(t, http.MethodPost, "/request-password-reset", gin.H{"email": "nobody@x.io"}, "")
	assert.Equal(t, http.StatusOK, code1)
	assert.Equal(t, code1, code2)
	assert.Equal(t, known, unknown)
	assert.Equal(t, "If a user with that email exists, a reset link has been sent.", known["message"])

	token := s.mailer.tokens["a@x.io"]
	require.Len(t, token, 40)
	assert.NotContains(t, s.mailer.tokens, "nobody@x.io")

	code, body := s.do(t, http.MethodPost, "/reset-password", gin.H{"token": token, "password": "new"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Password has been successfully reset.", body["message"])

	code, _ = s.do(t, http.MethodPost, "/login", gin.H{"email": "a@x.io", "password": "old"}, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/login", gin.H{"email": "a@x.io", "password": "new"}, "")
	assert.Equal(t, http.StatusOK, code)

	code, body = s.do(t, http.MethodPost, "/reset-password", gin.H{"token": token, "password": "again"}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Password reset token is invalid or has expired.", body["message"])
}

func TestFootprintFlow(t *testing.T) {
	s := newTestServer(t)
	accountID, token := s.signupLogin(t, "alice", "a@x.io", "pw1")

	code, body := s.do(t, http.MethodPost, "/api/save-footprint", gin.H{
		"accountId":      accountID,
		"totalEmissions": 120.5,
		"breakdown":      gin.H{"homeEnergy": 60, "transportation": 40.5, "consumption": 20},
	}, token)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Footprint saved successfully!", body["message"])

	code, body = s.do(t, http.MethodPost, "/api/save-footprint", gin.H{"totalEmissions": 80}, token)
	require.Equal(t, http.StatusOK, code, body)

	code, body = s.do(t, http.MethodGet, "/api/user-data/"+accountID, nil, token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "passwordHash")

	history := body["history"].([]any)
	require.Len(t, history, 2)

	first := history[0].(map[string]any)
	assert.Equal(t, 120.5, first["totalEmissions"])
	assert.Equal(t, 40.5, first["breakdown"].(map[string]any)["transportation"])
	assert.NotEmpty(t, first["date"])
	assert.Equal(t, 80.0, history[1].(map[string]any)["totalEmissions"])
}

func TestFootprintAuthorization(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.signupLogin(t, "alice", "a@x.io", "pw1")
	bobID, _ := s.signupLogin(t, "bob", "b@x.io", "pw2")

	code, _ := s.do(t, http.MethodGet, "/api/user-data/"+aliceID, nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/api/user-data/"+bobID, nil, aliceToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPost, "/api/save-footprint", gin.H{"accountId": bobID, "totalEmissions": 1}, aliceToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPost, "/api/save-footprint", gin.H{"totalEmissions": -5}, aliceToken)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/api/save-footprint", gin.H{"breakdown": gin.H{}}, aliceToken)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestFootprintDeletedAccount(t *testing.T) {
	s := newTestServer(t)

	token, err := security.NewSessions("test-secret", time.Hour).Issue("ghost")
	require.NoError(t, err)

	code, body := s.do(t, http.MethodGet, "/api/user-data/ghost", nil, token)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found.", body["message"])

	code, _ = s.do(t, http.MethodPost, "/api/save-footprint", gin.H{"totalEmissions": 1}, token)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)
	s.signupLogin(t, "alice", "a@x.io", "pw1")

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"a@x.io","password":"pw1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AuthCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
}

func TestHeartbeat(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodHead, "/api/heartbeat", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	code, body := s.do(t, http.MethodGet, "/api/heartbeat", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestLoginMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
	assert.NotEmpty(t, body["requestID"])
}
