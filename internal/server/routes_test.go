package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mergington/internal/activities"
	"mergington/internal/auth"
	"mergington/internal/config"
	"mergington/internal/credentials"
	"mergington/internal/httperr"
	"mergington/internal/session"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>Mergington High</h1>"), 0o600))

	return newTestHandlerWithStatic(t, staticDir)
}

func newTestHandlerWithStatic(t *testing.T, staticDir string) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppEnv:             "test",
		ServiceName:        "activities-service",
		StaticDir:          staticDir,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}

	creds := credentials.NewStore([]credentials.Credential{
		{Username: "teacher1", Password: "pw1"},
		{Username: "teacher2", Password: "pw2"},
	})
	sessions := session.NewManager(session.NewMemoryStore())
	registry := activities.NewRegistry(activities.DefaultActivities())

	return New(cfg, Deps{
		Auth:       auth.NewService(creds, sessions, nil),
		Activities: activities.NewService(registry, nil, nil),
		Sessions:   sessions,
	}).RegisterRoutes()
}

func request(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	w := request(h, http.MethodPost, "/auth/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp auth.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Token, 64)
	require.Equal(t, username, resp.Username)
	return resp.Token
}

func participants(t *testing.T, h http.Handler, activity string) []string {
	t.Helper()
	w := request(h, http.MethodGet, "/activities", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]activities.Activity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body[activity].Participants
}

func TestRosterLifecycle(t *testing.T) {
	h := newTestHandler(t)

	token := login(t, h, "teacher1", "pw1")

	w := request(h, http.MethodGet, "/auth/status", token, "")
	assert.JSONEq(t, `{"authenticated":true,"username":"teacher1"}`, w.Body.String())

	w = request(h, http.MethodPost, "/activities/Chess%20Club/signup?email=x@y.edu", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Signed up x@y.edu for Chess Club"}`, w.Body.String())
	assert.Contains(t, participants(t, h, "Chess Club"), "x@y.edu")

	w = request(h, http.MethodPost, "/activities/Chess%20Club/signup?email=x@y.edu", token, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = request(h, http.MethodDelete, "/activities/Chess%20Club/unregister?email=x@y.edu", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, participants(t, h, "Chess Club"), "x@y.edu")

	w = request(h, http.MethodDelete, "/activities/Chess%20Club/unregister?email=x@y.edu", token, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = request(h, http.MethodPost, "/auth/logout", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, w.Body.String())

	w = request(h, http.MethodPost, "/activities/Chess%20Club/signup?email=x@y.edu", token, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, participants(t, h, "Chess Club"), "x@y.edu")

	w = request(h, http.MethodGet, "/auth/status", token, "")
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newTestHandler(t)

	w := request(h, http.MethodPost, "/auth/login", "", `{"username":"teacher1","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body httperr.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, httperr.CodeUnauthorized, body.Error)
	assert.Equal(t, "Invalid username or password", body.Detail)
}

func TestLogin_EmptyPasswordIsUnauthorized(t *testing.T) {
	h := newTestHandler(t)

	for _, body := range []string{
		`{"username":"teacher1","password":""}`,
		`{"username":"","password":"pw1"}`,
	} {
		w := request(h, http.MethodPost, "/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, w.Code, body)
		assert.Contains(t, w.Body.String(), "Invalid username or password")
	}
}

func TestLogin_TokensAreDistinct(t *testing.T) {
	h := newTestHandler(t)

	first := login(t, h, "teacher1", "pw1")
	second := login(t, h, "teacher1", "pw1")
	assert.NotEqual(t, first, second)

	// logging out one session leaves the other valid
	request(h, http.MethodPost, "/auth/logout", first, "")
	w := request(h, http.MethodGet, "/auth/status", second, "")
	assert.JSONEq(t, `{"authenticated":true,"username":"teacher1"}`, w.Body.String())
}

func TestSignup_UnknownActivityBeatsAuth(t *testing.T) {
	h := newTestHandler(t)

	w := request(h, http.MethodPost, "/activities/Nope/signup?email=x@y.edu", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = request(h, http.MethodPost, "/activities/Chess%20Club/signup?email=x@y.edu", "not-a-token", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body httperr.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid or expired token", body.Detail)
}

func TestLogout_WithoutToken(t *testing.T) {
	h := newTestHandler(t)

	w := request(h, http.MethodPost, "/auth/logout", "", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBearerPrefixAccepted(t *testing.T) {
	h := newTestHandler(t)
	token := login(t, h, "teacher2", "pw2")

	w := request(h, http.MethodPost, "/activities/Art%20Club/signup?email=x@y.edu", "Bearer "+token, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRootRedirect(t *testing.T) {
	h := newTestHandler(t)

	w := request(h, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	location := w.Header().Get("Location")
	assert.Equal(t, "/static/", location)

	w = request(h, http.MethodGet, location, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mergington High")
}

func TestFrontEndControls(t *testing.T) {
	h := newTestHandlerWithStatic(t, filepath.Join("..", "..", "static"))

	w := request(h, http.MethodGet, "/static/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	for _, id := range []string{`id="category-filter"`, `id="search-input"`, `id="sort-by"`} {
		assert.Contains(t, w.Body.String(), id)
	}

	w = request(h, http.MethodGet, "/static/app.js", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	for _, order := range []string{"name-asc", "name-desc", "date-newest", "date-oldest"} {
		assert.Contains(t, w.Body.String(), order)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	login(t, h, "teacher1", "pw1")

	w := request(h, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "activities-service", body.Service)
	assert.Equal(t, 10, body.Activities)
	assert.Equal(t, 1, body.Sessions)
}

func TestMetricsExposed(t *testing.T) {
	h := newTestHandler(t)
	login(t, h, "teacher1", "pw1")

	w := request(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "activities_service_auth_login_attempts_total")
}

func TestUnknownRoute(t *testing.T) {
	h := newTestHandler(t)

	w := request(h, http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not_found","detail":"Not found"}`, w.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestHandler(t)

	w := request(h, http.MethodGet, "/activities", "", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
