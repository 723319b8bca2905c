package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/snipbox/internal/auth"
	"github.com/abhisek/snipbox/internal/logging"
	"github.com/abhisek/snipbox/internal/observability"
	"github.com/abhisek/snipbox/internal/snippets"
	"github.com/abhisek/snipbox/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	srv    *Server
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := logging.Discard()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	authSvc, err := auth.NewService(st.Users(), auth.Config{
		Secret:     "test-secret",
		TokenTTL:   auth.DefaultTokenTTL,
		BcryptCost: bcrypt.MinCost,
	}, logger)
	require.NoError(t, err)

	if opts.BaseURL == "" {
		opts.BaseURL = "http://snip.test"
	}
	srv := New(Deps{
		Auth:     authSvc,
		Snippets: snippets.NewService(st.Snippets(), metrics, logger),
		Users:    st.Users(),
		DB:       st,
		Metrics:  metrics,
		Gatherer: reg,
		Logger:   logger,
	}, opts)
	return &testEnv{router: srv.Handler(), srv: srv}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
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
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), "body: %s", w.Body.String())
	return m
}

func (e *testEnv) register(t *testing.T, email string) (string, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":            "User " + email,
		"email":           email,
		"password":        "secret1",
		"confirmPassword": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

func TestSetupRoutes_RegistersAll(t *testing.T) {
	env := newTestEnv(t, Options{})

	want := map[string]bool{
		"GET /health":                 false,
		"GET /metrics":                false,
		"POST /api/auth/register":     false,
		"POST /api/auth/login":        false,
		"POST /api/auth/logout":       false,
		"GET /api/auth/me":            false,
		"GET /api/users/:id":          false,
		"GET /api/snippets":           false,
		"POST /api/snippets":          false,
		"GET /api/snippets/:id":       false,
		"PUT /api/snippets/:id":       false,
		"DELETE /api/snippets/:id":    false,
		"GET /api/snippets/:id/share": false,
		"GET /api/tags":               false,
		"POST /api/analyze":           false,
		"GET /api/analyze/ws":         false,
	}
	for _, r := range env.router.Routes() {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, found := range want {
		assert.True(t, found, "route %s not registered", route)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Options{})
	w := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRegister_SetsCookie(t *testing.T) {
	env := newTestEnv(t, Options{})
	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Alice", "email": "Alice@Example.com", "password": "secret1", "confirmPassword": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotEmpty(t, body["token"])

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "authToken=")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "SameSite=Strict")
	assert.Contains(t, cookie, "Max-Age=604800")
	assert.Contains(t, cookie, "Path=/")
}

func TestRegister_Errors(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.register(t, "bob@example.com")

	tests := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing", map[string]string{"email": "x@example.com"}, "all fields are required"},
		{"mismatch", map[string]string{"name": "n", "email": "x@example.com", "password": "secret1", "confirmPassword": "secret2"}, "passwords do not match"},
		{"short", map[string]string{"name": "n", "email": "x@example.com", "password": "abc", "confirmPassword": "abc"}, "password must be at least 6 characters"},
		{"duplicate", map[string]string{"name": "n", "email": "BOB@example.com", "password": "secret1", "confirmPassword": "secret1"}, "email already in use"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decode(t, w)["message"])
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.register(t, "carol@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "carol@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])

	wrong := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "carol@example.com", "password": "nope123"}, "")
	unknown := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "who@example.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, decode(t, wrong)["message"], decode(t, unknown)["message"])

	bad := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "carol@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t, Options{})
	token, id := env.register(t, "dave@example.com")

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", nil, "garbage").Code)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["user"].(map[string]any)["id"])

	// Cookie authentication.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: authCookie, Value: token})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t, Options{})
	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t, Options{})
	_, id := env.register(t, "erin@example.com")

	w := env.do(t, http.MethodGet, "/api/users/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "erin@example.com", decode(t, w)["user"].(map[string]any)["email"])

	missing := env.do(t, http.MethodGet, "/api/users/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "user not found", decode(t, missing)["message"])
}

func TestSnippetLifecycle(t *testing.T) {
	env := newTestEnv(t, Options{})
	owner, _ := env.register(t, "owner@example.com")
	other, _ := env.register(t, "other@example.com")

	create := map[string]any{
		"title":               "Nested",
		"code":                "for (i = 0; i < n; i++) { for (j = 0; j < n; j++) { } }",
		"tags":                "loops, matrix",
		"programmingLanguage": "javascript",
	}
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/snippets", create, "").Code)

	w := env.do(t, http.MethodPost, "/api/snippets", create, owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created["id"].(string)
	cx := created["complexity"].(map[string]any)
	assert.Equal(t, "O(n²)", cx["timeComplexity"])
	assert.Equal(t, "poor", cx["severity"])
	assert.NotContains(t, cx, "confidence")
	assert.Equal(t, []any{"loops", "matrix"}, created["tags"])

	w = env.do(t, http.MethodGet, "/api/snippets/"+id+"?details=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	cx = decode(t, w)["complexity"].(map[string]any)
	assert.Equal(t, 0.9, cx["confidence"])
	assert.Equal(t, "high", cx["confidenceLevel"])

	patch := map[string]any{"title": "Hijacked"}
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, "/api/snippets/"+id, patch, other).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, "/api/snippets/"+id, nil, other).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/api/snippets/missing", patch, owner).Code)

	w = env.do(t, http.MethodPut, "/api/snippets/"+id, map[string]any{"code": "bubble sort"}, owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Equal(t, "Nested", updated["title"])
	assert.Equal(t, "simple sorting algorithm", updated["complexity"].(map[string]any)["explanation"])

	w = env.do(t, http.MethodDelete, "/api/snippets/"+id, nil, owner)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/snippets/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "snippet not found", decode(t, w)["message"])
}

func TestCreateSnippet_Validation(t *testing.T) {
	env := newTestEnv(t, Options{})
	token, _ := env.register(t, "v@example.com")

	w := env.do(t, http.MethodPost, "/api/snippets", map[string]any{"title": "t", "code": "   "}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "code is required", decode(t, w)["message"])

	w = env.do(t, http.MethodPost, "/api/snippets", map[string]any{"title": strings.Repeat("x", 201), "code": "x"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/snippets", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSnippets(t *testing.T) {
	env := newTestEnv(t, Options{})
	token, authorID := env.register(t, "lister@example.com")

	inputs := []map[string]any{
		{"title": "one", "code": "bubble sort", "programmingLanguage": "go", "tags": []string{"sort"}},
		{"title": "two", "code": "x = 1", "programmingLanguage": "go"},
		{"title": "three", "code": "merge sort", "programmingLanguage": "python", "tags": []string{"sort"}},
	}
	for _, in := range inputs {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/snippets", in, token).Code)
		time.Sleep(2 * time.Millisecond)
	}

	w := env.do(t, http.MethodGet, "/api/snippets?language=go&limit=1&page=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	items := body["snippets"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "one", items[0].(map[string]any)["title"])
	assert.Equal(t, map[string]any{"page": 2.0, "limit": 1.0, "total": 2.0, "pages": 2.0}, body["pagination"])

	w = env.do(t, http.MethodGet, "/api/snippets?tag=sort&author="+authorID, nil, "")
	assert.Len(t, decode(t, w)["snippets"].([]any), 2)

	w = env.do(t, http.MethodGet, "/api/snippets?complexity="+"O(n%20log%20n)", nil, "")
	items = decode(t, w)["snippets"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "three", items[0].(map[string]any)["title"])

	w = env.do(t, http.MethodGet, "/api/tags", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	tags := decode(t, w)["tags"].([]any)
	require.Len(t, tags, 1)
	assert.Equal(t, map[string]any{"key": "sort", "count": 2.0}, tags[0])
}

func TestShareSnippet(t *testing.T) {
	env := newTestEnv(t, Options{BaseURL: "https://snip.example"})
	token, _ := env.register(t, "share@example.com")
	w := env.do(t, http.MethodPost, "/api/snippets", map[string]any{"title": "Hi there", "code": "x"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodGet, "/api/snippets/"+id+"/share", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	links := decode(t, w)
	assert.Equal(t, "https://snip.example/snippets/"+id, links["url"])
	assert.Contains(t, links["whatsapp"], "https://wa.me/?text=Hi%20there%20https%3A%2F%2Fsnip.example")
}

func TestAnalyze(t *testing.T) {
	env := newTestEnv(t, Options{})

	w := env.do(t, http.MethodPost, "/api/analyze", map[string]string{"code": "  "}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/analyze?details=true", map[string]string{"code": "bubble sort", "language": "go"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "O(n²)", body["timeComplexity"])
	assert.Equal(t, "O(1)", body["spaceComplexity"])
	assert.Equal(t, 0.95, body["confidence"])
	assert.Equal(t, "good", body["spaceSeverity"])

	w = env.do(t, http.MethodPost, "/api/analyze?lang=vi", map[string]string{"code": "bubble sort"}, "")
	assert.Equal(t, "Thuật toán sắp xếp đơn giản", decode(t, w)["explanation"])

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"code":"bubble sort"}`))
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, "Thuật toán sắp xếp đơn giản", decode(t, rec)["explanation"])
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, Options{RateLimit: 0.001, RateBurst: 2})
	body := map[string]string{"email": "x@example.com", "password": "secret1"}

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/auth/login", body, "").Code)
	}
	w := env.do(t, http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", nil, "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.do(t, http.MethodGet, "/health", nil, "")
	env.do(t, http.MethodPost, "/api/analyze", map[string]string{"code": "bubble sort"}, "")

	w := env.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "snipbox_http_requests_total")
	assert.Contains(t, w.Body.String(), `snipbox_complexity_estimates_total{rule="quadratic-sort"`)
}

type liveMessage struct {
	Seq    int             `json:"seq"`
	Result *complexityView `json:"result"`
	Error  string          `json:"error"`
}

func dialLive(t *testing.T, env *testEnv, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	ts := httptest.NewServer(env.router)
	t.Cleanup(ts.Close)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/analyze/ws?details=true"
	return websocket.DefaultDialer.Dial(url, header)
}

func TestAnalyzeLive_CollapsesBurst(t *testing.T) {
	env := newTestEnv(t, Options{Debounce: 100 * time.Millisecond})
	conn, _, err := dialLive(t, env, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(analyzeRequest{Code: "x = 1"}))
	require.NoError(t, conn.WriteJSON(analyzeRequest{Code: "for (i = 0; i < n; i++) { }"}))
	require.NoError(t, conn.WriteJSON(analyzeRequest{Code: "bubble sort"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg liveMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, 3, msg.Seq)
	require.NotNil(t, msg.Result)
	assert.Equal(t, "O(n²)", string(msg.Result.TimeComplexity))
	require.NotNil(t, msg.Result.Confidence)
	assert.Equal(t, 0.95, *msg.Result.Confidence)

	// Only the settled input is answered.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(400*time.Millisecond)))
	var extra liveMessage
	err = conn.ReadJSON(&extra)
	require.Error(t, err, "unexpected extra reply %+v", extra)
	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestAnalyzeLive_BlankCodeSendsNullResult(t *testing.T) {
	env := newTestEnv(t, Options{Debounce: 20 * time.Millisecond})
	conn, _, err := dialLive(t, env, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(analyzeRequest{Code: " \n\t "}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"seq":1,"result":null}`, string(raw))
}

func TestAnalyzeLive_CodeTooLong(t *testing.T) {
	env := newTestEnv(t, Options{Debounce: 20 * time.Millisecond})
	conn, _, err := dialLive(t, env, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(analyzeRequest{Code: strings.Repeat("x", snippets.MaxCodeLength+1)}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var msg liveMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Nil(t, msg.Result)
	assert.Equal(t, "code cannot be more than 10000 characters", msg.Error)
}

func TestAnalyzeLive_OversizedFrameClosesConnection(t *testing.T) {
	env := newTestEnv(t, Options{Debounce: 20 * time.Millisecond})
	conn, _, err := dialLive(t, env, nil)
	require.NoError(t, err)
	defer conn.Close()

	sessions := env.srv.deps.Metrics.LiveSessions
	require.Eventually(t, func() bool { return testutil.ToFloat64(sessions) == 1 }, 2*time.Second, 10*time.Millisecond)

	// The server may reset the connection mid-write, so the write error
	// is not checked.
	_ = conn.WriteJSON(analyzeRequest{Code: strings.Repeat("x", int(liveReadLimit)+1)})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		assert.Equal(t, websocket.CloseMessageTooBig, closeErr.Code)
	}
	assert.Eventually(t, func() bool { return testutil.ToFloat64(sessions) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestAnalyzeLive_Origin(t *testing.T) {
	env := newTestEnv(t, Options{BaseURL: "https://snip.example"})

	conn, _, err := dialLive(t, env, http.Header{"Origin": []string{"https://snip.example"}})
	require.NoError(t, err)
	conn.Close()

	_, resp, err := dialLive(t, env, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAnalyze_CodeTooLong(t *testing.T) {
	env := newTestEnv(t, Options{})
	w := env.do(t, http.MethodPost, "/api/analyze", map[string]string{"code": strings.Repeat("x", snippets.MaxCodeLength+1)}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "code cannot be more than 10000 characters", decode(t, w)["message"])
}

func TestRegister_PasswordTooLong(t *testing.T) {
	env := newTestEnv(t, Options{})
	pw := strings.Repeat("p", 80)
	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Long", "email": "long@example.com", "password": pw, "confirmPassword": pw,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password must be at most 72 bytes", decode(t, w)["message"])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&auth.ValidationError{Message: "bad"}, http.StatusBadRequest},
		{&snippets.ValidationError{Message: "bad"}, http.StatusBadRequest},
		{store.ErrDuplicateEmail, http.StatusBadRequest},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrUnauthorized, http.StatusUnauthorized},
		{snippets.ErrForbidden, http.StatusForbidden},
		{store.ErrNotFound, http.StatusNotFound},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		got, _ := statusFor(tt.err, "thing")
		assert.Equal(t, tt.want, got, "statusFor(%v)", tt.err)
	}
}
