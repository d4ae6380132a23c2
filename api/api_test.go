package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/crytic/solcpipe/api/handlers"
	"github.com/crytic/solcpipe/api/routes"
	"github.com/crytic/solcpipe/compilation"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticCompiler returns the same result for every source.
type staticCompiler struct {
	result *compilation.InlineResult
}

func (s *staticCompiler) CompileInline(name string, code string) *compilation.InlineResult {
	return s.result
}

func newTestRouter(origins []string) http.Handler {
	return NewRouter(&staticCompiler{result: &compilation.InlineResult{
		Artifacts: map[string]*types.CompiledArtifact{"A": {Name: "A"}},
	}}, nil, origins)
}

// TestRouterRoutes verifies method matching and the catch-all.
func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, routes.CompileRoute, strings.NewReader(`{"code": "contract A {}"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, routes.CompileRoute, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestRouterCors verifies preflight requests are answered for allowed origins only.
func TestRouterCors(t *testing.T) {
	router := newTestRouter([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, routes.CompileRoute, nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// TestWebsocketCompile verifies every message on a websocket session is answered.
func TestWebsocketCompile(t *testing.T) {
	server := httptest.NewServer(newTestRouter(nil))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + routes.WebsocketCompileRoute
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"name": "A.sol", "code": "contract A {}"}))
	var response handlers.CompileResponse
	require.NoError(t, conn.ReadJSON(&response))
	assert.Equal(t, []any{}, response.Errors)
	assert.Contains(t, response.Result, "A")

	require.NoError(t, conn.WriteJSON(map[string]any{"code": 1}))
	var errorResponse handlers.ErrorResponse
	require.NoError(t, conn.ReadJSON(&errorResponse))
	assert.Equal(t, "Body parameter 'code' must be a string", errorResponse.Error)
}

// TestServeStopsOnCancel verifies the server is reachable and shuts down when its context ends.
func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bound := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		config := ServeConfig{Address: "127.0.0.1:0", MaxConnections: 4, OnListen: func(addr string) { bound <- addr }}
		done <- Serve(ctx, config, newTestRouter(nil), nil)
	}()

	addr := <-bound
	resp, err := http.Post("http://"+addr+routes.CompileRoute, "application/json", strings.NewReader(`{"code": "contract A {}"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// TestServeRejectsBadAddress verifies malformed addresses fail before listening.
func TestServeRejectsBadAddress(t *testing.T) {
	err := Serve(context.Background(), ServeConfig{Address: "no-port"}, newTestRouter(nil), nil)
	assert.Error(t, err)
}
