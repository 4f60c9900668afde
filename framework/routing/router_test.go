package routing_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-autowire/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func newRouter(buf *bytes.Buffer) *routing.Router {
	return routing.New(slog.New(slog.NewTextHandler(buf, nil)))
}

func do(router *routing.Router, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── Routes ───────────────────────────────────────────────────────────────────

func TestRouter_Get(t *testing.T) {
	var logs bytes.Buffer
	r := newRouter(&logs)
	r.Get("/users", okHandler)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/users").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodPost, "/users").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/nope").Code)
}

func TestRouter_PrefixAndParam(t *testing.T) {
	var logs bytes.Buffer
	r := newRouter(&logs)
	var got string
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			got = routing.Param(req, "id")
		})
	})

	do(r, http.MethodGet, "/api/v1/users/42")

	assert.Equal(t, "42", got)
}

func TestRouter_GroupMiddleware(t *testing.T) {
	var logs bytes.Buffer
	r := newRouter(&logs)
	r.Get("/public", okHandler)
	r.Group(func(g *routing.Router) {
		g.Middleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})
		})
		g.Get("/private", okHandler)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/public").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/private").Code)
}

func TestRouter_LogsRequests(t *testing.T) {
	var logs bytes.Buffer
	r := newRouter(&logs)
	r.Get("/hello", okHandler)

	do(r, http.MethodGet, "/hello")

	assert.Contains(t, logs.String(), "path=/hello")
	assert.Contains(t, logs.String(), "status=200")
}

func TestRouter_RecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	r := newRouter(&logs)
	r.Get("/panic", func(w http.ResponseWriter, req *http.Request) { panic("boom") })

	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/panic").Code)
}
