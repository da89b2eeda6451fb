// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/studio-api/internal/auth"
	"github.com/halcyonlabs/studio-api/internal/cache"
	"github.com/halcyonlabs/studio-api/internal/gateway"
	"github.com/halcyonlabs/studio-api/internal/imaging"
	"github.com/halcyonlabs/studio-api/internal/mail"
	"github.com/halcyonlabs/studio-api/internal/middleware"
	"github.com/halcyonlabs/studio-api/internal/store"
)

const testAdminSecret = "test-admin-secret"

// testServer wires a full router against an in-memory database, the way
// the server entrypoint does.
type testServer struct {
	router *chi.Mux
	db     *sql.DB
	cache  cache.Cache
	sender *captureSender
}

// captureSender records notification mail instead of delivering it.
// Sends happen on the notifier's worker goroutine, so access is locked.
type captureSender struct {
	mu   sync.Mutex
	sent []mail.Message
	fail bool
}

func (s *captureSender) Send(msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return io.ErrClosedPipe
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *captureSender) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *captureSender) messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mail.Message, len(s.sent))
	copy(out, s.sent)
	return out
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	memCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = memCache.Close() })

	contentStore := store.NewContentStore(db)
	authenticator := auth.NewStaticSecret(testAdminSecret)

	sender := &captureSender{}
	notifier := mail.NewNotifier(sender, nil, mail.NotifierConfig{
		From:    "noreply@example.com",
		To:      []string{"hello@example.com"},
		Workers: 1,
	})
	notifier.Start(t.Context())
	t.Cleanup(notifier.Stop)

	contact := NewContactHandler(store.NewContactStore(db), notifier, nil)
	admin := NewAdminHandler(authenticator, nil)
	events := NewEventLogHandler(store.NewEventStore(db), nil)
	health := NewHealthHandler(db, nil)
	upload := NewUploadHandler(imaging.NewProcessor(t.TempDir()), 1<<20, nil)

	r := chi.NewRouter()
	r.Use(middleware.Identity(authenticator))

	mount := func(path string, reg interface{ Register(chi.Router) }) {
		r.Route(path, func(sub chi.Router) { reg.Register(sub) })
	}
	mount("/api/blogs", NewResource(gateway.Blogs(contentStore), ResourceConfig{
		Singular: "blog", Plural: "blogs", Label: "Blog", Cache: memCache,
	}))
	mount("/api/positions", NewResource(gateway.Positions(contentStore), ResourceConfig{
		Singular: "position", Plural: "positions", Label: "Position", Cache: memCache,
	}))
	mount("/api/work", NewResource(gateway.WorkPosts(contentStore), ResourceConfig{
		Singular: "post", Plural: "posts", Label: "Work post", Cache: memCache,
	}))
	mount("/api/reviews", NewResource(gateway.Reviews(contentStore), ResourceConfig{
		Singular: "review", Plural: "reviews", Label: "Review", Cache: memCache,
	}))
	mount("/api/events", NewResource(gateway.Events(contentStore), ResourceConfig{
		Singular: "event", Plural: "events", Label: "Event", Cache: memCache,
	}))
	mount("/api/team", NewResource(gateway.TeamMembers(contentStore), ResourceConfig{
		Singular: "member", Plural: "members", Label: "Team member", Cache: memCache,
	}))

	r.Post("/api/contact", contact.Create)
	r.Get("/api/contact", contact.List)
	r.Post("/api/admin/login", admin.Login)
	r.Get("/api/admin/events", events.List)
	r.Post("/api/upload", upload.Upload)
	r.Get("/api/healthz", health.Check)

	return &testServer{router: r, db: db, cache: memCache, sender: sender}
}

// do performs a request and decodes the JSON response body.
func (s *testServer) do(t *testing.T, method, target string, body any, admin bool) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if admin {
		req.Header.Set(auth.HeaderAdminToken, testAdminSecret)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	decoded := map[string]any{}
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded),
			"response body: %s", rr.Body.String())
	}
	return rr.Code, decoded
}

// asAdmin injects an admin identity directly into the request context,
// for handlers exercised without the identity middleware.
func asAdmin(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyIdentity, auth.Identity{Admin: true})
	return r.WithContext(ctx)
}

// createBlog inserts a blog through the API and returns its id.
func (s *testServer) createBlog(t *testing.T, body map[string]any) string {
	t.Helper()
	code, resp := s.do(t, http.MethodPost, "/api/blogs", body, true)
	require.Equal(t, http.StatusCreated, code, "create blog response: %v", resp)
	blog := resp["blog"].(map[string]any)
	return blog["id"].(string)
}
