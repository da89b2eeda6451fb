package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/studio-api/internal/auth"
)

func TestCreateBlogRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPost, "/api/blogs", map[string]any{"title": "Hello"}, false)

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", resp["error"])
	assert.NotEmpty(t, resp["message"])

	// Nothing persisted.
	code, resp = srv.do(t, http.MethodGet, "/api/blogs", nil, false)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp["blogs"])
}

func TestCreateBlogDerivesSlug(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPost, "/api/blogs", map[string]any{
		"title":  "Hello World!",
		"status": "draft",
	}, true)

	require.Equal(t, http.StatusCreated, code)
	blog := resp["blog"].(map[string]any)
	assert.Equal(t, "hello-world", blog["slug"])
	assert.Equal(t, "draft", blog["status"])
	assert.IsType(t, "", blog["id"], "id must be a plain string")
}

func TestCreateBlogMissingTitle(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPost, "/api/blogs", map[string]any{"content": []string{"p"}}, true)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MISSING_FIELDS", resp["error"])
	assert.Contains(t, resp["message"], "title")
}

func TestCreateBlogDuplicateSlug(t *testing.T) {
	srv := newTestServer(t)
	srv.createBlog(t, map[string]any{"title": "First", "slug": "launch"})

	code, resp := srv.do(t, http.MethodPost, "/api/blogs", map[string]any{"title": "Launch"}, true)

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DUPLICATE_SLUG", resp["error"])
}

func TestDraftVisibilityOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	srv.createBlog(t, map[string]any{"title": "Public Post"})
	srv.createBlog(t, map[string]any{"title": "Secret Draft", "status": "draft"})

	cases := []struct {
		name  string
		query string
		admin bool
		want  int
	}{
		{"anonymous default", "", false, 1},
		{"anonymous asking for drafts", "?includeDrafts=true", false, 1},
		{"admin default is public view", "", true, 1},
		{"admin with includeDrafts", "?includeDrafts=true", true, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := srv.do(t, http.MethodGet, "/api/blogs"+tc.query, nil, tc.admin)
			require.Equal(t, http.StatusOK, code)
			assert.Len(t, resp["blogs"], tc.want)
		})
	}
}

func TestGetBlogBySlugHidesDrafts(t *testing.T) {
	srv := newTestServer(t)
	srv.createBlog(t, map[string]any{"title": "Hidden", "slug": "hidden", "status": "draft"})

	code, resp := srv.do(t, http.MethodGet, "/api/blogs?slug=hidden", nil, false)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", resp["error"])

	code, resp = srv.do(t, http.MethodGet, "/api/blogs?slug=hidden&includeDrafts=true", nil, true)
	require.Equal(t, http.StatusOK, code)
	blog := resp["blog"].(map[string]any)
	assert.Equal(t, "hidden", blog["slug"])
}

func TestGetByIDVisibility(t *testing.T) {
	srv := newTestServer(t)
	id := srv.createBlog(t, map[string]any{"title": "Draft Only", "status": "draft"})

	code, resp := srv.do(t, http.MethodGet, "/api/blogs?id="+id, nil, false)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", resp["error"])

	code, _ = srv.do(t, http.MethodGet, "/api/blogs?id="+id+"&includeDrafts=true", nil, true)
	assert.Equal(t, http.StatusOK, code)
}

func TestUpdateIsFullOverwrite(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPost, "/api/positions", map[string]any{
		"title":    "Engineer",
		"applyUrl": "https://example.com/apply",
	}, true)
	require.Equal(t, http.StatusCreated, code)
	id := resp["position"].(map[string]any)["id"].(string)

	code, resp = srv.do(t, http.MethodPut, "/api/positions", map[string]any{
		"id":    id,
		"title": "Senior Engineer",
	}, true)
	require.Equal(t, http.StatusOK, code)

	position := resp["position"].(map[string]any)
	assert.Equal(t, "Senior Engineer", position["title"])
	assert.Equal(t, "", position["applyUrl"], "omitted fields revert to defaults")
}

func TestUpdateMissingID(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPut, "/api/positions", map[string]any{"title": "X"}, true)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MISSING_ID", resp["error"])
}

func TestDeleteBlog(t *testing.T) {
	srv := newTestServer(t)
	id := srv.createBlog(t, map[string]any{"title": "Doomed"})

	code, resp := srv.do(t, http.MethodDelete, "/api/blogs", map[string]any{"id": id}, true)
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, resp["message"])

	code, resp = srv.do(t, http.MethodDelete, "/api/blogs", map[string]any{"id": id}, true)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", resp["error"])
}

func TestDeleteRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	id := srv.createBlog(t, map[string]any{"title": "Keep Me"})

	code, resp := srv.do(t, http.MethodDelete, "/api/blogs", map[string]any{"id": id}, false)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", resp["error"])

	code, resp = srv.do(t, http.MethodGet, "/api/blogs", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["blogs"], 1)
}

func TestBothAdminHeaderSpellings(t *testing.T) {
	srv := newTestServer(t)

	for _, header := range []string{auth.HeaderAdminToken, auth.HeaderAdminSecret} {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", nil)
		req.Header.Set(header, testAdminSecret)
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, "header %s", header)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", nil)
	req.Header.Set(auth.HeaderAdminToken, testAdminSecret)
	req.Body = http.NoBody
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)

	// Empty body sanitizes to an empty document, which fails required fields.
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMutationInvalidatesCachedList(t *testing.T) {
	srv := newTestServer(t)
	srv.createBlog(t, map[string]any{"title": "First"})

	// Prime the anonymous list cache.
	code, resp := srv.do(t, http.MethodGet, "/api/blogs", nil, false)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp["blogs"], 1)

	srv.createBlog(t, map[string]any{"title": "Second"})

	code, resp = srv.do(t, http.MethodGet, "/api/blogs", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["blogs"], 2, "cache must be invalidated by the create")
}

func TestSlugFilterIgnoredForSluglessResources(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPost, "/api/reviews", map[string]any{
		"name":     "Ada",
		"feedback": "Great work",
	}, true)
	require.Equal(t, http.StatusCreated, code, "response: %v", resp)

	// Reviews have no slug; the filter falls through to the full list.
	code, resp = srv.do(t, http.MethodGet, "/api/reviews?slug=anything", nil, false)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["reviews"], 1)
}

func TestWorkPostRequiresImage(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPost, "/api/work", map[string]any{"title": "Case Study"}, true)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MISSING_FIELDS", resp["error"])
	assert.Contains(t, resp["message"], "image")
}
