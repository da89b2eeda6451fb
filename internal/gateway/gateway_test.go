package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/studio-api/internal/model"
	"github.com/halcyonlabs/studio-api/internal/store"
)

var (
	anon          = Viewer{}
	admin         = Viewer{Admin: true}
	adminDrafts   = Viewer{Admin: true, IncludeDrafts: true}
	curiousPublic = Viewer{IncludeDrafts: true}
)

func testStore(t *testing.T) *store.ContentStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })

	return store.NewContentStore(db)
}

func TestVisibilityConjunction(t *testing.T) {
	// All 2x2x2 combinations of document status, admin, and drafts
	// requested. Drafts are visible only to admins that asked.
	tests := []struct {
		name    string
		status  string
		viewer  Viewer
		visible bool
	}{
		{"published to anonymous", model.StatusPublished, anon, true},
		{"published to anonymous asking for drafts", model.StatusPublished, curiousPublic, true},
		{"published to admin", model.StatusPublished, admin, true},
		{"published to admin asking for drafts", model.StatusPublished, adminDrafts, true},
		{"draft to anonymous", model.StatusDraft, anon, false},
		{"draft to anonymous asking for drafts", model.StatusDraft, curiousPublic, false},
		{"draft to admin not asking", model.StatusDraft, admin, false},
		{"draft to admin asking for drafts", model.StatusDraft, adminDrafts, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.viewer.Visible(tt.status); got != tt.visible {
				t.Errorf("Visible(%q) = %v, want %v", tt.status, got, tt.visible)
			}
		})
	}
}

func TestListVisibility(t *testing.T) {
	ctx := context.Background()
	gw := Blogs(testStore(t))

	_, err := gw.Create(ctx, admin, map[string]any{"title": "Public Post"})
	require.NoError(t, err)
	_, err = gw.Create(ctx, admin, map[string]any{"title": "Hidden Post", "status": "draft"})
	require.NoError(t, err)

	public, err := gw.List(ctx, anon)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Public Post", public[0].Doc.Title)

	// An admin's default view is the public view.
	adminDefault, err := gw.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, adminDefault, 1)

	// Asking for drafts without admin changes nothing.
	asking, err := gw.List(ctx, curiousPublic)
	require.NoError(t, err)
	assert.Len(t, asking, 1)

	all, err := gw.List(ctx, adminDrafts)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListOrderNewestFirst(t *testing.T) {
	ctx := context.Background()
	gw := Blogs(testStore(t))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	gw.now = func() time.Time { return clock }

	for _, title := range []string{"Oldest", "Middle", "Newest"} {
		_, err := gw.Create(ctx, admin, map[string]any{"title": title})
		require.NoError(t, err)
		clock = clock.Add(time.Minute)
	}

	items, err := gw.List(ctx, anon)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Newest", items[0].Doc.Title)
	assert.Equal(t, "Oldest", items[2].Doc.Title)
}

func TestCreateDerivesSlugAndStatus(t *testing.T) {
	ctx := context.Background()
	gw := Blogs(testStore(t))

	item, err := gw.Create(ctx, admin, map[string]any{
		"title":  "Hello World!",
		"status": "draft",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", item.Doc.Slug)
	assert.Equal(t, model.StatusDraft, item.Doc.Status)
	assert.NotEmpty(t, item.ID)

	// Invisible to the public, by id and by slug.
	_, err = gw.Get(ctx, anon, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = gw.GetBySlug(ctx, anon, "hello-world")
	assert.ErrorIs(t, err, ErrNotFound)

	// Visible to an admin that asked for drafts.
	got, err := gw.GetBySlug(ctx, adminDrafts, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", got.Doc.Title)
}

func TestCreateRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	gw := Blogs(testStore(t))

	_, err := gw.Create(ctx, anon, map[string]any{"title": "Nope"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Store unchanged: nothing to list even with full visibility.
	items, err := gw.List(ctx, adminDrafts)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateMissingFields(t *testing.T) {
	ctx := context.Background()
	gw := WorkPosts(testStore(t))

	_, err := gw.Create(ctx, admin, map[string]any{"title": "No Image"})
	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"image"}, missing.Fields)

	items, err := gw.List(ctx, adminDrafts)
	require.NoError(t, err)
	assert.Empty(t, items, "no document persisted on validation failure")
}

func TestDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	gw := Blogs(testStore(t))

	_, err := gw.Create(ctx, admin, map[string]any{"title": "Launch Post", "slug": "launch"})
	require.NoError(t, err)

	// Derived slug collides with the explicit one.
	_, err = gw.Create(ctx, admin, map[string]any{"title": "Launch"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	// Explicit collision, case-insensitive through lowercasing.
	_, err = gw.Create(ctx, admin, map[string]any{"title": "Other", "slug": "LAUNCH"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	// A distinct slug is fine.
	_, err = gw.Create(ctx, admin, map[string]any{"title": "Launch", "slug": "launch-2"})
	assert.NoError(t, err)
}

func TestUpdateReplacesDoesNotMerge(t *testing.T) {
	ctx := context.Background()
	gw := Positions(testStore(t))

	item, err := gw.Create(ctx, admin, map[string]any{
		"title":    "Designer",
		"applyUrl": "https://example.com/apply",
	})
	require.NoError(t, err)

	// Omitting applyUrl reverts it to the sanitization default.
	updated, err := gw.Update(ctx, admin, item.ID, map[string]any{"title": "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", updated.Doc.Title)
	assert.Equal(t, "", updated.Doc.ApplyURL)
}

func TestUpdateKeepsCreatedAtBumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	gw := Blogs(testStore(t))

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	gw.now = func() time.Time { return clock }

	item, err := gw.Create(ctx, admin, map[string]any{"title": "Post"})
	require.NoError(t, err)

	clock = base.Add(2 * time.Hour)
	updated, err := gw.Update(ctx, admin, item.ID, map[string]any{"title": "Post"})
	require.NoError(t, err)

	assert.True(t, updated.CreatedAt.Equal(base))
	assert.True(t, updated.UpdatedAt.Equal(base.Add(2*time.Hour)))
}

func TestUpdateErrors(t *testing.T) {
	ctx := context.Background()
	gw := Blogs(testStore(t))

	_, err := gw.Update(ctx, anon, "1", map[string]any{"title": "X"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = gw.Update(ctx, admin, "", map[string]any{"title": "X"})
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = gw.Update(ctx, admin, "12345", map[string]any{"title": "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = gw.Update(ctx, admin, "not-a-number", map[string]any{"title": "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteErrors(t *testing.T) {
	ctx := context.Background()
	gw := Reviews(testStore(t))

	item, err := gw.Create(ctx, admin, map[string]any{"name": "Ada", "feedback": "Great"})
	require.NoError(t, err)

	assert.ErrorIs(t, gw.Delete(ctx, anon, item.ID), ErrUnauthorized)
	assert.ErrorIs(t, gw.Delete(ctx, admin, ""), ErrMissingID)
	assert.ErrorIs(t, gw.Delete(ctx, admin, "424242"), ErrNotFound)

	require.NoError(t, gw.Delete(ctx, admin, item.ID))
	assert.ErrorIs(t, gw.Delete(ctx, admin, item.ID), ErrNotFound)

	items, err := gw.List(ctx, adminDrafts)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStatusTransitionsViaUpdate(t *testing.T) {
	ctx := context.Background()
	gw := Events(testStore(t))

	item, err := gw.Create(ctx, admin, map[string]any{
		"title":   "Office Opening",
		"date":    "2026-05-01",
		"content": []any{"We opened a new office."},
		"status":  "draft",
	})
	require.NoError(t, err)

	// draft -> published
	updated, err := gw.Update(ctx, admin, item.ID, map[string]any{
		"title":   "Office Opening",
		"date":    "2026-05-01",
		"content": []any{"We opened a new office."},
		"status":  "published",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, updated.Doc.Status)

	// An unknown status on update normalizes to published, never errors.
	updated, err = gw.Update(ctx, admin, item.ID, map[string]any{
		"title":   "Office Opening",
		"date":    "2026-05-01",
		"content": []any{"We opened a new office."},
		"status":  "archived",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, updated.Doc.Status)
}

func TestItemMarshalFlattens(t *testing.T) {
	item := Item[model.TeamMember]{
		ID:        "7",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 4, 4, 5, 0, time.UTC),
		Doc:       model.TeamMember{Name: "Grace", Role: "CTO", Status: model.StatusPublished},
	}

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, "7", flat["id"], "id is a plain string")
	assert.Equal(t, "Grace", flat["name"])
	assert.Equal(t, "published", flat["status"])
	assert.Contains(t, flat, "createdAt")
}
