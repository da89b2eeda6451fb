// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package gateway mediates all reads and writes for content documents.
// One generic gateway per content type composes the admin boundary,
// sanitization, validation and persistence, so that the six content
// types share a single skeleton instead of six copy-pasted handlers.
package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/halcyonlabs/studio-api/internal/model"
	"github.com/halcyonlabs/studio-api/internal/store"
)

// Gateway errors. Handlers map these onto the wire taxonomy.
var (
	ErrUnauthorized  = errors.New("admin credentials required")
	ErrMissingID     = errors.New("missing document id")
	ErrNotFound      = errors.New("document not found")
	ErrDuplicateSlug = errors.New("slug already in use")
)

// MissingFieldsError reports required fields that were empty after
// sanitization.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Viewer describes the caller of a read operation. Drafts are visible
// only when the caller is admin AND explicitly asked for them; an
// admin's default view is the public view.
type Viewer struct {
	Admin         bool
	IncludeDrafts bool
}

// SeesDrafts reports whether non-published documents are visible to the
// viewer.
func (v Viewer) SeesDrafts() bool {
	return v.Admin && v.IncludeDrafts
}

// Visible reports whether a document with the given status is visible to
// the viewer.
func (v Viewer) Visible(status string) bool {
	return status == model.StatusPublished || v.SeesDrafts()
}

// Schema describes one content type to the gateway: how to sanitize a
// body into its canonical document, which fields are required, and how
// to read the document's status and (for blogs) slug.
type Schema[T any] struct {
	// Resource is the collection name, e.g. "blogs".
	Resource string

	// Sanitize converts an untrusted body into the canonical document.
	Sanitize func(body map[string]any) T

	// Missing returns the names of required fields that are empty after
	// sanitization.
	Missing func(doc T) []string

	// Status reads the document's normalized status.
	Status func(doc T) string

	// Slug reads the document's slug. Nil for types without slugs.
	Slug func(doc T) string
}

// Item is a stored document together with its store-assigned metadata.
// It marshals flat: the document's fields plus id, createdAt and
// updatedAt, with id as a plain string.
type Item[T any] struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Doc       T
}

// MarshalJSON flattens the document and its metadata into one object.
func (it Item[T]) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(it.Doc)
	if err != nil {
		return nil, err
	}
	flat := make(map[string]any)
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	flat["id"] = it.ID
	flat["createdAt"] = it.CreatedAt
	flat["updatedAt"] = it.UpdatedAt
	return json.Marshal(flat)
}

// Gateway mediates access to one content type.
type Gateway[T any] struct {
	schema Schema[T]
	store  *store.ContentStore
	now    func() time.Time
}

// New creates a gateway for the given schema.
func New[T any](cs *store.ContentStore, schema Schema[T]) *Gateway[T] {
	return &Gateway[T]{
		schema: schema,
		store:  cs,
		now:    time.Now,
	}
}

// Resource returns the collection name the gateway serves.
func (g *Gateway[T]) Resource() string {
	return g.schema.Resource
}

// HasSlug reports whether the content type supports slug lookup.
func (g *Gateway[T]) HasSlug() bool {
	return g.schema.Slug != nil
}

// List returns all documents visible to the viewer, newest first.
func (g *Gateway[T]) List(ctx context.Context, viewer Viewer) ([]Item[T], error) {
	records, err := g.store.List(ctx, g.schema.Resource, !viewer.SeesDrafts())
	if err != nil {
		return nil, err
	}
	items := make([]Item[T], 0, len(records))
	for _, rec := range records {
		item, err := g.decode(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Get returns a single document by id under the viewer's visibility
// rules. A draft is ErrNotFound to a viewer that cannot see drafts.
func (g *Gateway[T]) Get(ctx context.Context, viewer Viewer, id string) (Item[T], error) {
	numID, err := parseID(id)
	if err != nil {
		return Item[T]{}, ErrNotFound
	}
	rec, err := g.store.GetByID(ctx, g.schema.Resource, numID)
	if errors.Is(err, sql.ErrNoRows) {
		return Item[T]{}, ErrNotFound
	}
	if err != nil {
		return Item[T]{}, err
	}
	if !viewer.Visible(rec.Status) {
		return Item[T]{}, ErrNotFound
	}
	return g.decode(rec)
}

// GetBySlug returns the document matching slug under the viewer's
// visibility rules. Only valid for slugged types.
func (g *Gateway[T]) GetBySlug(ctx context.Context, viewer Viewer, slug string) (Item[T], error) {
	rec, err := g.store.GetBySlug(ctx, g.schema.Resource, slug, !viewer.SeesDrafts())
	if errors.Is(err, sql.ErrNoRows) {
		return Item[T]{}, ErrNotFound
	}
	if err != nil {
		return Item[T]{}, err
	}
	return g.decode(rec)
}

// Create sanitizes body into a new document and persists it. Rejected
// before any sanitization when the viewer is not admin, and before any
// persistence call when required fields are missing.
func (g *Gateway[T]) Create(ctx context.Context, viewer Viewer, body map[string]any) (Item[T], error) {
	if !viewer.Admin {
		return Item[T]{}, ErrUnauthorized
	}

	doc := g.schema.Sanitize(body)
	if missing := g.schema.Missing(doc); len(missing) > 0 {
		return Item[T]{}, &MissingFieldsError{Fields: missing}
	}

	slug := g.slugOf(doc)
	if slug != "" {
		exists, err := g.store.SlugExists(ctx, g.schema.Resource, slug)
		if err != nil {
			return Item[T]{}, err
		}
		if exists {
			return Item[T]{}, ErrDuplicateSlug
		}
	}

	now := g.now().UTC()
	rec := store.ContentRecord{
		Resource:  g.schema.Resource,
		Status:    g.schema.Status(doc),
		Slug:      nullSlug(slug),
		Payload:   mustMarshal(doc),
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := g.store.Insert(ctx, rec)
	if errors.Is(err, store.ErrDuplicateSlug) {
		// Lost the race after the pre-check; the unique index is the
		// authoritative gate.
		return Item[T]{}, ErrDuplicateSlug
	}
	if err != nil {
		return Item[T]{}, err
	}

	return Item[T]{
		ID:        strconv.FormatInt(id, 10),
		CreatedAt: now,
		UpdatedAt: now,
		Doc:       doc,
	}, nil
}

// Update replaces all mutable fields of the document with the sanitized
// body. Full overwrite semantics: fields omitted from the input revert
// to sanitization defaults. CreatedAt is never touched.
func (g *Gateway[T]) Update(ctx context.Context, viewer Viewer, id string, body map[string]any) (Item[T], error) {
	if !viewer.Admin {
		return Item[T]{}, ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return Item[T]{}, ErrMissingID
	}
	numID, err := parseID(id)
	if err != nil {
		return Item[T]{}, ErrNotFound
	}

	doc := g.schema.Sanitize(body)
	if missing := g.schema.Missing(doc); len(missing) > 0 {
		return Item[T]{}, &MissingFieldsError{Fields: missing}
	}

	slug := g.slugOf(doc)
	if slug != "" {
		exists, err := g.store.SlugExistsExcluding(ctx, g.schema.Resource, slug, numID)
		if err != nil {
			return Item[T]{}, err
		}
		if exists {
			return Item[T]{}, ErrDuplicateSlug
		}
	}

	now := g.now().UTC()
	err = g.store.Update(ctx, store.ContentRecord{
		ID:        numID,
		Resource:  g.schema.Resource,
		Status:    g.schema.Status(doc),
		Slug:      nullSlug(slug),
		Payload:   mustMarshal(doc),
		UpdatedAt: now,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Item[T]{}, ErrNotFound
	}
	if errors.Is(err, store.ErrDuplicateSlug) {
		return Item[T]{}, ErrDuplicateSlug
	}
	if err != nil {
		return Item[T]{}, err
	}

	rec, err := g.store.GetByID(ctx, g.schema.Resource, numID)
	if err != nil {
		return Item[T]{}, err
	}
	return g.decode(rec)
}

// Delete hard-deletes a document regardless of its status.
func (g *Gateway[T]) Delete(ctx context.Context, viewer Viewer, id string) error {
	if !viewer.Admin {
		return ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	numID, err := parseID(id)
	if err != nil {
		return ErrNotFound
	}

	err = g.store.Delete(ctx, g.schema.Resource, numID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// decode turns a stored record back into an item.
func (g *Gateway[T]) decode(rec store.ContentRecord) (Item[T], error) {
	var doc T
	if err := json.Unmarshal(rec.Payload, &doc); err != nil {
		return Item[T]{}, fmt.Errorf("decoding %s %d: %w", rec.Resource, rec.ID, err)
	}
	return Item[T]{
		ID:        strconv.FormatInt(rec.ID, 10),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Doc:       doc,
	}, nil
}

func (g *Gateway[T]) slugOf(doc T) string {
	if g.schema.Slug == nil {
		return ""
	}
	return g.schema.Slug(doc)
}

func parseID(id string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(id), 10, 64)
}

func nullSlug(slug string) sql.NullString {
	return sql.NullString{String: slug, Valid: slug != ""}
}

// mustMarshal encodes a sanitized document. Canonical documents are
// plain structs of strings and string slices; encoding cannot fail.
func mustMarshal(doc any) []byte {
	payload, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return payload
}
