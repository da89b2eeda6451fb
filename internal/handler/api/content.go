// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/halcyonlabs/studio-api/internal/cache"
	"github.com/halcyonlabs/studio-api/internal/gateway"
	"github.com/halcyonlabs/studio-api/internal/middleware"
)

// ResourceConfig names one content resource for the HTTP layer.
type ResourceConfig struct {
	Singular string // payload key for a single document, e.g. "blog"
	Plural   string // payload key for a list, e.g. "blogs"
	Label    string // message noun, e.g. "Blog"
	Cache    cache.Cache
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// Resource serves the uniform CRUD surface for one content type. The
// anonymous published list is cached; any mutation invalidates it.
type Resource[T any] struct {
	gw       *gateway.Gateway[T]
	singular string
	plural   string
	label    string
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewResource creates the handler set for one content type.
func NewResource[T any](gw *gateway.Gateway[T], cfg ResourceConfig) *Resource[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = time.Minute
	}
	return &Resource[T]{
		gw:       gw,
		singular: cfg.Singular,
		plural:   cfg.Plural,
		label:    cfg.Label,
		cache:    cfg.Cache,
		cacheTTL: ttl,
		logger:   logger,
	}
}

// Register mounts the CRUD routes on the given router.
func (h *Resource[T]) Register(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Delete("/", h.Delete)
}

// viewerFrom derives the gateway viewer from the request identity and
// the includeDrafts query flag.
func viewerFrom(r *http.Request) gateway.Viewer {
	return gateway.Viewer{
		Admin:         middleware.GetIdentity(r).Admin,
		IncludeDrafts: r.URL.Query().Get("includeDrafts") == "true",
	}
}

// List handles GET. An id or slug query parameter narrows the result to
// a single document; slug applies only to resources that carry one.
func (h *Resource[T]) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := viewerFrom(r)
	query := r.URL.Query()

	if id := query.Get("id"); id != "" {
		item, err := h.gw.Get(ctx, viewer, id)
		if err != nil {
			h.writeGatewayError(w, err, KindFetchError)
			return
		}
		WriteEnvelope(w, http.StatusOK, h.label+" fetched successfully", h.singular, item)
		return
	}

	if slug := query.Get("slug"); slug != "" && h.gw.HasSlug() {
		item, err := h.gw.GetBySlug(ctx, viewer, slug)
		if err != nil {
			h.writeGatewayError(w, err, KindFetchError)
			return
		}
		WriteEnvelope(w, http.StatusOK, h.label+" fetched successfully", h.singular, item)
		return
	}

	// Only the anonymous published view is cacheable.
	cacheable := h.cache != nil && !viewer.SeesDrafts()
	if cacheable {
		if data, err := h.cache.Get(ctx, h.cacheKey()); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}
	}

	items, err := h.gw.List(ctx, viewer)
	if err != nil {
		h.logger.Error("content list failed", "resource", h.gw.Resource(), "error", err)
		h.writeGatewayError(w, err, KindFetchError)
		return
	}

	envelope := map[string]any{
		"message": h.label + "s fetched successfully",
		h.plural:  items,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		h.writeGatewayError(w, err, KindFetchError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)

	if cacheable {
		_ = h.cache.Set(ctx, h.cacheKey(), data, h.cacheTTL)
	}
}

// Create handles POST.
func (h *Resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body", KindInvalidBody)
		return
	}

	item, err := h.gw.Create(ctx, viewerFrom(r), body)
	if err != nil {
		h.writeGatewayError(w, err, KindCreateError)
		return
	}

	h.invalidate(ctx)
	WriteEnvelope(w, http.StatusCreated, h.label+" created successfully", h.singular, item)
}

// Update handles PUT. The target id travels in the body.
func (h *Resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body", KindInvalidBody)
		return
	}

	item, err := h.gw.Update(ctx, viewerFrom(r), idFromBody(body), body)
	if err != nil {
		h.writeGatewayError(w, err, KindUpdateError)
		return
	}

	h.invalidate(ctx)
	WriteEnvelope(w, http.StatusOK, h.label+" updated successfully", h.singular, item)
}

// Delete handles DELETE. The target id travels in the body.
func (h *Resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body", KindInvalidBody)
		return
	}

	if err := h.gw.Delete(ctx, viewerFrom(r), idFromBody(body)); err != nil {
		h.writeGatewayError(w, err, KindDeleteError)
		return
	}

	h.invalidate(ctx)
	WriteMessage(w, http.StatusOK, h.label+" deleted successfully")
}

// idFromBody reads the target id, tolerating clients that send it as a
// JSON number.
func idFromBody(body map[string]any) string {
	switch v := body["id"].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

func (h *Resource[T]) cacheKey() string {
	return "list:" + h.gw.Resource()
}

// invalidate drops the cached public list after a mutation.
func (h *Resource[T]) invalidate(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, h.cacheKey()); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		h.logger.Warn("cache invalidation failed", "resource", h.gw.Resource(), "error", err)
	}
}

// writeGatewayError maps gateway errors onto the HTTP error envelope.
// Unrecognized errors surface as an opaque 500 with the operation's
// generic kind.
func (h *Resource[T]) writeGatewayError(w http.ResponseWriter, err error, opKind string) {
	var missing *gateway.MissingFieldsError

	switch {
	case errors.Is(err, gateway.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "Admin credentials required", KindUnauthorized)
	case errors.Is(err, gateway.ErrMissingID):
		WriteError(w, http.StatusBadRequest, h.label+" id is required", KindMissingID)
	case errors.Is(err, gateway.ErrNotFound):
		WriteError(w, http.StatusNotFound, h.label+" not found", KindNotFound)
	case errors.Is(err, gateway.ErrDuplicateSlug):
		WriteError(w, http.StatusConflict, "A blog with this slug already exists", KindDuplicateSlug)
	case errors.As(err, &missing):
		WriteError(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing.Fields, ", "), KindMissingFields)
	default:
		h.logger.Error("content operation failed", "resource", h.gw.Resource(), "kind", opKind, "error", err)
		WriteError(w, http.StatusInternalServerError, "Something went wrong", opKind)
	}
}
