// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/halcyonlabs/studio-api/internal/mail"
	"github.com/halcyonlabs/studio-api/internal/metrics"
	"github.com/halcyonlabs/studio-api/internal/middleware"
	"github.com/halcyonlabs/studio-api/internal/model"
	"github.com/halcyonlabs/studio-api/internal/sanitize"
	"github.com/halcyonlabs/studio-api/internal/store"
)

// ContactHandler accepts contact-form submissions and lists them for
// admins. The notification email is strictly best effort: the request
// succeeds as soon as the message is persisted.
type ContactHandler struct {
	store    *store.ContactStore
	notifier *mail.Notifier
	logger   *slog.Logger
}

// NewContactHandler creates a contact handler. The notifier may be nil.
func NewContactHandler(cs *store.ContactStore, notifier *mail.Notifier, logger *slog.Logger) *ContactHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactHandler{
		store:    cs,
		notifier: notifier,
		logger:   logger,
	}
}

// Create handles POST /api/contact.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body", KindInvalidBody)
		return
	}

	msg := model.ContactMessage{
		Name:      sanitize.String(body, "name"),
		Email:     sanitize.String(body, "email"),
		Message:   sanitize.Text(body, "message"),
		CreatedAt: time.Now(),
	}

	var missing []string
	if msg.Name == "" {
		missing = append(missing, "name")
	}
	if msg.Email == "" {
		missing = append(missing, "email")
	}
	if msg.Message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		WriteError(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "), KindMissingFields)
		return
	}

	id, err := h.store.Insert(ctx, msg)
	if err != nil {
		h.logger.Error("contact submission failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Something went wrong", KindCreateError)
		return
	}
	msg.ID = id

	// Best effort; failures are logged by the notifier, never surfaced.
	if h.notifier != nil {
		h.notifier.Notify(msg)
	}

	metrics.ContactSubmissions.Inc()
	WriteMessage(w, http.StatusCreated, "Message sent successfully")
}

// List handles GET /api/contact, admin only, newest first.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	if !middleware.GetIdentity(r).Admin {
		WriteError(w, http.StatusUnauthorized, "Admin credentials required", KindUnauthorized)
		return
	}

	messages, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("contact list failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Something went wrong", KindFetchError)
		return
	}

	WriteEnvelope(w, http.StatusOK, "Messages fetched successfully", "messages", messages)
}
