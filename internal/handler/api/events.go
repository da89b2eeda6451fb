// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"

	"github.com/halcyonlabs/studio-api/internal/middleware"
	"github.com/halcyonlabs/studio-api/internal/store"
)

// recentEventLimit caps the operational event listing.
const recentEventLimit = 100

// EventLogHandler exposes the operational event log to admins.
type EventLogHandler struct {
	store  *store.EventStore
	logger *slog.Logger
}

// NewEventLogHandler creates an event log handler.
func NewEventLogHandler(es *store.EventStore, logger *slog.Logger) *EventLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLogHandler{
		store:  es,
		logger: logger,
	}
}

// List handles GET /api/events, admin only, newest first.
func (h *EventLogHandler) List(w http.ResponseWriter, r *http.Request) {
	if !middleware.GetIdentity(r).Admin {
		WriteError(w, http.StatusUnauthorized, "Admin credentials required", KindUnauthorized)
		return
	}

	events, err := h.store.Recent(r.Context(), recentEventLimit)
	if err != nil {
		h.logger.Error("event log list failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Something went wrong", KindFetchError)
		return
	}

	WriteEnvelope(w, http.StatusOK, "Events fetched successfully", "events", events)
}
