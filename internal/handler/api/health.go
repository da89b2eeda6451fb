// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"log/slog"
	"net/http"
)

// HealthHandler answers liveness probes with a database ping.
type HealthHandler struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(db *sql.DB, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// Check handles GET /api/healthz.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("health check database ping failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Database unavailable", KindFetchError)
		return
	}
	WriteMessage(w, http.StatusOK, "ok")
}
