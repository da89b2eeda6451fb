// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"

	"github.com/halcyonlabs/studio-api/internal/auth"
)

// AdminHandler serves the admin login probe. There is no session: the
// probe only tells the admin panel whether its stored credential is
// still accepted.
type AdminHandler struct {
	auth   auth.Authenticator
	logger *slog.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(a auth.Authenticator, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		auth:   a,
		logger: logger,
	}
}

// Login handles POST /api/admin/login. A server without a configured
// secret cannot authenticate anyone; that is a deployment fault, not a
// caller fault, so it surfaces as 500.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.auth.Configured() {
		h.logger.Error("admin login attempted without a configured secret")
		WriteError(w, http.StatusInternalServerError, "Admin access is not configured", KindAdminConfigMissing)
		return
	}

	if !h.auth.Authenticate(r).Admin {
		h.logger.Warn("admin login rejected", "remote", r.RemoteAddr)
		WriteError(w, http.StatusUnauthorized, "Invalid admin credentials", KindUnauthorized)
		return
	}

	WriteMessage(w, http.StatusOK, "Login successful")
}
