// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for request identity,
// CORS and metrics collection.
package middleware

import (
	"context"
	"net/http"

	"github.com/halcyonlabs/studio-api/internal/auth"
)

// ContextKey is a typed key for request context values.
type ContextKey string

// ContextKeyIdentity is the context key for the resolved caller identity.
const ContextKeyIdentity ContextKey = "identity"

// Identity resolves the caller's identity once per request and stores it
// in the request context for handlers downstream.
func Identity(authenticator auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := authenticator.Authenticate(r)
			ctx := context.WithValue(r.Context(), ContextKeyIdentity, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the identity stored by the Identity middleware.
// Requests that bypassed the middleware are anonymous.
func GetIdentity(r *http.Request) auth.Identity {
	if id, ok := r.Context().Value(ContextKeyIdentity).(auth.Identity); ok {
		return id
	}
	return auth.Identity{}
}
