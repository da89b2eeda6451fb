// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth decides whether a request carries admin credentials.
// The mechanism lives behind the Authenticator interface so the static
// shared secret can be swapped for signed tokens without touching the
// gateway layer.
package auth

import "net/http"

// Accepted admin header spellings. http.Header canonicalizes names, so
// lookups are case-insensitive.
const (
	HeaderAdminToken  = "X-Admin-Token"
	HeaderAdminSecret = "X-Admin-Secret"
)

// Identity describes what a caller is allowed to do.
type Identity struct {
	Admin bool
}

// Authenticator resolves a request to an identity.
type Authenticator interface {
	// Authenticate inspects request credentials. It never fails; an
	// unrecognized caller is simply not admin.
	Authenticate(r *http.Request) Identity

	// Configured reports whether the server holds a secret at all.
	// An unconfigured authenticator treats no caller as admin.
	Configured() bool
}

// StaticSecret authenticates by comparing an admin header against a
// single server-held secret.
type StaticSecret struct {
	secret string
}

// NewStaticSecret creates a static-secret authenticator. An empty secret
// yields an authenticator that never grants admin, even to callers that
// send a matching empty header value.
func NewStaticSecret(secret string) *StaticSecret {
	return &StaticSecret{secret: secret}
}

// Authenticate implements Authenticator.
func (a *StaticSecret) Authenticate(r *http.Request) Identity {
	if a.secret == "" {
		return Identity{}
	}
	token := Token(r)
	return Identity{Admin: token == a.secret}
}

// Configured implements Authenticator.
func (a *StaticSecret) Configured() bool {
	return a.secret != ""
}

// Token extracts the presented admin credential from either accepted
// header, preferring X-Admin-Token.
func Token(r *http.Request) string {
	if token := r.Header.Get(HeaderAdminToken); token != "" {
		return token
	}
	return r.Header.Get(HeaderAdminSecret)
}
