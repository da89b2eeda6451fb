// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers for the content API.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Stable machine-readable error kinds. Clients branch on these, so they
// never change once published.
const (
	KindUnauthorized       = "UNAUTHORIZED"
	KindMissingFields      = "MISSING_FIELDS"
	KindMissingID          = "MISSING_ID"
	KindDuplicateSlug      = "DUPLICATE_SLUG"
	KindNotFound           = "NOT_FOUND"
	KindAdminConfigMissing = "ADMIN_CONFIG_MISSING"
	KindInvalidBody        = "INVALID_BODY"
	KindFileTooLarge       = "FILE_TOO_LARGE"
	KindFetchError         = "FETCH_ERROR"
	KindCreateError        = "CREATE_ERROR"
	KindUpdateError        = "UPDATE_ERROR"
	KindDeleteError        = "DELETE_ERROR"
	KindUploadError        = "UPLOAD_ERROR"
)

// writeJSON writes an arbitrary JSON response body.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the failure envelope {message, error}.
func WriteError(w http.ResponseWriter, statusCode int, message, kind string) {
	writeJSON(w, statusCode, map[string]string{
		"message": message,
		"error":   kind,
	})
}

// WriteMessage writes the success envelope with no payload.
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"message": message,
	})
}

// WriteEnvelope writes the success envelope {message, <key>: payload}.
func WriteEnvelope(w http.ResponseWriter, statusCode int, message, key string, payload any) {
	writeJSON(w, statusCode, map[string]any{
		"message": message,
		key:       payload,
	})
}

// decodeBody decodes a JSON request body into an untyped map. An empty
// body decodes to an empty map so sanitization can apply its defaults.
func decodeBody(r *http.Request) (map[string]any, error) {
	body := map[string]any{}
	if r.Body == nil {
		return body, nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	return body, nil
}
