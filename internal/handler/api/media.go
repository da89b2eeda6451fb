// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/halcyonlabs/studio-api/internal/imaging"
	"github.com/halcyonlabs/studio-api/internal/metrics"
	"github.com/halcyonlabs/studio-api/internal/middleware"
)

// UploadHandler accepts admin image uploads and stores the processed
// result locally. The gateway layer only ever stores the returned URL
// string; nothing validates that stored documents point at live files.
type UploadHandler struct {
	processor *imaging.Processor
	maxBytes  int64
	logger    *slog.Logger
}

// NewUploadHandler creates an upload handler with the given size cap.
func NewUploadHandler(p *imaging.Processor, maxBytes int64, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{
		processor: p,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !middleware.GetIdentity(r).Admin {
		WriteError(w, http.StatusUnauthorized, "Admin credentials required", KindUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		// The multipart reader does not always wrap the limit error.
		if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
			WriteError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large", KindFileTooLarge)
			return
		}
		WriteError(w, http.StatusBadRequest, "Failed to parse multipart form", KindInvalidBody)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// Older admin panels send the field as "image".
		file, header, err = r.FormFile("image")
	}
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No file provided. Use the 'file' field", KindInvalidBody)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.processor.Process(file, header.Filename)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			WriteError(w, http.StatusBadRequest, "Unsupported image format", KindInvalidBody)
			return
		}
		h.logger.Error("image upload failed", "filename", header.Filename, "error", err)
		WriteError(w, http.StatusInternalServerError, "Something went wrong", KindUploadError)
		return
	}

	h.logger.Info("image upload stored",
		"public_id", result.PublicID,
		"size", result.Size,
		"width", result.Width,
		"height", result.Height)

	metrics.Uploads.Inc()
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "Image uploaded successfully",
		"url":      result.URL,
		"publicId": result.PublicID,
	})
}
