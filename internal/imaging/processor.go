// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded images: decode, constrain to a
// maximum dimension, re-encode and store under a generated public id.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Images larger than this on either axis are scaled down before storage.
const maxDimension = 2000

// ErrUnsupportedFormat is returned for uploads that are not a decodable
// JPEG, PNG, GIF or WebP image.
var ErrUnsupportedFormat = fmt.Errorf("unsupported image format")

// Result describes a stored upload.
type Result struct {
	URL      string
	PublicID string
	FilePath string
	Width    int
	Height   int
	Size     int64
}

// Processor stores processed uploads on the local filesystem.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a processor writing into uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{
		uploadDir: uploadDir,
	}
}

// Process reads an uploaded image, scales it to fit within the maximum
// dimension and saves it under a fresh public id. The original filename
// only contributes its extension; the stored name is generated.
func (p *Processor) Process(reader io.Reader, filename string) (*Result, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
		bounds = img.Bounds()
	}

	processed, err := encodeImage(img, format, 90)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	publicID := uuid.NewString()
	name := publicID + extensionFor(format)

	filePath, err := p.save(name, processed)
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	return &Result{
		URL:      "/uploads/" + name,
		PublicID: publicID,
		FilePath: filePath,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Size:     int64(len(processed)),
	}, nil
}

// Delete removes a stored upload by public id. Missing files are not an
// error.
func (p *Processor) Delete(publicID string) error {
	if filepath.Base(publicID) != publicID || publicID == "." || publicID == "" {
		return fmt.Errorf("invalid public id")
	}
	matches, err := filepath.Glob(filepath.Join(p.uploadDir, publicID+".*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete upload: %w", err)
		}
	}
	return nil
}

// save writes image data into the upload directory.
func (p *Processor) save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(p.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	filePath := filepath.Join(p.uploadDir, name)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", err
	}
	return filePath, nil
}

// encodeImage encodes an image to bytes with the specified format and quality.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		// WebP encoding is not available in pure Go; store as JPEG.
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// extensionFor maps a detected format to the stored file extension.
func extensionFor(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
