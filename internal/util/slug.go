// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation with Unicode normalization support.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonSlugChars matches everything except word characters, whitespace and hyphens
	nonSlugChars = regexp.MustCompile(`[^\w\s-]+`)
	// whitespaceRun matches runs of whitespace
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a title to a URL-friendly slug.
// It lowercases, removes accents, drops everything except word characters,
// whitespace and hyphens, collapses whitespace runs to single hyphens and
// trims hyphens from both ends. The derivation is idempotent:
// Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	// Normalize unicode characters (decompose accents)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(strings.TrimSpace(result))

	// Drop all characters except word chars, whitespace and hyphens
	result = nonSlugChars.ReplaceAllString(result, "")

	// Collapse whitespace runs to single hyphens
	result = whitespaceRun.ReplaceAllString(result, "-")

	// Replace multiple hyphens with single hyphen
	result = multipleHyphens.ReplaceAllString(result, "-")

	// Trim hyphens from start and end
	return strings.Trim(result, "-")
}
