// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sanitize converts untrusted request bodies into canonical
// document shapes. Every function here is pure: it never fails, never
// touches I/O, and always produces a well-typed result regardless of
// what the caller sent (missing keys, wrong types, nulls).
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/halcyonlabs/studio-api/internal/model"
	"github.com/halcyonlabs/studio-api/internal/util"
)

// strict strips all HTML from contact-form input.
var strict = bluemonday.StrictPolicy()

// String returns the trimmed string at key, or "" when the value is
// absent or not a string.
func String(body map[string]any, key string) string {
	s, ok := body[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// StringList returns the value at key filtered down to non-empty trimmed
// strings in their original relative order. Absent keys, non-array values
// and non-string entries all collapse to nothing.
func StringList(body map[string]any, key string) []string {
	raw, ok := body[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		s, ok := entry.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Status normalizes an arbitrary status value. The output is draft only
// when the input is the exact string "draft"; everything else, including
// nil, "Draft" and non-strings, normalizes to published. A strict
// allow-list, never a validation error.
func Status(v any) string {
	if s, ok := v.(string); ok && s == model.StatusDraft {
		return model.StatusDraft
	}
	return model.StatusPublished
}

// Text returns the trimmed string at key with all HTML stripped.
// Used for contact-form fields that end up in notification emails.
func Text(body map[string]any, key string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(String(body, key))))
}

// Blog canonicalizes a blog input. An explicitly supplied slug is
// lowercased and used as-is; otherwise the slug derives from the title.
func Blog(body map[string]any) model.Blog {
	b := model.Blog{
		Title:     String(body, "title"),
		ReadTime:  String(body, "readTime"),
		HeroImage: String(body, "heroImage"),
		Content:   StringList(body, "content"),
		Status:    Status(body["status"]),
	}
	if slug := String(body, "slug"); slug != "" {
		b.Slug = strings.ToLower(slug)
	} else {
		b.Slug = util.Slugify(b.Title)
	}
	return b
}

// Position canonicalizes an open-position input.
func Position(body map[string]any) model.Position {
	return model.Position{
		Title:       String(body, "title"),
		Description: String(body, "description"),
		ApplyURL:    String(body, "applyUrl"),
		Status:      Status(body["status"]),
	}
}

// WorkPost canonicalizes a portfolio-entry input.
func WorkPost(body map[string]any) model.WorkPost {
	return model.WorkPost{
		Title:       String(body, "title"),
		Image:       String(body, "image"),
		Description: String(body, "description"),
		Alt:         String(body, "alt"),
		Categories:  StringList(body, "categories"),
		Tags:        StringList(body, "tags"),
		Status:      Status(body["status"]),
	}
}

// Review canonicalizes a testimonial input.
func Review(body map[string]any) model.Review {
	return model.Review{
		Name:     String(body, "name"),
		Feedback: String(body, "feedback"),
		Role:     String(body, "role"),
		Avatar:   String(body, "avatar"),
		ImageURL: String(body, "imageUrl"),
		Rating:   String(body, "rating"),
		Order:    String(body, "order"),
		Status:   Status(body["status"]),
	}
}

// Event canonicalizes a timeline-entry input.
func Event(body map[string]any) model.Event {
	return model.Event{
		Title:   String(body, "title"),
		Date:    String(body, "date"),
		Content: StringList(body, "content"),
		Emoji:   String(body, "emoji"),
		Author:  String(body, "author"),
		Order:   String(body, "order"),
		Status:  Status(body["status"]),
	}
}

// TeamMember canonicalizes a team-page input.
func TeamMember(body map[string]any) model.TeamMember {
	return model.TeamMember{
		Name:     String(body, "name"),
		Role:     String(body, "role"),
		LinkedIn: String(body, "linkedin"),
		Image:    String(body, "image"),
		Status:   Status(body["status"]),
	}
}
