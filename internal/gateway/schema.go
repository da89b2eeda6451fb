// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package gateway

import (
	"github.com/halcyonlabs/studio-api/internal/model"
	"github.com/halcyonlabs/studio-api/internal/sanitize"
	"github.com/halcyonlabs/studio-api/internal/store"
)

// Blogs creates the blog gateway. Blogs are the only slugged type.
func Blogs(cs *store.ContentStore) *Gateway[model.Blog] {
	return New(cs, Schema[model.Blog]{
		Resource: "blogs",
		Sanitize: sanitize.Blog,
		Missing: func(b model.Blog) []string {
			return requireFields(field{"title", b.Title})
		},
		Status: func(b model.Blog) string { return b.Status },
		Slug:   func(b model.Blog) string { return b.Slug },
	})
}

// Positions creates the open-positions gateway.
func Positions(cs *store.ContentStore) *Gateway[model.Position] {
	return New(cs, Schema[model.Position]{
		Resource: "positions",
		Sanitize: sanitize.Position,
		Missing: func(p model.Position) []string {
			return requireFields(field{"title", p.Title})
		},
		Status: func(p model.Position) string { return p.Status },
	})
}

// WorkPosts creates the portfolio gateway.
func WorkPosts(cs *store.ContentStore) *Gateway[model.WorkPost] {
	return New(cs, Schema[model.WorkPost]{
		Resource: "work",
		Sanitize: sanitize.WorkPost,
		Missing: func(w model.WorkPost) []string {
			return requireFields(field{"title", w.Title}, field{"image", w.Image})
		},
		Status: func(w model.WorkPost) string { return w.Status },
	})
}

// Reviews creates the testimonials gateway.
func Reviews(cs *store.ContentStore) *Gateway[model.Review] {
	return New(cs, Schema[model.Review]{
		Resource: "reviews",
		Sanitize: sanitize.Review,
		Missing: func(r model.Review) []string {
			return requireFields(field{"name", r.Name}, field{"feedback", r.Feedback})
		},
		Status: func(r model.Review) string { return r.Status },
	})
}

// Events creates the timeline gateway.
func Events(cs *store.ContentStore) *Gateway[model.Event] {
	return New(cs, Schema[model.Event]{
		Resource: "events",
		Sanitize: sanitize.Event,
		Missing: func(e model.Event) []string {
			missing := requireFields(field{"title", e.Title}, field{"date", e.Date})
			if len(e.Content) == 0 {
				missing = append(missing, "content")
			}
			return missing
		},
		Status: func(e model.Event) string { return e.Status },
	})
}

// TeamMembers creates the team-page gateway.
func TeamMembers(cs *store.ContentStore) *Gateway[model.TeamMember] {
	return New(cs, Schema[model.TeamMember]{
		Resource: "team",
		Sanitize: sanitize.TeamMember,
		Missing: func(m model.TeamMember) []string {
			return requireFields(field{"name", m.Name}, field{"role", m.Role})
		},
		Status: func(m model.TeamMember) string { return m.Status },
	})
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
