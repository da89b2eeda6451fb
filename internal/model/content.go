// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the canonical document shapes stored by the
// content gateway. Every string field is stored trimmed, every list
// field contains only non-empty trimmed entries, and Status is always
// one of the two status constants.
package model

// Content statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Blog is a blog article. Slug is unique across all blogs and derived
// from Title when not supplied explicitly.
type Blog struct {
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	ReadTime  string   `json:"readTime"`
	HeroImage string   `json:"heroImage"`
	Content   []string `json:"content"`
	Status    string   `json:"status"`
}

// Position is an open role on the careers page.
type Position struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ApplyURL    string `json:"applyUrl"`
	Status      string `json:"status"`
}

// WorkPost is a portfolio entry.
type WorkPost struct {
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Alt         string   `json:"alt"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

// Review is a client testimonial.
type Review struct {
	Name     string `json:"name"`
	Feedback string `json:"feedback"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
	ImageURL string `json:"imageUrl"`
	Rating   string `json:"rating"`
	Order    string `json:"order"`
	Status   string `json:"status"`
}

// Event is a timeline/news entry.
type Event struct {
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Content []string `json:"content"`
	Emoji   string   `json:"emoji"`
	Author  string   `json:"author"`
	Order   string   `json:"order"`
	Status  string   `json:"status"`
}

// TeamMember is an entry on the team page.
type TeamMember struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	LinkedIn string `json:"linkedin"`
	Image    string `json:"image"`
	Status   string `json:"status"`
}
