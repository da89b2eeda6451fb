// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/halcyonlabs/studio-api/internal/model"
)

// EventStore persists operational event-log entries.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates an event store backed by db.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// Insert stores an event-log entry.
func (s *EventStore) Insert(ctx context.Context, ev model.LogEvent) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)",
		ev.Level, ev.Category, ev.Message, ev.Metadata, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *EventStore) Recent(ctx context.Context, limit int) ([]model.LogEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, level, category, message, metadata, created_at FROM events ORDER BY created_at DESC, id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.LogEvent
	for rows.Next() {
		var ev model.LogEvent
		if err := rows.Scan(&ev.ID, &ev.Level, &ev.Category, &ev.Message, &ev.Metadata, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
