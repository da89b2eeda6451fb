// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/halcyonlabs/studio-api/internal/model"
)

// ContactStore persists contact-form submissions.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore creates a contact store backed by db.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

// Insert stores a submission and returns its assigned ID.
func (s *ContactStore) Insert(ctx context.Context, msg model.ContactMessage) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO contact_messages (name, email, message, created_at) VALUES (?, ?, ?, ?)",
		msg.Name, msg.Email, msg.Message, msg.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting contact message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading insert id: %w", err)
	}
	return id, nil
}

// List returns all submissions, newest first.
func (s *ContactStore) List(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, message, created_at FROM contact_messages ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []model.ContactMessage
	for rows.Next() {
		var msg model.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning contact message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
