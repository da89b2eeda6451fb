// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDuplicateSlug is returned when an insert or update would violate the
// unique slug constraint for a resource.
var ErrDuplicateSlug = errors.New("duplicate slug")

// ContentRecord is a stored content document. The type-specific fields
// live in Payload as JSON; resource, status and slug are promoted to
// columns so that visibility filtering and slug uniqueness happen in SQL.
type ContentRecord struct {
	ID        int64
	Resource  string
	Status    string
	Slug      sql.NullString
	Payload   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContentStore persists content documents for all resources.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a content store backed by db.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = "id, resource, status, slug, payload, created_at, updated_at"

func scanContent(row interface{ Scan(...any) error }) (ContentRecord, error) {
	var rec ContentRecord
	err := row.Scan(&rec.ID, &rec.Resource, &rec.Status, &rec.Slug, &rec.Payload, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

// List returns all documents of a resource, newest first. When
// publishedOnly is set, drafts are excluded.
func (s *ContentStore) List(ctx context.Context, resource string, publishedOnly bool) ([]ContentRecord, error) {
	query := "SELECT " + contentColumns + " FROM content WHERE resource = ?"
	args := []any{resource}
	if publishedOnly {
		query += " AND status = 'published'"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", resource, err)
	}
	defer func() { _ = rows.Close() }()

	var records []ContentRecord
	for rows.Next() {
		rec, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", resource, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID returns a single document. sql.ErrNoRows when absent.
func (s *ContentStore) GetByID(ctx context.Context, resource string, id int64) (ContentRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+contentColumns+" FROM content WHERE resource = ? AND id = ?", resource, id)
	return scanContent(row)
}

// GetBySlug returns the document matching slug, optionally restricted to
// published documents. sql.ErrNoRows when absent under the restriction.
func (s *ContentStore) GetBySlug(ctx context.Context, resource, slug string, publishedOnly bool) (ContentRecord, error) {
	query := "SELECT " + contentColumns + " FROM content WHERE resource = ? AND slug = ?"
	if publishedOnly {
		query += " AND status = 'published'"
	}
	row := s.db.QueryRowContext(ctx, query, resource, slug)
	return scanContent(row)
}

// SlugExists reports whether any document of the resource holds slug,
// draft or published.
func (s *ContentStore) SlugExists(ctx context.Context, resource, slug string) (bool, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM content WHERE resource = ? AND slug = ?", resource, slug).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking slug: %w", err)
	}
	return count > 0, nil
}

// SlugExistsExcluding is SlugExists ignoring the given document, used
// when updating a document in place.
func (s *ContentStore) SlugExistsExcluding(ctx context.Context, resource, slug string, id int64) (bool, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM content WHERE resource = ? AND slug = ? AND id != ?", resource, slug, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking slug: %w", err)
	}
	return count > 0, nil
}

// Insert stores a new document and returns its assigned ID. A violation
// of the slug index maps to ErrDuplicateSlug.
func (s *ContentStore) Insert(ctx context.Context, rec ContentRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO content (resource, status, slug, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		rec.Resource, rec.Status, rec.Slug, rec.Payload, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateSlug
		}
		return 0, fmt.Errorf("inserting %s: %w", rec.Resource, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading insert id: %w", err)
	}
	return id, nil
}

// Update overwrites the mutable columns of a document. Returns
// sql.ErrNoRows when no document matched, ErrDuplicateSlug on a slug
// collision. CreatedAt is never touched.
func (s *ContentStore) Update(ctx context.Context, rec ContentRecord) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE content SET status = ?, slug = ?, payload = ?, updated_at = ? WHERE resource = ? AND id = ?",
		rec.Status, rec.Slug, rec.Payload, rec.UpdatedAt, rec.Resource, rec.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("updating %s %d: %w", rec.Resource, rec.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading update result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete hard-deletes a document. Returns sql.ErrNoRows when no document
// matched.
func (s *ContentStore) Delete(ctx context.Context, resource string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM content WHERE resource = ? AND id = ?", resource, id)
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", resource, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading delete result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure. The driver surfaces this as a plain error string.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
