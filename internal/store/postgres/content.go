// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package postgres implements the store interfaces against PostgreSQL
// using the pgx stdlib driver. Schema management lives in package database.
package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"chemtrade/internal/models"
	"chemtrade/internal/store"
)

// New wires every repository to the given database connection.
func New(db *sql.DB) *store.Stores {
	return &store.Stores{
		Content:   NewContentStore(db),
		Products:  NewProductStore(db),
		Orders:    NewOrderStore(db),
		Inquiries: NewInquiryStore(db),
		Users:     NewUserStore(db),
	}
}

// ContentStore handles all content-entry database operations.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// All returns every entry, drafts included, ordered by key.
func (s *ContentStore) All() ([]models.ContentEntry, error) {
	rows, err := s.db.Query(`
		SELECT key, live_value, draft_value, is_published,
		       last_published_at, created_at, updated_at
		FROM content_entries
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("list content entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ContentEntry
	for rows.Next() {
		var e models.ContentEntry
		if err := rows.Scan(
			&e.Key, &e.LiveValue, &e.DraftValue, &e.IsPublished,
			&e.LastPublishedAt, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan content entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get retrieves a single entry by key. Returns nil if not found.
func (s *ContentStore) Get(key string) (*models.ContentEntry, error) {
	e := &models.ContentEntry{}
	err := s.db.QueryRow(`
		SELECT key, live_value, draft_value, is_published,
		       last_published_at, created_at, updated_at
		FROM content_entries WHERE key = $1
	`, key).Scan(
		&e.Key, &e.LiveValue, &e.DraftValue, &e.IsPublished,
		&e.LastPublishedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content entry: %w", err)
	}
	return e, nil
}

// UpsertDraft creates the entry if absent (live = draft = value,
// unpublished) or replaces its draft. Live values are only ever written
// by PublishAll.
func (s *ContentStore) UpsertDraft(key, value string) (*models.ContentEntry, error) {
	e := &models.ContentEntry{}
	err := s.db.QueryRow(`
		INSERT INTO content_entries (key, live_value, draft_value, is_published)
		VALUES ($1, $2, $2, FALSE)
		ON CONFLICT (key)
		DO UPDATE SET draft_value = EXCLUDED.draft_value, updated_at = NOW()
		RETURNING key, live_value, draft_value, is_published,
		          last_published_at, created_at, updated_at
	`, key, value).Scan(
		&e.Key, &e.LiveValue, &e.DraftValue, &e.IsPublished,
		&e.LastPublishedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert content draft: %w", err)
	}
	return e, nil
}

// PublishAll promotes every present draft in one statement, which gives
// per-entry atomicity for free. Drafts are retained after promotion.
func (s *ContentStore) PublishAll(now time.Time) (int, error) {
	res, err := s.db.Exec(`
		UPDATE content_entries
		SET live_value = draft_value,
		    is_published = TRUE,
		    last_published_at = $1,
		    updated_at = $1
		WHERE draft_value IS NOT NULL
	`, now)
	if err != nil {
		return 0, fmt.Errorf("publish all: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("publish all rows: %w", err)
	}
	return int(n), nil
}
