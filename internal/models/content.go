// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ContentEntry is a single editable piece of storefront copy, keyed by a
// stable identifier (e.g. "home.hero_title"). Each entry carries the last
// published value and, optionally, a pending unpublished draft.
type ContentEntry struct {
	Key             string     `json:"key"`
	LiveValue       string     `json:"content"`
	DraftValue      *string    `json:"draft_content,omitempty"`
	IsPublished     bool       `json:"is_published"`
	LastPublishedAt *time.Time `json:"last_published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CategoryStructureKey is the reserved content key whose value holds the
// JSON-encoded product taxonomy. Unlike other keys, edits to it are
// auto-published so product forms see taxonomy changes immediately.
const CategoryStructureKey = "category_structure"

// HasUnpublishedChanges reports whether the entry carries a draft that
// differs from the live value. Publishing keeps the draft in place, so the
// dirty check is equality-based rather than presence-based: right after a
// publish draft and live are equal and the entry reads as clean.
func (c *ContentEntry) HasUnpublishedChanges() bool {
	return c.DraftValue != nil && *c.DraftValue != c.LiveValue
}
