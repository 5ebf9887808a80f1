// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store defines the repository interfaces the application is built
// against, plus the sentinel errors shared by all implementations.
// Two backends exist: store/memory (demo mode, mutex-guarded maps with an
// optional JSON snapshot file) and store/postgres (production mode).
// The backend is selected at process start by configuration.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"chemtrade/internal/models"
)

var (
	// ErrNotFound is returned by mutations targeting a missing record.
	// Lookup methods return (nil, nil) for absent records instead.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicate is returned when a unique constraint (SKU, slug,
	// email) would be violated.
	ErrDuplicate = errors.New("store: duplicate")
)

// ContentStore persists content entries and their drafts.
type ContentStore interface {
	// All returns every entry, drafts included.
	All() ([]models.ContentEntry, error)

	// Get returns the entry for key, or (nil, nil) if absent.
	Get(key string) (*models.ContentEntry, error)

	// UpsertDraft creates the entry if absent (live = draft = value,
	// unpublished) or sets its draft. The live value is never written
	// directly through this method.
	UpsertDraft(key, value string) (*models.ContentEntry, error)

	// PublishAll promotes every present draft to the live value, marks
	// the entry published and stamps it with now. Drafts are retained.
	// Promotion is atomic per entry: a concurrent reader sees an entry
	// either fully pre-publish or fully post-publish. Returns the number
	// of entries promoted.
	PublishAll(now time.Time) (int, error)
}

// ProductStore persists catalog products.
type ProductStore interface {
	List() ([]models.Product, error)
	FindByID(id uuid.UUID) (*models.Product, error)
	FindBySlug(slug string) (*models.Product, error)
	Create(p *models.Product) (*models.Product, error)
	Update(p *models.Product) error
	Delete(id uuid.UUID) error

	// RenameCategory rewrites the category field on every product whose
	// category matches oldName. Returns the number of products updated.
	// Used by taxonomy rename cascades.
	RenameCategory(oldName, newName string) (int, error)

	// RenameSubCategory rewrites the sub-category field on every product
	// under the given category. Returns the number of products updated.
	RenameSubCategory(category, oldName, newName string) (int, error)
}

// OrderStore persists checkout orders.
type OrderStore interface {
	List() ([]models.Order, error)
	FindByID(id uuid.UUID) (*models.Order, error)
	Create(o *models.Order) (*models.Order, error)
	UpdateStatus(id uuid.UUID, status models.OrderStatus) error
}

// InquiryStore persists inquiry-form submissions.
type InquiryStore interface {
	List() ([]models.Inquiry, error)
	Create(q *models.Inquiry) (*models.Inquiry, error)
}

// UserStore persists admin-console users.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	List() ([]models.User, error)
	Create(email, password, displayName string, role models.Role) (*models.User, error)
	SetTOTPSecret(userID uuid.UUID, secret string) error
	EnableTOTP(userID uuid.UUID) error
	ResetTOTP(userID uuid.UUID) error
	CheckPassword(user *models.User, password string) bool
}

// Stores bundles one implementation of every repository.
type Stores struct {
	Content   ContentStore
	Products  ProductStore
	Orders    OrderStore
	Inquiries InquiryStore
	Users     UserStore
}
