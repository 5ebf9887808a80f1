// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memory provides the demo-mode storage backend: mutex-guarded
// in-memory maps, optionally persisted to a single JSON snapshot file
// after every mutation. It implements every interface in package store.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"chemtrade/internal/models"
	"chemtrade/internal/store"
)

// DB holds all demo-mode data behind a single lock. One lock for the whole
// dataset keeps PublishAll trivially atomic per entry and is more than
// enough for the single-admin usage this mode targets.
type DB struct {
	mu           sync.RWMutex
	content      map[string]models.ContentEntry
	products     map[uuid.UUID]models.Product
	orders       map[uuid.UUID]models.Order
	inquiries    map[uuid.UUID]models.Inquiry
	users        map[uuid.UUID]models.User
	snapshotPath string
}

// Open creates a memory DB. If snapshotPath is non-empty an existing
// snapshot is loaded from it and every mutation rewrites it; a missing or
// unreadable snapshot starts the store empty.
func Open(snapshotPath string) (*store.Stores, *DB) {
	db := &DB{
		content:      make(map[string]models.ContentEntry),
		products:     make(map[uuid.UUID]models.Product),
		orders:       make(map[uuid.UUID]models.Order),
		inquiries:    make(map[uuid.UUID]models.Inquiry),
		users:        make(map[uuid.UUID]models.User),
		snapshotPath: snapshotPath,
	}
	db.loadSnapshot()

	return &store.Stores{
		Content:   &ContentStore{db: db},
		Products:  &ProductStore{db: db},
		Orders:    &OrderStore{db: db},
		Inquiries: &InquiryStore{db: db},
		Users:     &UserStore{db: db},
	}, db
}

// --- ContentStore ---

// ContentStore implements store.ContentStore over the shared DB.
type ContentStore struct {
	db *DB
}

// All returns every entry, drafts included, sorted by key.
func (s *ContentStore) All() ([]models.ContentEntry, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	entries := make([]models.ContentEntry, 0, len(s.db.content))
	for _, e := range s.db.content {
		entries = append(entries, cloneEntry(e))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Get returns the entry for key, or (nil, nil) if absent.
func (s *ContentStore) Get(key string) (*models.ContentEntry, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	e, ok := s.db.content[key]
	if !ok {
		return nil, nil
	}
	c := cloneEntry(e)
	return &c, nil
}

// UpsertDraft creates the entry if absent or replaces its draft.
func (s *ContentStore) UpsertDraft(key, value string) (*models.ContentEntry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := time.Now()
	e, ok := s.db.content[key]
	if !ok {
		draft := value
		e = models.ContentEntry{
			Key:         key,
			LiveValue:   value,
			DraftValue:  &draft,
			IsPublished: false,
			CreatedAt:   now,
		}
	} else {
		draft := value
		e.DraftValue = &draft
	}
	e.UpdatedAt = now
	s.db.content[key] = e
	s.db.saveSnapshotLocked()

	c := cloneEntry(e)
	return &c, nil
}

// PublishAll promotes every present draft to the live value. The draft is
// kept in place; dirty checks compare draft against live.
func (s *ContentStore) PublishAll(now time.Time) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var promoted int
	for key, e := range s.db.content {
		if e.DraftValue == nil {
			continue
		}
		e.LiveValue = *e.DraftValue
		e.IsPublished = true
		ts := now
		e.LastPublishedAt = &ts
		e.UpdatedAt = now
		s.db.content[key] = e
		promoted++
	}
	if promoted > 0 {
		s.db.saveSnapshotLocked()
	}
	return promoted, nil
}

// --- ProductStore ---

// ProductStore implements store.ProductStore over the shared DB.
type ProductStore struct {
	db *DB
}

// List returns all products sorted by name.
func (s *ProductStore) List() ([]models.Product, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	products := make([]models.Product, 0, len(s.db.products))
	for _, p := range s.db.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (s *ProductStore) FindByID(id uuid.UUID) (*models.Product, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *ProductStore) FindBySlug(slug string) (*models.Product, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, p := range s.db.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

// Create inserts a new product, enforcing SKU and slug uniqueness.
func (s *ProductStore) Create(p *models.Product) (*models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.products {
		if strings.EqualFold(existing.SKU, p.SKU) || existing.Slug == p.Slug {
			return nil, store.ErrDuplicate
		}
	}

	created := *p
	created.ID = uuid.New()
	now := time.Now()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.db.products[created.ID] = created
	s.db.saveSnapshotLocked()
	return &created, nil
}

// Update replaces an existing product record.
func (s *ProductStore) Update(p *models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.products[p.ID]
	if !ok {
		return store.ErrNotFound
	}

	updated := *p
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	s.db.products[p.ID] = updated
	s.db.saveSnapshotLocked()
	return nil
}

func (s *ProductStore) Delete(id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.db.products, id)
	s.db.saveSnapshotLocked()
	return nil
}

// RenameCategory rewrites the category on every matching product.
func (s *ProductStore) RenameCategory(oldName, newName string) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := time.Now()
	var updated int
	for id, p := range s.db.products {
		if p.Category != oldName {
			continue
		}
		p.Category = newName
		p.UpdatedAt = now
		s.db.products[id] = p
		updated++
	}
	if updated > 0 {
		s.db.saveSnapshotLocked()
	}
	return updated, nil
}

// RenameSubCategory rewrites the sub-category on every matching product
// under the given category.
func (s *ProductStore) RenameSubCategory(category, oldName, newName string) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := time.Now()
	var updated int
	for id, p := range s.db.products {
		if p.Category != category || p.SubCategory != oldName {
			continue
		}
		p.SubCategory = newName
		p.UpdatedAt = now
		s.db.products[id] = p
		updated++
	}
	if updated > 0 {
		s.db.saveSnapshotLocked()
	}
	return updated, nil
}

// --- OrderStore ---

// OrderStore implements store.OrderStore over the shared DB.
type OrderStore struct {
	db *DB
}

// List returns all orders, newest first.
func (s *OrderStore) List() ([]models.Order, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	orders := make([]models.Order, 0, len(s.db.orders))
	for _, o := range s.db.orders {
		orders = append(orders, cloneOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (s *OrderStore) FindByID(id uuid.UUID) (*models.Order, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	o, ok := s.db.orders[id]
	if !ok {
		return nil, nil
	}
	c := cloneOrder(o)
	return &c, nil
}

func (s *OrderStore) Create(o *models.Order) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	created := cloneOrder(*o)
	created.ID = uuid.New()
	now := time.Now()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.db.orders[created.ID] = created
	s.db.saveSnapshotLocked()

	c := cloneOrder(created)
	return &c, nil
}

func (s *OrderStore) UpdateStatus(id uuid.UUID, status models.OrderStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	o, ok := s.db.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	s.db.orders[id] = o
	s.db.saveSnapshotLocked()
	return nil
}

// --- InquiryStore ---

// InquiryStore implements store.InquiryStore over the shared DB.
type InquiryStore struct {
	db *DB
}

func (s *InquiryStore) List() ([]models.Inquiry, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	inquiries := make([]models.Inquiry, 0, len(s.db.inquiries))
	for _, q := range s.db.inquiries {
		inquiries = append(inquiries, q)
	}
	sort.Slice(inquiries, func(i, j int) bool { return inquiries[i].CreatedAt.After(inquiries[j].CreatedAt) })
	return inquiries, nil
}

func (s *InquiryStore) Create(q *models.Inquiry) (*models.Inquiry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	created := *q
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	s.db.inquiries[created.ID] = created
	s.db.saveSnapshotLocked()
	return &created, nil
}

// --- UserStore ---

// UserStore implements store.UserStore over the shared DB.
type UserStore struct {
	db *DB
}

func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) List() ([]models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	users := make([]models.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *UserStore) Create(email, password, displayName string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if strings.EqualFold(u.Email, email) {
			return nil, store.ErrDuplicate
		}
	}

	now := time.Now()
	u := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.db.users[u.ID] = u
	s.db.saveSnapshotLocked()
	return &u, nil
}

func (s *UserStore) SetTOTPSecret(userID uuid.UUID, secret string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.TOTPSecret = &secret
	u.UpdatedAt = time.Now()
	s.db.users[userID] = u
	s.db.saveSnapshotLocked()
	return nil
}

func (s *UserStore) EnableTOTP(userID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.TOTPEnabled = true
	u.UpdatedAt = time.Now()
	s.db.users[userID] = u
	s.db.saveSnapshotLocked()
	return nil
}

func (s *UserStore) ResetTOTP(userID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.TOTPSecret = nil
	u.TOTPEnabled = false
	u.UpdatedAt = time.Now()
	s.db.users[userID] = u
	s.db.saveSnapshotLocked()
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// --- clone helpers ---
// Values handed out must not alias internal state; pointer and slice
// fields get deep copies.

func cloneEntry(e models.ContentEntry) models.ContentEntry {
	if e.DraftValue != nil {
		draft := *e.DraftValue
		e.DraftValue = &draft
	}
	if e.LastPublishedAt != nil {
		ts := *e.LastPublishedAt
		e.LastPublishedAt = &ts
	}
	return e
}

func cloneOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
