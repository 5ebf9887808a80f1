// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"errors"
	"fmt"
	"log/slog"

	"chemtrade/internal/content"
	"chemtrade/internal/models"
	"chemtrade/internal/store"
)

// Mutation errors surfaced to the admin console. Handlers map these to
// HTTP statuses; anything else is treated as a persistence failure.
var (
	ErrEmptyName = errors.New("taxonomy: name is required")
	ErrDuplicate = errors.New("taxonomy: name already exists")
	ErrNotFound  = errors.New("taxonomy: no such category or sub-category")
	ErrProtected = errors.New("taxonomy: category is protected")
)

// Manager executes admin taxonomy mutations. Every mutation runs a full
// read-reconcile-mutate-write cycle and finishes with an awaited
// auto-publish, so the new structure is publicly visible the moment the
// request returns; product forms depend on that.
//
// There is deliberately no locking around the cycle: the admin console is
// the single writer. Two concurrent admin sessions can overwrite each
// other's structure (last publish wins), a documented limitation of the
// single-admin usage pattern.
type Manager struct {
	content  *content.Service
	products store.ProductStore

	// reserved categories refuse deletion. Empty by default.
	reserved map[string]bool
}

// NewManager creates a taxonomy manager. reserved lists category names
// (normalized) that DeleteCategory must refuse.
func NewManager(svc *content.Service, products store.ProductStore, reserved ...string) *Manager {
	m := &Manager{
		content:  svc,
		products: products,
		reserved: make(map[string]bool, len(reserved)),
	}
	for _, name := range reserved {
		m.reserved[Normalize(name)] = true
	}
	return m
}

// WorkingSet loads products and the persisted structure and reconciles
// them into the current admin view.
func (m *Manager) WorkingSet() (WorkingSet, error) {
	products, persisted, err := m.load()
	if err != nil {
		return WorkingSet{}, err
	}
	return Reconcile(products, persisted), nil
}

// load fetches the inputs of a reconciliation. The persisted structure is
// read from the pending draft when one exists, otherwise the live value;
// on this auto-published key the two are normally identical.
func (m *Manager) load() ([]models.Product, Structure, error) {
	products, err := m.products.List()
	if err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}

	entry, err := m.content.Get(models.CategoryStructureKey)
	if err != nil {
		return nil, nil, fmt.Errorf("load category structure: %w", err)
	}

	var raw string
	if entry != nil {
		raw = entry.LiveValue
		if entry.DraftValue != nil {
			raw = *entry.DraftValue
		}
	}
	return products, Decode(raw), nil
}

// persist writes the working set back into the category structure entry
// and awaits the auto-publish. Unlike other content keys, taxonomy edits
// never sit as unpublished drafts.
func (m *Manager) persist(ws WorkingSet) error {
	if _, err := m.content.SaveDraft(models.CategoryStructureKey, Encode(ws.ToStructure())); err != nil {
		return fmt.Errorf("save category structure: %w", err)
	}
	if res := <-m.content.PublishAsync(); res.Err != nil {
		return fmt.Errorf("publish category structure: %w", res.Err)
	}
	return nil
}

// AddCategory inserts a new empty category. Existing products are not
// touched.
func (m *Manager) AddCategory(name string) (WorkingSet, error) {
	name = Normalize(name)
	if name == "" {
		return WorkingSet{}, ErrEmptyName
	}

	ws, err := m.WorkingSet()
	if err != nil {
		return WorkingSet{}, err
	}
	if ws.HasCategory(name) {
		return WorkingSet{}, ErrDuplicate
	}

	ws.Categories = append(ws.Categories, name)
	ws.SubCategories[name] = nil
	return ws, m.persist(ws)
}

// RenameCategory moves a category's sub-category set to the new name and
// cascades the rename onto every product in the old category with
// explicit persisted updates.
func (m *Manager) RenameCategory(oldName, newName string) (WorkingSet, error) {
	oldName = Normalize(oldName)
	newName = Normalize(newName)
	if newName == "" {
		return WorkingSet{}, ErrEmptyName
	}

	ws, err := m.WorkingSet()
	if err != nil {
		return WorkingSet{}, err
	}
	if !ws.HasCategory(oldName) {
		return WorkingSet{}, ErrNotFound
	}
	if newName != oldName && ws.HasCategory(newName) {
		return WorkingSet{}, ErrDuplicate
	}
	if newName == oldName {
		return ws, nil
	}

	ws.Categories = replace(ws.Categories, oldName, newName)
	ws.SubCategories[newName] = ws.SubCategories[oldName]
	delete(ws.SubCategories, oldName)

	updated, err := m.products.RenameCategory(oldName, newName)
	if err != nil {
		return WorkingSet{}, fmt.Errorf("cascade category rename: %w", err)
	}
	slog.Info("category renamed", "from", oldName, "to", newName, "products_updated", updated)

	return ws, m.persist(ws)
}

// DeleteCategory removes a category and its sub-category set. Products
// still referencing the name are left orphaned on purpose; the next
// reconciliation resurfaces their category from the product rows.
func (m *Manager) DeleteCategory(name string) (WorkingSet, error) {
	name = Normalize(name)
	if m.reserved[name] {
		return WorkingSet{}, ErrProtected
	}

	ws, err := m.WorkingSet()
	if err != nil {
		return WorkingSet{}, err
	}
	if !ws.HasCategory(name) {
		return WorkingSet{}, ErrNotFound
	}

	ws.Categories = remove(ws.Categories, name)
	delete(ws.SubCategories, name)
	return ws, m.persist(ws)
}

// AddSubCategory inserts a sub-category under an existing category.
func (m *Manager) AddSubCategory(category, sub string) (WorkingSet, error) {
	category = Normalize(category)
	sub = Normalize(sub)
	if sub == "" {
		return WorkingSet{}, ErrEmptyName
	}

	ws, err := m.WorkingSet()
	if err != nil {
		return WorkingSet{}, err
	}
	if !ws.HasCategory(category) {
		return WorkingSet{}, ErrNotFound
	}
	if contains(ws.SubCategories[category], sub) {
		return WorkingSet{}, ErrDuplicate
	}

	ws.SubCategories[category] = append(ws.SubCategories[category], sub)
	return ws, m.persist(ws)
}

// RenameSubCategory renames a sub-category within its parent and cascades
// onto matching products.
func (m *Manager) RenameSubCategory(category, oldSub, newSub string) (WorkingSet, error) {
	category = Normalize(category)
	oldSub = Normalize(oldSub)
	newSub = Normalize(newSub)
	if newSub == "" {
		return WorkingSet{}, ErrEmptyName
	}

	ws, err := m.WorkingSet()
	if err != nil {
		return WorkingSet{}, err
	}
	if !ws.HasCategory(category) || !contains(ws.SubCategories[category], oldSub) {
		return WorkingSet{}, ErrNotFound
	}
	if newSub != oldSub && contains(ws.SubCategories[category], newSub) {
		return WorkingSet{}, ErrDuplicate
	}
	if newSub == oldSub {
		return ws, nil
	}

	ws.SubCategories[category] = replace(ws.SubCategories[category], oldSub, newSub)

	updated, err := m.products.RenameSubCategory(category, oldSub, newSub)
	if err != nil {
		return WorkingSet{}, fmt.Errorf("cascade sub-category rename: %w", err)
	}
	slog.Info("sub-category renamed",
		"category", category, "from", oldSub, "to", newSub, "products_updated", updated)

	return ws, m.persist(ws)
}

// DeleteSubCategory removes a sub-category from its parent. Products
// keep their sub-category value (same orphaning rule as DeleteCategory).
func (m *Manager) DeleteSubCategory(category, sub string) (WorkingSet, error) {
	category = Normalize(category)
	sub = Normalize(sub)

	ws, err := m.WorkingSet()
	if err != nil {
		return WorkingSet{}, err
	}
	if !ws.HasCategory(category) || !contains(ws.SubCategories[category], sub) {
		return WorkingSet{}, ErrNotFound
	}

	ws.SubCategories[category] = remove(ws.SubCategories[category], sub)
	return ws, m.persist(ws)
}
