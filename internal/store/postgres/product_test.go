// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"chemtrade/internal/models"
	"chemtrade/internal/store"
)

// testProduct builds a product with unique SKU and slug.
func testProduct(name string) *models.Product {
	suffix := uuid.NewString()[:8]
	return &models.Product{
		SKU:        "TEST-" + suffix,
		Name:       name,
		Slug:       "test-" + suffix,
		Category:   "test-solvents",
		PriceCents: 1999,
		Stock:      10,
	}
}

func TestProductCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	p := testProduct("Acetone")
	p.CASNumber = "67-64-1"
	p.Formula = "C3H6O"
	t.Cleanup(func() { cleanProducts(t, db, p.SKU) })

	created, err := s.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected generated UUID")
	}

	byID, err := s.FindByID(created.ID)
	if err != nil || byID == nil {
		t.Fatalf("FindByID: %v, %v", byID, err)
	}
	if byID.CASNumber != "67-64-1" {
		t.Errorf("cas: got %q", byID.CASNumber)
	}

	bySlug, err := s.FindBySlug(p.Slug)
	if err != nil || bySlug == nil {
		t.Fatalf("FindBySlug: %v, %v", bySlug, err)
	}
	if bySlug.ID != created.ID {
		t.Errorf("slug lookup returned different product")
	}
}

func TestProductDuplicateSKU(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	p := testProduct("Acetone")
	t.Cleanup(func() { cleanProducts(t, db, p.SKU) })

	if _, err := s.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := testProduct("Acetone Technical")
	dup.SKU = p.SKU
	if _, err := s.Create(dup); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate SKU: got %v, want ErrDuplicate", err)
	}
}

func TestProductUpdateAndDelete(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	created, err := s.Create(testProduct("Isopropanol"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanProducts(t, db, created.SKU) })

	created.PriceCents = 2599
	created.Stock = 0
	if err := s.Update(created); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := s.FindByID(created.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("FindByID: %v, %v", reloaded, err)
	}
	if reloaded.PriceCents != 2599 || reloaded.Stock != 0 {
		t.Errorf("update not applied: %+v", reloaded)
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if gone != nil {
		t.Error("product still present after delete")
	}

	if err := s.Delete(created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestProductRenameCategoryCascade(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	category := "test-cat-" + uuid.NewString()[:8]
	a := testProduct("Acetone")
	a.Category = category
	a.SubCategory = "ketones"
	b := testProduct("Methyl Ethyl Ketone")
	b.Category = category
	b.SubCategory = "ketones"
	other := testProduct("Nitric Acid")

	for _, p := range []*models.Product{a, b, other} {
		created, err := s.Create(p)
		if err != nil {
			t.Fatalf("Create %s: %v", p.Name, err)
		}
		p.ID = created.ID
		t.Cleanup(func() { cleanProducts(t, db, p.SKU) })
	}

	renamed := category + "-renamed"
	n, err := s.RenameCategory(category, renamed)
	if err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	if n != 2 {
		t.Errorf("rows updated: got %d, want 2", n)
	}

	reloaded, _ := s.FindByID(other.ID)
	if reloaded.Category != "test-solvents" {
		t.Errorf("unrelated product rewritten: %q", reloaded.Category)
	}

	n, err = s.RenameSubCategory(renamed, "ketones", "aliphatic ketones")
	if err != nil {
		t.Fatalf("RenameSubCategory: %v", err)
	}
	if n != 2 {
		t.Errorf("sub rows updated: got %d, want 2", n)
	}
}
