// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"sort"

	"chemtrade/internal/models"
)

// WorkingSet is the merged taxonomy the admin console works against. It is
// rebuilt from scratch on every load and never stored as-is; only the
// names are written back into the serialized structure after a mutation.
type WorkingSet struct {
	// Categories in presentation order: persisted categories first
	// (sorted, since map order is not stable), then categories
	// discovered on products in first-seen order.
	Categories []string `json:"categories"`

	// SubCategories per category: persisted names first, then names
	// observed on products under that category.
	SubCategories map[string][]string `json:"sub_categories"`
}

// Reconcile merges the persisted structure with categories and
// sub-categories observed on live products. Pure function: identical
// inputs produce identical output. Products imported in bulk surface
// their categories here without any migration step, while admins can
// still pre-create empty categories for future use.
func Reconcile(products []models.Product, persisted Structure) WorkingSet {
	ws := WorkingSet{SubCategories: make(map[string][]string)}
	seenCat := make(map[string]bool)

	// Persisted categories first. Sorted for a stable order across the
	// random iteration order of the map.
	persistedCats := make([]string, 0, len(persisted))
	for cat := range persisted {
		persistedCats = append(persistedCats, Normalize(cat))
	}
	sort.Strings(persistedCats)
	for _, cat := range persistedCats {
		if cat == "" || seenCat[cat] {
			continue
		}
		seenCat[cat] = true
		ws.Categories = append(ws.Categories, cat)
		ws.SubCategories[cat] = append([]string(nil), persisted[cat]...)
	}

	// Then categories observed on products, in first-seen order.
	for _, p := range products {
		cat := Normalize(p.Category)
		if cat == "" {
			continue
		}
		if !seenCat[cat] {
			seenCat[cat] = true
			ws.Categories = append(ws.Categories, cat)
			ws.SubCategories[cat] = nil
		}

		sub := Normalize(p.SubCategory)
		if sub == "" {
			continue
		}
		if !contains(ws.SubCategories[cat], sub) {
			ws.SubCategories[cat] = append(ws.SubCategories[cat], sub)
		}
	}

	return ws
}

// ToStructure converts the working set back to the persistable form.
func (ws WorkingSet) ToStructure() Structure {
	s := make(Structure, len(ws.Categories))
	for _, cat := range ws.Categories {
		s[cat] = append([]string(nil), ws.SubCategories[cat]...)
	}
	return s
}

// HasCategory reports whether the normalized name is in the working set.
func (ws WorkingSet) HasCategory(name string) bool {
	return contains(ws.Categories, Normalize(name))
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

func remove(list []string, name string) []string {
	out := list[:0]
	for _, v := range list {
		if v != name {
			out = append(out, v)
		}
	}
	return out
}

func replace(list []string, oldName, newName string) []string {
	for i, v := range list {
		if v == oldName {
			list[i] = newName
		}
	}
	return list
}
