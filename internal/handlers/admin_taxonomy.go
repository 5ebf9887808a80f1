package handlers

import (
	"context"
	"net/http"

	"chemtrade/internal/cache"
	"chemtrade/internal/taxonomy"
)

// AdminTaxonomy groups the category structure endpoints. Every mutation
// returns the full working set the console should render next, and the
// structure is already publicly visible when the response arrives.
type AdminTaxonomy struct {
	manager *taxonomy.Manager
	cache   *cache.ResponseCache
}

// NewAdminTaxonomy creates the taxonomy handler group.
func NewAdminTaxonomy(m *taxonomy.Manager, rc *cache.ResponseCache) *AdminTaxonomy {
	return &AdminTaxonomy{manager: m, cache: rc}
}

// Structure returns the reconciled working set: persisted categories
// merged with categories observed on live products.
func (h *AdminTaxonomy) Structure(w http.ResponseWriter, r *http.Request) {
	ws, err := h.manager.WorkingSet()
	if err != nil {
		respondInternal(w, "taxonomy load", err)
		return
	}
	respondJSON(w, http.StatusOK, ws)
}

type categoryRequest struct {
	Name string `json:"name"`
}

type renameRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

type subCategoryRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

type subRenameRequest struct {
	Category string `json:"category"`
	OldName  string `json:"old_name"`
	NewName  string `json:"new_name"`
}

// AddCategory inserts a new empty category.
func (h *AdminTaxonomy) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondMutation(w, r, "taxonomy add category")(h.manager.AddCategory(req.Name))
}

// RenameCategory renames a category and cascades onto its products.
func (h *AdminTaxonomy) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondMutation(w, r, "taxonomy rename category")(h.manager.RenameCategory(req.OldName, req.NewName))
}

// DeleteCategory removes a category from the persisted structure.
func (h *AdminTaxonomy) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondMutation(w, r, "taxonomy delete category")(h.manager.DeleteCategory(req.Name))
}

// AddSubCategory inserts a sub-category under an existing category.
func (h *AdminTaxonomy) AddSubCategory(w http.ResponseWriter, r *http.Request) {
	var req subCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondMutation(w, r, "taxonomy add sub-category")(h.manager.AddSubCategory(req.Category, req.Name))
}

// RenameSubCategory renames a sub-category and cascades onto products.
func (h *AdminTaxonomy) RenameSubCategory(w http.ResponseWriter, r *http.Request) {
	var req subRenameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondMutation(w, r, "taxonomy rename sub-category")(
		h.manager.RenameSubCategory(req.Category, req.OldName, req.NewName))
}

// DeleteSubCategory removes a sub-category from its parent.
func (h *AdminTaxonomy) DeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	var req subCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondMutation(w, r, "taxonomy delete sub-category")(h.manager.DeleteSubCategory(req.Category, req.Name))
}

// respondMutation is the shared tail of every taxonomy mutation: map the
// error, invalidate cached public payloads, return the new working set.
func (h *AdminTaxonomy) respondMutation(w http.ResponseWriter, r *http.Request, action string) func(taxonomy.WorkingSet, error) {
	return func(ws taxonomy.WorkingSet, err error) {
		if err != nil {
			respondTaxonomyError(w, action, err)
			return
		}
		h.cache.InvalidateAll(context.WithoutCancel(r.Context()))
		respondJSON(w, http.StatusOK, ws)
	}
}
