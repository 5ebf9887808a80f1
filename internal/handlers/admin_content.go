package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chemtrade/internal/cache"
	"chemtrade/internal/content"
)

// AdminContent groups the content draft/publish endpoints.
type AdminContent struct {
	content *content.Service
	cache   *cache.ResponseCache
}

// NewAdminContent creates the content handler group.
func NewAdminContent(svc *content.Service, rc *cache.ResponseCache) *AdminContent {
	return &AdminContent{content: svc, cache: rc}
}

// List returns every content entry, drafts included, so the console can
// flag entries with unpublished changes.
func (h *AdminContent) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.content.AdminView()
	if err != nil {
		respondInternal(w, "content list", err)
		return
	}

	type entryView struct {
		Key             string     `json:"key"`
		Live            string     `json:"content"`
		Draft           *string    `json:"draft_content,omitempty"`
		IsPublished     bool       `json:"is_published"`
		LastPublishedAt *time.Time `json:"last_published_at,omitempty"`
		Dirty           bool       `json:"has_unpublished_changes"`
	}

	views := make([]entryView, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		views = append(views, entryView{
			Key:             e.Key,
			Live:            e.LiveValue,
			Draft:           e.DraftValue,
			IsPublished:     e.IsPublished,
			LastPublishedAt: e.LastPublishedAt,
			Dirty:           e.HasUnpublishedChanges(),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"entries": views})
}

// Get returns a single entry with its draft.
func (h *AdminContent) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	entry, err := h.content.Get(key)
	if err != nil {
		respondInternal(w, "content get", err)
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "no such entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

type saveDraftRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SaveDraft writes a pending value for a key. The key comes from the URL
// on PUT /admin/content/{key} and from the body on POST /admin/content;
// the URL wins when both are set. The live value and the public site stay
// untouched until the next publish.
func (h *AdminContent) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req saveDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" {
		key = req.Key
	}
	if msg := validateContentEntry(key, req.Value); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	entry, err := h.content.SaveDraft(key, req.Value)
	if err != nil {
		respondInternal(w, "content save draft", err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// Publish promotes every pending draft and awaits durability before
// answering, then drops all cached public payloads.
func (h *AdminContent) Publish(w http.ResponseWriter, r *http.Request) {
	promoted, err := h.content.Publish()
	if err != nil {
		respondInternal(w, "content publish", err)
		return
	}

	h.cache.InvalidateAll(context.WithoutCancel(r.Context()))
	respondJSON(w, http.StatusOK, map[string]int{"published": promoted})
}
