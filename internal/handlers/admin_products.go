package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chemtrade/internal/cache"
	"chemtrade/internal/enrich"
	"chemtrade/internal/models"
	"chemtrade/internal/search"
	"chemtrade/internal/slug"
	"chemtrade/internal/storage"
	"chemtrade/internal/store"
	"chemtrade/internal/taxonomy"
)

// maxSpecSheetBytes bounds SDS uploads.
const maxSpecSheetBytes = 20 << 20 // 20 MiB

// AdminProducts groups the catalog management endpoints. Mutations keep
// the search index and the response cache in sync with the store.
type AdminProducts struct {
	products store.ProductStore
	index    *search.Index
	cache    *cache.ResponseCache
	storage  *storage.Client // nil when object storage is not configured
	enricher *enrich.Client  // nil when enrichment is disabled
}

// NewAdminProducts creates the product handler group.
func NewAdminProducts(products store.ProductStore, idx *search.Index, rc *cache.ResponseCache, st *storage.Client, en *enrich.Client) *AdminProducts {
	return &AdminProducts{
		products: products,
		index:    idx,
		cache:    rc,
		storage:  st,
		enricher: en,
	}
}

// productRequest is the payload for create and update.
type productRequest struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	CASNumber   string  `json:"cas_number"`
	Formula     string  `json:"formula"`
	MolarMass   float64 `json:"molar_mass"`
	Purity      string  `json:"purity"`
	HazardClass string  `json:"hazard_class"`
	Category    string  `json:"category"`
	SubCategory string  `json:"sub_category"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"price_cents"`
	PackSize    string  `json:"pack_size"`
	Stock       int     `json:"stock"`
}

func (req *productRequest) apply(p *models.Product) {
	p.SKU = strings.TrimSpace(req.SKU)
	p.Name = strings.TrimSpace(req.Name)
	p.Slug = req.Slug
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Name)
	}
	p.CASNumber = strings.TrimSpace(req.CASNumber)
	p.Formula = strings.TrimSpace(req.Formula)
	p.MolarMass = req.MolarMass
	p.Purity = strings.TrimSpace(req.Purity)
	p.HazardClass = strings.TrimSpace(req.HazardClass)
	p.Category = taxonomy.Normalize(req.Category)
	p.SubCategory = taxonomy.Normalize(req.SubCategory)
	p.Description = req.Description
	p.PriceCents = req.PriceCents
	p.PackSize = strings.TrimSpace(req.PackSize)
	p.Stock = req.Stock
}

// List returns the whole catalog, unordered products included.
func (h *AdminProducts) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List()
	if err != nil {
		respondInternal(w, "product list", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": products})
}

// Get returns one product by ID.
func (h *AdminProducts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.FindByID(id)
	if err != nil {
		respondInternal(w, "product get", err)
		return
	}
	if p == nil {
		respondError(w, http.StatusNotFound, "no such product")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Create adds a product to the catalog and indexes it.
func (h *AdminProducts) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateProduct(req.Name, req.SKU, req.PriceCents, req.Description); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	var p models.Product
	req.apply(&p)

	created, err := h.products.Create(&p)
	if err != nil {
		respondStoreError(w, "product create", err)
		return
	}

	h.syncIndex(created)
	h.cache.InvalidateAll(context.WithoutCancel(r.Context()))
	respondJSON(w, http.StatusCreated, created)
}

// Update rewrites a product and re-indexes it.
func (h *AdminProducts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	existing, err := h.products.FindByID(id)
	if err != nil {
		respondInternal(w, "product lookup", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "no such product")
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateProduct(req.Name, req.SKU, req.PriceCents, req.Description); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	req.apply(existing)
	if err := h.products.Update(existing); err != nil {
		respondStoreError(w, "product update", err)
		return
	}

	h.syncIndex(existing)
	h.cache.InvalidateAll(context.WithoutCancel(r.Context()))
	respondJSON(w, http.StatusOK, existing)
}

// Delete removes a product from the catalog, the search index, and (best
// effort) its spec sheet from object storage.
func (h *AdminProducts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	existing, err := h.products.FindByID(id)
	if err != nil {
		respondInternal(w, "product lookup", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "no such product")
		return
	}

	if err := h.products.Delete(id); err != nil {
		respondStoreError(w, "product delete", err)
		return
	}

	if err := h.index.DeleteProduct(id.String()); err != nil {
		slog.Warn("search index delete failed", "product_id", id, "error", err)
	}
	if h.storage != nil && existing.SpecSheetKey != "" {
		ctx := context.WithoutCancel(r.Context())
		if err := h.storage.Delete(ctx, h.storage.PrivateBucket(), existing.SpecSheetKey); err != nil {
			slog.Warn("spec sheet delete failed", "key", existing.SpecSheetKey, "error", err)
		}
	}

	h.cache.InvalidateAll(context.WithoutCancel(r.Context()))
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Enrich looks the product up in the chemistry databases and merges
// non-empty reference fields into it. Existing values are not overwritten.
func (h *AdminProducts) Enrich(w http.ResponseWriter, r *http.Request) {
	if h.enricher == nil {
		respondError(w, http.StatusServiceUnavailable, "enrichment is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.FindByID(id)
	if err != nil {
		respondInternal(w, "product lookup", err)
		return
	}
	if p == nil {
		respondError(w, http.StatusNotFound, "no such product")
		return
	}

	// Prefer the CAS number as lookup key; it is unambiguous.
	identifier := p.CASNumber
	if identifier == "" {
		identifier = p.Name
	}

	props, err := h.enricher.Lookup(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, enrich.ErrNotFound) {
			respondError(w, http.StatusNotFound, "compound not found in reference databases")
			return
		}
		respondInternal(w, "enrich lookup", err)
		return
	}

	changed := false
	if p.CASNumber == "" && props.CASNumber != "" {
		p.CASNumber = props.CASNumber
		changed = true
	}
	if p.Formula == "" && props.Formula != "" {
		p.Formula = props.Formula
		changed = true
	}
	if p.MolarMass == 0 && props.MolarMass != 0 {
		p.MolarMass = props.MolarMass
		changed = true
	}

	if changed {
		if err := h.products.Update(p); err != nil {
			respondStoreError(w, "product update after enrich", err)
			return
		}
		h.syncIndex(p)
		h.cache.InvalidateAll(context.WithoutCancel(r.Context()))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"product":    p,
		"properties": props,
		"updated":    changed,
	})
}

// UploadSpecSheet stores an SDS document in the private bucket and links
// it to the product.
func (h *AdminProducts) UploadSpecSheet(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.FindByID(id)
	if err != nil {
		respondInternal(w, "product lookup", err)
		return
	}
	if p == nil {
		respondError(w, http.StatusNotFound, "no such product")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSpecSheetBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/pdf" {
		respondError(w, http.StatusBadRequest, "spec sheets must be PDF documents")
		return
	}

	key := fmt.Sprintf("sds/%s/%d.pdf", p.Slug, time.Now().Unix())
	if err := h.storage.Upload(r.Context(), h.storage.PrivateBucket(), key, contentType, file, header.Size); err != nil {
		respondInternal(w, "spec sheet upload", err)
		return
	}

	p.SpecSheetKey = key
	if err := h.products.Update(p); err != nil {
		respondStoreError(w, "product update after upload", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"spec_sheet_key": key})
}

// SpecSheetURL returns a short-lived presigned download link for the
// product's SDS document.
func (h *AdminProducts) SpecSheetURL(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.FindByID(id)
	if err != nil {
		respondInternal(w, "product lookup", err)
		return
	}
	if p == nil || p.SpecSheetKey == "" {
		respondError(w, http.StatusNotFound, "no spec sheet on file")
		return
	}

	url, err := h.storage.PresignedURL(r.Context(), h.storage.PrivateBucket(), p.SpecSheetKey, storage.SpecSheetExpiry)
	if err != nil {
		respondInternal(w, "spec sheet presign", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// syncIndex re-indexes one product, logging failures. The index is a
// derived view and is rebuilt at startup, so drift self-heals.
func (h *AdminProducts) syncIndex(p *models.Product) {
	if err := h.index.IndexProduct(p); err != nil {
		slog.Warn("search index update failed", "sku", p.SKU, "error", err)
	}
}
