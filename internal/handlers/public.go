package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chemtrade/internal/cache"
	"chemtrade/internal/content"
	"chemtrade/internal/mail"
	"chemtrade/internal/markdown"
	"chemtrade/internal/models"
	"chemtrade/internal/search"
	"chemtrade/internal/storage"
	"chemtrade/internal/store"
	"chemtrade/internal/taxonomy"
)

// defaultSearchLimit bounds public search result pages.
const defaultSearchLimit = 25

// Public groups the unauthenticated storefront endpoints.
type Public struct {
	content    *content.Service
	stores     *store.Stores
	index      *search.Index
	cache      *cache.ResponseCache
	storage    *storage.Client // nil when object storage is not configured
	mailer     mail.Mailer
	salesEmail string
}

// NewPublic creates the public handler group.
func NewPublic(svc *content.Service, stores *store.Stores, idx *search.Index, rc *cache.ResponseCache, st *storage.Client, mailer mail.Mailer, salesEmail string) *Public {
	return &Public{
		content:    svc,
		stores:     stores,
		index:      idx,
		cache:      rc,
		storage:    st,
		mailer:     mailer,
		salesEmail: salesEmail,
	}
}

// Health answers liveness probes.
func (h *Public) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Content returns the published content map. Drafts are invisible here.
func (h *Public) Content(w http.ResponseWriter, r *http.Request) {
	if h.serveCached(w, r, cache.ContentKey()) {
		return
	}

	view, err := h.content.PublicView()
	if err != nil {
		respondInternal(w, "public content", err)
		return
	}
	h.respondAndCache(w, r, cache.ContentKey(), map[string]any{"content": view})
}

// publicProduct is the storefront product shape: the Markdown description
// is rendered to HTML, and internal fields stay hidden.
type publicProduct struct {
	ID              uuid.UUID `json:"id"`
	SKU             string    `json:"sku"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	CASNumber       string    `json:"cas_number,omitempty"`
	Formula         string    `json:"formula,omitempty"`
	MolarMass       float64   `json:"molar_mass,omitempty"`
	Purity          string    `json:"purity,omitempty"`
	HazardClass     string    `json:"hazard_class,omitempty"`
	Category        string    `json:"category"`
	SubCategory     string    `json:"sub_category,omitempty"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	PriceCents      int64     `json:"price_cents"`
	PackSize        string    `json:"pack_size,omitempty"`
	InStock         bool      `json:"in_stock"`
	HasSpecSheet    bool      `json:"has_spec_sheet"`
}

func toPublicProduct(p *models.Product) publicProduct {
	out := publicProduct{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Slug:         p.Slug,
		CASNumber:    p.CASNumber,
		Formula:      p.Formula,
		MolarMass:    p.MolarMass,
		Purity:       p.Purity,
		HazardClass:  p.HazardClass,
		Category:     p.Category,
		SubCategory:  p.SubCategory,
		PriceCents:   p.PriceCents,
		PackSize:     p.PackSize,
		InStock:      p.InStock(),
		HasSpecSheet: p.SpecSheetKey != "",
	}
	if p.Description != "" {
		html, err := markdown.ToHTML(p.Description)
		if err != nil {
			slog.Warn("description render failed", "sku", p.SKU, "error", err)
		} else {
			out.DescriptionHTML = html
		}
	}
	return out
}

// Products returns the catalog, optionally filtered by category and
// sub-category query parameters. Stored categories are normalized to
// lowercase, so the filters go through the same normalization.
func (h *Public) Products(w http.ResponseWriter, r *http.Request) {
	category := taxonomy.Normalize(r.URL.Query().Get("category"))
	subCategory := taxonomy.Normalize(r.URL.Query().Get("sub_category"))

	cacheable := category == "" && subCategory == ""
	if cacheable && h.serveCached(w, r, cache.ProductListKey()) {
		return
	}

	products, err := h.stores.Products.List()
	if err != nil {
		respondInternal(w, "public product list", err)
		return
	}

	out := make([]publicProduct, 0, len(products))
	for i := range products {
		p := &products[i]
		if category != "" && p.Category != category {
			continue
		}
		if subCategory != "" && p.SubCategory != subCategory {
			continue
		}
		out = append(out, toPublicProduct(p))
	}

	payload := map[string]any{"products": out}
	if cacheable {
		h.respondAndCache(w, r, cache.ProductListKey(), payload)
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

// Product returns one product by slug.
func (h *Public) Product(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	if h.serveCached(w, r, cache.ProductKey(s)) {
		return
	}

	p, err := h.stores.Products.FindBySlug(s)
	if err != nil {
		respondInternal(w, "public product get", err)
		return
	}
	if p == nil {
		respondError(w, http.StatusNotFound, "no such product")
		return
	}
	h.respondAndCache(w, r, cache.ProductKey(s), toPublicProduct(p))
}

// Search runs a full-text query over the catalog.
func (h *Public) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	hits, err := h.index.Search(query, limit)
	if err != nil {
		respondInternal(w, "public search", err)
		return
	}
	if hits == nil {
		hits = []*search.Result{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": hits})
}

// SpecSheet returns a short-lived presigned download link for a product's
// safety data sheet.
func (h *Public) SpecSheet(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusNotFound, "no spec sheet on file")
		return
	}

	p, err := h.stores.Products.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondInternal(w, "public product get", err)
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

type inquiryRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

// CreateInquiry records an inquiry-form submission and notifies the sales
// inbox. Mail failures are logged, never surfaced to the visitor.
func (h *Public) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req inquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateInquiry(req.Name, req.Email, req.Message); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	inquiry := &models.Inquiry{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Message: req.Message,
	}
	if req.ProductID != "" {
		id, err := uuid.Parse(req.ProductID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		inquiry.ProductID = &id
	}

	created, err := h.stores.Inquiries.Create(inquiry)
	if err != nil {
		respondInternal(w, "inquiry create", err)
		return
	}

	go h.notify(h.salesEmail, "New inquiry from "+created.Name,
		fmt.Sprintf("From: %s <%s>\nCompany: %s\n\n%s", created.Name, created.Email, created.Company, created.Message))

	respondJSON(w, http.StatusCreated, created)
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type orderRequest struct {
	CustomerName string             `json:"customer_name"`
	Email        string             `json:"email"`
	Company      string             `json:"company"`
	Items        []orderItemRequest `json:"items"`
}

// CreateOrder runs checkout. Prices always come from the catalog and
// totals are computed server-side; the client only chooses products and
// quantities.
func (h *Public) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerName == "" {
		respondError(w, http.StatusBadRequest, "Customer name is required.")
		return
	}
	if !looksLikeEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "A valid email address is required.")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "order has no items")
		return
	}
	if len(req.Items) > maxOrderItems {
		respondError(w, http.StatusBadRequest, "too many order items")
		return
	}

	order := &models.Order{
		Number:       newOrderNumber(),
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Company:      req.Company,
		Status:       models.OrderStatusPending,
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 || item.Quantity > maxItemQuantity {
			respondError(w, http.StatusBadRequest, "invalid item quantity")
			return
		}
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product id")
			return
		}

		p, err := h.stores.Products.FindByID(id)
		if err != nil {
			respondInternal(w, "order product lookup", err)
			return
		}
		if p == nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown product %s", id))
			return
		}
		if !p.InStock() {
			respondError(w, http.StatusConflict, fmt.Sprintf("%s is out of stock", p.Name))
			return
		}

		order.Items = append(order.Items, models.OrderItem{
			ProductID:      p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       item.Quantity,
		})
	}

	order.ComputeTotals()

	created, err := h.stores.Orders.Create(order)
	if err != nil {
		respondInternal(w, "order create", err)
		return
	}
	slog.Info("order placed", "number", created.Number, "total_cents", created.TotalCents)

	go h.notify(created.Email, "Order confirmation "+created.Number, orderConfirmationBody(created))

	respondJSON(w, http.StatusCreated, created)
}

// notify sends one mail, logging failures.
func (h *Public) notify(to, subject, body string) {
	if h.mailer == nil || to == "" {
		return
	}
	if err := h.mailer.Send(to, subject, body); err != nil {
		slog.Error("notification mail failed", "to", to, "subject", subject, "error", err)
	}
}

func orderConfirmationBody(o *models.Order) string {
	body := fmt.Sprintf("Thank you for your order %s.\n\n", o.Number)
	for _, item := range o.Items {
		body += fmt.Sprintf("  %dx %s (%s) = %d.%02d\n",
			item.Quantity, item.Name, item.SKU,
			item.LineTotalCents/100, item.LineTotalCents%100)
	}
	body += fmt.Sprintf("\nSubtotal: %d.%02d\nShipping: %d.%02d\nTotal: %d.%02d\n",
		o.SubtotalCents/100, o.SubtotalCents%100,
		o.ShippingCents/100, o.ShippingCents%100,
		o.TotalCents/100, o.TotalCents%100)
	return body
}

// newOrderNumber builds a human-readable unique order number.
func newOrderNumber() string {
	suffix := make([]byte, 3)
	rand.Read(suffix)
	return fmt.Sprintf("CT-%s-%s", time.Now().UTC().Format("20060102"), hex.EncodeToString(suffix))
}

// serveCached writes the cached payload for key if present.
func (h *Public) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	payload, ok := h.cache.Get(r.Context(), key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
	return true
}

// respondAndCache serializes v once, stores it, and writes it.
func (h *Public) respondAndCache(w http.ResponseWriter, r *http.Request, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		respondInternal(w, "response encode", err)
		return
	}
	h.cache.Set(context.WithoutCancel(r.Context()), key, payload)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
