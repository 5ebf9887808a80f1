package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chemtrade/internal/models"
	"chemtrade/internal/store"
)

// AdminOrders groups order and inquiry management endpoints.
type AdminOrders struct {
	orders    store.OrderStore
	inquiries store.InquiryStore
}

// NewAdminOrders creates the order handler group.
func NewAdminOrders(orders store.OrderStore, inquiries store.InquiryStore) *AdminOrders {
	return &AdminOrders{orders: orders, inquiries: inquiries}
}

// List returns all orders, newest first.
func (h *AdminOrders) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List()
	if err != nil {
		respondInternal(w, "order list", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// Get returns one order with its items.
func (h *AdminOrders) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orders.FindByID(id)
	if err != nil {
		respondInternal(w, "order get", err)
		return
	}
	if order == nil {
		respondError(w, http.StatusNotFound, "no such order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateStatus moves an order forward through its fulfilment states.
// Backward moves and changes to a terminal order are rejected.
func (h *AdminOrders) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	order, err := h.orders.FindByID(id)
	if err != nil {
		respondInternal(w, "order get", err)
		return
	}
	if order == nil {
		respondError(w, http.StatusNotFound, "no such order")
		return
	}
	if !order.Status.CanTransitionTo(req.Status) {
		respondError(w, http.StatusConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, req.Status))
		return
	}

	if err := h.orders.UpdateStatus(id, req.Status); err != nil {
		respondStoreError(w, "order status update", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}

// Inquiries returns all inquiry-form submissions.
func (h *AdminOrders) Inquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.inquiries.List()
	if err != nil {
		respondInternal(w, "inquiry list", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"inquiries": inquiries})
}
