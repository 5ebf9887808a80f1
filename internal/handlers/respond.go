// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handler groups: public storefront
// endpoints and the authenticated admin API.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"chemtrade/internal/store"
	"chemtrade/internal/taxonomy"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondError writes a JSON error body with the given status.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondInternal logs the underlying error and answers with a generic
// 500. Internal details never reach the client.
func respondInternal(w http.ResponseWriter, action string, err error) {
	slog.Error(action+" failed", "error", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// respondTaxonomyError maps taxonomy mutation errors onto HTTP statuses.
// Anything unrecognized is treated as a persistence failure.
func respondTaxonomyError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, taxonomy.ErrEmptyName):
		respondError(w, http.StatusBadRequest, "name is required")
	case errors.Is(err, taxonomy.ErrDuplicate):
		respondError(w, http.StatusConflict, "name already exists")
	case errors.Is(err, taxonomy.ErrNotFound):
		respondError(w, http.StatusNotFound, "no such category or sub-category")
	case errors.Is(err, taxonomy.ErrProtected):
		respondError(w, http.StatusForbidden, "category is protected")
	default:
		respondInternal(w, action, err)
	}
}

// respondStoreError maps repository errors onto HTTP statuses.
func respondStoreError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicate):
		respondError(w, http.StatusConflict, "already exists")
	default:
		respondInternal(w, action, err)
	}
}

// decodeJSON parses the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
