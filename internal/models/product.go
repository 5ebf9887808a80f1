// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog item. Category and SubCategory are free
// text, not foreign keys into the taxonomy; the working taxonomy is
// reconciled from product rows plus the persisted structure, so products
// imported in bulk surface their categories without a migration step.
type Product struct {
	ID          uuid.UUID `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	CASNumber   string    `json:"cas_number,omitempty"`
	Formula     string    `json:"formula,omitempty"`
	MolarMass   float64   `json:"molar_mass,omitempty"`
	Purity      string    `json:"purity,omitempty"`
	HazardClass string    `json:"hazard_class,omitempty"`
	Category    string    `json:"category"`
	SubCategory string    `json:"sub_category,omitempty"`
	Description string    `json:"description,omitempty"` // Markdown source
	PriceCents  int64     `json:"price_cents"`
	PackSize    string    `json:"pack_size,omitempty"` // e.g. "500 mL", "25 kg"
	Stock       int       `json:"stock"`
	// SpecSheetKey is the private-bucket object key of the uploaded
	// safety data sheet, if any. Served via presigned URLs only.
	SpecSheetKey string    `json:"spec_sheet_key,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// InStock reports whether the product can currently be ordered.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
