// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package enrich looks up chemical reference data (formula, molar mass,
// IUPAC name) from public chemistry databases. Admins trigger enrichment
// per product; the batch CLI enriches the whole catalog. Each provider
// handles its own HTTP communication and response parsing.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Properties is the reference data a lookup can return. Empty fields mean
// the provider had no value; callers merge non-empty fields into products.
type Properties struct {
	CASNumber string  `json:"cas_number,omitempty"`
	Formula   string  `json:"formula,omitempty"`
	MolarMass float64 `json:"molar_mass,omitempty"`
	IUPACName string  `json:"iupac_name,omitempty"`
}

// ErrNotFound is returned when no database knows the identifier.
var ErrNotFound = errors.New("enrich: compound not found")

// Provider defines the interface all chemistry data sources implement.
type Provider interface {
	// Lookup resolves an identifier (compound name or CAS number) to its
	// reference properties. Returns ErrNotFound for unknown compounds.
	Lookup(ctx context.Context, identifier string) (*Properties, error)

	// Name returns the provider identifier (e.g. "pubchem", "cactus").
	Name() string
}

// Client queries providers in order until one answers. The fallback chain
// keeps enrichment working through individual service outages.
type Client struct {
	providers []Provider
}

// NewClient creates a client over the given providers, tried in order.
func NewClient(providers ...Provider) *Client {
	return &Client{providers: providers}
}

// Lookup tries each provider in order. ErrNotFound from one provider moves
// on to the next; only an all-providers miss surfaces as ErrNotFound.
func (c *Client) Lookup(ctx context.Context, identifier string) (*Properties, error) {
	if len(c.providers) == 0 {
		return nil, errors.New("enrich: no providers configured")
	}

	var lastErr error
	for _, p := range c.providers {
		props, err := p.Lookup(ctx, identifier)
		if err == nil {
			return props, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("enrich provider failed, trying next",
				"provider", p.Name(), "identifier", identifier, "error", err)
		}
	}
	return nil, fmt.Errorf("enrich %q: %w", identifier, lastErr)
}
