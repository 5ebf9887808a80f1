// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// cactusProvider implements Provider against the NCI/CADD CACTUS chemical
// identifier resolver. CACTUS answers one property per request as plain
// text, so a lookup issues several small GETs.
type cactusProvider struct {
	baseURL string
	client  *http.Client
}

// NewCactus creates a CACTUS provider. baseURL is overridable for tests;
// empty selects the public resolver.
func NewCactus(baseURL string) Provider {
	if baseURL == "" {
		baseURL = "https://cactus.nci.nih.gov/chemical/structure"
	}
	return &cactusProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *cactusProvider) Name() string { return "cactus" }

func (c *cactusProvider) Lookup(ctx context.Context, identifier string) (*Properties, error) {
	formula, err := c.resolve(ctx, identifier, "formula")
	if err != nil {
		return nil, err
	}

	props := &Properties{Formula: formula}

	// Secondary properties are best-effort: a formula alone is a usable
	// enrichment result.
	if mw, err := c.resolve(ctx, identifier, "mw"); err == nil {
		if parsed, perr := strconv.ParseFloat(strings.TrimSpace(mw), 64); perr == nil {
			props.MolarMass = parsed
		}
	}
	if cas, err := c.resolve(ctx, identifier, "cas"); err == nil {
		// CACTUS may return several registry numbers, one per line.
		if first, _, _ := strings.Cut(strings.TrimSpace(cas), "\n"); first != "" {
			props.CASNumber = strings.TrimSpace(first)
		}
	}
	if name, err := c.resolve(ctx, identifier, "iupac_name"); err == nil {
		props.IUPACName = strings.TrimSpace(name)
	}

	return props, nil
}

// resolve fetches a single plain-text property for the identifier.
func (c *cactusProvider) resolve(ctx context.Context, identifier, property string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(identifier), property)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("cactus request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cactus http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cactus read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cactus API error (status %d): %s", resp.StatusCode, string(body))
	}

	return strings.TrimSpace(string(body)), nil
}
