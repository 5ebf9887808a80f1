// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// pubChemProvider implements Provider against the PubChem PUG REST API
// (GET /rest/pug/compound/name/{id}/property/.../JSON).
type pubChemProvider struct {
	baseURL string
	client  *http.Client
}

// NewPubChem creates a PubChem provider. baseURL is overridable for tests;
// empty selects the public API.
func NewPubChem(baseURL string) Provider {
	if baseURL == "" {
		baseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	}
	return &pubChemProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *pubChemProvider) Name() string { return "pubchem" }

func (p *pubChemProvider) Lookup(ctx context.Context, identifier string) (*Properties, error) {
	endpoint := fmt.Sprintf("%s/compound/name/%s/property/MolecularFormula,MolecularWeight,IUPACName/JSON",
		p.baseURL, url.PathEscape(identifier))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("pubchem request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pubchem http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pubchem read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pubchem API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result pubChemResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("pubchem unmarshal: %w", err)
	}
	if len(result.PropertyTable.Properties) == 0 {
		return nil, ErrNotFound
	}

	prop := result.PropertyTable.Properties[0]
	props := &Properties{
		Formula:   prop.MolecularFormula,
		IUPACName: prop.IUPACName,
	}
	// MolecularWeight arrives as a string in current API versions.
	if mw, err := strconv.ParseFloat(prop.MolecularWeight, 64); err == nil {
		props.MolarMass = mw
	}
	return props, nil
}

type pubChemResponse struct {
	PropertyTable struct {
		Properties []struct {
			CID              int    `json:"CID"`
			MolecularFormula string `json:"MolecularFormula"`
			MolecularWeight  string `json:"MolecularWeight"`
			IUPACName        string `json:"IUPACName"`
		} `json:"Properties"`
	} `json:"PropertyTable"`
}
