// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search maintains the Bleve full-text index over the product
// catalog. The index is a derived view: it is rebuilt from the store at
// startup and updated inline on every product mutation.
package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"chemtrade/internal/models"
	"chemtrade/internal/store"
)

// Index wraps a Bleve search index over products.
type Index struct {
	index bleve.Index
}

// indexedProduct is the document shape stored in the index.
type indexedProduct struct {
	Name        string
	Slug        string
	SKU         string
	CASNumber   string
	Formula     string
	Category    string
	SubCategory string
	Description string
}

// Result is one search hit.
type Result struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Slug      string              `json:"slug"`
	SKU       string              `json:"sku"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

// Open opens or creates the product index at path. An empty path creates
// an in-memory index, used in demo mode and tests.
func Open(path string) (*Index, error) {
	m := buildIndexMapping()

	if path == "" {
		idx, err := bleve.NewMemOnly(m)
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &Index{index: idx}, nil
	}

	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, m)
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = "en"

	// SKU and CAS numbers are exact identifiers, keep them un-stemmed.
	keywordFieldMapping := bleve.NewTextFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Name", nameFieldMapping)
	docMapping.AddFieldMappingsAt("Slug", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("SKU", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("CASNumber", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Formula", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Category", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("SubCategory", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Description", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Close closes the underlying index.
func (i *Index) Close() error {
	return i.index.Close()
}

// IndexProduct adds or updates one product in the index.
func (i *Index) IndexProduct(p *models.Product) error {
	return i.index.Index(p.ID.String(), toDoc(p))
}

// DeleteProduct removes a product from the index.
func (i *Index) DeleteProduct(id string) error {
	return i.index.Delete(id)
}

// Search runs a query-string search (quotes, boolean operators, fuzzy ~)
// and returns up to limit hits with HTML-highlighted fragments.
func (i *Index) Search(queryStr string, limit int) ([]*Result, error) {
	query := bleve.NewQueryStringQuery(queryStr)

	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Fields = []string{"Name", "Slug", "SKU"}

	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var out []*Result
	for _, hit := range results.Hits {
		r := &Result{
			ID:        hit.ID,
			Score:     hit.Score,
			Fragments: hit.Fragments,
		}
		if name, ok := hit.Fields["Name"].(string); ok {
			r.Name = name
		}
		if slug, ok := hit.Fields["Slug"].(string); ok {
			r.Slug = slug
		}
		if sku, ok := hit.Fields["SKU"].(string); ok {
			r.SKU = sku
		}
		out = append(out, r)
	}
	return out, nil
}

// Rebuild re-indexes the whole catalog in one batch. Called at startup so
// the index never drifts from the store across restarts.
func (i *Index) Rebuild(products store.ProductStore) error {
	list, err := products.List()
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	batch := i.index.NewBatch()
	for idx := range list {
		p := &list[idx]
		if err := batch.Index(p.ID.String(), toDoc(p)); err != nil {
			return fmt.Errorf("batch index %s: %w", p.SKU, err)
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Count returns the number of indexed products.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

func toDoc(p *models.Product) *indexedProduct {
	return &indexedProduct{
		Name:        p.Name,
		Slug:        p.Slug,
		SKU:         p.SKU,
		CASNumber:   p.CASNumber,
		Formula:     p.Formula,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Description: p.Description,
	}
}
