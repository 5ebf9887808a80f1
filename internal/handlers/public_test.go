// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chemtrade/internal/models"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := httptest.NewRecorder()
	env.Public.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	mustStatus(t, rec, http.StatusOK)
}

func TestPublicProductsFilter(t *testing.T) {
	env := newTestEnv(t, nil)
	seedProduct(t, env, "Acetone", func(p *models.Product) {
		p.Category = "solvents"
		p.SubCategory = "ketones"
	})
	seedProduct(t, env, "Isopropanol", func(p *models.Product) {
		p.SKU = "IPA-1000"
		p.Category = "solvents"
		p.SubCategory = "alcohols"
	})
	seedProduct(t, env, "Nitric Acid", func(p *models.Product) {
		p.SKU = "HNO3-500"
		p.Category = "acids"
	})

	cases := []struct {
		name   string
		target string
		want   int
	}{
		{"all", "/products", 3},
		{"by category", "/products?category=solvents", 2},
		{"by sub-category", "/products?category=solvents&sub_category=ketones", 1},
		{"mixed-case category", "/products?category=Acids", 1},
		{"mixed-case sub-category", "/products?category=Solvents&sub_category=KETONES", 1},
		{"no match", "/products?category=bases", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Public.Products(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
			mustStatus(t, rec, http.StatusOK)

			var body struct {
				Products []publicProduct `json:"products"`
			}
			decodeBody(t, rec, &body)
			if len(body.Products) != tc.want {
				t.Errorf("products: got %d, want %d", len(body.Products), tc.want)
			}
		})
	}
}

func TestPublicProductRendersDescription(t *testing.T) {
	env := newTestEnv(t, nil)
	seedProduct(t, env, "Acetone", func(p *models.Product) {
		p.Description = "**Technical grade** solvent."
		p.Stock = 0
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/acetone", nil)
	req = withChiURLParam(req, "slug", "acetone")
	env.Public.Product(rec, req)
	mustStatus(t, rec, http.StatusOK)

	var p publicProduct
	decodeBody(t, rec, &p)
	if !strings.Contains(p.DescriptionHTML, "<strong>Technical grade</strong>") {
		t.Errorf("description html: got %q", p.DescriptionHTML)
	}
	if p.InStock {
		t.Error("zero stock must read as out of stock")
	}
}

func TestPublicProductNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/nope", nil)
	req = withChiURLParam(req, "slug", "nope")
	env.Public.Product(rec, req)
	mustStatus(t, rec, http.StatusNotFound)
}

func TestPublicSearch(t *testing.T) {
	env := newTestEnv(t, nil)
	seedProduct(t, env, "Hydrochloric Acid", func(p *models.Product) {
		p.SKU = "HCL-37"
		p.CASNumber = "7647-01-0"
	})

	rec := httptest.NewRecorder()
	env.Public.Search(rec, httptest.NewRequest(http.MethodGet, "/products/search?q=hydrochloric", nil))
	mustStatus(t, rec, http.StatusOK)

	var body struct {
		Results []struct {
			Slug string `json:"slug"`
		} `json:"results"`
	}
	decodeBody(t, rec, &body)
	if len(body.Results) != 1 || body.Results[0].Slug != "hydrochloric-acid" {
		t.Errorf("results: got %+v", body.Results)
	}

	rec = httptest.NewRecorder()
	env.Public.Search(rec, httptest.NewRequest(http.MethodGet, "/products/search", nil))
	mustStatus(t, rec, http.StatusBadRequest)
}

func TestCreateInquiry(t *testing.T) {
	env := newTestEnv(t, nil)
	p := seedProduct(t, env, "Acetone", nil)

	rec := httptest.NewRecorder()
	env.Public.CreateInquiry(rec, jsonRequest(http.MethodPost, "/inquiries", map[string]string{
		"name":       "Jordan Smith",
		"email":      "jordan@lab.example",
		"company":    "Example Labs",
		"product_id": p.ID.String(),
		"message":    "Do you offer bulk pricing on 25 L drums?",
	}))
	mustStatus(t, rec, http.StatusCreated)

	stored, err := env.Stores.Inquiries.List()
	if err != nil {
		t.Fatalf("list inquiries: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("inquiries: got %d", len(stored))
	}
	if stored[0].ProductID == nil || *stored[0].ProductID != p.ID {
		t.Errorf("product link: got %v", stored[0].ProductID)
	}
}

func TestCreateInquiryValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"email": "a@b.example", "message": "hi"}},
		{"bad email", map[string]string{"name": "J", "email": "not-an-email", "message": "hi"}},
		{"missing message", map[string]string{"name": "J", "email": "a@b.example"}},
		{"bad product id", map[string]string{"name": "J", "email": "a@b.example", "message": "hi", "product_id": "nope"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Public.CreateInquiry(rec, jsonRequest(http.MethodPost, "/inquiries", tc.body))
			mustStatus(t, rec, http.StatusBadRequest)
		})
	}
}
