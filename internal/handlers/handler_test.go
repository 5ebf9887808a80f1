// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Everything runs in-process: the memory store backend, an in-memory
// search index, in-process sessions, and a disabled response cache, so
// no external services are needed.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"chemtrade/internal/cache"
	"chemtrade/internal/content"
	"chemtrade/internal/enrich"
	"chemtrade/internal/mail"
	"chemtrade/internal/middleware"
	"chemtrade/internal/models"
	"chemtrade/internal/search"
	"chemtrade/internal/session"
	"chemtrade/internal/store"
	"chemtrade/internal/store/memory"
	"chemtrade/internal/taxonomy"
)

// stubEnrichProvider implements enrich.Provider for handler tests.
type stubEnrichProvider struct {
	name  string
	props *enrich.Properties
	err   error
}

func (s *stubEnrichProvider) Name() string { return s.name }
func (s *stubEnrichProvider) Lookup(_ context.Context, _ string) (*enrich.Properties, error) {
	return s.props, s.err
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Stores   *store.Stores
	Sessions *session.Store
	Content  *content.Service
	Manager  *taxonomy.Manager
	Index    *search.Index
	Cache    *cache.ResponseCache

	Auth       *Auth
	AdmContent *AdminContent
	Taxonomy   *AdminTaxonomy
	Products   *AdminProducts
	Orders     *AdminOrders
	Public     *Public
}

// newTestEnv wires a complete in-process environment. The enrich
// provider is a stub; pass nil props to make every lookup miss.
func newTestEnv(t *testing.T, enrichProps *enrich.Properties) *testEnv {
	t.Helper()

	stores, _ := memory.Open("")
	sessions := session.NewStore(nil, false)
	svc := content.NewService(stores.Content, nil)
	manager := taxonomy.NewManager(svc, stores.Products)
	rc := cache.NewResponseCache(nil, 0)

	idx, err := search.Open("")
	if err != nil {
		t.Fatalf("search.Open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	var enricher *enrich.Client
	if enrichProps != nil {
		enricher = enrich.NewClient(&stubEnrichProvider{name: "stub", props: enrichProps})
	} else {
		enricher = enrich.NewClient(&stubEnrichProvider{name: "stub", err: enrich.ErrNotFound})
	}

	return &testEnv{
		Stores:     stores,
		Sessions:   sessions,
		Content:    svc,
		Manager:    manager,
		Index:      idx,
		Cache:      rc,
		Auth:       NewAuth(sessions, stores.Users),
		AdmContent: NewAdminContent(svc, rc),
		Taxonomy:   NewAdminTaxonomy(manager, rc),
		Products:   NewAdminProducts(stores.Products, idx, rc, nil, enricher),
		Orders:     NewAdminOrders(stores.Orders, stores.Inquiries),
		Public:     NewPublic(svc, stores, idx, rc, nil, mail.LogMailer{}, "sales@chemtrade.test"),
	}
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(method, target, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// decodeBody unmarshals a recorder's JSON body into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testUser creates an admin user in the store.
func testUser(t *testing.T, env *testEnv, email, password string) *models.User {
	t.Helper()
	u, err := env.Stores.Users.Create(email, password, "Test Admin", models.RoleAdmin)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// seedProduct inserts a catalog product with sane defaults overridable
// through mutate.
func seedProduct(t *testing.T, env *testEnv, name string, mutate func(*models.Product)) *models.Product {
	t.Helper()

	p := &models.Product{
		SKU:        "SKU-" + strings.ToUpper(strings.ReplaceAll(name, " ", "-")),
		Name:       name,
		Slug:       strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Category:   "solvents",
		PriceCents: 1999,
		Stock:      10,
	}
	if mutate != nil {
		mutate(p)
	}

	created, err := env.Stores.Products.Create(p)
	if err != nil {
		t.Fatalf("seed product %q: %v", name, err)
	}
	if err := env.Index.IndexProduct(created); err != nil {
		t.Fatalf("index product %q: %v", name, err)
	}
	return created
}

// mustStatus fails the test unless the recorder holds the wanted status.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
