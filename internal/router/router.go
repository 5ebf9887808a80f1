// Package router sets up all HTTP routes and middleware chains for the
// ChemTrade API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"chemtrade/internal/handlers"
	"chemtrade/internal/middleware"
	"chemtrade/internal/session"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth     *handlers.Auth
	Content  *handlers.AdminContent
	Taxonomy *handlers.AdminTaxonomy
	Products *handlers.AdminProducts
	Orders   *handlers.AdminOrders
	Public   *handlers.Public
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check: no auth, no CSRF.
	r.Get("/health", h.Public.Health)

	// Public storefront.
	r.Get("/content", h.Public.Content)
	r.Get("/products", h.Public.Products)
	r.Get("/products/search", h.Public.Search)
	r.Get("/products/{slug}", h.Public.Product)
	r.Get("/products/{slug}/spec-sheet", h.Public.SpecSheet)

	// Public form submissions are rate-limited per IP.
	formLimiter := middleware.NewRateLimiter(10, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(formLimiter.Middleware)
		r.Post("/inquiries", h.Public.CreateInquiry)
		r.Post("/orders", h.Public.CreateOrder)
	})

	// Admin API: authentication and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Login is rate-limited and accessible without a session.
		loginLimiter := middleware.NewRateLimiter(5, time.Minute)
		r.With(loginLimiter.Middleware).Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)

		// 2FA: requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", h.Auth.Me)
			r.Post("/2fa/setup", h.Auth.TwoFASetup)
			r.Post("/2fa/verify", h.Auth.TwoFAVerify)
		})

		// Authenticated and 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Content drafts and publish. Drafts can be saved with the
			// key in the body (POST on the collection) or in the URL.
			r.Route("/content", func(r chi.Router) {
				r.Get("/", h.Content.List)
				r.Post("/", h.Content.SaveDraft)
				r.Post("/publish", h.Content.Publish)
				r.Get("/{key}", h.Content.Get)
				r.Put("/{key}", h.Content.SaveDraft)
			})
			r.Post("/publish", h.Content.Publish)

			// Category structure.
			r.Route("/taxonomy", func(r chi.Router) {
				r.Get("/", h.Taxonomy.Structure)
				r.Post("/categories", h.Taxonomy.AddCategory)
				r.Put("/categories", h.Taxonomy.RenameCategory)
				r.Delete("/categories", h.Taxonomy.DeleteCategory)
				r.Post("/sub-categories", h.Taxonomy.AddSubCategory)
				r.Put("/sub-categories", h.Taxonomy.RenameSubCategory)
				r.Delete("/sub-categories", h.Taxonomy.DeleteSubCategory)
			})

			// Catalog management.
			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Products.List)
				r.Post("/", h.Products.Create)
				r.Get("/{id}", h.Products.Get)
				r.Put("/{id}", h.Products.Update)
				r.Delete("/{id}", h.Products.Delete)
				r.Post("/{id}/enrich", h.Products.Enrich)
				r.Post("/{id}/spec-sheet", h.Products.UploadSpecSheet)
				r.Get("/{id}/spec-sheet", h.Products.SpecSheetURL)
			})

			// Orders and inquiries.
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Orders.List)
				r.Get("/{id}", h.Orders.Get)
				r.Put("/{id}/status", h.Orders.UpdateStatus)
			})
			r.Get("/inquiries", h.Orders.Inquiries)
		})
	})

	return r
}
