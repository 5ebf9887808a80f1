package database

import (
	"fmt"
	"log/slog"
	"time"

	"chemtrade/internal/models"
	"chemtrade/internal/store"
	"chemtrade/internal/taxonomy"
)

// Seed populates an empty store with initial development data: a default
// admin user, published storefront copy, a starter taxonomy, and a few
// sample products. It works against either backend because it goes through
// the repository interfaces, and is a no-op if users already exist.
func Seed(stores *store.Stores) error {
	users, err := stores.Users.List()
	if err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if len(users) > 0 {
		slog.Info("store already seeded, skipping")
		return nil
	}

	// Default admin. 2FA is not enabled; they must set it up on first login.
	if _, err := stores.Users.Create("admin@chemtrade.local", "admin", "Admin", models.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	// Storefront copy.
	seedContent := map[string]string{
		"home.hero_title":    "Laboratory and industrial chemicals, delivered",
		"home.hero_subtitle": "Research-grade reagents and bulk solvents for labs and manufacturers.",
		"contact.intro":      "Questions about bulk pricing or custom synthesis? Get in touch.",
		models.CategoryStructureKey: taxonomy.Encode(taxonomy.Structure{
			"solvents": {"alcohols", "ketones"},
			"acids":    {"mineral"},
		}),
	}
	for key, value := range seedContent {
		if _, err := stores.Content.UpsertDraft(key, value); err != nil {
			return fmt.Errorf("seed content %q: %w", key, err)
		}
	}
	if _, err := stores.Content.PublishAll(time.Now()); err != nil {
		return fmt.Errorf("seed publish: %w", err)
	}

	// Sample catalog.
	seedProducts := []models.Product{
		{
			SKU: "SOL-ACE-500", Name: "Acetone, ACS grade", Slug: "acetone-acs-500ml",
			CASNumber: "67-64-1", Formula: "C3H6O", MolarMass: 58.08,
			Purity: ">=99.5%", HazardClass: "Flam. Liq. 2",
			Category: "solvents", SubCategory: "ketones",
			Description: "General-purpose lab solvent, **ACS grade**.",
			PriceCents:  2500, PackSize: "500 mL", Stock: 120,
		},
		{
			SKU: "SOL-IPA-1L", Name: "Isopropanol 99.9%", Slug: "isopropanol-1l",
			CASNumber: "67-63-0", Formula: "C3H8O", MolarMass: 60.10,
			Purity: "99.9%", HazardClass: "Flam. Liq. 2",
			Category: "solvents", SubCategory: "alcohols",
			PriceCents: 1800, PackSize: "1 L", Stock: 200,
		},
		{
			SKU: "ACD-HCL-2.5L", Name: "Hydrochloric acid 37%", Slug: "hydrochloric-acid-37",
			CASNumber: "7647-01-0", Formula: "HCl", MolarMass: 36.46,
			Purity: "37%", HazardClass: "Skin Corr. 1B",
			Category: "acids", SubCategory: "mineral",
			PriceCents: 3200, PackSize: "2.5 L", Stock: 45,
		},
	}
	for i := range seedProducts {
		if _, err := stores.Products.Create(&seedProducts[i]); err != nil {
			return fmt.Errorf("seed product %q: %w", seedProducts[i].SKU, err)
		}
	}

	slog.Info("store seeded with default admin user",
		"email", "admin@chemtrade.local",
		"password", "admin",
		"products", len(seedProducts),
	)

	return nil
}
