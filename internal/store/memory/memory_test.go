package memory

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"chemtrade/internal/models"
	"chemtrade/internal/store"
)

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o600)
}

func TestContentUpsertDraftCreates(t *testing.T) {
	stores, _ := Open("")

	entry, err := stores.Content.UpsertDraft("home.hero_title", "Lab-grade reagents")
	if err != nil {
		t.Fatalf("UpsertDraft: %v", err)
	}

	if entry.LiveValue != "Lab-grade reagents" {
		t.Errorf("live: got %q", entry.LiveValue)
	}
	if entry.DraftValue == nil || *entry.DraftValue != "Lab-grade reagents" {
		t.Errorf("draft: got %v", entry.DraftValue)
	}
	if entry.IsPublished {
		t.Error("new entry must start unpublished")
	}
}

func TestContentUpsertDraftNeverTouchesLive(t *testing.T) {
	stores, _ := Open("")

	stores.Content.UpsertDraft("home.hero_title", "v1")
	stores.Content.PublishAll(time.Now())

	entry, err := stores.Content.UpsertDraft("home.hero_title", "v2")
	if err != nil {
		t.Fatalf("UpsertDraft: %v", err)
	}
	if entry.LiveValue != "v1" {
		t.Errorf("live changed by draft write: got %q, want v1", entry.LiveValue)
	}
	if entry.DraftValue == nil || *entry.DraftValue != "v2" {
		t.Errorf("draft: got %v, want v2", entry.DraftValue)
	}
}

func TestContentPublishAllRetainsDraft(t *testing.T) {
	stores, _ := Open("")
	stores.Content.UpsertDraft("home.hero_title", "v1")

	now := time.Now()
	promoted, err := stores.Content.PublishAll(now)
	if err != nil {
		t.Fatalf("PublishAll: %v", err)
	}
	if promoted != 1 {
		t.Errorf("promoted: got %d, want 1", promoted)
	}

	entry, _ := stores.Content.Get("home.hero_title")
	if entry.LiveValue != "v1" {
		t.Errorf("live: got %q", entry.LiveValue)
	}
	if !entry.IsPublished {
		t.Error("entry must be published")
	}
	if entry.LastPublishedAt == nil || !entry.LastPublishedAt.Equal(now) {
		t.Errorf("last published at: got %v", entry.LastPublishedAt)
	}
	// Draft is kept after publish; the dirty check is equality-based.
	if entry.DraftValue == nil {
		t.Fatal("draft must be retained after publish")
	}
	if entry.HasUnpublishedChanges() {
		t.Error("freshly published entry should read as clean")
	}
}

func TestProductCreateRejectsDuplicates(t *testing.T) {
	stores, _ := Open("")

	p := &models.Product{SKU: "ACE-500", Name: "Acetone 500mL", Slug: "acetone-500ml", Category: "solvents"}
	if _, err := stores.Products.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := stores.Products.Create(&models.Product{SKU: "ace-500", Name: "Other", Slug: "other"})
	if err != store.ErrDuplicate {
		t.Errorf("duplicate SKU: got %v, want ErrDuplicate", err)
	}

	_, err = stores.Products.Create(&models.Product{SKU: "XYZ-1", Name: "Other", Slug: "acetone-500ml"})
	if err != store.ErrDuplicate {
		t.Errorf("duplicate slug: got %v, want ErrDuplicate", err)
	}
}

func TestProductRenameCategoryCascade(t *testing.T) {
	stores, _ := Open("")

	a, _ := stores.Products.Create(&models.Product{SKU: "A", Name: "A", Slug: "a", Category: "solvents"})
	b, _ := stores.Products.Create(&models.Product{SKU: "B", Name: "B", Slug: "b", Category: "acids"})

	updated, err := stores.Products.RenameCategory("solvents", "organics")
	if err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated: got %d, want 1", updated)
	}

	got, _ := stores.Products.FindByID(a.ID)
	if got.Category != "organics" {
		t.Errorf("cascaded category: got %q", got.Category)
	}
	got, _ = stores.Products.FindByID(b.ID)
	if got.Category != "acids" {
		t.Errorf("unrelated product touched: got %q", got.Category)
	}
}

func TestProductRenameSubCategoryScopedToParent(t *testing.T) {
	stores, _ := Open("")

	a, _ := stores.Products.Create(&models.Product{SKU: "A", Name: "A", Slug: "a", Category: "acids", SubCategory: "strong"})
	b, _ := stores.Products.Create(&models.Product{SKU: "B", Name: "B", Slug: "b", Category: "bases", SubCategory: "strong"})

	updated, err := stores.Products.RenameSubCategory("acids", "strong", "mineral")
	if err != nil {
		t.Fatalf("RenameSubCategory: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated: got %d, want 1", updated)
	}

	got, _ := stores.Products.FindByID(a.ID)
	if got.SubCategory != "mineral" {
		t.Errorf("sub-category: got %q", got.SubCategory)
	}
	got, _ = stores.Products.FindByID(b.ID)
	if got.SubCategory != "strong" {
		t.Errorf("other parent's sub-category touched: got %q", got.SubCategory)
	}
}

func TestOrderLifecycle(t *testing.T) {
	stores, _ := Open("")

	o := &models.Order{
		Number:       "CT-1001",
		CustomerName: "Jordan Reed",
		Email:        "jordan@example.com",
		Items:        []models.OrderItem{{SKU: "ACE-500", UnitPriceCents: 2500, Quantity: 2}},
		Status:       models.OrderStatusPending,
	}
	o.ComputeTotals()

	created, err := stores.Orders.Create(o)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.TotalCents != 6500 {
		t.Errorf("total: got %d", created.TotalCents)
	}

	if err := stores.Orders.UpdateStatus(created.ID, models.OrderStatusConfirmed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, _ := stores.Orders.FindByID(created.ID)
	if got.Status != models.OrderStatusConfirmed {
		t.Errorf("status: got %q", got.Status)
	}
}

func TestUserCreateAndPassword(t *testing.T) {
	stores, _ := Open("")

	u, err := stores.Users.Create("admin@chemtrade.local", "hunter2", "Admin", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !stores.Users.CheckPassword(u, "hunter2") {
		t.Error("correct password rejected")
	}
	if stores.Users.CheckPassword(u, "wrong") {
		t.Error("wrong password accepted")
	}

	if _, err := stores.Users.Create("ADMIN@chemtrade.local", "x", "Dup", models.RoleEditor); err != store.ErrDuplicate {
		t.Errorf("duplicate email: got %v, want ErrDuplicate", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "chemtrade.json")

	stores, _ := Open(path)
	stores.Content.UpsertDraft("home.hero_title", "v1")
	stores.Content.PublishAll(time.Now())
	stores.Products.Create(&models.Product{SKU: "ACE-500", Name: "Acetone", Slug: "acetone", Category: "solvents", PriceCents: 2500})

	// Re-open from the snapshot and verify the data survived.
	reopened, _ := Open(path)

	entry, err := reopened.Content.Get("home.hero_title")
	if err != nil || entry == nil {
		t.Fatalf("content lost in snapshot: %v, %v", entry, err)
	}
	if entry.LiveValue != "v1" || !entry.IsPublished {
		t.Errorf("entry: got %+v", entry)
	}

	p, err := reopened.Products.FindBySlug("acetone")
	if err != nil || p == nil {
		t.Fatalf("product lost in snapshot: %v, %v", p, err)
	}
	if p.PriceCents != 2500 {
		t.Errorf("price: got %d", p.PriceCents)
	}
}

func TestSnapshotCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := writeFile(path, "{not valid json"); err != nil {
		t.Fatal(err)
	}

	stores, _ := Open(path)
	entries, err := stores.Content.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty store, got %d entries", len(entries))
	}
}
