package taxonomy

import (
	"reflect"
	"testing"

	"chemtrade/internal/models"
)

func TestReconcileMergesPersistedAndProducts(t *testing.T) {
	products := []models.Product{
		{Name: "Acetone", Category: "solvents", SubCategory: "ketones"},
		{Name: "Isopropanol", Category: "solvents", SubCategory: "alcohols"},
		{Name: "Hydrochloric Acid", Category: "acids", SubCategory: "mineral"},
	}
	persisted := Structure{
		"solvents": {"alcohols"},
		"bases":    {},
	}

	ws := Reconcile(products, persisted)

	// Persisted categories first (sorted), then first-seen product ones.
	want := []string{"bases", "solvents", "acids"}
	if !reflect.DeepEqual(ws.Categories, want) {
		t.Errorf("categories: got %v, want %v", ws.Categories, want)
	}

	// Persisted sub-categories keep their position, product ones follow.
	if got := ws.SubCategories["solvents"]; !reflect.DeepEqual(got, []string{"alcohols", "ketones"}) {
		t.Errorf("solvents subs: got %v", got)
	}
	if got := ws.SubCategories["acids"]; !reflect.DeepEqual(got, []string{"mineral"}) {
		t.Errorf("acids subs: got %v", got)
	}
	if got := ws.SubCategories["bases"]; len(got) != 0 {
		t.Errorf("bases subs: got %v, want none", got)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	products := []models.Product{
		{Category: "Solvents", SubCategory: "Ketones"},
		{Category: "acids", SubCategory: "mineral"},
		{Category: "solvents", SubCategory: "ketones"},
	}
	persisted := Structure{"solvents": {"alcohols"}}

	first := Reconcile(products, persisted)
	second := Reconcile(products, persisted)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reconcile not stable:\nfirst  %+v\nsecond %+v", first, second)
	}

	// Feeding the output back as the persisted structure must not grow it.
	third := Reconcile(products, first.ToStructure())
	if !reflect.DeepEqual(first.ToStructure(), third.ToStructure()) {
		t.Errorf("reconcile grows on re-feed:\nfirst %v\nthird %v", first.ToStructure(), third.ToStructure())
	}
}

func TestReconcileNormalizesCase(t *testing.T) {
	products := []models.Product{
		{Category: "Solvents", SubCategory: "Ketones"},
		{Category: "SOLVENTS", SubCategory: "ketones"},
	}

	ws := Reconcile(products, nil)

	if !reflect.DeepEqual(ws.Categories, []string{"solvents"}) {
		t.Errorf("categories: got %v", ws.Categories)
	}
	if !reflect.DeepEqual(ws.SubCategories["solvents"], []string{"ketones"}) {
		t.Errorf("subs: got %v", ws.SubCategories["solvents"])
	}
}

func TestReconcileSkipsBlankNames(t *testing.T) {
	products := []models.Product{
		{Category: "", SubCategory: "lost"},
		{Category: "acids", SubCategory: ""},
	}

	ws := Reconcile(products, nil)

	if !reflect.DeepEqual(ws.Categories, []string{"acids"}) {
		t.Errorf("categories: got %v", ws.Categories)
	}
	if len(ws.SubCategories["acids"]) != 0 {
		t.Errorf("acids subs: got %v, want none", ws.SubCategories["acids"])
	}
}

func TestWorkingSetToStructureCopies(t *testing.T) {
	ws := Reconcile([]models.Product{{Category: "acids", SubCategory: "mineral"}}, nil)
	s := ws.ToStructure()

	s["acids"][0] = "mutated"
	if ws.SubCategories["acids"][0] != "mineral" {
		t.Error("ToStructure must not alias the working set's slices")
	}
}
