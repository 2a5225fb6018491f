package grocery

import (
	"testing"

	"github.com/mhollis/larder/internal/model"
)

var categorizeFixture = []model.Category{
	{ID: "produce", Name: "Produce", SortOrder: 1},
	{ID: "dairy", Name: "Dairy", SortOrder: 2},
	{ID: "meat", Name: "Meat & Seafood", SortOrder: 3},
	{ID: "bakery", Name: "Bakery", SortOrder: 4},
	{ID: "pantry", Name: "Pantry", SortOrder: 5},
	{ID: "frozen", Name: "Frozen", SortOrder: 6},
	{ID: "beverages", Name: "Beverages", SortOrder: 7},
}

func TestAutoCategorize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"milk", "dairy"},
		{"whole milk", "dairy"},
		{"baby spinach", "produce"},
		{"chicken breast", "meat"},
		{"sourdough bread", "bakery"},
		{"jasmine rice", "pantry"},
		{"cold brew coffee", "beverages"},
		{"GREEK YOGURT", "dairy"},
	}

	for _, tt := range tests {
		got, ok := AutoCategorize(tt.name, categorizeFixture)
		if !ok {
			t.Errorf("AutoCategorize(%q) matched nothing, want %q", tt.name, tt.want)
			continue
		}
		if got != tt.want {
			t.Errorf("AutoCategorize(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAutoCategorizeListOrderWins(t *testing.T) {
	// "green onion" matches both produce and (via "onion") any later
	// category that listed it; the first category in list order wins.
	reversed := []model.Category{
		{ID: "dairy", Name: "Dairy", SortOrder: 1},
		{ID: "produce", Name: "Produce", SortOrder: 2},
	}
	got, ok := AutoCategorize("green onion", reversed)
	if !ok || got != "produce" {
		t.Errorf("AutoCategorize(green onion) = %q ok=%v, want produce", got, ok)
	}
}

func TestAutoCategorizeNoMatch(t *testing.T) {
	if _, ok := AutoCategorize("mystery substance", categorizeFixture); ok {
		t.Error("expected no category match")
	}
	if _, ok := AutoCategorize("", categorizeFixture); ok {
		t.Error("expected no match for empty name")
	}
}

func TestDefaultCategoryID(t *testing.T) {
	if got := DefaultCategoryID(categorizeFixture); got != "pantry" {
		t.Errorf("default = %q, want pantry", got)
	}

	noPantry := []model.Category{{ID: "misc", Name: "Misc", SortOrder: 1}}
	if got := DefaultCategoryID(noPantry); got != "misc" {
		t.Errorf("default = %q, want first category", got)
	}

	if got := DefaultCategoryID(nil); got != FallbackCategoryID {
		t.Errorf("default = %q, want %q", got, FallbackCategoryID)
	}
}
