package grocery

import (
	"math"
	"testing"

	"github.com/mhollis/larder/internal/model"
)

var testCategories = []model.Category{
	{ID: "produce", Name: "Produce", SortOrder: 1},
	{ID: "dairy", Name: "Dairy", SortOrder: 2},
	{ID: "pantry", Name: "Pantry", SortOrder: 3},
}

func testRecipe(id int64, servings float64, lines ...string) model.Recipe {
	r := model.Recipe{ID: id, Title: "recipe", ServingsDefault: servings}
	for i, raw := range lines {
		r.Ingredients = append(r.Ingredients, model.IngredientLine{
			ID:       id*100 + int64(i),
			RecipeID: id,
			RawText:  raw,
		})
	}
	return r
}

func testPlan(entries ...model.MealPlanEntry) model.MealPlan {
	return model.MealPlan{ID: 1, UserID: 7, Entries: entries}
}

func entry(id, recipeID int64, override *float64) model.MealPlanEntry {
	return model.MealPlanEntry{
		ID:               id,
		PlanID:           1,
		RecipeID:         recipeID,
		ServingsOverride: override,
		IncludeInGrocery: true,
	}
}

func findItem(t *testing.T, list *model.GroceryList, key string) model.GroceryItem {
	t.Helper()
	for _, it := range list.Items {
		if it.CanonicalKey == key {
			return it
		}
	}
	t.Fatalf("item %q not found in list (have %d items)", key, len(list.Items))
	return model.GroceryItem{}
}

func hasModifier(it model.GroceryItem, m string) bool {
	for _, have := range it.Modifiers {
		if have == m {
			return true
		}
	}
	return false
}

func qty(t *testing.T, it model.GroceryItem) float64 {
	t.Helper()
	if it.Quantity == nil {
		t.Fatalf("item %q has nil quantity", it.CanonicalKey)
	}
	return *it.Quantity
}

func TestRecomputeEndToEnd(t *testing.T) {
	recipes := map[int64]model.Recipe{1: testRecipe(1, 2, "1 cup milk")}
	list := Recompute(RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: []model.Category{{ID: "dairy", Name: "Dairy", SortOrder: 2}},
	})

	if len(list.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(list.Items))
	}
	it := list.Items[0]
	if it.CanonicalKey != "milk" {
		t.Errorf("canonical key = %q, want %q", it.CanonicalKey, "milk")
	}
	if it.DisplayName != "milk" {
		t.Errorf("display name = %q, want %q", it.DisplayName, "milk")
	}
	if qty(t, it) != 1 {
		t.Errorf("quantity = %v, want 1", *it.Quantity)
	}
	if it.Unit != "cup" {
		t.Errorf("unit = %q, want %q", it.Unit, "cup")
	}
	if it.CategoryID != "dairy" {
		t.Errorf("category = %q, want %q", it.CategoryID, "dairy")
	}
	if it.Checked || it.Pinned {
		t.Error("fresh item should be unchecked and unpinned")
	}
	if list.Version != 1 {
		t.Errorf("version = %d, want 1", list.Version)
	}
	if len(it.Sources) != 1 || it.Sources[0].RecipeID != 1 || it.Sources[0].MealPlanEntryID != 10 {
		t.Errorf("sources = %+v, want one source from recipe 1 entry 10", it.Sources)
	}
}

func TestRecomputeDedup(t *testing.T) {
	recipes := map[int64]model.Recipe{
		1: testRecipe(1, 4, "2 onion"),
		2: testRecipe(2, 4, "1 onion"),
	}
	list := Recompute(RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil), entry(11, 2, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	})

	if len(list.Items) != 1 {
		t.Fatalf("items = %d, want 1 after dedup", len(list.Items))
	}
	it := findItem(t, list, "onion")
	if qty(t, it) != 3 {
		t.Errorf("quantity = %v, want 3", *it.Quantity)
	}
	if hasModifier(it, ConflictMarker) {
		t.Error("merge of two bare amounts must not flag a unit conflict")
	}
	if len(it.Sources) != 2 {
		t.Errorf("sources = %d, want 2", len(it.Sources))
	}
}

func TestRecomputeCompatibleUnitMerge(t *testing.T) {
	recipes := map[int64]model.Recipe{
		1: testRecipe(1, 4, "1 cup flour"),
		2: testRecipe(2, 4, "0.5 cup flour"),
	}
	list := Recompute(RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil), entry(11, 2, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	})

	it := findItem(t, list, "flour")
	if qty(t, it) != 1.5 {
		t.Errorf("quantity = %v, want 1.5", *it.Quantity)
	}
	if it.Unit != "cup" {
		t.Errorf("unit = %q, want %q", it.Unit, "cup")
	}
	if hasModifier(it, ConflictMarker) {
		t.Error("compatible units must not be flagged")
	}
}

// Mixed-family quantities are summed anyway and only flagged. The total is
// knowingly misleading (here: cups plus grams); this mirrors the documented
// never-drop-numeric-data policy rather than arithmetic sense.
func TestRecomputeIncompatibleUnitMerge(t *testing.T) {
	recipes := map[int64]model.Recipe{
		1: testRecipe(1, 4, "1 cup flour"),
		2: testRecipe(2, 4, "200 g flour"),
	}
	list := Recompute(RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil), entry(11, 2, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	})

	it := findItem(t, list, "flour")
	if qty(t, it) != 201 {
		t.Errorf("quantity = %v, want 201 (summed regardless of family)", *it.Quantity)
	}
	if !hasModifier(it, ConflictMarker) {
		t.Error("mixed unit families must carry the conflict marker")
	}
	if it.Notes != "" {
		t.Errorf("notes = %q, conflict marker must not leak into notes", it.Notes)
	}
}

func TestRecomputeScaling(t *testing.T) {
	override := 2.0
	recipes := map[int64]model.Recipe{1: testRecipe(1, 4, "2 cups rice", "1 lb chicken")}
	list := Recompute(RecomputeInput{
		Plan:       testPlan(entry(10, 1, &override)),
		Recipes:    recipes,
		Categories: testCategories,
	})

	rice := findItem(t, list, "rice")
	if qty(t, rice) != 1 {
		t.Errorf("rice quantity = %v, want 1 (halved)", *rice.Quantity)
	}
	chicken := findItem(t, list, "chicken")
	if qty(t, chicken) != 0.5 {
		t.Errorf("chicken quantity = %v, want 0.5 (halved)", *chicken.Quantity)
	}
}

func TestRecomputeExclusion(t *testing.T) {
	recipes := map[int64]model.Recipe{1: testRecipe(1, 2, "1 cup milk")}
	plan := testPlan(model.MealPlanEntry{ID: 10, PlanID: 1, RecipeID: 1, IncludeInGrocery: false})

	list := Recompute(RecomputeInput{Plan: plan, Recipes: recipes, Categories: testCategories})
	if len(list.Items) != 0 {
		t.Fatalf("items = %d, want 0 for excluded entry", len(list.Items))
	}
}

func TestRecomputeSynonymCollapsing(t *testing.T) {
	recipes := map[int64]model.Recipe{
		1: testRecipe(1, 2, "2 scallions"),
		2: testRecipe(2, 2, "3 green onions"),
	}
	list := Recompute(RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil), entry(11, 2, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	})

	if len(list.Items) != 1 {
		t.Fatalf("items = %d, want 1 (synonyms must collapse)", len(list.Items))
	}
	it := findItem(t, list, "green onion")
	if qty(t, it) != 5 {
		t.Errorf("quantity = %v, want 5", *it.Quantity)
	}
}

func TestRecomputePinnedPreservation(t *testing.T) {
	recipes := map[int64]model.Recipe{1: testRecipe(1, 2, "3 each eggs")}
	in := RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	}
	five := 5.0
	in.Existing = &model.GroceryList{
		ID:      "list-1",
		Version: 3,
		Items: []model.GroceryItem{{
			ID:           "item-1",
			CanonicalKey: "egg",
			DisplayName:  "eggs",
			Quantity:     &five,
			Unit:         "each",
			CategoryID:   "dairy",
			Pinned:       true,
		}},
	}

	list := Recompute(in)
	it := findItem(t, list, "egg")
	if qty(t, it) != 5 {
		t.Errorf("pinned quantity = %v, want 5 (immune to recompute)", *it.Quantity)
	}
	if it.Unit != "each" {
		t.Errorf("pinned unit = %q, want %q", it.Unit, "each")
	}
	if it.ID != "item-1" {
		t.Errorf("id = %q, want reuse of %q", it.ID, "item-1")
	}
	if !it.Pinned {
		t.Error("pinned flag must survive")
	}
	if list.Version != 4 {
		t.Errorf("version = %d, want 4", list.Version)
	}
	if list.ID != "list-1" {
		t.Errorf("list id = %q, want reuse of %q", list.ID, "list-1")
	}
}

func TestRecomputePinnedOrphanCarriedThrough(t *testing.T) {
	in := RecomputeInput{
		Plan:       testPlan(), // recipe removed from the plan entirely
		Recipes:    map[int64]model.Recipe{},
		Categories: testCategories,
	}
	in.Existing = &model.GroceryList{
		ID:      "list-1",
		Version: 1,
		Items: []model.GroceryItem{{
			ID:           "item-manual",
			CanonicalKey: "birthday candle",
			DisplayName:  "birthday candles",
			CategoryID:   "pantry",
			Pinned:       true,
			Notes:        "the tall ones",
		}},
	}

	list := Recompute(in)
	it := findItem(t, list, "birthday candle")
	if it.ID != "item-manual" || it.Notes != "the tall ones" || !it.Pinned {
		t.Errorf("pinned orphan changed across recompute: %+v", it)
	}
}

func TestRecomputeSuppressionPermanence(t *testing.T) {
	recipes := map[int64]model.Recipe{1: testRecipe(1, 2, "1 cup milk")}
	in := RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	}
	in.Existing = &model.GroceryList{
		ID:      "list-1",
		Version: 2,
		Items: []model.GroceryItem{{
			ID:           "item-1",
			CanonicalKey: "milk",
			DisplayName:  "milk",
			CategoryID:   "dairy",
			Suppressed:   true,
		}},
	}

	// The ingredient stays in the plan across several recomputes; the
	// suppressed key must never come back as a visible item.
	list := Recompute(in)
	for round := 0; round < 3; round++ {
		it := findItem(t, list, "milk")
		if !it.Suppressed {
			t.Fatalf("round %d: suppressed item resurfaced: %+v", round, it)
		}
		if len(it.Sources) != 0 {
			t.Fatalf("round %d: tombstone must not accumulate sources", round)
		}
		in.Existing = list
		list = Recompute(in)
	}
}

func TestRecomputeCheckedPreservation(t *testing.T) {
	recipes := map[int64]model.Recipe{1: testRecipe(1, 2, "1 cup milk")}
	in := RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	}
	first := Recompute(in)
	first.Items[0].Checked = true

	in.Existing = first
	second := Recompute(in)
	it := findItem(t, second, "milk")
	if !it.Checked {
		t.Error("checked state must survive recompute while the key persists")
	}
}

func TestRecomputeIdempotence(t *testing.T) {
	recipes := map[int64]model.Recipe{
		1: testRecipe(1, 2, "1 cup milk", "2 cups chopped spinach", "1/2 lb ground beef"),
		2: testRecipe(2, 4, "1 cup milk", "3 tomatoes"),
	}
	in := RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil), entry(11, 2, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	}

	first := Recompute(in)
	in.Existing = first
	second := Recompute(in)

	if second.Version != first.Version+1 {
		t.Errorf("version = %d, want %d", second.Version, first.Version+1)
	}
	if len(second.Items) != len(first.Items) {
		t.Fatalf("item count changed: %d -> %d", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		a, b := first.Items[i], second.Items[i]
		if a.ID != b.ID || a.CanonicalKey != b.CanonicalKey || a.DisplayName != b.DisplayName ||
			a.Unit != b.Unit || a.CategoryID != b.CategoryID || a.Notes != b.Notes ||
			a.Checked != b.Checked || a.Pinned != b.Pinned {
			t.Errorf("item %d drifted: %+v -> %+v", i, a, b)
		}
		if (a.Quantity == nil) != (b.Quantity == nil) {
			t.Errorf("item %d quantity presence drifted", i)
		} else if a.Quantity != nil && math.Abs(*a.Quantity-*b.Quantity) > 1e-9 {
			t.Errorf("item %d quantity drifted: %v -> %v", i, *a.Quantity, *b.Quantity)
		}
	}
}

func TestRecomputeDeterministicOrder(t *testing.T) {
	recipes := map[int64]model.Recipe{
		1: testRecipe(1, 2, "1 cup milk", "2 onions", "1 lb flour", "weird thing one", "weird thing two"),
	}
	in := RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	}

	first := Recompute(in)
	for round := 0; round < 5; round++ {
		next := Recompute(in)
		if len(next.Items) != len(first.Items) {
			t.Fatalf("round %d: item count %d, want %d", round, len(next.Items), len(first.Items))
		}
		for i := range first.Items {
			if next.Items[i].CanonicalKey != first.Items[i].CanonicalKey {
				t.Fatalf("round %d: order drifted at %d: %q vs %q",
					round, i, next.Items[i].CanonicalKey, first.Items[i].CanonicalKey)
			}
		}
	}

	// Known categories sort by their order, unknown-category items last.
	last := first.Items[len(first.Items)-1]
	if _, known := map[string]bool{"produce": true, "dairy": true, "pantry": true}[last.CategoryID]; known {
		prevOrder := 0
		for _, it := range first.Items {
			for _, c := range testCategories {
				if c.ID == it.CategoryID && c.SortOrder < prevOrder {
					t.Fatalf("category order violated at %q", it.CanonicalKey)
				} else if c.ID == it.CategoryID {
					prevOrder = c.SortOrder
				}
			}
		}
	}
}

func TestRecomputeCategoryResolutionOrder(t *testing.T) {
	recipes := map[int64]model.Recipe{1: testRecipe(1, 2, "1 cup milk")}
	in := RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: testCategories,
		Overrides: &model.UserOverrides{
			CategoryMap: map[string]string{"milk": "pantry"},
		},
	}

	// Explicit override beats everything.
	list := Recompute(in)
	if it := findItem(t, list, "milk"); it.CategoryID != "pantry" {
		t.Errorf("override category = %q, want %q", it.CategoryID, "pantry")
	}

	// Previously assigned category beats auto-categorization.
	in.Overrides = nil
	in.Existing = &model.GroceryList{
		ID: "list-1", Version: 1,
		Items: []model.GroceryItem{{ID: "i1", CanonicalKey: "milk", DisplayName: "milk", CategoryID: "produce"}},
	}
	list = Recompute(in)
	if it := findItem(t, list, "milk"); it.CategoryID != "produce" {
		t.Errorf("sticky category = %q, want %q", it.CategoryID, "produce")
	}

	// No history: keyword auto-categorization.
	in.Existing = nil
	list = Recompute(in)
	if it := findItem(t, list, "milk"); it.CategoryID != "dairy" {
		t.Errorf("auto category = %q, want %q", it.CategoryID, "dairy")
	}
}

func TestRecomputeDefaultCategory(t *testing.T) {
	recipes := map[int64]model.Recipe{1: testRecipe(1, 2, "1 bottle weirdstuff")}

	// Falls back to the category literally named Pantry when nothing matches.
	list := Recompute(RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	})
	if it := list.Items[0]; it.CategoryID != "pantry" {
		t.Errorf("default category = %q, want %q", it.CategoryID, "pantry")
	}

	// Without a Pantry, the first category wins; with none, the fixed id.
	list = Recompute(RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: []model.Category{{ID: "misc", Name: "Misc", SortOrder: 1}},
	})
	if it := list.Items[0]; it.CategoryID != "misc" {
		t.Errorf("first-category fallback = %q, want %q", it.CategoryID, "misc")
	}

	list = Recompute(RecomputeInput{Plan: testPlan(entry(10, 1, nil)), Recipes: recipes})
	if it := list.Items[0]; it.CategoryID != FallbackCategoryID {
		t.Errorf("literal fallback = %q, want %q", it.CategoryID, FallbackCategoryID)
	}
}

func TestRecomputeNotesFromModifiers(t *testing.T) {
	recipes := map[int64]model.Recipe{1: testRecipe(1, 2, "2 cups chopped fresh spinach")}
	in := RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	}

	list := Recompute(in)
	it := findItem(t, list, "spinach")
	if it.Notes != "chopped, fresh" {
		t.Errorf("derived notes = %q, want %q", it.Notes, "chopped, fresh")
	}

	// A user-entered note wins over the derived one.
	in.Existing = list
	for i := range in.Existing.Items {
		if in.Existing.Items[i].CanonicalKey == "spinach" {
			in.Existing.Items[i].Notes = "get the bagged kind"
		}
	}
	list = Recompute(in)
	if got := findItem(t, list, "spinach"); got.Notes != "get the bagged kind" {
		t.Errorf("notes = %q, want user note preserved", got.Notes)
	}
}

func TestRecomputeIngredientOverrideTakesPrecedence(t *testing.T) {
	recipes := map[int64]model.Recipe{
		1: testRecipe(1, 2, "1 cup oat drink"),
		2: testRecipe(2, 2, "1 cup oat milk"),
	}
	in := RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil), entry(11, 2, nil)),
		Recipes:    recipes,
		Categories: testCategories,
		Overrides: &model.UserOverrides{
			IngredientCanonical: map[string]string{"1 cup oat drink": "oat milk"},
		},
	}

	list := Recompute(in)
	if len(list.Items) != 1 {
		t.Fatalf("items = %d, want 1 (override must unify keys)", len(list.Items))
	}
	if it := findItem(t, list, "oat milk"); qty(t, it) != 2 {
		t.Errorf("quantity = %v, want 2", *it.Quantity)
	}
}

func TestRecomputeSkipsUnusableLines(t *testing.T) {
	recipes := map[int64]model.Recipe{1: testRecipe(1, 2, "???", "1 cup milk")}
	list := Recompute(RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	})

	// The malformed line is skipped; the rest of the list still computes.
	if len(list.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(list.Items))
	}
	if list.Items[0].CanonicalKey != "milk" {
		t.Errorf("key = %q, want %q", list.Items[0].CanonicalKey, "milk")
	}
}

func TestRecomputeUsesCachedParse(t *testing.T) {
	half := 0.5
	recipes := map[int64]model.Recipe{1: {
		ID: 1, ServingsDefault: 2,
		Ingredients: []model.IngredientLine{{
			ID: 100, RecipeID: 1,
			RawText: "this text would parse differently",
			Parsed:  &model.ParsedIngredient{Name: "butter", Quantity: &half, Unit: "cup", Confidence: 0.8},
		}},
	}}

	list := Recompute(RecomputeInput{
		Plan:       testPlan(entry(10, 1, nil)),
		Recipes:    recipes,
		Categories: testCategories,
	})
	it := findItem(t, list, "butter")
	if qty(t, it) != 0.5 || it.Unit != "cup" {
		t.Errorf("cached parse not honored: %+v", it)
	}
}
