package grocery

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/larder/internal/ingredient"
	"github.com/mhollis/larder/internal/model"
)

// ConflictMarker is appended to an item's modifiers when quantities from
// different unit families were summed. Quantities are never discarded, only
// flagged; the total can therefore be misleading (cups plus grams).
const ConflictMarker = "unit-conflict"

// RecomputeInput bundles everything the pipeline reads. The caller fetches
// all of it up front; Recompute itself performs no I/O and has no failure
// modes over well-formed inputs.
type RecomputeInput struct {
	Plan       model.MealPlan
	Recipes    map[int64]model.Recipe
	Existing   *model.GroceryList   // prior list for the same scope, nil on first run
	Overrides  *model.UserOverrides // optional per-user corrections
	Categories []model.Category     // ordered; drives categorization and sorting
	RangeStart time.Time
	RangeEnd   time.Time
}

// Recompute derives the consolidated grocery list for one (user, date range)
// scope: aggregates parsed ingredients across all scheduled meals, scales by
// serving overrides, reconciles against the prior list without discarding
// user edits, and returns a stably ordered replacement list.
//
// Two recomputes of the same scope race at the storage layer under
// last-writer-wins; callers needing more must serialize per scope.
func Recompute(in RecomputeInput) *model.GroceryList {
	agg := aggregate(in.Plan, in.Recipes, in.Overrides)
	items := reconcile(agg, in.Existing, in.Overrides, in.Categories)
	sortItems(items, in.Categories)

	now := time.Now().UTC()
	list := &model.GroceryList{
		ID:         uuid.NewString(),
		UserID:     in.Plan.UserID,
		Scope:      model.DateRange{Start: in.RangeStart, End: in.RangeEnd},
		Items:      items,
		Version:    1,
		ComputedAt: now,
		UpdatedAt:  now,
	}
	if in.Existing != nil {
		list.ID = in.Existing.ID
		list.Version = in.Existing.Version + 1
	}
	return list
}

// aggregated is one entry of the running per-canonical-key map built while
// walking the meal plan.
type aggregated struct {
	displayName string
	quantity    *float64
	unit        string
	modifiers   []string
	optional    bool
	confidence  float64
	sources     []model.GrocerySource
}

func aggregate(plan model.MealPlan, recipes map[int64]model.Recipe, overrides *model.UserOverrides) map[string]*aggregated {
	agg := make(map[string]*aggregated)

	for _, entry := range plan.Entries {
		if !entry.IncludeInGrocery {
			continue
		}
		recipe, ok := recipes[entry.RecipeID]
		if !ok {
			slog.Warn("plan entry references unknown recipe", "entry_id", entry.ID, "recipe_id", entry.RecipeID)
			continue
		}

		multiplier := 1.0
		if entry.ServingsOverride != nil && recipe.ServingsDefault > 0 {
			multiplier = *entry.ServingsOverride / recipe.ServingsDefault
		}

		for _, line := range recipe.Ingredients {
			parsed := line.Parsed
			if parsed == nil {
				p := ingredient.ParseLine(line.RawText)
				parsed = &p
			}

			key := keyFor(line.RawText, parsed, overrides)
			if key == "" {
				// One malformed line must never block the rest of the list.
				slog.Warn("skipping unusable ingredient line",
					"recipe_id", recipe.ID, "line_id", line.ID, "raw_text", line.RawText)
				continue
			}

			var qty *float64
			if parsed.Quantity != nil {
				v := *parsed.Quantity * multiplier
				qty = &v
			}
			unit := ingredient.NormalizeUnit(parsed.Unit)

			src := model.GrocerySource{
				RecipeID:         recipe.ID,
				MealPlanEntryID:  entry.ID,
				IngredientLineID: line.ID,
				Amount:           model.Amount{Quantity: qty, Unit: unit},
			}
			upsert(agg, key, parsed, qty, unit, src)
		}
	}
	return agg
}

// keyFor resolves the canonical key for one line. A per-rawText user
// override takes precedence over the computed key.
func keyFor(rawText string, parsed *model.ParsedIngredient, overrides *model.UserOverrides) string {
	if overrides != nil {
		if key, ok := overrides.IngredientCanonical[rawText]; ok && key != "" {
			return key
		}
	}
	key, err := ingredient.CanonicalKey(parsed)
	if err != nil {
		return ""
	}
	return key
}

func upsert(agg map[string]*aggregated, key string, parsed *model.ParsedIngredient, qty *float64, unit string, src model.GrocerySource) {
	existing, ok := agg[key]
	if !ok {
		agg[key] = &aggregated{
			displayName: parsed.Name,
			quantity:    qty,
			unit:        unit,
			modifiers:   appendMissing(nil, parsed.Modifiers...),
			optional:    parsed.Optional,
			confidence:  parsed.Confidence,
			sources:     []model.GrocerySource{src},
		}
		return
	}

	existing.sources = append(existing.sources, src)
	existing.modifiers = appendMissing(existing.modifiers, parsed.Modifiers...)
	if parsed.Confidence > existing.confidence {
		existing.confidence = parsed.Confidence
	}

	switch {
	case existing.quantity != nil && qty != nil:
		// Quantities are summed unconditionally, even across unit families.
		// An incompatible pair is flagged, never dropped.
		if !ingredient.CompatibleUnits(existing.unit, unit) {
			existing.modifiers = appendMissing(existing.modifiers, ConflictMarker)
		}
		sum := *existing.quantity + *qty
		existing.quantity = &sum
	case qty != nil:
		existing.quantity = qty
		existing.unit = unit
	}
}

func reconcile(agg map[string]*aggregated, existing *model.GroceryList, overrides *model.UserOverrides, categories []model.Category) []model.GroceryItem {
	prior := make(map[string]model.GroceryItem)
	if existing != nil {
		for _, it := range existing.Items {
			prior[it.CanonicalKey] = it
		}
	}

	keys := make([]string, 0, len(agg))
	for key := range agg {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var items []model.GroceryItem
	for _, key := range keys {
		a := agg[key]
		prev, had := prior[key]
		if had && prev.Suppressed {
			// User deletion is permanent; the tombstone is re-added below.
			continue
		}

		item := model.GroceryItem{
			ID:           uuid.NewString(),
			CanonicalKey: key,
			DisplayName:  a.displayName,
			Quantity:     a.quantity,
			Unit:         a.unit,
			Modifiers:    a.modifiers,
			Sources:      a.sources,
		}
		if had {
			item.ID = prev.ID
			item.Checked = prev.Checked
			item.Pinned = prev.Pinned
			if prev.Pinned {
				// A pinned amount is immune to recompute overwrite.
				item.Quantity = prev.Quantity
				item.Unit = prev.Unit
			}
		}

		item.CategoryID = resolveCategory(key, a.displayName, prev, had, overrides, categories)

		if had && prev.Notes != "" {
			item.Notes = prev.Notes
		} else {
			item.Notes = derivedNotes(a.modifiers)
		}

		items = append(items, item)
	}

	// Carry-throughs from the prior list: suppressed tombstones (so the key
	// never resurfaces) and pinned items no longer produced by any recipe.
	if existing != nil {
		for _, it := range existing.Items {
			if it.Suppressed {
				items = append(items, it)
				continue
			}
			if it.Pinned {
				if _, stillAggregated := agg[it.CanonicalKey]; !stillAggregated {
					items = append(items, it)
				}
			}
		}
	}
	return items
}

// resolveCategory applies the resolution order: explicit user override,
// previously assigned category, keyword auto-categorization, catch-all.
func resolveCategory(key, displayName string, prev model.GroceryItem, had bool, overrides *model.UserOverrides, categories []model.Category) string {
	if overrides != nil {
		if id, ok := overrides.CategoryMap[key]; ok && id != "" {
			return id
		}
	}
	if had && prev.CategoryID != "" {
		return prev.CategoryID
	}
	if id, ok := AutoCategorize(displayName, categories); ok {
		return id
	}
	return DefaultCategoryID(categories)
}

// derivedNotes builds a note from the aggregated modifiers, excluding the
// unit-conflict marker. Empty stays empty.
func derivedNotes(modifiers []string) string {
	var kept []string
	for _, m := range modifiers {
		if m != ConflictMarker {
			kept = append(kept, m)
		}
	}
	return strings.Join(kept, ", ")
}

// sortItems orders by category sort order (unknown categories last), then
// display name, then canonical key as a final tiebreak. The ordering is
// reproducible for identical inputs.
func sortItems(items []model.GroceryItem, categories []model.Category) {
	order := make(map[string]int, len(categories))
	for _, c := range categories {
		order[c.ID] = c.SortOrder
	}

	sort.SliceStable(items, func(i, j int) bool {
		oi, iKnown := order[items[i].CategoryID]
		oj, jKnown := order[items[j].CategoryID]
		if iKnown != jKnown {
			return iKnown
		}
		if iKnown && oi != oj {
			return oi < oj
		}
		if items[i].DisplayName != items[j].DisplayName {
			return items[i].DisplayName < items[j].DisplayName
		}
		return items[i].CanonicalKey < items[j].CanonicalKey
	})
}

func appendMissing(list []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range list {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}
