package model

import "time"

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Amount is a quantity/unit pair as contributed by a single ingredient line,
// after serving scaling. Quantity is nil when unknown.
type Amount struct {
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit,omitempty"`
}

// GrocerySource records which ingredient line of which scheduled recipe
// contributed to a grocery item.
type GrocerySource struct {
	RecipeID         int64  `json:"recipe_id"`
	MealPlanEntryID  int64  `json:"meal_plan_entry_id"`
	IngredientLineID int64  `json:"ingredient_line_id"`
	Amount           Amount `json:"amount"`
}

// GroceryItem is one line of a grocery list. Items are derived during
// recompute and live only inside a GroceryList version; they are never
// persisted independently.
//
// A Suppressed item is a tombstone: the user deleted it, and it is carried
// through every later recompute so the same canonical key never resurfaces.
type GroceryItem struct {
	ID           string          `json:"id"`
	CanonicalKey string          `json:"canonical_key"`
	DisplayName  string          `json:"display_name"`
	Quantity     *float64        `json:"quantity"`
	Unit         string          `json:"unit,omitempty"`
	CategoryID   string          `json:"category_id"`
	Checked      bool            `json:"checked"`
	Pinned       bool            `json:"pinned"`
	Notes        string          `json:"notes,omitempty"`
	Modifiers    []string        `json:"modifiers,omitempty"`
	Sources      []GrocerySource `json:"sources,omitempty"`
	Suppressed   bool            `json:"suppressed,omitempty"`
}

// DateRange is the scope of a grocery list. Start and End are inclusive
// calendar dates.
type DateRange struct {
	Start time.Time `json:"date_range_start"`
	End   time.Time `json:"date_range_end"`
}

// GroceryList is the consolidated shopping list for one (user, date range)
// scope. It is created on the first recompute for the scope and replaced
// wholesale on every subsequent one; Version strictly increases.
type GroceryList struct {
	ID         string        `json:"id"`
	UserID     int64         `json:"user_id"`
	Scope      DateRange     `json:"scope"`
	Items      []GroceryItem `json:"items"`
	Version    int64         `json:"version"`
	ComputedAt time.Time     `json:"computed_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// UserOverrides carries per-user corrections consulted during recompute.
// IngredientCanonical maps a raw ingredient line verbatim to the canonical
// key it should aggregate under; CategoryMap maps a canonical key to a
// category id.
type UserOverrides struct {
	IngredientCanonical map[string]string `json:"ingredient_canonical_map,omitempty"`
	CategoryMap         map[string]string `json:"category_map,omitempty"`
}
