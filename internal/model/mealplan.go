package model

import "time"

// MealPlanEntry schedules one recipe on one date. ServingsOverride is nil
// when the recipe's default serving count applies. Entries with
// IncludeInGrocery=false are ignored by the grocery recompute.
type MealPlanEntry struct {
	ID               int64     `json:"id"`
	PlanID           int64     `json:"plan_id"`
	Date             time.Time `json:"date"`
	RecipeID         int64     `json:"recipe_id"`
	ServingsOverride *float64  `json:"servings_override"`
	IncludeInGrocery bool      `json:"include_in_grocery"`
	CreatedAt        time.Time `json:"created_at"`
}

// MealPlan is the set of scheduled meals for one user over a date range.
type MealPlan struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	RangeStart time.Time       `json:"range_start"`
	RangeEnd   time.Time       `json:"range_end"`
	Entries    []MealPlanEntry `json:"entries"`
	CreatedAt  time.Time       `json:"created_at"`
}
