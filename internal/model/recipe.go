package model

import "time"

// ParsedIngredient is the structured form of one raw ingredient line.
// Quantity is nil when no amount could be extracted; Unit is empty when no
// unit token was recognized. Immutable once created.
type ParsedIngredient struct {
	Name       string   `json:"name"`
	Quantity   *float64 `json:"quantity"`
	Unit       string   `json:"unit,omitempty"`
	Modifiers  []string `json:"modifiers,omitempty"`
	Optional   bool     `json:"optional"`
	Confidence float64  `json:"confidence"`
}

// IngredientLine is one raw line of a recipe's ingredient list. Parsed is a
// cache of the parser output; nil means it has not been computed yet.
type IngredientLine struct {
	ID        int64             `json:"id"`
	RecipeID  int64             `json:"recipe_id"`
	RawText   string            `json:"raw_text"`
	SortOrder int               `json:"sort_order"`
	Parsed    *ParsedIngredient `json:"parsed,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type Recipe struct {
	ID              int64            `json:"id"`
	Title           string           `json:"title"`
	ServingsDefault float64          `json:"servings_default"`
	Ingredients     []IngredientLine `json:"ingredients"`
	CreatedAt       time.Time        `json:"created_at"`
}
