package grocery

import (
	"strings"

	"github.com/mhollis/larder/internal/model"
)

// FallbackCategoryID is used when the caller supplies no categories at all.
const FallbackCategoryID = "uncategorized"

// AutoCategorize returns the id of the first category, in list order, whose
// keyword set matches a substring of the item name. Matching is
// case-insensitive. ok is false when no category matches.
func AutoCategorize(name string, categories []model.Category) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", false
	}

	for _, c := range categories {
		for _, keyword := range categoryKeywords[strings.ToLower(c.Name)] {
			if strings.Contains(n, keyword) {
				return c.ID, true
			}
		}
	}
	return "", false
}

// DefaultCategoryID picks the catch-all category: the one literally named
// "Pantry" if present, else the first category, else a fixed fallback id.
func DefaultCategoryID(categories []model.Category) string {
	for _, c := range categories {
		if c.Name == "Pantry" {
			return c.ID
		}
	}
	if len(categories) > 0 {
		return categories[0].ID
	}
	return FallbackCategoryID
}

// categoryKeywords maps a lowercased category name to its keyword set.
// Within one category, longer/more-specific keywords come first for
// deterministic priority.
var categoryKeywords = map[string][]string{
	"produce": {
		"baby spinach",
		"green onion",
		"sweet potato",
		"bell pepper",
		"cherry tomato",
		"green bean",
		"romaine",
		"arugula",
		"cabbage",
		"cauliflower",
		"broccoli",
		"cucumber",
		"zucchini",
		"squash",
		"melon",
		"berry",
		"berries",
		"fruit",
		"herb",
		"lettuce",
		"spinach",
		"kale",
		"apple",
		"banana",
		"orange",
		"lemon",
		"lime",
		"avocado",
		"tomato",
		"potato",
		"onion",
		"garlic",
		"ginger",
		"pepper",
		"carrot",
		"celery",
		"mushroom",
		"cilantro",
		"coriander",
		"parsley",
		"basil",
	},
	"dairy": {
		"cream cheese",
		"sour cream",
		"heavy cream",
		"cottage cheese",
		"half and half",
		"greek yogurt",
		"almond milk",
		"oat milk",
		"yogurt",
		"cheese",
		"milk",
		"butter",
		"cream",
		"egg",
	},
	"meat & seafood": {
		"chicken breast",
		"chicken thigh",
		"ground beef",
		"ground turkey",
		"pork chop",
		"hot dog",
		"chicken",
		"beef",
		"pork",
		"turkey",
		"bacon",
		"sausage",
		"ham",
		"steak",
		"salmon",
		"shrimp",
		"tuna",
		"fish",
		"lamb",
	},
	"bakery": {
		"sourdough",
		"baguette",
		"bread",
		"bagel",
		"tortilla",
		"bun",
		"roll",
		"muffin",
		"croissant",
		"pita",
	},
	"pantry": {
		"peanut butter",
		"olive oil",
		"coconut oil",
		"maple syrup",
		"soy sauce",
		"hot sauce",
		"pasta sauce",
		"tomato sauce",
		"baking soda",
		"baking powder",
		"cornstarch",
		"canned",
		"cereal",
		"oatmeal",
		"granola",
		"rice",
		"pasta",
		"noodle",
		"flour",
		"sugar",
		"salt",
		"spice",
		"seasoning",
		"vinegar",
		"sauce",
		"broth",
		"stock",
		"soup",
		"bean",
		"lentil",
		"chickpea",
		"honey",
		"oil",
	},
	"frozen": {
		"ice cream",
		"popsicle",
		"frozen",
	},
	"beverages": {
		"sparkling water",
		"orange juice",
		"apple juice",
		"coffee",
		"tea",
		"juice",
		"soda",
		"water",
		"beer",
		"wine",
		"kombucha",
	},
	"snacks": {
		"granola bar",
		"trail mix",
		"chip",
		"cracker",
		"cookie",
		"popcorn",
		"pretzel",
		"candy",
		"chocolate",
	},
}
