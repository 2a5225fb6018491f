package ingredient

// Static vocabulary shared by the parser and the canonical key generator.
// These tables are read-only; nothing mutates them at runtime.

// modifierWords is the single shared list of descriptive preparation words.
// The parser collects them from the line and the canonical key generator
// strips them from the name, so both sides must agree on the vocabulary.
var modifierWords = []string{
	"boneless",
	"chopped",
	"cooked",
	"crushed",
	"cubed",
	"diced",
	"dried",
	"finely",
	"fresh",
	"frozen",
	"grated",
	"ground",
	"halved",
	"large",
	"lean",
	"medium",
	"melted",
	"minced",
	"peeled",
	"ripe",
	"roasted",
	"shredded",
	"skinless",
	"sliced",
	"small",
	"softened",
	"thinly",
	"toasted",
	"trimmed",
	"uncooked",
	"whole",
	"zested",
}

var modifierSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(modifierWords))
	for _, w := range modifierWords {
		set[w] = struct{}{}
	}
	return set
}()

// nameSynonyms collapses known variant spellings to one canonical name.
// Applied before singularization, so plural variants are listed explicitly.
var nameSynonyms = map[string]string{
	"scallion":            "green onion",
	"scallions":           "green onion",
	"spring onion":        "green onion",
	"spring onions":       "green onion",
	"cilantro":            "coriander",
	"coriander leaves":    "coriander",
	"garbanzo bean":       "chickpea",
	"garbanzo beans":      "chickpea",
	"garbanzos":           "chickpea",
	"aubergine":           "eggplant",
	"aubergines":          "eggplant",
	"courgette":           "zucchini",
	"courgettes":          "zucchini",
	"capsicum":            "bell pepper",
	"capsicums":           "bell pepper",
	"rocket":              "arugula",
	"confectioners sugar": "powdered sugar",
	"icing sugar":         "powdered sugar",
	"caster sugar":        "superfine sugar",
	"bicarbonate of soda": "baking soda",
	"bicarb":              "baking soda",
	"corn starch":         "cornstarch",
	"cornflour":           "cornstarch",
	"roma tomato":         "tomato",
	"roma tomatoes":       "tomato",
	"yellow onion":        "onion",
	"yellow onions":       "onion",
	"white onion":         "onion",
	"white onions":        "onion",
}

// unitSynonyms maps every accepted unit spelling to its canonical name.
var unitSynonyms = map[string]string{
	"c":           "cup",
	"cup":         "cup",
	"cups":        "cup",
	"tbsp":        "tablespoon",
	"tbs":         "tablespoon",
	"tablespoon":  "tablespoon",
	"tablespoons": "tablespoon",
	"tsp":         "teaspoon",
	"teaspoon":    "teaspoon",
	"teaspoons":   "teaspoon",
	"fl oz":       "fluid ounce",
	"pt":          "pint",
	"pint":        "pint",
	"pints":       "pint",
	"qt":          "quart",
	"quart":       "quart",
	"quarts":      "quart",
	"gal":         "gallon",
	"gallon":      "gallon",
	"gallons":     "gallon",
	"ml":          "milliliter",
	"milliliter":  "milliliter",
	"milliliters": "milliliter",
	"millilitre":  "milliliter",
	"millilitres": "milliliter",
	"l":           "liter",
	"liter":       "liter",
	"liters":      "liter",
	"litre":       "liter",
	"litres":      "liter",
	"pinch":       "pinch",
	"pinches":     "pinch",
	"dash":        "dash",
	"dashes":      "dash",
	"oz":          "ounce",
	"ounce":       "ounce",
	"ounces":      "ounce",
	"lb":          "pound",
	"lbs":         "pound",
	"pound":       "pound",
	"pounds":      "pound",
	"g":           "gram",
	"gram":        "gram",
	"grams":       "gram",
	"kg":          "kilogram",
	"kilogram":    "kilogram",
	"kilograms":   "kilogram",
	"clove":       "clove",
	"cloves":      "clove",
	"can":         "can",
	"cans":        "can",
	"jar":         "jar",
	"jars":        "jar",
	"package":     "package",
	"packages":    "package",
	"pkg":         "package",
	"slice":       "slice",
	"slices":      "slice",
	"piece":       "piece",
	"pieces":      "piece",
	"stick":       "stick",
	"sticks":      "stick",
	"stalk":       "stalk",
	"stalks":      "stalk",
	"sprig":       "sprig",
	"sprigs":      "sprig",
	"bunch":       "bunch",
	"bunches":     "bunch",
	"head":        "head",
	"heads":       "head",
	"each":        "each",
}

// unitFamilies classifies canonical units for merge-compatibility decisions.
// Units absent from this map have an unknown family and are incompatible
// with everything, themselves included.
var unitFamilies = map[string]Family{
	"ounce":    FamilyWeight,
	"pound":    FamilyWeight,
	"gram":     FamilyWeight,
	"kilogram": FamilyWeight,

	"cup":         FamilyVolume,
	"tablespoon":  FamilyVolume,
	"teaspoon":    FamilyVolume,
	"fluid ounce": FamilyVolume,
	"pint":        FamilyVolume,
	"quart":       FamilyVolume,
	"gallon":      FamilyVolume,
	"milliliter":  FamilyVolume,
	"liter":       FamilyVolume,
	"pinch":       FamilyVolume,
	"dash":        FamilyVolume,

	"clove":   FamilyCount,
	"can":     FamilyCount,
	"jar":     FamilyCount,
	"package": FamilyCount,
	"slice":   FamilyCount,
	"piece":   FamilyCount,
	"stick":   FamilyCount,
	"stalk":   FamilyCount,
	"sprig":   FamilyCount,
	"bunch":   FamilyCount,
	"head":    FamilyCount,
	"each":    FamilyCount,
}

// esPlurals is the fixed set of names whose trailing "es" is stripped during
// singularization. Anything else ending in "es" only loses the final "s".
var esPlurals = map[string]string{
	"tomatoes":   "tomato",
	"potatoes":   "potato",
	"peaches":    "peach",
	"radishes":   "radish",
	"bunches":    "bunch",
	"boxes":      "box",
	"dishes":     "dish",
	"mangoes":    "mango",
	"heroes":     "hero",
	"sandwiches": "sandwich",
}
