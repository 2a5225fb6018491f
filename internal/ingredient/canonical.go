package ingredient

import (
	"errors"
	"strings"
	"unicode"

	"github.com/mhollis/larder/internal/model"
)

// ErrNoParsedIngredient is returned by CanonicalKey when no parsed
// ingredient is supplied at all. Low-quality data never produces an error.
var ErrNoParsedIngredient = errors.New("ingredient: no parsed ingredient")

// CanonicalKey derives the deduplication key for a parsed ingredient: the
// same semantic ingredient, up to known synonyms and preparation words,
// always yields the same key. Pure and deterministic.
func CanonicalKey(parsed *model.ParsedIngredient) (string, error) {
	if parsed == nil {
		return "", ErrNoParsedIngredient
	}
	return Canonicalize(parsed.Name), nil
}

// Canonicalize normalizes an ingredient name: lowercase and trim, strip
// punctuation, collapse known synonyms, singularize, then drop preparation
// words. May return "" when nothing usable remains.
func Canonicalize(name string) string {
	s := stripPunctuation(strings.ToLower(strings.TrimSpace(name)))

	// Synonym collapsing happens before any further normalization so the
	// table can match surface spellings verbatim.
	if canonical, ok := nameSynonyms[s]; ok {
		s = canonical
	}

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		w = singularize(w)
		if _, isModifier := modifierSet[w]; isModifier {
			continue
		}
		kept = append(kept, w)
	}
	key := strings.Join(kept, " ")

	// Second lookup: singularization or modifier stripping can uncover a
	// synonym the verbatim pass missed ("chopped scallions" -> "scallion").
	if canonical, ok := nameSynonyms[key]; ok {
		key = canonical
	}
	return key
}

// stripPunctuation keeps letters, digits, and spaces, mapping everything
// else to a space so word boundaries survive.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// singularize applies naive plural stripping: "-ies" becomes "-y", a fixed
// set of "-es" plurals loses the "es", and a trailing "-s" is dropped unless
// the word ends in "-ss".
func singularize(w string) string {
	if strings.HasSuffix(w, "ies") && len(w) > 3 {
		return w[:len(w)-3] + "y"
	}
	if singular, ok := esPlurals[w]; ok {
		return singular
	}
	if strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 1 {
		return w[:len(w)-1]
	}
	return w
}
