package ingredient

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mhollis/larder/internal/model"
)

// Leading quantity forms, tried in order: mixed fraction ("1 1/2"), simple
// fraction ("1/2"), then plain integer or decimal.
var (
	mixedFractionRe = regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)`)
	fractionRe      = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)`)
	numberRe        = regexp.MustCompile(`^(\d+(?:\.\d+)?)`)
)

const (
	confidenceBase      = 0.8
	confidenceNoAmount  = 0.5
	confidenceShortName = 0.3
	confidenceOptional  = 0.6
)

// ParseLine turns one raw ingredient line into structured form. It never
// fails: degenerate input degrades to a low-confidence result instead of an
// error, because partial recipe data is expected.
func ParseLine(raw string) model.ParsedIngredient {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)

	optional := strings.Contains(lower, "optional") || strings.Contains(lower, "to taste")

	quantity, rest := takeQuantity(text)
	unit, rest := takeUnit(stripLeadingArticle(rest))
	modifiers := scanModifiers(rest)
	name := cleanName(rest)

	// Confidence penalties overwrite the base value in sequence; only the
	// last applicable rule sticks. They do not compound.
	confidence := confidenceBase
	if quantity == nil && unit == "" {
		confidence = confidenceNoAmount
	}
	if len([]rune(name)) < 2 {
		confidence = confidenceShortName
	}
	if optional {
		confidence = confidenceOptional
	}

	return model.ParsedIngredient{
		Name:       name,
		Quantity:   quantity,
		Unit:       unit,
		Modifiers:  modifiers,
		Optional:   optional,
		Confidence: confidence,
	}
}

// takeQuantity extracts a leading numeric amount and returns the remainder.
func takeQuantity(text string) (*float64, string) {
	if m := mixedFractionRe.FindStringSubmatch(text); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		num, _ := strconv.ParseFloat(m[2], 64)
		den, _ := strconv.ParseFloat(m[3], 64)
		if den != 0 {
			v := whole + num/den
			return &v, strings.TrimSpace(text[len(m[0]):])
		}
	}
	if m := fractionRe.FindStringSubmatch(text); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den != 0 {
			v := num / den
			return &v, strings.TrimSpace(text[len(m[0]):])
		}
	}
	if m := numberRe.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return &v, strings.TrimSpace(text[len(m[0]):])
		}
	}
	return nil, text
}

// takeUnit consumes a leading unit token when it matches the unit
// vocabulary, returning the canonical unit name and the remainder. Two-word
// spellings ("fl oz") are tried before single tokens.
func takeUnit(text string) (string, string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", text
	}

	if len(fields) >= 2 {
		two := strings.ToLower(trimUnitToken(fields[0]) + " " + trimUnitToken(fields[1]))
		if canonical, ok := unitSynonyms[two]; ok {
			return canonical, strings.TrimSpace(strings.Join(fields[2:], " "))
		}
	}

	one := strings.ToLower(trimUnitToken(fields[0]))
	if canonical, ok := unitSynonyms[one]; ok {
		return canonical, strings.TrimSpace(strings.Join(fields[1:], " "))
	}
	return "", text
}

func trimUnitToken(tok string) string {
	return strings.TrimRight(tok, ".,")
}

// stripLeadingArticle drops a single leading "a", "an", or "the" so a unit
// token right behind it ("a pinch of salt") is still recognized.
func stripLeadingArticle(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return text
	}
	switch strings.ToLower(fields[0]) {
	case "a", "an", "the":
		return strings.Join(fields[1:], " ")
	}
	return text
}

// scanModifiers collects every known modifier word present in the text.
// Order of appearance is kept but carries no meaning.
func scanModifiers(text string) []string {
	var found []string
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:()")
		if _, ok := modifierSet[word]; !ok {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		found = append(found, word)
	}
	return found
}

var optionalPhraseRe = regexp.MustCompile(`(?i)\b(optional|to taste)\b`)

// cleanName strips parenthetical asides, leading articles, and the
// optional/to-taste phrases, leaving the ingredient name. Preparation words
// stay in the name; the canonical key generator removes them later.
func cleanName(text string) string {
	s := removeParenthetical(text)
	s = optionalPhraseRe.ReplaceAllString(s, "")

	fields := strings.Fields(s)
	for len(fields) > 0 {
		switch strings.ToLower(fields[0]) {
		case "a", "an", "the", "of":
			fields = fields[1:]
		default:
			return strings.Trim(strings.Join(fields, " "), " ,.;:-")
		}
	}
	return ""
}

// removeParenthetical drops any (possibly nested) parenthesized spans.
func removeParenthetical(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
