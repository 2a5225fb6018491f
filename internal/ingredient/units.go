package ingredient

import "strings"

// Family classifies a unit for merge-compatibility decisions. Quantities in
// the same family are meaningfully summable; the engine never converts
// between units, it only classifies them.
type Family string

const (
	FamilyUnknown Family = ""
	FamilyWeight  Family = "weight"
	FamilyVolume  Family = "volume"
	FamilyCount   Family = "count"
)

// NormalizeUnit maps a unit token to its canonical name. Unrecognized tokens
// pass through lowercased and otherwise unchanged.
func NormalizeUnit(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if canonical, ok := unitSynonyms[t]; ok {
		return canonical
	}
	return t
}

// UnitFamily returns the family of a canonical unit, or FamilyUnknown for
// units outside the vocabulary.
func UnitFamily(unit string) Family {
	return unitFamilies[strings.ToLower(strings.TrimSpace(unit))]
}

// CompatibleUnits reports whether quantities in the two units can be summed
// without mixing measurement systems. Two bare amounts (no unit at all) are
// compatible; an unrecognized unit is incompatible with everything,
// including another unit spelled the same way.
func CompatibleUnits(a, b string) bool {
	if a == "" && b == "" {
		return true
	}
	fa, fb := UnitFamily(a), UnitFamily(b)
	return fa != FamilyUnknown && fa == fb
}
