package ingredient

import (
	"testing"

	"github.com/mhollis/larder/internal/model"
)

func TestCanonicalKeyNilParsed(t *testing.T) {
	_, err := CanonicalKey(nil)
	if err != ErrNoParsedIngredient {
		t.Fatalf("CanonicalKey(nil) err = %v, want ErrNoParsedIngredient", err)
	}
}

func TestCanonicalKeyLowQualityDataIsNotAnError(t *testing.T) {
	key, err := CanonicalKey(&model.ParsedIngredient{Name: "???"})
	if err != nil {
		t.Fatalf("CanonicalKey err = %v, want nil", err)
	}
	if key != "" {
		t.Errorf("key = %q, want empty", key)
	}
}

func TestCanonicalizeTable(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Onion", "onion"},
		{"onions", "onion"},
		{"  Chopped Onions ", "onion"},
		{"berries", "berry"},
		{"tomatoes", "tomato"},
		{"swiss cheese", "swiss cheese"}, // -ss endings keep their s
		{"green beans", "green bean"},
		{"fresh basil", "basil"},
		{"boneless, skinless chicken", "chicken"},
		{"whole milk", "milk"},
	}

	for _, tt := range tests {
		if got := Canonicalize(tt.name); got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCanonicalizeSynonymCollapsing(t *testing.T) {
	a := Canonicalize("scallion")
	b := Canonicalize("green onion")
	if a != b {
		t.Errorf("scallion -> %q, green onion -> %q, want equal", a, b)
	}
	if a != "green onion" {
		t.Errorf("scallion -> %q, want %q", a, "green onion")
	}

	// Plural variants collapse through the same table entry.
	if got := Canonicalize("Scallions"); got != "green onion" {
		t.Errorf("scallions -> %q, want %q", got, "green onion")
	}
}

func TestCanonicalizeDeterministic(t *testing.T) {
	for range 3 {
		if got := Canonicalize("Chopped Fresh Scallions!"); got != "green onion" {
			t.Fatalf("Canonicalize not stable, got %q", got)
		}
	}
}
