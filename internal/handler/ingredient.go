package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mhollis/larder/internal/ingredient"
	"github.com/mhollis/larder/internal/model"
)

type IngredientHandler struct{}

func NewIngredientHandler() *IngredientHandler {
	return &IngredientHandler{}
}

type parsePreview struct {
	Parsed       model.ParsedIngredient `json:"parsed"`
	CanonicalKey string                 `json:"canonical_key"`
}

// Parse runs a single raw ingredient line through the parser and
// canonicalizer without persisting anything, so clients can preview how a
// line will aggregate before saving a recipe.
func (h *IngredientHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	parsed := ingredient.ParseLine(req.Text)
	key, _ := ingredient.CanonicalKey(&parsed)

	writeJSON(w, http.StatusOK, parsePreview{Parsed: parsed, CanonicalKey: key})
}
