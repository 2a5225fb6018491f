package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mhollis/larder/internal/store"
)

type OverrideHandler struct {
	overrideStore *store.OverrideStore
	groceryStore  *store.GroceryStore
	logger        *slog.Logger
}

func NewOverrideHandler(os *store.OverrideStore, gs *store.GroceryStore, logger *slog.Logger) *OverrideHandler {
	return &OverrideHandler{overrideStore: os, groceryStore: gs, logger: logger}
}

func (h *OverrideHandler) List(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.overrideStore.Get(userIDParam(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load overrides"})
		return
	}
	writeJSON(w, http.StatusOK, overrides)
}

type ingredientOverrideRequest struct {
	UserID       int64  `json:"user_id"`
	RawText      string `json:"raw_text"`
	CanonicalKey string `json:"canonical_key"`
}

// SetIngredient pins a raw ingredient line to a canonical key, bypassing the
// heuristic parser for that exact text on future recomputes.
func (h *OverrideHandler) SetIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.UserID <= 0 {
		req.UserID = 1
	}

	req.RawText = strings.TrimSpace(req.RawText)
	req.CanonicalKey = strings.TrimSpace(req.CanonicalKey)
	if req.RawText == "" || req.CanonicalKey == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "raw_text and canonical_key are required"})
		return
	}

	if err := h.overrideStore.SetIngredientOverride(req.UserID, req.RawText, req.CanonicalKey); err != nil {
		h.logger.Error("set ingredient override", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save override"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OverrideHandler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.UserID <= 0 {
		req.UserID = 1
	}
	if strings.TrimSpace(req.RawText) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "raw_text is required"})
		return
	}

	if err := h.overrideStore.DeleteIngredientOverride(req.UserID, req.RawText); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete override"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryOverrideRequest struct {
	UserID       int64  `json:"user_id"`
	CanonicalKey string `json:"canonical_key"`
	CategoryID   string `json:"category_id"`
}

// SetCategory maps a canonical key to a category, overriding the keyword
// categorizer for that ingredient on future recomputes.
func (h *OverrideHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.UserID <= 0 {
		req.UserID = 1
	}

	req.CanonicalKey = strings.TrimSpace(req.CanonicalKey)
	req.CategoryID = strings.TrimSpace(req.CategoryID)
	if req.CanonicalKey == "" || req.CategoryID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "canonical_key and category_id are required"})
		return
	}

	categories, err := h.groceryStore.ListCategories()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load categories"})
		return
	}
	known := false
	for _, c := range categories {
		if c.ID == req.CategoryID {
			known = true
			break
		}
	}
	if !known {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category_id"})
		return
	}

	if err := h.overrideStore.SetCategoryOverride(req.UserID, req.CanonicalKey, req.CategoryID); err != nil {
		h.logger.Error("set category override", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save override"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OverrideHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.UserID <= 0 {
		req.UserID = 1
	}
	if strings.TrimSpace(req.CanonicalKey) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "canonical_key is required"})
		return
	}

	if err := h.overrideStore.DeleteCategoryOverride(req.UserID, req.CanonicalKey); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete override"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
