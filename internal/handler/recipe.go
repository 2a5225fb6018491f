package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mhollis/larder/internal/ingredient"
	"github.com/mhollis/larder/internal/model"
	"github.com/mhollis/larder/internal/store"
	"github.com/mhollis/larder/internal/websocket"
)

type RecipeHandler struct {
	recipeStore *store.RecipeStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewRecipeHandler(rs *store.RecipeStore, hub *websocket.Hub, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipeStore: rs, hub: hub, logger: logger}
}

func (h *RecipeHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type recipeRequest struct {
	Title           string   `json:"title"`
	ServingsDefault float64  `json:"servings_default"`
	Lines           []string `json:"lines"`
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.ServingsDefault < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "servings_default must not be negative"})
		return
	}

	recipe, err := h.recipeStore.Create(req.Title, req.ServingsDefault)
	if err != nil {
		h.logger.Error("create recipe", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create recipe"})
		return
	}

	// Parse each line up front so recomputes can use the cached result.
	for i, raw := range req.Lines {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parsed := ingredient.ParseLine(raw)
		if _, err := h.recipeStore.AddLine(recipe.ID, raw, i, &parsed); err != nil {
			h.logger.Error("add ingredient line", "recipe_id", recipe.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add ingredient line"})
			return
		}
	}

	recipe, err = h.recipeStore.GetByID(recipe.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load recipe"})
		return
	}

	h.broadcast(websocket.NewMessage("recipe", "created", "", map[string]any{"recipe_id": recipe.ID}))

	writeJSON(w, http.StatusCreated, recipe)
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list recipes"})
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	recipe, err := h.recipeStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe"})
		return
	}
	if recipe == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.recipeStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	recipe, err := h.recipeStore.Update(id, req.Title, req.ServingsDefault)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update recipe"})
		return
	}

	if req.Lines != nil {
		lines := make([]model.IngredientLine, 0, len(req.Lines))
		for i, raw := range req.Lines {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			parsed := ingredient.ParseLine(raw)
			lines = append(lines, model.IngredientLine{
				RawText:   raw,
				SortOrder: i,
				Parsed:    &parsed,
			})
		}
		if err := h.recipeStore.ReplaceLines(id, lines); err != nil {
			h.logger.Error("replace ingredient lines", "recipe_id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update ingredient lines"})
			return
		}
		recipe, err = h.recipeStore.GetByID(id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load recipe"})
			return
		}
	}

	h.broadcast(websocket.NewMessage("recipe", "updated", "", map[string]any{"recipe_id": id}))

	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.recipeStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}

	if err := h.recipeStore.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete recipe"})
		return
	}

	h.broadcast(websocket.NewMessage("recipe", "deleted", "", map[string]any{"recipe_id": id}))

	w.WriteHeader(http.StatusNoContent)
}
