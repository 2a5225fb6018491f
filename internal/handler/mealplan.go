package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mhollis/larder/internal/store"
	"github.com/mhollis/larder/internal/websocket"
)

type MealPlanHandler struct {
	planStore   *store.MealPlanStore
	recipeStore *store.RecipeStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewMealPlanHandler(ms *store.MealPlanStore, rs *store.RecipeStore, hub *websocket.Hub, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{planStore: ms, recipeStore: rs, hub: hub, logger: logger}
}

func (h *MealPlanHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// GetPlan returns the plan for ?start=&end=, creating an empty one on first
// visit so the client always has a plan id to attach entries to.
func (h *MealPlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	plan, err := h.planStore.GetOrCreatePlan(userIDParam(r), start, end)
	if err != nil {
		h.logger.Error("get plan", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load plan"})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type entryRequest struct {
	Date             string   `json:"date"`
	RecipeID         int64    `json:"recipe_id"`
	ServingsOverride *float64 `json:"servings_override"`
	IncludeInGrocery *bool    `json:"include_in_grocery"`
}

func (h *MealPlanHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	planID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date"})
		return
	}
	if req.ServingsOverride != nil && *req.ServingsOverride <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "servings_override must be positive"})
		return
	}

	recipe, err := h.recipeStore.GetByID(req.RecipeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check recipe"})
		return
	}
	if recipe == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "recipe not found"})
		return
	}

	include := true
	if req.IncludeInGrocery != nil {
		include = *req.IncludeInGrocery
	}

	entry, err := h.planStore.AddEntry(planID, date, req.RecipeID, req.ServingsOverride, include)
	if err != nil {
		h.logger.Error("add plan entry", "plan_id", planID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add entry"})
		return
	}

	h.broadcast(websocket.NewMessage("meal_plan", "entry_added", "", map[string]any{"plan_id": planID}))

	writeJSON(w, http.StatusCreated, entry)
}

func (h *MealPlanHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.planStore.GetEntryByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get entry"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entry not found"})
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ServingsOverride != nil && *req.ServingsOverride <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "servings_override must be positive"})
		return
	}

	include := existing.IncludeInGrocery
	if req.IncludeInGrocery != nil {
		include = *req.IncludeInGrocery
	}

	entry, err := h.planStore.UpdateEntry(id, req.ServingsOverride, include)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update entry"})
		return
	}

	h.broadcast(websocket.NewMessage("meal_plan", "entry_updated", "", map[string]any{"plan_id": existing.PlanID}))

	writeJSON(w, http.StatusOK, entry)
}

func (h *MealPlanHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.planStore.GetEntryByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get entry"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entry not found"})
		return
	}

	if err := h.planStore.DeleteEntry(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete entry"})
		return
	}

	h.broadcast(websocket.NewMessage("meal_plan", "entry_deleted", "", map[string]any{"plan_id": existing.PlanID}))

	w.WriteHeader(http.StatusNoContent)
}
