package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/larder/internal/grocery"
	"github.com/mhollis/larder/internal/ingredient"
	"github.com/mhollis/larder/internal/model"
	"github.com/mhollis/larder/internal/store"
	"github.com/mhollis/larder/internal/websocket"
)

type GroceryHandler struct {
	groceryStore  *store.GroceryStore
	planStore     *store.MealPlanStore
	recipeStore   *store.RecipeStore
	overrideStore *store.OverrideStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewGroceryHandler(gs *store.GroceryStore, ms *store.MealPlanStore, rs *store.RecipeStore, os *store.OverrideStore, hub *websocket.Hub, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{
		groceryStore:  gs,
		planStore:     ms,
		recipeStore:   rs,
		overrideStore: os,
		hub:           hub,
		logger:        logger,
	}
}

func (h *GroceryHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type recomputeRequest struct {
	UserID     int64  `json:"user_id"`
	RangeStart string `json:"range_start"`
	RangeEnd   string `json:"range_end"`
}

// Recompute rebuilds the grocery list for a (user, date range) scope from the
// current meal plan and replaces the stored list wholesale.
func (h *GroceryHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	var req recomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.UserID <= 0 {
		req.UserID = 1
	}

	start, err := time.Parse(dateLayout, req.RangeStart)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid range_start"})
		return
	}
	end, err := time.Parse(dateLayout, req.RangeEnd)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid range_end"})
		return
	}
	if end.Before(start) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "range_end before range_start"})
		return
	}

	plan, err := h.planStore.GetOrCreatePlan(req.UserID, start, end)
	if err != nil {
		h.logger.Error("load plan for recompute", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load plan"})
		return
	}

	recipeIDs := make([]int64, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		recipeIDs = append(recipeIDs, e.RecipeID)
	}
	recipes, err := h.recipeStore.MapByIDs(recipeIDs)
	if err != nil {
		h.logger.Error("load recipes for recompute", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load recipes"})
		return
	}

	existing, err := h.groceryStore.GetByScope(req.UserID, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load existing list"})
		return
	}
	overrides, err := h.overrideStore.Get(req.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load overrides"})
		return
	}
	categories, err := h.groceryStore.ListCategories()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load categories"})
		return
	}

	list := grocery.Recompute(grocery.RecomputeInput{
		Plan:       *plan,
		Recipes:    recipes,
		Existing:   existing,
		Overrides:  overrides,
		Categories: categories,
		RangeStart: start,
		RangeEnd:   end,
	})

	if err := h.groceryStore.Save(list); err != nil {
		h.logger.Error("save recomputed list", "list_id", list.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save list"})
		return
	}

	h.logger.Info("grocery list recomputed",
		"list_id", list.ID,
		"version", list.Version,
		"items", len(list.Items),
	)
	h.broadcast(websocket.NewMessage("grocery_list", "recomputed", list.ID, map[string]any{"version": list.Version}))

	writeJSON(w, http.StatusOK, list)
}

func (h *GroceryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.groceryStore.ListCategories()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load categories"})
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetList returns the list for ?start=&end=, or 404 when no recompute has run
// for that scope yet.
func (h *GroceryHandler) GetList(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	list, err := h.groceryStore.GetByScope(userIDParam(r), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load list"})
		return
	}
	if list == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no list for this range"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *GroceryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	list, err := h.groceryStore.GetByID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load list"})
		return
	}
	if list == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// mutate runs one item-level edit and handles the shared error mapping.
func (h *GroceryHandler) mutate(w http.ResponseWriter, action string, listID string, fn func() (*model.GroceryList, error)) {
	list, err := fn()
	if errors.Is(err, store.ErrItemNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	if err != nil {
		h.logger.Error("grocery item edit", "action", action, "list_id", listID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update item"})
		return
	}
	if list == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}

	h.broadcast(websocket.NewMessage("grocery_item", action, listID, nil))

	writeJSON(w, http.StatusOK, list)
}

func (h *GroceryHandler) ToggleChecked(w http.ResponseWriter, r *http.Request) {
	listID, itemID := r.PathValue("id"), r.PathValue("item_id")
	h.mutate(w, "checked", listID, func() (*model.GroceryList, error) {
		return h.groceryStore.ToggleChecked(listID, itemID)
	})
}

func (h *GroceryHandler) SetPinned(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pinned bool `json:"pinned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	listID, itemID := r.PathValue("id"), r.PathValue("item_id")
	h.mutate(w, "pinned", listID, func() (*model.GroceryList, error) {
		return h.groceryStore.SetPinned(listID, itemID, req.Pinned)
	})
}

// DeleteItem suppresses rather than removes: the tombstone keeps the item
// from resurfacing on the next recompute.
func (h *GroceryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	listID, itemID := r.PathValue("id"), r.PathValue("item_id")
	h.mutate(w, "suppressed", listID, func() (*model.GroceryList, error) {
		return h.groceryStore.Suppress(listID, itemID)
	})
}

func (h *GroceryHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	listID, itemID := r.PathValue("id"), r.PathValue("item_id")
	h.mutate(w, "notes", listID, func() (*model.GroceryList, error) {
		return h.groceryStore.SetNotes(listID, itemID, req.Notes)
	})
}

type manualItemRequest struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
	Notes    string   `json:"notes"`
	Category string   `json:"category"`
}

// AddItem appends a hand-entered item to an existing list. The name runs
// through the same canonicalizer and categorizer as recipe ingredients so the
// item merges naturally on later recomputes.
func (h *GroceryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")

	var req manualItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	key := ingredient.Canonicalize(req.Name)
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name has no usable ingredient"})
		return
	}

	categoryID := req.Category
	if categoryID == "" {
		categories, err := h.groceryStore.ListCategories()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load categories"})
			return
		}
		if id, ok := grocery.AutoCategorize(key, categories); ok {
			categoryID = id
		} else {
			categoryID = grocery.DefaultCategoryID(categories)
		}
	}

	item := model.GroceryItem{
		ID:           uuid.NewString(),
		CanonicalKey: key,
		DisplayName:  req.Name,
		Quantity:     req.Quantity,
		Unit:         ingredient.NormalizeUnit(req.Unit),
		CategoryID:   categoryID,
		Notes:        req.Notes,
	}

	list, err := h.groceryStore.AddManualItem(listID, item)
	if errors.Is(err, store.ErrDuplicateItem) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "an item with this ingredient already exists"})
		return
	}
	if err != nil {
		h.logger.Error("add manual item", "list_id", listID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add item"})
		return
	}
	if list == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}

	h.broadcast(websocket.NewMessage("grocery_item", "added", listID, nil))

	writeJSON(w, http.StatusCreated, list)
}
