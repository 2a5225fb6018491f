package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mhollis/larder/internal/backup"
	"github.com/mhollis/larder/internal/handler"
	"github.com/mhollis/larder/internal/middleware"
	"github.com/mhollis/larder/internal/store"
	ws "github.com/mhollis/larder/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	recipeH       *handler.RecipeHandler
	mealPlanH     *handler.MealPlanHandler
	groceryH      *handler.GroceryHandler
	ingredientH   *handler.IngredientHandler
	overrideH     *handler.OverrideHandler
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, backupCfg backup.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	recipeStore := store.NewRecipeStore(db)
	planStore := store.NewMealPlanStore(db)
	groceryStore := store.NewGroceryStore(db)
	overrideStore := store.NewOverrideStore(db)

	backupMgr := backup.NewManager(backupCfg, db, func(s backup.Status) {
		hub.Broadcast(ws.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(s.State),
			Extra: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	}, logger.With("component", "backup"))

	return &Server{
		db:            db,
		hub:           hub,
		recipeH:       handler.NewRecipeHandler(recipeStore, hub, logger.With("component", "recipe")),
		mealPlanH:     handler.NewMealPlanHandler(planStore, recipeStore, hub, logger.With("component", "meal_plan")),
		groceryH:      handler.NewGroceryHandler(groceryStore, planStore, recipeStore, overrideStore, hub, logger.With("component", "grocery")),
		ingredientH:   handler.NewIngredientHandler(),
		overrideH:     handler.NewOverrideHandler(overrideStore, groceryStore, logger.With("component", "overrides")),
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the snapshot manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Recipe API routes
	mux.HandleFunc("POST /api/recipes", s.recipeH.Create)
	mux.HandleFunc("GET /api/recipes", s.recipeH.List)
	mux.HandleFunc("GET /api/recipes/{id}", s.recipeH.Get)
	mux.HandleFunc("PUT /api/recipes/{id}", s.recipeH.Update)
	mux.HandleFunc("DELETE /api/recipes/{id}", s.recipeH.Delete)

	// Meal plan API routes
	mux.HandleFunc("GET /api/plans", s.mealPlanH.GetPlan)
	mux.HandleFunc("POST /api/plans/{id}/entries", s.mealPlanH.AddEntry)
	mux.HandleFunc("PUT /api/plans/entries/{id}", s.mealPlanH.UpdateEntry)
	mux.HandleFunc("DELETE /api/plans/entries/{id}", s.mealPlanH.DeleteEntry)

	// Grocery API routes. Recompute walks every scheduled recipe, so it gets
	// a rate limit the cheap item edits don't need.
	mux.HandleFunc("POST /api/grocery/recompute", s.rateLimitedHandler(s.groceryH.Recompute))
	mux.HandleFunc("GET /api/grocery/lists", s.groceryH.GetList)
	mux.HandleFunc("GET /api/grocery/lists/{id}", s.groceryH.GetByID)
	mux.HandleFunc("POST /api/grocery/lists/{id}/items", s.groceryH.AddItem)
	mux.HandleFunc("POST /api/grocery/lists/{id}/items/{item_id}/check", s.groceryH.ToggleChecked)
	mux.HandleFunc("PUT /api/grocery/lists/{id}/items/{item_id}/pin", s.groceryH.SetPinned)
	mux.HandleFunc("PUT /api/grocery/lists/{id}/items/{item_id}/notes", s.groceryH.SetNotes)
	mux.HandleFunc("DELETE /api/grocery/lists/{id}/items/{item_id}", s.groceryH.DeleteItem)
	mux.HandleFunc("GET /api/grocery/categories", s.groceryH.Categories)

	// Ingredient parse preview
	mux.HandleFunc("POST /api/ingredient/parse", s.ingredientH.Parse)

	// Override API routes
	mux.HandleFunc("GET /api/overrides", s.overrideH.List)
	mux.HandleFunc("PUT /api/overrides/ingredient", s.overrideH.SetIngredient)
	mux.HandleFunc("DELETE /api/overrides/ingredient", s.overrideH.DeleteIngredient)
	mux.HandleFunc("PUT /api/overrides/category", s.overrideH.SetCategory)
	mux.HandleFunc("DELETE /api/overrides/category", s.overrideH.DeleteCategory)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 30, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
