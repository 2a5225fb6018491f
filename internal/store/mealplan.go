package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mhollis/larder/internal/model"
)

// dateLayout is how plan dates and range bounds are stored; lexical order
// matches chronological order.
const dateLayout = "2006-01-02"

type MealPlanStore struct {
	db *sql.DB
}

func NewMealPlanStore(db *sql.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

const planCols = `id, user_id, range_start, range_end, created_at`

func scanPlan(scanner interface{ Scan(...any) error }) (*model.MealPlan, error) {
	var p model.MealPlan
	var start, end string
	if err := scanner.Scan(&p.ID, &p.UserID, &start, &end, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.RangeStart, err = time.Parse(dateLayout, start); err != nil {
		return nil, fmt.Errorf("parse range start: %w", err)
	}
	if p.RangeEnd, err = time.Parse(dateLayout, end); err != nil {
		return nil, fmt.Errorf("parse range end: %w", err)
	}
	return &p, nil
}

const entryCols = `id, plan_id, date, recipe_id, servings_override, include_in_grocery, created_at`

func scanEntry(scanner interface{ Scan(...any) error }) (*model.MealPlanEntry, error) {
	var e model.MealPlanEntry
	var date string
	var override sql.NullFloat64
	var include int
	err := scanner.Scan(&e.ID, &e.PlanID, &date, &e.RecipeID, &override, &include, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if e.Date, err = time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("parse entry date: %w", err)
	}
	if override.Valid {
		e.ServingsOverride = &override.Float64
	}
	e.IncludeInGrocery = include != 0
	return &e, nil
}

// GetPlan returns the plan for the exact (user, date range) scope, entries
// included, or nil when none exists.
func (s *MealPlanStore) GetPlan(userID int64, start, end time.Time) (*model.MealPlan, error) {
	row := s.db.QueryRow(
		`SELECT `+planCols+` FROM meal_plans WHERE user_id = ? AND range_start = ? AND range_end = ?`,
		userID, start.Format(dateLayout), end.Format(dateLayout),
	)
	plan, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}

	entries, err := s.entriesForPlan(plan.ID)
	if err != nil {
		return nil, err
	}
	plan.Entries = entries
	return plan, nil
}

// GetOrCreatePlan returns the plan for the scope, creating an empty one on
// first use.
func (s *MealPlanStore) GetOrCreatePlan(userID int64, start, end time.Time) (*model.MealPlan, error) {
	plan, err := s.GetPlan(userID, start, end)
	if err != nil || plan != nil {
		return plan, err
	}

	if _, err := s.db.Exec(
		`INSERT INTO meal_plans (user_id, range_start, range_end) VALUES (?, ?, ?)`,
		userID, start.Format(dateLayout), end.Format(dateLayout),
	); err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}
	return s.GetPlan(userID, start, end)
}

func (s *MealPlanStore) entriesForPlan(planID int64) ([]model.MealPlanEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+entryCols+` FROM meal_plan_entries WHERE plan_id = ? ORDER BY date ASC, id ASC`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("list plan entries: %w", err)
	}
	defer rows.Close()

	var entries []model.MealPlanEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *MealPlanStore) GetEntryByID(id int64) (*model.MealPlanEntry, error) {
	row := s.db.QueryRow(`SELECT `+entryCols+` FROM meal_plan_entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plan entry: %w", err)
	}
	return entry, nil
}

func (s *MealPlanStore) AddEntry(planID int64, date time.Time, recipeID int64, servingsOverride *float64, includeInGrocery bool) (*model.MealPlanEntry, error) {
	var override sql.NullFloat64
	if servingsOverride != nil {
		override = sql.NullFloat64{Float64: *servingsOverride, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO meal_plan_entries (plan_id, date, recipe_id, servings_override, include_in_grocery) VALUES (?, ?, ?, ?, ?)`,
		planID, date.Format(dateLayout), recipeID, override, includeInGrocery,
	)
	if err != nil {
		return nil, fmt.Errorf("insert plan entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEntryByID(id)
}

func (s *MealPlanStore) UpdateEntry(id int64, servingsOverride *float64, includeInGrocery bool) (*model.MealPlanEntry, error) {
	var override sql.NullFloat64
	if servingsOverride != nil {
		override = sql.NullFloat64{Float64: *servingsOverride, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE meal_plan_entries SET servings_override = ?, include_in_grocery = ? WHERE id = ?`,
		override, includeInGrocery, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update plan entry: %w", err)
	}
	return s.GetEntryByID(id)
}

func (s *MealPlanStore) DeleteEntry(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM meal_plan_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete plan entry: %w", err)
	}
	return nil
}
