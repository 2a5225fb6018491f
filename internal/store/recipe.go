package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mhollis/larder/internal/model"
)

type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

const recipeCols = `id, title, servings_default, created_at`

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	if err := scanner.Scan(&r.ID, &r.Title, &r.ServingsDefault, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

const lineCols = `id, recipe_id, raw_text, sort_order, parsed, created_at`

func scanLine(scanner interface{ Scan(...any) error }) (*model.IngredientLine, error) {
	var line model.IngredientLine
	var parsed sql.NullString
	err := scanner.Scan(&line.ID, &line.RecipeID, &line.RawText, &line.SortOrder, &parsed, &line.CreatedAt)
	if err != nil {
		return nil, err
	}
	if parsed.Valid && parsed.String != "" {
		var p model.ParsedIngredient
		if err := json.Unmarshal([]byte(parsed.String), &p); err != nil {
			return nil, fmt.Errorf("decode parsed cache: %w", err)
		}
		line.Parsed = &p
	}
	return &line, nil
}

func (s *RecipeStore) Create(title string, servingsDefault float64) (*model.Recipe, error) {
	result, err := s.db.Exec(
		`INSERT INTO recipes (title, servings_default) VALUES (?, ?)`,
		title, servingsDefault,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// AddLine appends one raw ingredient line. A pre-computed parse result may
// be supplied to warm the cache; pass nil to leave it uncomputed.
func (s *RecipeStore) AddLine(recipeID int64, rawText string, sortOrder int, parsed *model.ParsedIngredient) (*model.IngredientLine, error) {
	var cache sql.NullString
	if parsed != nil {
		data, err := json.Marshal(parsed)
		if err != nil {
			return nil, fmt.Errorf("encode parsed cache: %w", err)
		}
		cache = sql.NullString{String: string(data), Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO ingredient_lines (recipe_id, raw_text, sort_order, parsed) VALUES (?, ?, ?, ?)`,
		recipeID, rawText, sortOrder, cache,
	)
	if err != nil {
		return nil, fmt.Errorf("insert ingredient line: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+lineCols+` FROM ingredient_lines WHERE id = ?`, id)
	line, err := scanLine(row)
	if err != nil {
		return nil, fmt.Errorf("get ingredient line: %w", err)
	}
	return line, nil
}

// CacheParsed writes the parser output back onto a line so later recomputes
// skip re-parsing.
func (s *RecipeStore) CacheParsed(lineID int64, parsed *model.ParsedIngredient) error {
	data, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("encode parsed cache: %w", err)
	}
	if _, err := s.db.Exec(`UPDATE ingredient_lines SET parsed = ? WHERE id = ?`, string(data), lineID); err != nil {
		return fmt.Errorf("cache parsed: %w", err)
	}
	return nil
}

func (s *RecipeStore) GetByID(id int64) (*model.Recipe, error) {
	row := s.db.QueryRow(`SELECT `+recipeCols+` FROM recipes WHERE id = ?`, id)
	recipe, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	lines, err := s.linesForRecipe(id)
	if err != nil {
		return nil, err
	}
	recipe.Ingredients = lines
	return recipe, nil
}

func (s *RecipeStore) linesForRecipe(recipeID int64) ([]model.IngredientLine, error) {
	rows, err := s.db.Query(
		`SELECT `+lineCols+` FROM ingredient_lines WHERE recipe_id = ? ORDER BY sort_order ASC, id ASC`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ingredient lines: %w", err)
	}
	defer rows.Close()

	var lines []model.IngredientLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient line: %w", err)
		}
		lines = append(lines, *line)
	}
	return lines, rows.Err()
}

func (s *RecipeStore) List() ([]model.Recipe, error) {
	rows, err := s.db.Query(`SELECT ` + recipeCols + ` FROM recipes ORDER BY title ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

// MapByIDs loads the given recipes, ingredient lines included, keyed by id.
// Missing ids are simply absent from the result.
func (s *RecipeStore) MapByIDs(ids []int64) (map[int64]model.Recipe, error) {
	recipes := make(map[int64]model.Recipe, len(ids))
	for _, id := range ids {
		if _, done := recipes[id]; done {
			continue
		}
		r, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if r != nil {
			recipes[id] = *r
		}
	}
	return recipes, nil
}

func (s *RecipeStore) Update(id int64, title string, servingsDefault float64) (*model.Recipe, error) {
	_, err := s.db.Exec(
		`UPDATE recipes SET title = ?, servings_default = ? WHERE id = ?`,
		title, servingsDefault, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return s.GetByID(id)
}

// ReplaceLines swaps a recipe's full ingredient list for a new one.
func (s *RecipeStore) ReplaceLines(recipeID int64, lines []model.IngredientLine) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ingredient_lines WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("clear ingredient lines: %w", err)
	}
	for i, line := range lines {
		var cache sql.NullString
		if line.Parsed != nil {
			data, err := json.Marshal(line.Parsed)
			if err != nil {
				return fmt.Errorf("encode parsed cache: %w", err)
			}
			cache = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO ingredient_lines (recipe_id, raw_text, sort_order, parsed) VALUES (?, ?, ?, ?)`,
			recipeID, line.RawText, i, cache,
		); err != nil {
			return fmt.Errorf("insert ingredient line: %w", err)
		}
	}
	return tx.Commit()
}

func (s *RecipeStore) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM recipes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
