package store

import (
	"database/sql"
	"fmt"

	"github.com/mhollis/larder/internal/model"
)

type OverrideStore struct {
	db *sql.DB
}

func NewOverrideStore(db *sql.DB) *OverrideStore {
	return &OverrideStore{db: db}
}

// Get loads all of a user's overrides. Both maps are always non-nil.
func (s *OverrideStore) Get(userID int64) (*model.UserOverrides, error) {
	overrides := &model.UserOverrides{
		IngredientCanonical: make(map[string]string),
		CategoryMap:         make(map[string]string),
	}

	rows, err := s.db.Query(`SELECT raw_text, canonical_key FROM ingredient_overrides WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ingredient overrides: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw, key string
		if err := rows.Scan(&raw, &key); err != nil {
			return nil, fmt.Errorf("scan ingredient override: %w", err)
		}
		overrides.IngredientCanonical[raw] = key
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := s.db.Query(`SELECT canonical_key, category_id FROM category_overrides WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list category overrides: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var key, categoryID string
		if err := catRows.Scan(&key, &categoryID); err != nil {
			return nil, fmt.Errorf("scan category override: %w", err)
		}
		overrides.CategoryMap[key] = categoryID
	}
	return overrides, catRows.Err()
}

// SetIngredientOverride pins a raw ingredient line to a canonical key,
// replacing any prior mapping for the same text.
func (s *OverrideStore) SetIngredientOverride(userID int64, rawText, canonicalKey string) error {
	_, err := s.db.Exec(
		`INSERT INTO ingredient_overrides (user_id, raw_text, canonical_key) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, raw_text) DO UPDATE SET canonical_key = excluded.canonical_key`,
		userID, rawText, canonicalKey,
	)
	if err != nil {
		return fmt.Errorf("set ingredient override: %w", err)
	}
	return nil
}

func (s *OverrideStore) DeleteIngredientOverride(userID int64, rawText string) error {
	if _, err := s.db.Exec(`DELETE FROM ingredient_overrides WHERE user_id = ? AND raw_text = ?`, userID, rawText); err != nil {
		return fmt.Errorf("delete ingredient override: %w", err)
	}
	return nil
}

// SetCategoryOverride pins a canonical key to a category.
func (s *OverrideStore) SetCategoryOverride(userID int64, canonicalKey, categoryID string) error {
	_, err := s.db.Exec(
		`INSERT INTO category_overrides (user_id, canonical_key, category_id) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, canonical_key) DO UPDATE SET category_id = excluded.category_id`,
		userID, canonicalKey, categoryID,
	)
	if err != nil {
		return fmt.Errorf("set category override: %w", err)
	}
	return nil
}

func (s *OverrideStore) DeleteCategoryOverride(userID int64, canonicalKey string) error {
	if _, err := s.db.Exec(`DELETE FROM category_overrides WHERE user_id = ? AND canonical_key = ?`, userID, canonicalKey); err != nil {
		return fmt.Errorf("delete category override: %w", err)
	}
	return nil
}
