package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mhollis/larder/internal/model"
)

// ErrItemNotFound is returned by item-level mutations when the list has no
// item with the given id.
var ErrItemNotFound = errors.New("store: grocery item not found")

// ErrDuplicateItem is returned when a manual add would violate the
// one-item-per-canonical-key invariant.
var ErrDuplicateItem = errors.New("store: grocery item with this canonical key already exists")

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

// --- Category methods ---

const categoryCols = `id, name, sort_order`

func (s *GroceryStore) ListCategories() ([]model.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryCols + ` FROM grocery_categories ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// --- List methods ---

const listCols = `id, user_id, range_start, range_end, version, items, computed_at, updated_at`

func scanList(scanner interface{ Scan(...any) error }) (*model.GroceryList, error) {
	var l model.GroceryList
	var start, end, items string
	err := scanner.Scan(&l.ID, &l.UserID, &start, &end, &l.Version, &items, &l.ComputedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if l.Scope.Start, err = time.Parse(dateLayout, start); err != nil {
		return nil, fmt.Errorf("parse range start: %w", err)
	}
	if l.Scope.End, err = time.Parse(dateLayout, end); err != nil {
		return nil, fmt.Errorf("parse range end: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &l.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return &l, nil
}

// GetByScope returns the list for the exact (user, date range) scope, or nil
// when no recompute has run for it yet.
func (s *GroceryStore) GetByScope(userID int64, start, end time.Time) (*model.GroceryList, error) {
	row := s.db.QueryRow(
		`SELECT `+listCols+` FROM grocery_lists WHERE user_id = ? AND range_start = ? AND range_end = ?`,
		userID, start.Format(dateLayout), end.Format(dateLayout),
	)
	list, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list by scope: %w", err)
	}
	return list, nil
}

func (s *GroceryStore) GetByID(id string) (*model.GroceryList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM grocery_lists WHERE id = ?`, id)
	list, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return list, nil
}

// Save writes a list wholesale, replacing any prior version for its id.
// Concurrent saves of the same scope are last-writer-wins; callers wanting
// stronger guarantees must serialize recomputes per scope.
func (s *GroceryStore) Save(list *model.GroceryList) error {
	items, err := json.Marshal(list.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if list.Items == nil {
		items = []byte(`[]`)
	}

	_, err = s.db.Exec(
		`INSERT INTO grocery_lists (id, user_id, range_start, range_end, version, items, computed_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			items = excluded.items,
			computed_at = excluded.computed_at,
			updated_at = excluded.updated_at`,
		list.ID, list.UserID,
		list.Scope.Start.Format(dateLayout), list.Scope.End.Format(dateLayout),
		list.Version, string(items), list.ComputedAt, list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save list: %w", err)
	}
	return nil
}

// --- Item methods ---
//
// Items are a derived JSON document inside the list row, so item-level edits
// are load-modify-save on the whole document. Each edit touches updated_at
// but leaves version alone; version only moves on recompute.

func (s *GroceryStore) mutateItem(listID, itemID string, mutate func(*model.GroceryItem)) (*model.GroceryList, error) {
	list, err := s.GetByID(listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}

	found := false
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			mutate(&list.Items[i])
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}

	list.UpdatedAt = time.Now().UTC()
	if err := s.Save(list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GroceryStore) ToggleChecked(listID, itemID string) (*model.GroceryList, error) {
	return s.mutateItem(listID, itemID, func(it *model.GroceryItem) {
		it.Checked = !it.Checked
	})
}

func (s *GroceryStore) SetPinned(listID, itemID string, pinned bool) (*model.GroceryList, error) {
	return s.mutateItem(listID, itemID, func(it *model.GroceryItem) {
		it.Pinned = pinned
	})
}

// Suppress marks an item as user-deleted. The tombstone stays in the list so
// later recomputes never resurface the same canonical key.
func (s *GroceryStore) Suppress(listID, itemID string) (*model.GroceryList, error) {
	return s.mutateItem(listID, itemID, func(it *model.GroceryItem) {
		it.Suppressed = true
		it.Checked = false
	})
}

func (s *GroceryStore) SetNotes(listID, itemID, notes string) (*model.GroceryList, error) {
	return s.mutateItem(listID, itemID, func(it *model.GroceryItem) {
		it.Notes = notes
	})
}

// AddManualItem appends a hand-entered item. Manual items are pinned so
// recomputes carry them through even though no recipe produces them.
func (s *GroceryStore) AddManualItem(listID string, item model.GroceryItem) (*model.GroceryList, error) {
	list, err := s.GetByID(listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}

	for _, existing := range list.Items {
		if existing.CanonicalKey == item.CanonicalKey {
			return nil, ErrDuplicateItem
		}
	}

	item.Pinned = true
	list.Items = append(list.Items, item)
	list.UpdatedAt = time.Now().UTC()
	if err := s.Save(list); err != nil {
		return nil, err
	}
	return list, nil
}
