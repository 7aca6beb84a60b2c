package photoqueue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vesselkit/seachest/internal/db"
)

// Store persists queue items, so a half-finished intake survives a
// restart. Items interrupted mid-processing come back as failed.
type Store struct {
	db *db.DB
}

// NewStore creates a queue store and fails any items left in the
// processing state by a previous run.
func NewStore(database *db.DB) (*Store, error) {
	s := &Store{db: database}
	_, err := database.Exec(
		`UPDATE photo_queue SET status = ?, error = ?, updated_at = ? WHERE status = ?`,
		StatusFailed, "interrupted by restart", time.Now().UTC(), StatusProcessing,
	)
	if err != nil {
		return nil, fmt.Errorf("recovering interrupted queue items: %w", err)
	}
	return s, nil
}

// Insert adds a new item.
func (s *Store) Insert(ctx context.Context, item Item) error {
	paths, err := json.Marshal(item.ImagePaths)
	if err != nil {
		return fmt.Errorf("marshalling image paths: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO photo_queue (id, status, image_paths, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Status, string(paths), item.Error, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting queue item: %w", err)
	}
	return nil
}

// Get returns one item by id, or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, image_paths, extracted, inventory_id, error, created_at, updated_at
		 FROM photo_queue WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting queue item: %w", err)
	}
	return item, nil
}

// List returns the whole queue, oldest first.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, image_paths, extracted, inventory_id, error, created_at, updated_at
		 FROM photo_queue ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing queue: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning queue item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetStatus moves an item to a new status, optionally recording an error.
func (s *Store) SetStatus(ctx context.Context, id string, status Status, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE photo_queue SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		status, errMsg, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating queue item status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("queue item %s not found", id)
	}
	return nil
}

// SetResult completes an item with its extracted fields.
func (s *Store) SetResult(ctx context.Context, id string, fields ExtractedFields) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshalling extracted fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE photo_queue SET status = ?, extracted = ?, error = '', updated_at = ? WHERE id = ?`,
		StatusCompleted, string(data), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("storing extraction result: %w", err)
	}
	return nil
}

// LinkInventory records the inventory item created from a completed
// queue item.
func (s *Store) LinkInventory(ctx context.Context, id, inventoryID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE photo_queue SET inventory_id = ?, updated_at = ? WHERE id = ?`,
		inventoryID, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("linking inventory item: %w", err)
	}
	return nil
}

// Delete removes one item.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM photo_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting queue item: %w", err)
	}
	return nil
}

// ClearCompleted removes every completed item and returns their ids.
func (s *Store) ClearCompleted(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM photo_queue WHERE status = ?`, StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("listing completed items: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM photo_queue WHERE status = ?`, StatusCompleted); err != nil {
		return nil, fmt.Errorf("clearing completed items: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var paths string
	var extracted, inventoryID sql.NullString
	if err := row.Scan(&item.ID, &item.Status, &paths, &extracted, &inventoryID, &item.Error, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(paths), &item.ImagePaths); err != nil {
		item.ImagePaths = nil
	}
	if extracted.Valid && extracted.String != "" {
		var fields ExtractedFields
		if err := json.Unmarshal([]byte(extracted.String), &fields); err == nil {
			item.Extracted = &fields
		}
	}
	item.InventoryID = inventoryID.String
	return &item, nil
}
