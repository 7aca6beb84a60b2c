package client

import (
	"context"
	"fmt"

	"github.com/vesselkit/seachest/internal/autosave"
	"github.com/vesselkit/seachest/internal/store"
)

// Saver couples the API client with a debounce scheduler. Edits to a
// record are scheduled, not sent: a burst of edits to the same record
// produces one save, and the save re-fetches the collection when it
// fires so it posts the final state of the burst.
type Saver struct {
	client    *Client
	scheduler *autosave.Scheduler
}

// NewSaver creates a saver over the given client and scheduler.
func NewSaver(c *Client, scheduler *autosave.Scheduler) *Saver {
	return &Saver{client: c, scheduler: scheduler}
}

// Autosave schedules an edit to one record, debounced per record so
// edits to different records never cancel each other. When the window
// closes, the whole collection is fetched, the mutation applied, and
// the whole collection posted back. A record id not found in the
// fetched collection is appended as a new record. A failed fetch
// aborts the save: nothing is posted, so the server copy is untouched
// and the edit stays local and visible until the next save attempt.
func (s *Saver) Autosave(category store.Category, id string, mutate func(rec map[string]any)) {
	s.scheduler.Schedule(string(category)+"/"+id, func() error {
		return s.save(category, id, mutate)
	})
}

func (s *Saver) save(category store.Category, id string, mutate func(rec map[string]any)) error {
	ctx := context.Background()
	records, err := s.client.Records(ctx, category)
	if err != nil {
		return fmt.Errorf("fetching %s before save: %w", category, err)
	}

	found := false
	for _, rec := range records {
		if rec["id"] == id {
			mutate(rec)
			found = true
			break
		}
	}
	if !found {
		rec := map[string]any{"id": id}
		mutate(rec)
		records = append(records, rec)
	}

	return s.client.PutRecords(ctx, category, records)
}

// Flush forces a pending save for one record to run now.
func (s *Saver) Flush(category store.Category, id string) {
	s.scheduler.Flush(string(category) + "/" + id)
}

// Stop drains all pending saves.
func (s *Saver) Stop() {
	s.scheduler.Stop()
}
