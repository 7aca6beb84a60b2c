package audit

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/db"
)

func TestRecordAndRecent(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	r := NewRecorder(database, zap.NewNop())
	ctx := context.Background()

	r.Record(ctx, Entry{
		ActorType: ActorUser,
		ActorID:   "operator",
		Action:    ActionRecordDeleted,
		Scope:     ScopeCrew,
		TargetID:  "c-1",
		Summary:   "deleted Ann Lee",
	})
	r.Record(ctx, Entry{
		Action: ActionQueueProcessed,
		Scope:  ScopeQueue,
	})

	entries, err := r.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Defaults fill in for the sparse entry.
	for _, e := range entries {
		if e.ID == "" {
			t.Error("entry id should be generated")
		}
		if e.Timestamp.IsZero() {
			t.Error("timestamp should be set")
		}
		if e.ActorType == "" || e.ActorID == "" {
			t.Error("actor defaults should be filled")
		}
	}
}

func TestRecordNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.Record(context.Background(), Entry{Action: ActionDataSeeded, Scope: ScopeData})
}
