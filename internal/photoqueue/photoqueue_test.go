package photoqueue

import (
	"context"
	"os"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/db"
	"github.com/vesselkit/seachest/internal/llm"
	"github.com/vesselkit/seachest/internal/store"
)

// blockingProvider holds every Complete call until released, so tests
// can observe what happens while an extraction is in flight.
type blockingProvider struct {
	mu      sync.Mutex
	calls   int
	answer  string
	started chan struct{}
	release chan struct{}
}

func newBlockingProvider(answer string) *blockingProvider {
	return &blockingProvider{
		answer:  answer,
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (p *blockingProvider) Name() string { return "blocking" }

func (p *blockingProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	p.started <- struct{}{}
	<-p.release
	return &llm.CompletionResponse{Content: p.answer}, nil
}

func (p *blockingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// instantProvider answers immediately.
type instantProvider struct {
	answer string
	calls  int
}

func (p *instantProvider) Name() string { return "instant" }

func (p *instantProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.calls++
	return &llm.CompletionResponse{Content: p.answer}, nil
}

func newTestService(t *testing.T, provider llm.Provider) *Service {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	queue, err := NewStore(database)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	data, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	svc, err := NewService(queue, data, provider, "", t.TempDir(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func jpeg(name string) UploadedFile {
	return UploadedFile{Name: name, ContentType: "image/jpeg", Data: []byte("not-really-a-jpeg")}
}

func TestEnqueueOneItemPerFile(t *testing.T) {
	svc := newTestService(t, nil)

	items, err := svc.Enqueue(context.Background(), []UploadedFile{jpeg("a.jpg"), jpeg("b.jpg")}, false)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 queue items, got %d", len(items))
	}
	for _, item := range items {
		if item.Status != StatusQueued {
			t.Errorf("item %s status = %s, want queued", item.ID, item.Status)
		}
		if len(item.ImagePaths) != 1 {
			t.Errorf("item %s has %d images, want 1", item.ID, len(item.ImagePaths))
		}
	}
}

func TestEnqueueGrouped(t *testing.T) {
	svc := newTestService(t, nil)

	items, err := svc.Enqueue(context.Background(), []UploadedFile{jpeg("front.jpg"), jpeg("back.jpg")}, true)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("grouped upload should make 1 item, got %d", len(items))
	}
	if len(items[0].ImagePaths) != 2 {
		t.Errorf("grouped item has %d images, want 2", len(items[0].ImagePaths))
	}
}

func TestEnqueueFiltersNonImages(t *testing.T) {
	svc := newTestService(t, nil)

	files := []UploadedFile{
		jpeg("ok.jpg"),
		{Name: "notes.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
	}
	items, err := svc.Enqueue(context.Background(), files, false)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the PDF to be dropped, got %d items", len(items))
	}

	if _, err := svc.Enqueue(context.Background(), files[1:], false); err != ErrNoImages {
		t.Errorf("upload with no images: err = %v, want ErrNoImages", err)
	}
}

func TestProcessIsSerialized(t *testing.T) {
	provider := newBlockingProvider(`{"genericName":"Paracetamol"}`)
	svc := newTestService(t, provider)
	ctx := context.Background()

	items, err := svc.Enqueue(ctx, []UploadedFile{jpeg("a.jpg"), jpeg("b.jpg")}, false)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Process(ctx, items[0].ID)
		done <- err
	}()
	<-provider.started

	// A second process while the first is in flight is refused outright
	// and never reaches the extraction backend.
	if _, err := svc.Process(ctx, items[1].ID); err != ErrBusy {
		t.Errorf("concurrent Process: err = %v, want ErrBusy", err)
	}
	if _, err := svc.ProcessAll(ctx); err != ErrBusy {
		t.Errorf("concurrent ProcessAll: err = %v, want ErrBusy", err)
	}
	if got := provider.callCount(); got != 1 {
		t.Errorf("backend saw %d calls during overlap, want 1", got)
	}

	close(provider.release)
	if err := <-done; err != nil {
		t.Fatalf("first Process: %v", err)
	}

	// The slot frees once the first call resolves.
	if _, err := svc.Process(ctx, items[1].ID); err != nil {
		t.Fatalf("Process after release: %v", err)
	}
}

func TestProcessCompletesItem(t *testing.T) {
	svc := newTestService(t, &instantProvider{answer: `{"genericName":"Ibuprofen","strength":"400 mg","expiry":"2027-03-01"}`})
	ctx := context.Background()

	items, err := svc.Enqueue(ctx, []UploadedFile{jpeg("a.jpg")}, false)
	if err != nil {
		t.Fatal(err)
	}

	item, err := svc.Process(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if item.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", item.Status)
	}
	if item.Extracted == nil || item.Extracted.GenericName != "Ibuprofen" {
		t.Errorf("extracted = %+v", item.Extracted)
	}

	// Terminal items are removed, not retried.
	if _, err := svc.Process(ctx, items[0].ID); err == nil {
		t.Error("reprocessing a completed item should fail")
	}
}

func TestProcessFailureIsRecorded(t *testing.T) {
	svc := newTestService(t, &instantProvider{answer: "this is not json"})
	ctx := context.Background()

	items, err := svc.Enqueue(ctx, []UploadedFile{jpeg("a.jpg")}, false)
	if err != nil {
		t.Fatal(err)
	}

	item, err := svc.Process(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("Process should surface failure on the item, not as an error: %v", err)
	}
	if item.Status != StatusFailed {
		t.Errorf("status = %s, want failed", item.Status)
	}
	if item.Error == "" {
		t.Error("failed item should carry an error message")
	}
}

func TestProcessAllClearsCompleted(t *testing.T) {
	provider := &instantProvider{answer: `{"genericName":"Amoxicillin"}`}
	svc := newTestService(t, provider)
	ctx := context.Background()

	if _, err := svc.Enqueue(ctx, []UploadedFile{jpeg("a.jpg"), jpeg("b.jpg"), jpeg("c.jpg")}, false); err != nil {
		t.Fatal(err)
	}

	items, err := svc.ProcessAll(ctx)
	if err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	if provider.calls != 3 {
		t.Errorf("backend calls = %d, want 3", provider.calls)
	}
	if len(items) != 0 {
		t.Errorf("completed items should be cleared, %d remain", len(items))
	}
}

func TestProcessAllRemovesStoredPhotos(t *testing.T) {
	svc := newTestService(t, &instantProvider{answer: `{"genericName":"Amoxicillin"}`})
	ctx := context.Background()

	items, err := svc.Enqueue(ctx, []UploadedFile{jpeg("a.jpg"), jpeg("b.jpg")}, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range items {
		if _, err := os.Stat(item.ImagePaths[0]); err != nil {
			t.Fatalf("uploaded photo not on disk: %v", err)
		}
	}

	if _, err := svc.ProcessAll(ctx); err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}

	// Cleared items must release their photos, same as a manual Remove.
	for _, item := range items {
		if _, err := os.Stat(item.ImagePaths[0]); !os.IsNotExist(err) {
			t.Errorf("photo %s still on disk after clear", item.ImagePaths[0])
		}
	}
}

func TestAcceptCreatesInventoryItem(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	queue, err := NewStore(database)
	if err != nil {
		t.Fatal(err)
	}
	data, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc, err := NewService(queue, data, &instantProvider{answer: `{"genericName":"Paracetamol","strength":"500 mg","expiry":"2026-12-31"}`}, "", t.TempDir(), nil, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	items, err := svc.Enqueue(ctx, []UploadedFile{jpeg("a.jpg")}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Process(ctx, items[0].ID); err != nil {
		t.Fatal(err)
	}

	item, err := svc.Accept(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if item.InventoryID == "" {
		t.Fatal("accepted item should link an inventory record")
	}

	records, err := data.Records(store.CategoryInventory)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 inventory record, got %d", len(records))
	}
	if records[0]["name"] != "Paracetamol 500 mg" {
		t.Errorf("name = %v", records[0]["name"])
	}
	if records[0]["type"] != "medication" {
		t.Errorf("type = %v", records[0]["type"])
	}

	// Accepting twice must not duplicate the inventory record.
	again, err := svc.Accept(ctx, items[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.InventoryID != item.InventoryID {
		t.Error("second accept created a different inventory link")
	}
	records, _ = data.Records(store.CategoryInventory)
	if len(records) != 1 {
		t.Errorf("second accept duplicated the record: %d", len(records))
	}
}

func TestRemoveReturnsUpdatedQueue(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	items, err := svc.Enqueue(ctx, []UploadedFile{jpeg("a.jpg"), jpeg("b.jpg")}, false)
	if err != nil {
		t.Fatal(err)
	}

	remaining, err := svc.Remove(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != items[1].ID {
		t.Errorf("remaining queue = %+v", remaining)
	}
}

func TestInterruptedItemsFailOnRestart(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	queue, err := NewStore(database)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	item := Item{ID: "stuck", Status: StatusQueued, ImagePaths: []string{"x.jpg"}}
	if err := queue.Insert(ctx, item); err != nil {
		t.Fatal(err)
	}
	if err := queue.SetStatus(ctx, "stuck", StatusProcessing, ""); err != nil {
		t.Fatal(err)
	}

	// Simulated restart.
	queue, err = NewStore(database)
	if err != nil {
		t.Fatal(err)
	}
	got, err := queue.Get(ctx, "stuck")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusFailed {
		t.Errorf("status after restart = %s, want failed", got.Status)
	}
	if got.Error == "" {
		t.Error("interrupted item should carry an error message")
	}
}
