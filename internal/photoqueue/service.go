package photoqueue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/audit"
	"github.com/vesselkit/seachest/internal/llm"
	"github.com/vesselkit/seachest/internal/store"
)

// ErrBusy is returned when a process request arrives while another is
// in flight. The extraction backend is treated as a single slot, so
// concurrent requests are refused, not queued.
var ErrBusy = errors.New("another photo is already being processed")

// ErrNoImages is returned when an upload contains no image files.
var ErrNoImages = errors.New("no image files in upload")

// UploadedFile is one file from a multipart enqueue request.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// extractionPrompt asks the vision model for the label fields as JSON.
const extractionPrompt = `Read the medication package in the photo(s). ` +
	`Respond with a JSON object with keys genericName, brandName, strength, ` +
	`expiry (YYYY-MM-DD if visible) and rawText (all readable label text). ` +
	`Use empty strings for anything not visible.`

// Service owns the photo intake pipeline: uploads on disk, queue items
// in the database and one-at-a-time AI extraction.
type Service struct {
	queue     *Store
	data      *store.Store
	provider  llm.Provider
	model     string
	photosDir string
	recorder  *audit.Recorder
	logger    *zap.Logger

	mu         sync.Mutex
	processing bool
}

// NewService creates the photo queue service. model overrides the
// provider's default for vision requests; empty keeps the default.
func NewService(queue *Store, data *store.Store, provider llm.Provider, model, dataDir string, recorder *audit.Recorder, logger *zap.Logger) (*Service, error) {
	photosDir := filepath.Join(dataDir, "photos")
	if err := os.MkdirAll(photosDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating photos directory: %w", err)
	}
	return &Service{
		queue:     queue,
		data:      data,
		provider:  provider,
		model:     model,
		photosDir: photosDir,
		recorder:  recorder,
		logger:    logger,
	}, nil
}

// Snapshot returns the authoritative queue state.
func (s *Service) Snapshot(ctx context.Context) ([]Item, error) {
	return s.queue.List(ctx)
}

// Enqueue stores uploaded images and adds queue items: one per file, or
// one grouped item covering all files when group is set (multiple shots
// of the same package). Non-image files are dropped; an upload with no
// images left is an error the caller must surface.
func (s *Service) Enqueue(ctx context.Context, files []UploadedFile, group bool) ([]Item, error) {
	var images []UploadedFile
	for _, f := range files {
		if strings.HasPrefix(f.ContentType, "image/") {
			images = append(images, f)
		}
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	var savedBatches [][]string
	if group {
		batch := make([]string, 0, len(images))
		for _, img := range images {
			path, err := s.saveImage(img)
			if err != nil {
				return nil, err
			}
			batch = append(batch, path)
		}
		savedBatches = append(savedBatches, batch)
	} else {
		for _, img := range images {
			path, err := s.saveImage(img)
			if err != nil {
				return nil, err
			}
			savedBatches = append(savedBatches, []string{path})
		}
	}

	now := time.Now().UTC()
	for _, batch := range savedBatches {
		item := Item{
			ID:         uuid.New().String(),
			Status:     StatusQueued,
			ImagePaths: batch,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.queue.Insert(ctx, item); err != nil {
			return nil, err
		}
		s.recorder.Record(ctx, audit.Entry{
			Action:   audit.ActionQueueEnqueued,
			Scope:    audit.ScopeQueue,
			TargetID: item.ID,
			Summary:  fmt.Sprintf("%d photo(s) queued", len(batch)),
		})
	}

	return s.queue.List(ctx)
}

func (s *Service) saveImage(f UploadedFile) (string, error) {
	ext := filepath.Ext(f.Name)
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.New().String() + ext
	path := filepath.Join(s.photosDir, name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("saving photo: %w", err)
	}
	return path, nil
}

// tryAcquire takes the single processing slot. It returns false when a
// request is already in flight.
func (s *Service) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return false
	}
	s.processing = true
	return true
}

func (s *Service) release() {
	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()
}

// Process runs AI extraction on one item. A second call while any
// extraction is in flight returns ErrBusy without touching the backend.
// Terminal items cannot be processed again.
func (s *Service) Process(ctx context.Context, id string) (*Item, error) {
	if !s.tryAcquire() {
		return nil, ErrBusy
	}
	defer s.release()
	return s.processLocked(ctx, id)
}

func (s *Service) processLocked(ctx context.Context, id string) (*Item, error) {
	item, err := s.queue.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("queue item %s not found", id)
	}
	if item.Status == StatusCompleted || item.Status == StatusFailed {
		return nil, fmt.Errorf("queue item %s is already %s", id, item.Status)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("extraction provider is not configured")
	}

	if err := s.queue.SetStatus(ctx, id, StatusProcessing, ""); err != nil {
		return nil, err
	}

	fields, err := s.extract(ctx, item.ImagePaths)
	if err != nil {
		s.logger.Warn("photo extraction failed", zap.String("item", id), zap.Error(err))
		s.queue.SetStatus(ctx, id, StatusFailed, err.Error())
		s.recorder.Record(ctx, audit.Entry{
			Action:   audit.ActionQueueFailed,
			Scope:    audit.ScopeQueue,
			TargetID: id,
			Summary:  "extraction failed",
			Detail:   err.Error(),
		})
		return s.queue.Get(ctx, id)
	}

	if err := s.queue.SetResult(ctx, id, *fields); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.Entry{
		Action:   audit.ActionQueueProcessed,
		Scope:    audit.ScopeQueue,
		TargetID: id,
		Summary:  "extracted " + fields.GenericName,
	})
	return s.queue.Get(ctx, id)
}

func (s *Service) extract(ctx context.Context, imagePaths []string) (*ExtractedFields, error) {
	images := make([]string, 0, len(imagePaths))
	for _, path := range imagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading photo %s: %w", filepath.Base(path), err)
		}
		mime := mimeForExt(filepath.Ext(path))
		images = append(images, "data:"+mime+";base64,"+base64.StdEncoding.EncodeToString(data))
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: extractionPrompt,
			Images:  images,
		}},
		MaxTokens: 1024,
		JSONMode:  true,
	})
	if err != nil {
		return nil, err
	}

	var fields ExtractedFields
	if err := json.Unmarshal([]byte(resp.Content), &fields); err != nil {
		return nil, fmt.Errorf("parsing extraction response: %w", err)
	}
	return &fields, nil
}

func mimeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// ProcessAll sequentially processes every non-terminal item through the
// single-item primitive, then clears completed items along with their
// stored photos. The one-at-a-time invariant holds for the whole batch.
func (s *Service) ProcessAll(ctx context.Context) ([]Item, error) {
	if !s.tryAcquire() {
		return nil, ErrBusy
	}
	defer s.release()

	items, err := s.queue.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Status == StatusCompleted || item.Status == StatusFailed {
			continue
		}
		if _, err := s.processLocked(ctx, item.ID); err != nil {
			s.logger.Warn("process-all item", zap.String("item", item.ID), zap.Error(err))
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	// Statuses changed during the loop; take stock of the photos before
	// the rows are gone so cleared items release their files too.
	paths := make(map[string][]string)
	done, err := s.queue.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range done {
		paths[item.ID] = item.ImagePaths
	}

	cleared, err := s.queue.ClearCompleted(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range cleared {
		for _, path := range paths[id] {
			os.Remove(path)
		}
	}
	return s.queue.List(ctx)
}

// Remove deletes one queue item and its stored photos, returning the
// updated queue.
func (s *Service) Remove(ctx context.Context, id string) ([]Item, error) {
	item, err := s.queue.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item != nil {
		for _, path := range item.ImagePaths {
			os.Remove(path)
		}
	}
	if err := s.queue.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.Entry{
		ActorType: audit.ActorUser,
		ActorID:   "operator",
		Action:    audit.ActionQueueRemoved,
		Scope:     audit.ScopeQueue,
		TargetID:  id,
	})
	return s.queue.List(ctx)
}

// Accept turns a completed item's extracted fields into a medication
// inventory record and links the two.
func (s *Service) Accept(ctx context.Context, id string) (*Item, error) {
	item, err := s.queue.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("queue item %s not found", id)
	}
	if item.Status != StatusCompleted || item.Extracted == nil {
		return nil, fmt.Errorf("queue item %s has no extraction result", id)
	}
	if item.InventoryID != "" {
		return item, nil
	}

	name := item.Extracted.GenericName
	if name == "" {
		name = item.Extracted.BrandName
	}
	if name == "" {
		name = "Unidentified medication"
	}
	if item.Extracted.Strength != "" {
		name = name + " " + item.Extracted.Strength
	}

	inventoryID := uuid.New().String()
	err = s.data.Update(store.CategoryInventory, inventoryID, func(rec map[string]any) {
		rec["name"] = name
		rec["type"] = "medication"
		rec["category"] = "Uncategorized"
		rec["status"] = "ok"
		rec["expiry"] = item.Extracted.Expiry
		rec["quantity"] = 1
		rec["parLevel"] = 0
		rec["notes"] = item.Extracted.RawText
		rec["linkedQueueItem"] = item.ID
	})
	if err != nil {
		return nil, fmt.Errorf("creating inventory record: %w", err)
	}

	if err := s.queue.LinkInventory(ctx, id, inventoryID); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.Entry{
		ActorType: audit.ActorUser,
		ActorID:   "operator",
		Action:    audit.ActionQueueAccepted,
		Scope:     audit.ScopeQueue,
		TargetID:  id,
		Summary:   "added to inventory as " + name,
	})
	return s.queue.Get(ctx, id)
}
