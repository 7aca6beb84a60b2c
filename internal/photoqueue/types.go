package photoqueue

import "time"

// Status is the lifecycle state of a queue item. The only transitions
// are queued → processing → completed or failed; terminal items can be
// removed but not retried in place (no retry endpoint exists — a failed
// photo is deleted and re-uploaded).
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ExtractedFields is the result of AI extraction over a medication photo.
type ExtractedFields struct {
	GenericName string `json:"genericName,omitempty"`
	BrandName   string `json:"brandName,omitempty"`
	Strength    string `json:"strength,omitempty"`
	Expiry      string `json:"expiry,omitempty"`
	RawText     string `json:"rawText,omitempty"`
}

// Item is one unit of the photo intake pipeline.
type Item struct {
	ID          string           `json:"id"`
	Status      Status           `json:"status"`
	ImagePaths  []string         `json:"imagePaths"`
	Extracted   *ExtractedFields `json:"extracted,omitempty"`
	InventoryID string           `json:"inventoryId,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
