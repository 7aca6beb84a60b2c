package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vesselkit/seachest/internal/photoqueue"
	"github.com/vesselkit/seachest/internal/store"
)

// Client is the typed API client used by the CLI and by the autosave
// and confirmed-delete mechanisms. Cookies stick for the lifetime of
// the client, matching a same-origin browser session.
type Client struct {
	http *resty.Client
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a client against the given server base URL.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetCookieJar(jar).
		SetTimeout(30 * time.Second)
	return &Client{http: httpClient}
}

func apiError(resp *resty.Response) error {
	var e errorResponse
	if err := json.Unmarshal(resp.Body(), &e); err == nil && e.Error != "" {
		return fmt.Errorf("server: %s", e.Error)
	}
	return fmt.Errorf("server returned status %d", resp.StatusCode())
}

// GetData fetches one collection document.
func (c *Client) GetData(ctx context.Context, category store.Category) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/data/" + string(category))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return json.RawMessage(resp.Body()), nil
}

// PutData replaces one collection document. The whole document goes on
// the wire every time; there is no per-field patch.
func (c *Client) PutData(ctx context.Context, category store.Category, doc json.RawMessage) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody([]byte(doc)).
		Post("/api/data/" + string(category))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// Records fetches an array collection as generic records.
func (c *Client) Records(ctx context.Context, category store.Category) ([]map[string]any, error) {
	doc, err := c.GetData(ctx, category)
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	if err := json.Unmarshal(doc, &records); err != nil {
		return nil, fmt.Errorf("decoding %s collection: %w", category, err)
	}
	return records, nil
}

// PutRecords replaces an array collection.
func (c *Client) PutRecords(ctx context.Context, category store.Category, records []map[string]any) error {
	doc, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s collection: %w", category, err)
	}
	return c.PutData(ctx, category, doc)
}

type queueResponse struct {
	Queue []photoqueue.Item `json:"queue"`
}

// Queue fetches the photo intake queue.
func (c *Client) Queue(ctx context.Context) ([]photoqueue.Item, error) {
	var out queueResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/medicines/queue")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.Queue, nil
}

// UploadPhotos sends image files to the intake queue. group makes one
// queue item from all files instead of one per file.
func (c *Client) UploadPhotos(ctx context.Context, files map[string][]byte, group bool) ([]photoqueue.Item, error) {
	req := c.http.R().SetContext(ctx)
	for name, data := range files {
		req.SetFileReader("files", name, bytes.NewReader(data))
	}
	if group {
		req.SetQueryParam("group", "true")
	}

	var out queueResponse
	resp, err := req.SetResult(&out).Post("/api/medicines/photos")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.Queue, nil
}

// ProcessPhoto runs extraction on one queue item.
func (c *Client) ProcessPhoto(ctx context.Context, id string) (*photoqueue.Item, error) {
	var item photoqueue.Item
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&item).
		Post("/api/medicines/photos/" + id + "/process")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &item, nil
}

// ProcessAllPhotos processes the whole queue and returns what remains.
func (c *Client) ProcessAllPhotos(ctx context.Context) ([]photoqueue.Item, error) {
	var out queueResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Post("/api/medicines/photos/process-all")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.Queue, nil
}

// RemoveQueueItem deletes one queue item.
func (c *Client) RemoveQueueItem(ctx context.Context, id string) ([]photoqueue.Item, error) {
	var out queueResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Delete("/api/medicines/queue/" + id)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.Queue, nil
}

// ManifestCSV downloads the crew manifest as CSV.
func (c *Client) ManifestCSV(ctx context.Context, w io.Writer) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/crew/manifest.csv")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	_, err = w.Write(resp.Body())
	return err
}

// ManifestXLSX downloads the crew manifest as a spreadsheet.
func (c *Client) ManifestXLSX(ctx context.Context, w io.Writer) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/crew/manifest.xlsx")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	_, err = w.Write(resp.Body())
	return err
}

// MemberExport downloads one crew member's flat text export.
func (c *Client) MemberExport(ctx context.Context, id string, w io.Writer) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/crew/" + id + "/export")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	_, err = w.Write(resp.Body())
	return err
}

// EntryExport downloads one history entry's flat text export.
func (c *Client) EntryExport(ctx context.Context, id string, w io.Writer) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/history/" + id + "/export")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	_, err = w.Write(resp.Body())
	return err
}

// Backup downloads a backup archive.
func (c *Client) Backup(ctx context.Context, w io.Writer) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Post("/api/offline/backup")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	_, err = w.Write(resp.Body())
	return err
}

// Restore uploads a backup archive.
func (c *Client) Restore(ctx context.Context, archive io.Reader) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(archive).
		Post("/api/offline/restore")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}
