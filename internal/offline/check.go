package offline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Status is the result of probing the local model runtime.
type Status struct {
	Available  bool     `json:"available"`
	ModelReady bool     `json:"modelReady"`
	Model      string   `json:"model"`
	Models     []string `json:"models"`
	Error      string   `json:"error,omitempty"`
}

// Checker probes a local Ollama instance for offline readiness: is the
// runtime up, and is the configured model already pulled.
type Checker struct {
	client *resty.Client
	model  string
}

// NewChecker creates a checker against the given Ollama host.
func NewChecker(host, model string) *Checker {
	client := resty.New().
		SetBaseURL(strings.TrimRight(host, "/")).
		SetTimeout(10 * time.Second)
	return &Checker{client: client, model: model}
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Check probes the runtime. An unreachable runtime is a valid result,
// not an error: the status carries the failure.
func (c *Checker) Check(ctx context.Context) Status {
	var tags tagsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&tags).
		Get("/api/tags")
	if err != nil {
		return Status{Model: c.model, Error: err.Error()}
	}
	if resp.IsError() {
		return Status{Model: c.model, Error: fmt.Sprintf("runtime returned status %d", resp.StatusCode())}
	}

	st := Status{Available: true, Model: c.model}
	for _, m := range tags.Models {
		st.Models = append(st.Models, m.Name)
		if modelMatches(m.Name, c.model) {
			st.ModelReady = true
		}
	}
	return st
}

// modelMatches treats "llama3" and "llama3:latest" as the same model.
func modelMatches(have, want string) bool {
	if have == want {
		return true
	}
	return strings.TrimSuffix(have, ":latest") == strings.TrimSuffix(want, ":latest")
}

// Ensure pulls the configured model if it is not already present. Pulls
// are large downloads, so the caller should pass a generous context.
func (c *Checker) Ensure(ctx context.Context) (Status, error) {
	st := c.Check(ctx)
	if !st.Available {
		return st, fmt.Errorf("local runtime is not reachable: %s", st.Error)
	}
	if st.ModelReady {
		return st, nil
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"name": c.model, "stream": false}).
		Post("/api/pull")
	if err != nil {
		return st, fmt.Errorf("pulling model %s: %w", c.model, err)
	}
	if resp.IsError() {
		return st, fmt.Errorf("pulling model %s: runtime returned status %d", c.model, resp.StatusCode())
	}

	return c.Check(ctx), nil
}
