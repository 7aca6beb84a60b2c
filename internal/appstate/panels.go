package appstate

import (
	"context"
	"fmt"
	"sync"
)

// Loader fetches a panel's data when it becomes active.
type Loader func(ctx context.Context) error

// Panels controls which top-level content panel is visible. Exactly one
// panel is active at a time. Activating a panel runs its loader on
// every navigation; the shared core preload runs once for the lifetime
// of the controller, with concurrent first callers sharing the single
// in-flight load instead of starting their own.
type Panels struct {
	preload Loader

	mu      sync.Mutex
	loaders map[string]Loader
	active  string

	preloadOnce sync.Once
	preloadErr  error
}

// NewPanels creates a panel controller. preload is the once-only core
// data load; nil skips preloading.
func NewPanels(preload Loader) *Panels {
	return &Panels{
		preload: preload,
		loaders: map[string]Loader{},
	}
}

// Register adds a panel. A nil loader registers a static panel.
func (p *Panels) Register(id string, loader Loader) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaders[id] = loader
}

// Active returns the currently visible panel id, or "".
func (p *Panels) Active() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Activate makes one panel visible, deactivating whatever was active.
// The core preload is awaited first; late joiners share the first
// caller's load rather than re-fetching. The panel's own loader runs on
// every activation. A failed load leaves the panel active with whatever
// data it has: navigation is never blocked on a fetch.
func (p *Panels) Activate(ctx context.Context, id string) error {
	p.mu.Lock()
	loader, ok := p.loaders[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("unknown panel %q", id)
	}
	p.active = id
	p.mu.Unlock()

	if p.preload != nil {
		p.preloadOnce.Do(func() {
			p.preloadErr = p.preload(ctx)
		})
		if p.preloadErr != nil {
			return p.preloadErr
		}
	}

	if loader != nil {
		return loader(ctx)
	}
	return nil
}
