package catalog

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable reports that no catalog could be loaded.
var ErrUnavailable = errors.New("catalog data unavailable")

// Holder keeps the most recently loaded catalog together with the failure
// of the last load attempt, if any.
type Holder struct {
	mu  sync.RWMutex
	cat Catalog
	ok  bool
	err error
}

// Load runs p once and returns a holder reflecting the outcome.
func Load(ctx context.Context, p Provider) *Holder {
	h := &Holder{}
	_ = h.Reload(ctx, p)
	return h
}

// NewHolder wraps an already validated catalog.
func NewHolder(cat Catalog) *Holder {
	return &Holder{cat: cat, ok: true}
}

// Reload replaces the held catalog on success. On failure the previous
// catalog, if any, is kept and the error is recorded.
func (h *Holder) Reload(ctx context.Context, p Provider) error {
	cat, err := p.Load(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
	if err != nil {
		return err
	}
	h.cat = cat
	h.ok = true
	return nil
}

// Get returns the held catalog, or ErrUnavailable joined with the last load error.
func (h *Holder) Get() (Catalog, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.ok {
		return Catalog{}, errors.Join(ErrUnavailable, h.err)
	}
	return h.cat, nil
}

// Available reports whether a catalog is held.
func (h *Holder) Available() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ok
}

// LastError returns the error from the most recent load attempt.
func (h *Holder) LastError() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}
