package dbtools

import (
	"sync"

	"github.com/fvarrui/dbtools/pkg/mapper"
	"github.com/fvarrui/dbtools/pkg/schema"
)

// Hook function types for reconciliation events.
type (
	// TableMatchedHook is called for every committed table pair, best first.
	TableMatchedHook func(score mapper.TableScore)

	// TableUnmatchedHook is called for every leftover table. source is true
	// for tables of the source schema.
	TableUnmatchedHook func(table schema.Table, source bool)
)

// Hooks registers callbacks run after each reconciliation.
type Hooks interface {
	OnTableMatched(TableMatchedHook)
	OnTableUnmatched(TableUnmatchedHook)
}

// hooks manages event callbacks for reconciliations.
type hooks struct {
	mu          sync.RWMutex
	onMatched   []TableMatchedHook
	onUnmatched []TableUnmatchedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnTableMatched registers a callback for matched table pairs.
func (c *client) OnTableMatched(fn TableMatchedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onMatched = append(c.hooks.onMatched, fn)
}

// OnTableUnmatched registers a callback for leftover tables.
func (c *client) OnTableUnmatched(fn TableUnmatchedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onUnmatched = append(c.hooks.onUnmatched, fn)
}

// trigger replays a result through the registered hooks in result order.
func (h *hooks) trigger(r *mapper.Result) {
	if r == nil || r.Tables == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, score := range r.Tables.Matched {
		for _, fn := range h.onMatched {
			fn(score)
		}
	}
	for _, t := range r.Tables.UnmatchedSources {
		for _, fn := range h.onUnmatched {
			fn(t, true)
		}
	}
	for _, t := range r.Tables.UnmatchedDestinations {
		for _, fn := range h.onUnmatched {
			fn(t, false)
		}
	}
}
