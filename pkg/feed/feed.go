// Package feed holds the in-memory working set behind the live view: the
// current event list, active filters, and the simulated-append timer that
// keeps the feed animated between real reconciliation runs.
//
// The model is rebuilt from a store snapshot on every session and mutates
// only its own copy. Simulated events never reach the persisted store.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flashpoint-tracker/flashpoint/internal/utils"
	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

// State is the externally visible model state. The only transition is
// Loading -> Ready, once, when the first snapshot is applied.
type State int

const (
	Loading State = iota
	Ready
)

const (
	// DefaultTickInterval is how often a simulated event is appended.
	DefaultTickInterval = 30 * time.Second
	// newDisplayWindow is how long a simulated event keeps its IsNew badge.
	newDisplayWindow = 30 * time.Second
	// maxTemplates bounds the template pool sampled from the snapshot.
	maxTemplates = 10
)

// Model is the live feed view model. All methods are safe for concurrent use;
// one timer goroutine and the HTTP handlers share it.
type Model struct {
	mu    sync.Mutex
	state State

	events      []store.Event
	tickerTexts []string

	countryFilter string
	typeFilter    string

	visible []store.Event
	stats   map[store.EventType]int

	templates []store.Event
	newSince  map[string]time.Time

	now func() time.Time
}

// New returns a model in the Loading state.
func New() *Model {
	return &Model{
		newSince: make(map[string]time.Time),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// State returns the current model state.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ApplySnapshot loads a store snapshot into the model. The first call moves
// the model to Ready; later calls refresh the working set but never move it
// back to Loading.
func (m *Model) ApplySnapshot(doc store.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := doc.Clone()
	m.events = snap.Events
	m.tickerTexts = snap.TickerTexts
	m.templates = buildTemplates(snap.Events)
	m.state = Ready
	m.recompute()
}

// SetFilter updates the active filters and recomputes the derived view.
// Empty strings clear the corresponding filter. No I/O happens here.
func (m *Model) SetFilter(country, eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countryFilter = country
	m.typeFilter = eventType
	m.recompute()
}

// VisibleEvents returns a copy of the filtered event list, in canonical
// store order. Filtering never reorders the underlying list.
func (m *Model) VisibleEvents() []store.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Event, len(m.visible))
	copy(out, m.visible)
	return out
}

// StatsByType counts visible events per type.
func (m *Model) StatsByType() map[store.EventType]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[store.EventType]int, len(m.stats))
	for k, v := range m.stats {
		out[k] = v
	}
	return out
}

// TickerTexts returns the ticker snapshot as loaded.
func (m *Model) TickerTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.tickerTexts))
	copy(out, m.tickerTexts)
	return out
}

// SimulateAppend synthesizes one presentation-only event from the template
// pool and prepends it to the in-memory list. The event gets a fresh id that
// cannot collide with deterministic ingest ids, and its IsNew badge clears
// after the display window. No-op before Ready or with an empty pool.
func (m *Model) SimulateAppend() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Ready || len(m.templates) == 0 {
		return
	}

	tpl := m.templates[len(m.events)%len(m.templates)]
	ev := tpl
	ev.ID = "sim-" + uuid.NewString()
	ev.Time = m.now()
	ev.IsNew = true

	m.events = append([]store.Event{ev}, m.events...)
	m.newSince[ev.ID] = m.now()
	m.recompute()
}

// ExpireNew clears IsNew on simulated events older than the display window.
func (m *Model) ExpireNew() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-newDisplayWindow)
	changed := false
	for i := range m.events {
		since, ok := m.newSince[m.events[i].ID]
		if ok && since.Before(cutoff) {
			m.events[i].IsNew = false
			delete(m.newSince, m.events[i].ID)
			changed = true
		}
	}
	if changed {
		m.recompute()
	}
}

// Run drives the simulated-append timer until ctx is canceled (page
// teardown). A panicking tick is logged and must not take down the loop.
func (m *Model) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

func (m *Model) tick() {
	defer func() {
		if r := recover(); r != nil {
			utils.Log.Errorf("live feed tick failed: %v", r)
		}
	}()
	m.SimulateAppend()
	m.ExpireNew()
}

// recompute rebuilds the derived view from scratch. Callers hold m.mu.
// Derived state is always recomputed, never patched incrementally; the
// original incremental approach drifted from the canonical list over time.
func (m *Model) recompute() {
	visible := make([]store.Event, 0, len(m.events))
	stats := make(map[store.EventType]int)
	for _, ev := range m.events {
		if m.countryFilter != "" && ev.Country != m.countryFilter {
			continue
		}
		if m.typeFilter != "" && string(ev.Type) != m.typeFilter {
			continue
		}
		visible = append(visible, ev)
		stats[ev.Type]++
	}
	m.visible = visible
	m.stats = stats
}

// buildTemplates samples one event per type+country combination, newest
// first, capped. The pool seeds simulated appends with realistic variety.
func buildTemplates(events []store.Event) []store.Event {
	seen := make(map[string]bool)
	var out []store.Event
	for _, ev := range events {
		key := string(ev.Type) + "|" + ev.Country
		if seen[key] {
			continue
		}
		seen[key] = true
		tpl := ev
		tpl.IsNew = false
		out = append(out, tpl)
		if len(out) == maxTemplates {
			break
		}
	}
	return out
}
