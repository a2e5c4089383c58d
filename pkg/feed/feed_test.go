package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

func snapshotWith(events ...store.Event) store.Document {
	return store.Document{Events: events, TickerTexts: []string{"⚡ alpha"}}
}

func ev(id, country string, t store.EventType) store.Event {
	return store.Event{ID: id, Country: country, Type: t, Title: "event " + id}
}

func readyModel(t *testing.T, events ...store.Event) *Model {
	t.Helper()
	m := New()
	m.ApplySnapshot(snapshotWith(events...))
	if m.State() != Ready {
		t.Fatal("model not Ready after snapshot")
	}
	return m
}

func TestStateTransition(t *testing.T) {
	m := New()
	if m.State() != Loading {
		t.Fatal("new model should be Loading")
	}
	m.ApplySnapshot(store.Document{})
	if m.State() != Ready {
		t.Fatal("model should be Ready after first snapshot")
	}
	// Re-applying never goes back to Loading.
	m.ApplySnapshot(store.Document{})
	if m.State() != Ready {
		t.Fatal("model regressed to Loading")
	}
}

func TestSetFilterRecomputes(t *testing.T) {
	events := []store.Event{
		ev("e1", "X", store.TypeStrike),
		ev("e2", "X", store.TypeStrike),
		ev("e3", "X", store.TypeIntel),
		ev("e4", "Y", store.TypeIntel),
		ev("e5", "Y", store.TypeStrike),
		ev("e6", "Y", store.TypeBlockade),
		ev("e7", "Z", store.TypeAirspace),
		ev("e8", "Z", store.TypeDiplomatic),
		ev("e9", "Z", store.TypeIntel),
		ev("e10", "Z", store.TypeIntel),
	}
	m := readyModel(t, events...)

	m.SetFilter("X", "")
	visible := m.VisibleEvents()
	if len(visible) != 3 {
		t.Fatalf("expected 3 visible events, got %d", len(visible))
	}

	total := 0
	for _, n := range m.StatsByType() {
		total += n
	}
	if total != 3 {
		t.Fatalf("stats sum = %d, want 3", total)
	}

	m.SetFilter("X", "strike")
	if got := len(m.VisibleEvents()); got != 2 {
		t.Fatalf("expected 2 visible events with both filters, got %d", got)
	}

	m.SetFilter("", "")
	if got := len(m.VisibleEvents()); got != 10 {
		t.Fatalf("expected all events after clearing filters, got %d", got)
	}
}

func TestFilteringPreservesCanonicalOrder(t *testing.T) {
	m := readyModel(t,
		ev("e1", "X", store.TypeStrike),
		ev("e2", "Y", store.TypeStrike),
		ev("e3", "X", store.TypeStrike),
	)

	m.SetFilter("X", "")
	visible := m.VisibleEvents()
	if len(visible) != 2 || visible[0].ID != "e1" || visible[1].ID != "e3" {
		t.Fatalf("filter changed canonical order: %+v", visible)
	}

	// Clearing the filter restores the full list in original order.
	m.SetFilter("", "")
	all := m.VisibleEvents()
	want := []string{"e1", "e2", "e3"}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("order corrupted at %d: got %s, want %s", i, all[i].ID, id)
		}
	}
}

func TestSimulateAppend(t *testing.T) {
	m := readyModel(t, ev("e1", "X", store.TypeStrike))

	m.SimulateAppend()
	visible := m.VisibleEvents()
	if len(visible) != 2 {
		t.Fatalf("expected 2 events after simulated append, got %d", len(visible))
	}

	sim := visible[0]
	if !strings.HasPrefix(sim.ID, "sim-") {
		t.Errorf("simulated id = %q, want sim- prefix", sim.ID)
	}
	if !sim.IsNew {
		t.Error("simulated event should be IsNew")
	}
	if visible[1].ID != "e1" {
		t.Error("simulated append disturbed existing events")
	}
}

func TestSimulateAppendUniqueIDs(t *testing.T) {
	m := readyModel(t, ev("e1", "X", store.TypeStrike))

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		m.SimulateAppend()
	}
	for _, e := range m.VisibleEvents() {
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestSimulateAppendBeforeReadyIsNoOp(t *testing.T) {
	m := New()
	m.SimulateAppend()
	if len(m.VisibleEvents()) != 0 {
		t.Fatal("simulated append before Ready should be a no-op")
	}
}

func TestSimulateAppendEmptyPoolIsNoOp(t *testing.T) {
	m := readyModel(t) // snapshot with no events, so no templates
	m.SimulateAppend()
	if len(m.VisibleEvents()) != 0 {
		t.Fatal("simulated append with empty template pool should be a no-op")
	}
}

func TestExpireNewClearsBadge(t *testing.T) {
	m := readyModel(t, ev("e1", "X", store.TypeStrike))

	base := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	m.SimulateAppend()

	// Within the window the badge stays.
	m.now = func() time.Time { return base.Add(10 * time.Second) }
	m.ExpireNew()
	if !m.VisibleEvents()[0].IsNew {
		t.Fatal("badge cleared before the display window elapsed")
	}

	m.now = func() time.Time { return base.Add(2 * newDisplayWindow) }
	m.ExpireNew()
	if m.VisibleEvents()[0].IsNew {
		t.Fatal("badge survived past the display window")
	}
}

func TestTickerTexts(t *testing.T) {
	m := readyModel(t, ev("e1", "X", store.TypeStrike))
	got := m.TickerTexts()
	if len(got) != 1 || got[0] != "⚡ alpha" {
		t.Fatalf("unexpected ticker: %v", got)
	}
}

func TestMarkerForTotalOverEnum(t *testing.T) {
	seen := make(map[string]bool)
	for _, typ := range store.AllTypes {
		m := MarkerFor(typ)
		if m.Symbol == "" || m.Class == "" {
			t.Errorf("incomplete marker for %q: %+v", typ, m)
		}
		if seen[m.Class] {
			t.Errorf("duplicate marker class %q", m.Class)
		}
		seen[m.Class] = true
	}
}

func TestMarkerForUnknownType(t *testing.T) {
	if got := MarkerFor(store.EventType("cyber")); got != defaultMarker {
		t.Fatalf("unknown type should map to the default marker, got %+v", got)
	}
}
