package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/flashpoint-tracker/flashpoint/pkg/reconcile"
	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "archive.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func change(id string, typ store.EventType, at time.Time) reconcile.Change {
	return reconcile.Change{
		OccurredAt: at,
		EventID:    id,
		Type:       typ,
		Country:    "iran",
		Title:      "event " + id,
		Source:     "@osint",
		ChangeType: "added",
	}
}

func TestRecordAndListChanges(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	in := []reconcile.Change{
		change("e1", store.TypeStrike, base),
		change("e2", store.TypeIntel, base.Add(time.Minute)),
	}
	if err := db.RecordChanges(ctx, in); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListRecent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(got))
	}
	// Newest first.
	if got[0].EventID != "e2" || got[1].EventID != "e1" {
		t.Fatalf("wrong order: %+v", got)
	}
	if got[0].Type != store.TypeIntel || got[0].Source != "@osint" {
		t.Fatalf("round trip lost fields: %+v", got[0])
	}
	if !got[1].OccurredAt.Equal(base) {
		t.Fatalf("timestamp mangled: %v", got[1].OccurredAt)
	}
}

func TestListRecentRespectsLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	var in []reconcile.Change
	for i := 0; i < 5; i++ {
		in = append(in, change(string(rune('a'+i)), store.TypeStrike, base.Add(time.Duration(i)*time.Minute)))
	}
	if err := db.RecordChanges(ctx, in); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListRecent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(got))
	}
}

func TestRecordChangesEmptyIsNoOp(t *testing.T) {
	db := openTestDB(t)
	if err := db.RecordChanges(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
}

func TestStatsByType(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	in := []reconcile.Change{
		change("e1", store.TypeStrike, base),
		change("e2", store.TypeStrike, base),
		change("e3", store.TypeIntel, base),
	}
	if err := db.RecordChanges(ctx, in); err != nil {
		t.Fatal(err)
	}

	stats, err := db.StatsByType(ctx)
	if err != nil {
		t.Fatal(err)
	}
	counts := make(map[store.EventType]int)
	for _, s := range stats {
		counts[s.Type] = s.Count
	}
	if counts[store.TypeStrike] != 2 || counts[store.TypeIntel] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRecordNewsPrunes(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	var items []NewsItem
	for i := 0; i < maxNewsItems+10; i++ {
		items = append(items, NewsItem{
			FetchedAt: base.Add(time.Duration(i) * time.Second),
			Title:     "headline",
			Category:  "military",
		})
	}
	if err := db.RecordNews(ctx, items); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := db.sql.QueryRow("SELECT COUNT(*) FROM news_items").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != maxNewsItems {
		t.Fatalf("news table holds %d rows, want %d", n, maxNewsItems)
	}
}
