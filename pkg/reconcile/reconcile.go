// Package reconcile merges freshly fetched items into the canonical store
// document. Both entry points are pure functions over Document values; the
// caller owns persistence.
package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/flashpoint-tracker/flashpoint/internal/utils"
	"github.com/flashpoint-tracker/flashpoint/pkg/classify"
	"github.com/flashpoint-tracker/flashpoint/pkg/normalize"
	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

const (
	// titleLen is the title cap before word-boundary trimming.
	titleLen = 50
	// titleMinBreak is the shortest word boundary worth trimming back to.
	titleMinBreak = 30
)

// Change records one reconciliation effect, for the archive and run output.
type Change struct {
	OccurredAt time.Time
	EventID    string
	Type       store.EventType
	Country    string
	Title      string
	Source     string
	ChangeType string // currently always "added"; events are never removed
}

// EventID derives the dedup identity of a raw item. An upstream record id
// wins when present (re-fetching the same tweet must be a no-op even if its
// text was edited); otherwise the id is a content hash over
// source|timestamp|text, so identical fetches collapse deterministically.
func EventID(it normalize.RawItem) string {
	if it.SourceID != "" {
		return it.SourceID
	}
	h := sha256.Sum256([]byte(it.Source + "|" + it.Timestamp.UTC().Format(time.RFC3339) + "|" + it.Text))
	return hex.EncodeToString(h[:])[:16]
}

// BuildEvent maps a raw item into a candidate store event.
func BuildEvent(it normalize.RawItem) store.Event {
	eventType := classify.Type(it.Text)
	country := classify.Country(it.Text)
	locName, coords := classify.Locate(it.Text, country)
	if locName == "" {
		locName = strings.ToUpper(country)
	}

	return store.Event{
		ID:           EventID(it),
		Type:         eventType,
		Country:      country,
		Title:        makeTitle(it.Text),
		Desc:         it.Text,
		Location:     coords,
		LocationName: locName,
		Time:         it.Timestamp.UTC(),
		Source:       it.Source,
		URL:          it.URL,
		Category:     classify.Category(it.Text),
		IsNew:        true,
	}
}

// Events merges new items into the document, idempotently.
//
// Candidates whose id is already present, in the store or earlier in the
// same batch, are dropped. Survivors are prepended newest-first and the
// previous cycle's IsNew flags are cleared. A pass that adds nothing returns
// the document unchanged, flags included, so re-running the same batch is a
// strict no-op. Nothing is ever removed: the result's event list is always a
// superset of the input's.
func Events(doc store.Document, items []normalize.RawItem) (store.Document, []Change) {
	out := doc.Clone()

	seen := make(map[string]bool, len(out.Events))
	for _, ev := range out.Events {
		seen[ev.ID] = true
	}

	now := time.Now().UTC()
	var added []store.Event
	var changes []Change
	for _, it := range items {
		ev := BuildEvent(it)
		if seen[ev.ID] {
			utils.Log.Debugf("skipping duplicate event %s", ev.ID)
			continue
		}
		seen[ev.ID] = true
		added = append(added, ev)
		changes = append(changes, Change{
			OccurredAt: now,
			EventID:    ev.ID,
			Type:       ev.Type,
			Country:    ev.Country,
			Title:      ev.Title,
			Source:     ev.Source,
			ChangeType: "added",
		})
	}

	if len(added) == 0 {
		return out, nil
	}
	for i := range out.Events {
		out.Events[i].IsNew = false
	}
	out.Events = append(added, out.Events...)
	return out, changes
}

// makeTitle trims text to a headline, preferring a word boundary so titles
// don't end mid-word.
func makeTitle(text string) string {
	title := strings.TrimSpace(utils.Truncate(text, titleLen))
	if len([]rune(text)) <= titleLen {
		return title
	}
	if idx := strings.LastIndex(title, " "); idx > titleMinBreak {
		title = title[:idx]
	}
	return title + "..."
}
