package reconcile

import (
	"regexp"
	"strings"

	"github.com/flashpoint-tracker/flashpoint/internal/utils"
	"github.com/flashpoint-tracker/flashpoint/pkg/classify"
	"github.com/flashpoint-tracker/flashpoint/pkg/normalize"
	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

const (
	// MaxTickerTexts caps the rolling ticker.
	MaxTickerTexts = 10
	// maxTickerLen caps each ticker entry, marker glyph included, in runes.
	maxTickerLen = 100
	// tickerMarker prefixes every ticker entry.
	tickerMarker = "⚡"

	// dedupKeyLen and dedupKeyMin bound the prefix key used to drop
	// near-duplicate headlines.
	dedupKeyLen = 40
	dedupKeyMin = 10

	// authorTextLen is the text cap when an author handle is shown.
	authorTextLen = 80
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Ticker replaces the document's ticker texts wholesale. The ticker is a
// snapshot, not a log: an empty input yields an empty (non-nil) list, an
// explicit "no trending data" state distinct from "not yet fetched". Events
// are never touched.
func Ticker(doc store.Document, texts []string) store.Document {
	out := doc.Clone()
	replaced := make([]string, 0, len(texts))
	for _, t := range texts {
		if len(replaced) == MaxTickerTexts {
			break
		}
		replaced = append(replaced, utils.Truncate(t, maxTickerLen))
	}
	out.TickerTexts = replaced
	return out
}

// BuildTicker formats raw trending items into ticker entries: region-relevant
// only, near-duplicates dropped by normalized prefix key, marker-prefixed.
func BuildTicker(items []normalize.RawItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range items {
		if !classify.Relevant(it.Text) {
			continue
		}
		key := dedupKey(it.Text)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		var formatted string
		if it.Author != "" {
			formatted = tickerMarker + " @" + it.Author + ": " + utils.Truncate(it.Text, authorTextLen)
		} else {
			formatted = tickerMarker + " " + utils.Truncate(it.Text, maxTickerLen)
		}
		out = append(out, formatted)
	}
	return out
}

// dedupKey normalizes a headline to its comparison key: URLs stripped,
// whitespace collapsed, lowercased 40-rune prefix. Keys that end up shorter
// than 10 runes carry too little signal and are rejected.
func dedupKey(text string) string {
	key := strings.ToLower(strings.TrimSpace(utils.Truncate(text, dedupKeyLen)))
	key = urlPattern.ReplaceAllString(key, "")
	key = strings.Join(strings.Fields(key), " ")
	if len([]rune(key)) < dedupKeyMin {
		return ""
	}
	return key
}
