// Package normalize turns heterogeneous raw feed payloads into uniform
// RawItems. Sources disagree on field names and timestamp formats, and a
// batch routinely contains lines that are not JSON at all; every failure here
// is per-record and silent.
package normalize

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/flashpoint-tracker/flashpoint/internal/utils"
)

// MaxTextLen caps the display text of a raw item, in runes.
const MaxTextLen = 100

// twitterTimeLayout matches the classic API timestamp,
// e.g. "Wed Oct 05 18:23:00 +0000 2022".
const twitterTimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// RawItem is one normalized record from any source.
type RawItem struct {
	Text      string
	SourceID  string
	Author    string
	Source    string
	URL       string
	Timestamp time.Time
}

// Records parses adapter output into individual JSON objects. It accepts
// either newline-delimited objects or a single top-level array, defensively:
// unparsable lines and non-object array elements are dropped.
func Records(raw string) []gjson.Result {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") && gjson.Valid(trimmed) {
		var out []gjson.Result
		for _, rec := range gjson.Parse(trimmed).Array() {
			if rec.IsObject() {
				out = append(out, rec)
			}
		}
		return out
	}

	var out []gjson.Result
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") || !gjson.Valid(line) {
			continue
		}
		rec := gjson.Parse(line)
		if rec.IsObject() {
			out = append(out, rec)
		}
	}
	return out
}

// Item extracts a RawItem from one record. The second return is false when
// the record carries no usable text and must be skipped.
func Item(rec gjson.Result) (RawItem, bool) {
	text := firstString(rec, "text", "title", "full_text")
	if strings.TrimSpace(text) == "" {
		return RawItem{}, false
	}

	author := firstString(rec, "author.username", "author.screen_name", "user.username", "user.screen_name")
	id := firstString(rec, "id", "id_str")

	source := firstString(rec, "source")
	if author != "" {
		source = "@" + author
	}
	if source == "" {
		source = "unknown"
	}

	url := firstString(rec, "url")
	if url == "" && author != "" && id != "" {
		url = "https://twitter.com/" + author + "/status/" + id
	}

	return RawItem{
		Text:      utils.Truncate(strings.TrimSpace(text), MaxTextLen),
		SourceID:  id,
		Author:    author,
		Source:    source,
		URL:       url,
		Timestamp: parseTime(firstString(rec, "createdAt", "created_at", "time")),
	}, true
}

// Items maps Records through Item, dropping unusable records.
func Items(raw string) []RawItem {
	var out []RawItem
	for _, rec := range Records(raw) {
		if it, ok := Item(rec); ok {
			out = append(out, it)
		}
	}
	return out
}

func firstString(rec gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := rec.Get(p); v.Exists() {
			if s := v.String(); s != "" {
				return s
			}
		}
	}
	return ""
}

func parseTime(s string) time.Time {
	if s != "" {
		if strings.Contains(s, "T") {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t
			}
		}
		if t, err := time.Parse(twitterTimeLayout, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
