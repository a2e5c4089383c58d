package normalize

import (
	"strings"
	"testing"
	"time"
)

func TestItemsSkipsMalformedLines(t *testing.T) {
	raw := `{"text":"a"}
not json
{"title":"b"}`

	items := Items(raw)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Text != "a" || items[1].Text != "b" {
		t.Fatalf("unexpected texts: %q, %q", items[0].Text, items[1].Text)
	}
}

func TestItemsAcceptsArray(t *testing.T) {
	raw := `[{"text":"a"}, "just a string", {"full_text":"b"}, {"nothing":"usable"}]`

	items := Items(raw)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
}

func TestItemsEmptyInput(t *testing.T) {
	if got := Items(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	if got := Items("   \n  \n"); got != nil {
		t.Fatalf("expected nil for whitespace input, got %v", got)
	}
}

func TestItemFieldFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantText   string
		wantSource string
		wantURL    string
	}{
		{
			name:       "modern author field",
			json:       `{"text":"hello","id":"123","author":{"username":"idf"}}`,
			wantText:   "hello",
			wantSource: "@idf",
			wantURL:    "https://twitter.com/idf/status/123",
		},
		{
			name:       "legacy user field",
			json:       `{"full_text":"hello","id_str":"456","user":{"screen_name":"osint"}}`,
			wantText:   "hello",
			wantSource: "@osint",
			wantURL:    "https://twitter.com/osint/status/456",
		},
		{
			name:       "explicit source and url",
			json:       `{"title":"headline","source":"reuters","url":"https://example.com/a"}`,
			wantText:   "headline",
			wantSource: "reuters",
			wantURL:    "https://example.com/a",
		},
		{
			name:       "no attribution at all",
			json:       `{"text":"bare"}`,
			wantText:   "bare",
			wantSource: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Items(tt.json)
			if len(items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(items))
			}
			it := items[0]
			if it.Text != tt.wantText {
				t.Errorf("text = %q, want %q", it.Text, tt.wantText)
			}
			if it.Source != tt.wantSource {
				t.Errorf("source = %q, want %q", it.Source, tt.wantSource)
			}
			if it.URL != tt.wantURL {
				t.Errorf("url = %q, want %q", it.URL, tt.wantURL)
			}
		})
	}
}

func TestItemSkipsEmptyText(t *testing.T) {
	if items := Items(`{"id":"1","text":"   "}`); len(items) != 0 {
		t.Fatalf("expected no items for blank text, got %+v", items)
	}
}

func TestItemTruncatesText(t *testing.T) {
	long := strings.Repeat("x", 300)
	items := Items(`{"text":"` + long + `"}`)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if got := len([]rune(items[0].Text)); got != MaxTextLen {
		t.Fatalf("text length = %d, want %d", got, MaxTextLen)
	}
}

func TestItemTimestampFormats(t *testing.T) {
	tests := []struct {
		name string
		json string
		want time.Time
	}{
		{
			name: "ISO format",
			json: `{"text":"a","createdAt":"2026-06-15T12:30:00Z"}`,
			want: time.Date(2026, 6, 15, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "classic twitter format",
			json: `{"text":"a","created_at":"Wed Oct 05 18:23:00 +0000 2022"}`,
			want: time.Date(2022, 10, 5, 18, 23, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Items(tt.json)
			if len(items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(items))
			}
			if !items[0].Timestamp.Equal(tt.want) {
				t.Errorf("timestamp = %v, want %v", items[0].Timestamp, tt.want)
			}
		})
	}
}

func TestItemBadTimestampFallsBackToNow(t *testing.T) {
	before := time.Now().UTC()
	items := Items(`{"text":"a","createdAt":"not a date"}`)
	after := time.Now().UTC()

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	ts := items[0].Timestamp
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp %v not between %v and %v", ts, before, after)
	}
}

func TestItemNumericID(t *testing.T) {
	items := Items(`{"text":"a","id":12345}`)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].SourceID != "12345" {
		t.Errorf("source id = %q, want %q", items[0].SourceID, "12345")
	}
}
