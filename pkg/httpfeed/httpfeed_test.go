package httpfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPageTextPrefersOGDescription(t *testing.T) {
	body := `<html><head>
<meta property="og:description" content="  Strikes reported overnight  ">
<title>Some Outlet</title>
</head></html>`
	if got := PageText(body); got != "Strikes reported overnight" {
		t.Fatalf("PageText = %q", got)
	}
}

func TestPageTextFallsBackToTitle(t *testing.T) {
	body := "<html><head><title>\n  Breaking:   strait \t closed  \n</title></head></html>"
	if got := PageText(body); got != "Breaking: strait closed" {
		t.Fatalf("PageText = %q", got)
	}
}

func TestPageTextEmptyDocument(t *testing.T) {
	if got := PageText("<html><body><p>no head</p></body></html>"); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/feed.json", "example.com"},
		{"https://news.bbc.co.uk/article", "bbc.co.uk"},
		{"://not a url", "unknown"},
	}
	for _, tt := range tests {
		if got := SourceLabel(tt.url); got != tt.want {
			t.Errorf("SourceLabel(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestFetchNormalizesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
{"id":"a1","text":"airstrike near gaza","author":{"username":"osint"}},
{"id":"a2","text":"second headline"}
]`))
	}))
	defer srv.Close()

	items, err := New().Fetch(context.Background(), srv.URL+"/feed.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Source != "@osint" {
		t.Errorf("attributed record lost its author: %+v", items[0])
	}
	if items[1].Source == "unknown" || items[1].Source == "" {
		t.Errorf("unattributed record should get the feed's domain label, got %q", items[1].Source)
	}
}

func TestFetchResolvesArticleLinks(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>Blockade announced in the gulf</title></head></html>"))
	})
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"a1","url":"` + srv.URL + `/article"}]`))
	})

	items, err := New().Fetch(context.Background(), srv.URL+"/feed")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Text != "Blockade announced in the gulf" {
		t.Errorf("article text not extracted: %+v", items[0])
	}
	if items[0].URL != srv.URL+"/article" {
		t.Errorf("article url not retained: %q", items[0].URL)
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := New().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a 404 feed")
	}
}
