// Package httpfeed pulls headline records from plain HTTP JSON feeds, the
// secondary source next to the bird CLI. Feed records that carry only an
// article URL get their text scraped from the page itself.
package httpfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/weppos/publicsuffix-go/publicsuffix"
	"golang.org/x/net/html"

	"github.com/flashpoint-tracker/flashpoint/internal/utils"
	"github.com/flashpoint-tracker/flashpoint/pkg/normalize"
)

const (
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client fetches headline feeds with retries.
type Client struct {
	http *retryablehttp.Client
}

// New returns a feed client with sane retry defaults.
func New() *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.HTTPClient.Timeout = requestTimeout
	c.Logger = nil
	return &Client{http: c}
}

// Fetch retrieves one feed and normalizes its records. Records without any
// text field but with a url are resolved by scraping the page title; records
// without attribution get the feed's root domain as source label.
func (c *Client) Fetch(ctx context.Context, feedURL string) ([]normalize.RawItem, error) {
	body, err := c.get(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", feedURL, err)
	}

	label := SourceLabel(feedURL)
	var out []normalize.RawItem
	for _, rec := range normalize.Records(string(body)) {
		it, ok := normalize.Item(rec)
		if !ok {
			articleURL := rec.Get("url").String()
			if articleURL == "" {
				continue
			}
			it, ok = c.itemFromArticle(ctx, articleURL)
			if !ok {
				continue
			}
		}
		if it.Source == "unknown" || it.Source == "" {
			it.Source = label
		}
		out = append(out, it)
	}
	return out, nil
}

// itemFromArticle builds a raw item out of a bare article link by fetching
// the page and extracting its title or og:description.
func (c *Client) itemFromArticle(ctx context.Context, articleURL string) (normalize.RawItem, bool) {
	body, err := c.get(ctx, articleURL)
	if err != nil {
		utils.Log.Warnf("fetching article %s: %v", articleURL, err)
		return normalize.RawItem{}, false
	}
	text := PageText(string(body))
	if text == "" {
		return normalize.RawItem{}, false
	}
	return normalize.RawItem{
		Text:      utils.Truncate(text, normalize.MaxTextLen),
		Source:    SourceLabel(articleURL),
		URL:       articleURL,
		Timestamp: time.Now().UTC(),
	}, true
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// PageText extracts display text from an HTML page: og:description when
// present, otherwise the document title.
func PageText(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err == nil {
		if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
			if desc = strings.TrimSpace(desc); desc != "" {
				return desc
			}
		}
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			return collapseWhitespace(title)
		}
	}
	// goquery found nothing; walk the raw node tree for a title element.
	if title, ok := rawHTMLTitle(body); ok {
		return collapseWhitespace(title)
	}
	return ""
}

// SourceLabel derives an attribution label from a URL: the registrable root
// domain when it parses, the bare host otherwise.
func SourceLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	host := u.Hostname()
	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return host
	}
	return domain
}

func rawHTMLTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	return traverseTitle(doc)
}

func traverseTitle(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result, ok := traverseTitle(c); ok {
			return result, ok
		}
	}
	return "", false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
