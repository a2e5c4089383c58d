// Package bird wraps the external `bird` CLI, the opaque command that
// queries the social-media source. Its output is newline-delimited JSON or a
// single array, sometimes with human-readable warning lines mixed in.
package bird

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/flashpoint-tracker/flashpoint/internal/utils"
	"github.com/flashpoint-tracker/flashpoint/pkg/normalize"
)

// ErrUnavailable means the bird binary is not installed. This is fatal for
// the whole run: without the adapter there is nothing to reconcile, and the
// store must not be touched.
var ErrUnavailable = errors.New("bird CLI not found in PATH")

const (
	binaryName     = "bird"
	commandTimeout = 60 * time.Second
	warningPrefix  = "⚠"
)

// Runner executes the external command. The indirection exists so tests can
// substitute canned output.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

type execRunner struct {
	bin string
}

func (r execRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, r.bin, args...).Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return out, nil
}

// Client fetches raw items through the bird CLI.
type Client struct {
	runner Runner
}

// New returns a client backed by the real binary.
func New() *Client {
	return &Client{runner: execRunner{bin: binaryName}}
}

// NewWithRunner returns a client with a custom runner, for tests.
func NewWithRunner(r Runner) *Client {
	return &Client{runner: r}
}

// Search fetches tweets matching a keyword query.
func (c *Client) Search(ctx context.Context, query string, count int) ([]normalize.RawItem, error) {
	return c.fetch(ctx, "search", query, "-n", strconv.Itoa(count), "--json")
}

// UserTweets fetches recent tweets from a monitored account.
func (c *Client) UserTweets(ctx context.Context, handle string, count int) ([]normalize.RawItem, error) {
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	return c.fetch(ctx, "user-tweets", handle, "-n", strconv.Itoa(count), "--json")
}

// News fetches trending news items.
func (c *Client) News(ctx context.Context, count int) ([]normalize.RawItem, error) {
	return c.fetch(ctx, "news", "-n", strconv.Itoa(count), "--json")
}

func (c *Client) fetch(ctx context.Context, args ...string) ([]normalize.RawItem, error) {
	out, err := c.runner.Run(ctx, args...)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		// Per-query failures (timeouts, rate limits) are recoverable: the
		// batch continues with whatever the other queries returned.
		utils.Log.Warnf("bird %s failed: %v", strings.Join(args, " "), err)
		return nil, nil
	}
	return normalize.Items(stripWarnings(string(out))), nil
}

// stripWarnings drops the CLI's human-readable warning lines so only JSON is
// left for the normalizer.
func stripWarnings(out string) string {
	lines := strings.Split(out, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), warningPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
