package cmd

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flashpoint-tracker/flashpoint/internal/utils"
	"github.com/flashpoint-tracker/flashpoint/pkg/archive"
	"github.com/flashpoint-tracker/flashpoint/pkg/bird"
	"github.com/flashpoint-tracker/flashpoint/pkg/classify"
	"github.com/flashpoint-tracker/flashpoint/pkg/feed"
	"github.com/flashpoint-tracker/flashpoint/pkg/httpfeed"
	"github.com/flashpoint-tracker/flashpoint/pkg/normalize"
	"github.com/flashpoint-tracker/flashpoint/pkg/reconcile"
	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

// Per-run query caps, to stay under the source's rate limits.
const (
	maxKeywordSearches = 5
	tweetsPerKeyword   = 5
	maxAccountFetches  = 3
	tweetsPerAccount   = 3
	newsCount          = 20
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch new records and reconcile them into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command: '%s'. See 'flashpoint fetch --help'", args[0])
		}

		path := storePath(cmd)
		lock, err := utils.NewStoreLock(path)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		ctx := cmd.Context()

		// Load first: a missing or corrupt store aborts the run before any
		// source is queried, and nothing is ever written over it.
		doc, err := store.Load(path)
		if err != nil {
			return err
		}
		utils.Log.Infof("Loaded %d existing events from %s", len(doc.Events), path)

		items, news, err := fetchAll(ctx, cmd)
		if err != nil {
			return err
		}
		utils.Log.Infof("Fetched %d raw items", len(items))

		updated, changes := reconcile.Events(doc, items)

		skipTicker, _ := cmd.Flags().GetBool("no-ticker")
		if !skipTicker {
			updated = reconcile.Ticker(updated, reconcile.BuildTicker(news))
		}

		if store.Equal(doc, updated) {
			utils.Log.Info("No new items; store unchanged")
			return nil
		}

		if err := store.Save(path, updated); err != nil {
			return err
		}
		utils.Log.Infof("Saved %d events (+%d new)", len(updated.Events), len(changes))

		if archivePath, _ := cmd.Flags().GetString("archive"); archivePath != "" {
			if err := recordArchive(ctx, archivePath, changes, news); err != nil {
				utils.Log.Warnf("Failed to archive changes: %v", err)
			}
		}

		printChanges(changes)

		if hook := viper.GetString("deploy.hook"); hook != "" {
			utils.Log.Infof("Store changed, running deploy hook")
			if out, err := exec.CommandContext(ctx, "sh", "-c", hook).CombinedOutput(); err != nil {
				utils.Log.Warnf("Deploy hook failed: %v: %s", err, out)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("archive", "", "Path to SQLite archive DB; records per-run changes when set")
	fetchCmd.Flags().Bool("no-ticker", false, "Skip the ticker refresh, reconcile events only")
}

// fetchAll queries every configured source. A missing bird binary is fatal;
// individual query and feed failures are logged and skipped.
func fetchAll(ctx context.Context, cmd *cobra.Command) (items, news []normalize.RawItem, err error) {
	cli := bird.New()

	keywords := viper.GetStringSlice("keywords")
	if len(keywords) > maxKeywordSearches {
		keywords = keywords[:maxKeywordSearches]
	}
	for _, kw := range keywords {
		utils.Log.Debugf("Searching: %s", kw)
		got, err := cli.Search(ctx, kw, tweetsPerKeyword)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, got...)
	}

	accounts := viper.GetStringSlice("accounts")
	if len(accounts) > maxAccountFetches {
		accounts = accounts[:maxAccountFetches]
	}
	for _, acct := range accounts {
		utils.Log.Debugf("Fetching account: @%s", acct)
		got, err := cli.UserTweets(ctx, acct, tweetsPerAccount)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, got...)
	}

	news, err = cli.News(ctx, newsCount)
	if err != nil {
		return nil, nil, err
	}

	feeds := httpfeed.New()
	for _, feedURL := range viper.GetStringSlice("feeds.urls") {
		got, err := feeds.Fetch(ctx, feedURL)
		if err != nil {
			utils.Log.Warnf("Skipping feed: %v", err)
			continue
		}
		news = append(news, got...)
	}

	return items, news, nil
}

func recordArchive(ctx context.Context, path string, changes []reconcile.Change, news []normalize.RawItem) error {
	db, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RecordChanges(ctx, changes); err != nil {
		return err
	}

	var newsItems []archive.NewsItem
	for _, n := range news {
		if !classify.Relevant(n.Text) {
			continue
		}
		newsItems = append(newsItems, archive.NewsItem{
			FetchedAt: n.Timestamp,
			Title:     n.Text,
			Category:  classify.Category(n.Text),
			Source:    n.Source,
			URL:       n.URL,
		})
	}
	return db.RecordNews(ctx, newsItems)
}

func printChanges(changes []reconcile.Change) {
	for _, c := range changes {
		marker := feed.MarkerFor(c.Type)
		fmt.Printf("%s  %-10s  %-7s  %s  (%s)\n", marker.Symbol, c.Type, c.Country, c.Title, c.Source)
	}
}
