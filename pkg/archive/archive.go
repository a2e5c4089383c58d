// Package archive keeps an append-only sqlite log of reconciliation changes
// and a rolling table of categorized news headlines. The JSON document stays
// the single source of truth; the archive exists for `flashpoint changes`
// and long-term auditing of what each run added.
package archive

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/flashpoint-tracker/flashpoint/pkg/reconcile"
	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

// maxNewsItems bounds the news table; older rows are pruned on insert.
const maxNewsItems = 100

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS event_changes (
  id           INTEGER PRIMARY KEY,
  occurred_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  event_id     TEXT NOT NULL,
  event_type   TEXT NOT NULL,
  country      TEXT NOT NULL,
  title        TEXT NOT NULL,
  source       TEXT,
  change_type  TEXT NOT NULL CHECK (change_type IN ('added'))
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON event_changes(occurred_at);
CREATE INDEX IF NOT EXISTS idx_changes_event ON event_changes(event_id);
CREATE TABLE IF NOT EXISTS news_items (
  id          INTEGER PRIMARY KEY,
  fetched_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  title       TEXT NOT NULL,
  category    TEXT NOT NULL,
  source      TEXT,
  url         TEXT
);
CREATE INDEX IF NOT EXISTS idx_news_time ON news_items(fetched_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// RecordChanges appends one run's reconciliation changes in a single
// transaction.
func (d *DB) RecordChanges(ctx context.Context, changes []reconcile.Change) error {
	if len(changes) == 0 {
		return nil
	}
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, c := range changes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO event_changes(occurred_at, event_id, event_type, country, title, source, change_type) VALUES(?,?,?,?,?,?,?)`,
			c.OccurredAt.UTC().Format("2006-01-02 15:04:05"), c.EventID, string(c.Type), c.Country, c.Title, nullIfEmpty(c.Source), c.ChangeType)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListRecent returns the most recent N changes, newest first.
func (d *DB) ListRecent(ctx context.Context, limit int) ([]reconcile.Change, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, event_id, event_type, country, title, source, change_type FROM event_changes ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []reconcile.Change{}
	for rows.Next() {
		var c reconcile.Change
		var occurredAtStr, eventType string
		var sourceNS sql.NullString
		if err := rows.Scan(&occurredAtStr, &c.EventID, &eventType, &c.Country, &c.Title, &sourceNS, &c.ChangeType); err != nil {
			return nil, err
		}
		// Parse SQLite CURRENT_TIMESTAMP format, then RFC3339.
		if t, perr := time.Parse("2006-01-02 15:04:05", occurredAtStr); perr == nil {
			c.OccurredAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, occurredAtStr); perr2 == nil {
			c.OccurredAt = t2
		} else {
			c.OccurredAt = time.Time{}
		}
		c.Type = store.EventType(eventType)
		c.Source = sourceNS.String
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

// NewsItem is one archived headline.
type NewsItem struct {
	FetchedAt time.Time
	Title     string
	Category  string
	Source    string
	URL       string
}

// RecordNews appends headlines and prunes the table back to its cap.
func (d *DB) RecordNews(ctx context.Context, items []NewsItem) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, n := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO news_items(fetched_at, title, category, source, url) VALUES(?,?,?,?,?)`,
			n.FetchedAt.UTC().Format("2006-01-02 15:04:05"), n.Title, n.Category, nullIfEmpty(n.Source), nullIfEmpty(n.URL))
		if err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM news_items WHERE id NOT IN (SELECT id FROM news_items ORDER BY fetched_at DESC, id DESC LIMIT ?)`, maxNewsItems)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// TypeStats is the per-type change count across the archive.
type TypeStats struct {
	Type  store.EventType
	Count int
}

func (d *DB) StatsByType(ctx context.Context) ([]TypeStats, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT event_type, COUNT(*) FROM event_changes GROUP BY event_type ORDER BY event_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []TypeStats
	for rows.Next() {
		var s TypeStats
		var t string
		if err := rows.Scan(&t, &s.Count); err != nil {
			return nil, err
		}
		s.Type = store.EventType(t)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
