package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrStoreUnreadable marks a missing or corrupt store document. Callers must
// abort before writing anything: overwriting the store with a fresh document
// would silently destroy the event history.
var ErrStoreUnreadable = errors.New("store document unreadable")

// Load reads and decodes the store document. It never creates the file; use
// Init for explicit first-run creation.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", ErrStoreUnreadable, path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", ErrStoreUnreadable, path, err)
	}
	return doc, nil
}

// Init creates an empty store document. It refuses to touch an existing file.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("store already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return Save(path, Document{})
}

// Save persists the document atomically: marshal, write a temp file in the
// same directory, rename over the target. A reader never observes a partial
// document, and any failure leaves the previous file untouched.
func Save(path string, doc Document) error {
	doc = doc.Clone()
	stamp, err := json.Marshal(time.Now().UTC().Format(time.RFC3339))
	if err == nil {
		doc.SetExtra(lastUpdatedKey, stamp)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing store document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing store document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing store document: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing store document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing store document: %w", err)
	}
	return nil
}
