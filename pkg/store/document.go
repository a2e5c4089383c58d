package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	eventsKey      = "events"
	tickerKey      = "tickerTexts"
	lastUpdatedKey = "lastUpdated"
)

// Document is the persisted store: the event log plus the rolling ticker.
//
// Earlier versions of the document carried extra top-level keys (templates,
// news, translations metadata, ...). Writers must round-trip those untouched,
// so anything that isn't events or tickerTexts is kept as raw JSON in extra.
type Document struct {
	Events      []Event
	TickerTexts []string

	extra map[string]json.RawMessage
}

// UnmarshalJSON decodes the two known keys and parks everything else in extra.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Events = nil
	d.TickerTexts = nil
	d.extra = nil

	if ev, ok := raw[eventsKey]; ok {
		if err := json.Unmarshal(ev, &d.Events); err != nil {
			return fmt.Errorf("decoding %s: %w", eventsKey, err)
		}
		delete(raw, eventsKey)
	}
	if tt, ok := raw[tickerKey]; ok {
		if err := json.Unmarshal(tt, &d.TickerTexts); err != nil {
			return fmt.Errorf("decoding %s: %w", tickerKey, err)
		}
		delete(raw, tickerKey)
	}
	if len(raw) > 0 {
		d.extra = raw
	}
	return nil
}

// MarshalJSON re-emits known keys alongside the preserved unknown ones.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.extra)+2)
	for k, v := range d.extra {
		out[k] = v
	}

	events := d.Events
	if events == nil {
		events = []Event{}
	}
	ev, err := json.Marshal(events)
	if err != nil {
		return nil, err
	}
	out[eventsKey] = ev

	ticker := d.TickerTexts
	if ticker == nil {
		ticker = []string{}
	}
	tt, err := json.Marshal(ticker)
	if err != nil {
		return nil, err
	}
	out[tickerKey] = tt

	return json.Marshal(out)
}

// Clone returns a deep-enough copy: the reconciler treats documents as
// values, so callers must be able to mutate the copy without touching the
// original's slices.
func (d Document) Clone() Document {
	out := Document{}
	if d.Events != nil {
		out.Events = make([]Event, len(d.Events))
		copy(out.Events, d.Events)
	}
	if d.TickerTexts != nil {
		out.TickerTexts = make([]string, len(d.TickerTexts))
		copy(out.TickerTexts, d.TickerTexts)
	}
	if d.extra != nil {
		out.extra = make(map[string]json.RawMessage, len(d.extra))
		for k, v := range d.extra {
			out.extra[k] = v
		}
	}
	return out
}

// Extra returns the raw JSON of an unknown top-level key, if present.
func (d Document) Extra(key string) (json.RawMessage, bool) {
	v, ok := d.extra[key]
	return v, ok
}

// SetExtra stores raw JSON under an unknown top-level key.
func (d *Document) SetExtra(key string, value json.RawMessage) {
	if d.extra == nil {
		d.extra = make(map[string]json.RawMessage)
	}
	d.extra[key] = value
}

// Equal compares two documents by content, ignoring the lastUpdated
// bookkeeping key. The deploy hook fires only when this returns false.
func Equal(a, b Document) bool {
	return bytes.Equal(canonicalBytes(a), canonicalBytes(b))
}

func canonicalBytes(d Document) []byte {
	c := d.Clone()
	delete(c.extra, lastUpdatedKey)
	data, err := json.Marshal(c)
	if err != nil {
		// Marshal of a document that came from Unmarshal cannot fail; a nil
		// return makes the comparison fail-closed (treated as changed).
		return nil
	}
	return data
}
