package store

import "time"

// EventType is the closed set of event classifications shown on the map.
type EventType string

const (
	TypeStrike     EventType = "strike"
	TypeBlockade   EventType = "blockade"
	TypeAirspace   EventType = "airspace"
	TypeIntel      EventType = "intel"
	TypeDiplomatic EventType = "diplomatic"
)

// AllTypes lists every valid event type, in display order.
var AllTypes = []EventType{TypeStrike, TypeBlockade, TypeAirspace, TypeIntel, TypeDiplomatic}

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	for _, k := range AllTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Event is one reported occurrence in the canonical store.
//
// ID doubles as the dedup key: once an event is in the store, a re-fetch of
// the same underlying record is a no-op. Events are never deleted and, apart
// from the IsNew flag, never mutated in place.
type Event struct {
	ID           string     `json:"id"`
	Type         EventType  `json:"type"`
	Country      string     `json:"country"`
	Title        string     `json:"title"`
	Desc         string     `json:"desc"`
	Location     [2]float64 `json:"location"`
	LocationName string     `json:"locationName"`
	Time         time.Time  `json:"time"`
	Source       string     `json:"source"`
	URL          string     `json:"url,omitempty"`
	Category     string     `json:"category,omitempty"`

	// IsNew survives exactly one reconciliation cycle; the next run clears it.
	IsNew bool `json:"isNew"`
}
