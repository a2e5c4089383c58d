package feed

import "github.com/flashpoint-tracker/flashpoint/pkg/store"

// Marker is the map badge for an event type: the glyph rendered in the pin
// and the CSS class that colors it.
type Marker struct {
	Symbol string `json:"symbol"`
	Class  string `json:"class"`
}

var markers = map[store.EventType]Marker{
	store.TypeStrike:     {Symbol: "✸", Class: "marker-strike"},
	store.TypeBlockade:   {Symbol: "⚓", Class: "marker-blockade"},
	store.TypeAirspace:   {Symbol: "✈", Class: "marker-airspace"},
	store.TypeIntel:      {Symbol: "◉", Class: "marker-intel"},
	store.TypeDiplomatic: {Symbol: "✉", Class: "marker-diplomatic"},
}

var defaultMarker = Marker{Symbol: "●", Class: "marker-default"}

// MarkerFor returns the badge for an event type. Unknown types get the
// default marker; a bad record must not break rendering.
func MarkerFor(t store.EventType) Marker {
	if m, ok := markers[t]; ok {
		return m
	}
	return defaultMarker
}
