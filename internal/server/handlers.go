package server

import (
	"encoding/json"
	"net/http"

	"github.com/flashpoint-tracker/flashpoint/pkg/feed"
	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Each filter-control interaction maps to one request; the filters are
	// model state, so applying them here mirrors the page behavior.
	q := r.URL.Query()
	s.Model.SetFilter(q.Get("country"), q.Get("type"))

	events := s.Model.VisibleEvents()
	writeJSON(w, events)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Model.StatsByType())
}

func (s *Server) handleTicker(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Model.TickerTexts())
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	markers := make(map[store.EventType]feed.Marker, len(store.AllTypes))
	for _, t := range store.AllTypes {
		markers[t] = feed.MarkerFor(t)
	}
	writeJSON(w, markers)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Snapshot)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
