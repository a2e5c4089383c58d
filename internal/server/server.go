package server

import (
	"net/http"

	"github.com/flashpoint-tracker/flashpoint/internal/utils"
	"github.com/flashpoint-tracker/flashpoint/pkg/feed"
	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

// Server exposes the live feed view model over a small JSON API.
type Server struct {
	Model    *feed.Model
	Snapshot store.Document
	Username string
	Password string
}

func New(model *feed.Model, snapshot store.Document, user, pass string) *Server {
	return &Server{
		Model:    model,
		Snapshot: snapshot,
		Username: user,
		Password: pass,
	}
}

// Handler builds the route table. Split from Start so tests can drive it
// with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/events", s.basicAuth(s.handleEvents))
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))
	mux.HandleFunc("GET /api/ticker", s.basicAuth(s.handleTicker))
	mux.HandleFunc("GET /api/markers", s.basicAuth(s.handleMarkers))
	mux.HandleFunc("GET /api/snapshot", s.basicAuth(s.handleSnapshot))

	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting live feed server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
