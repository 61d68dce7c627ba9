// Package server exposes the chart layer manager and chart tiles over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/MeKo-Tech/chartdeck/internal/bounds"
	"github.com/MeKo-Tech/chartdeck/internal/catalog"
	"github.com/MeKo-Tech/chartdeck/internal/layer"
	"github.com/MeKo-Tech/chartdeck/internal/mbtiles"
)

// Config configures the HTTP server.
type Config struct {
	CacheControl string // Cache-Control header for served tiles
}

// Server serves the layer API and per-chart tiles.
type Server struct {
	manager      *layer.Manager
	tester       *bounds.Tester
	logger       *slog.Logger
	cacheControl string

	mu      sync.Mutex
	index   *catalog.Index
	readers map[string]*chartReader
	retired []*chartReader
}

type chartReader struct {
	reader      *mbtiles.Reader
	contentType string
}

// New creates a server over an already-refreshed layer manager.
func New(manager *layer.Manager, cfg Config, logger *slog.Logger) *Server {
	s := &Server{
		manager:      manager,
		tester:       bounds.NewTester(logger),
		logger:       logger,
		cacheControl: cfg.CacheControl,
		readers:      make(map[string]*chartReader),
	}
	s.rebuildIndex()
	return s
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/charts", s.handleListCharts)
	mux.HandleFunc("GET /api/charts/visible", s.handleVisibleCharts)
	mux.HandleFunc("GET /api/charts/at", s.handleChartsAt)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	mux.HandleFunc("GET /api/charts/{id}/zoom-to", s.handleZoomTo)
	mux.HandleFunc("GET /api/charts/{id}/coverage", s.handleCoverage)
	mux.HandleFunc("POST /api/charts/{id}/toggle", s.handleToggle)
	mux.HandleFunc("POST /api/charts/{id}/opacity", s.handleOpacity)
	mux.HandleFunc("POST /api/charts/{id}/zorder", s.handleZOrder)
	mux.HandleFunc("PUT /api/charts/{id}/metadata", s.handleSetMetadata)
	mux.HandleFunc("DELETE /api/charts/{id}/metadata", s.handleResetMetadata)

	mux.HandleFunc("GET /charts/{id}/tiles/{z}/{x}/{y}", s.handleTile)

	return withCORS(mux)
}

// Close closes all open chart readers, including readers retired by earlier
// refreshes.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for id, cr := range s.readers {
		if err := cr.reader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.readers, id)
	}
	for _, cr := range s.retired {
		if err := cr.reader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.retired = nil
	return firstErr
}

// rebuildIndex recomputes the point-query index from the working layer set.
func (s *Server) rebuildIndex() {
	layers := s.manager.Layers()
	entries := make([]catalog.Entry, 0, len(layers))
	for _, l := range layers {
		if l.Bounds == nil {
			continue
		}
		entries = append(entries, catalog.Entry{ChartID: l.ChartID, Analysis: *l.Bounds})
	}

	ix := catalog.NewIndex(entries)
	s.mu.Lock()
	s.index = ix
	s.mu.Unlock()
}

func (s *Server) currentIndex() *catalog.Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// retireReaders detaches the reader cache so later tile requests reopen chart
// files. Detached readers may still be serving in-flight reads, so they stay
// open until the server closes.
func (s *Server) retireReaders() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, cr := range s.readers {
		s.retired = append(s.retired, cr)
		delete(s.readers, id)
	}
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
