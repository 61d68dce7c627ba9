package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/chartdeck/internal/mbtiles"
	"github.com/MeKo-Tech/chartdeck/internal/tile"
)

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	chartID := r.PathValue("id")

	coords, err := parseTilePath(r.PathValue("z"), r.PathValue("x"), r.PathValue("y"))
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !coords.Valid() {
		httpError(w, http.StatusBadRequest, "tile coordinates out of range")
		return
	}

	l, ok := s.manager.Get(chartID)
	if !ok {
		httpError(w, http.StatusNotFound, "chart not found")
		return
	}

	// Cheap coverage pre-check before touching the chart file.
	if l.Bounds != nil && !s.tester.Overlaps(*l.Bounds, coords.Bound()) {
		httpError(w, http.StatusNotFound, "tile outside chart coverage")
		return
	}

	cr, err := s.readerFor(chartID, l.Path)
	if err != nil {
		s.log().Error("failed to open chart", "chart_id", chartID, "error", err)
		httpError(w, http.StatusInternalServerError, "failed to open chart")
		return
	}

	data, err := cr.reader.ReadTile(int(coords.Z), int(coords.X), int(coords.Y))
	if err != nil {
		if errors.Is(err, mbtiles.ErrTileNotFound) {
			httpError(w, http.StatusNotFound, "tile not found")
			return
		}
		s.log().Error("failed to read tile", "chart_id", chartID, "tile", coords.String(), "error", err)
		httpError(w, http.StatusInternalServerError, "failed to read tile")
		return
	}

	w.Header().Set("Content-Type", cr.contentType)
	if s.cacheControl != "" {
		w.Header().Set("Cache-Control", s.cacheControl)
	}
	_, _ = w.Write(data)
}

// readerFor returns a cached reader for the chart, opening it on first use.
func (s *Server) readerFor(chartID, path string) (*chartReader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cr, ok := s.readers[chartID]; ok {
		return cr, nil
	}

	reader, err := mbtiles.OpenReader(path)
	if err != nil {
		return nil, err
	}

	contentType := "image/png"
	if meta, err := reader.Metadata(); err == nil {
		contentType = meta.ContentType()
	}

	cr := &chartReader{reader: reader, contentType: contentType}
	s.readers[chartID] = cr
	return cr, nil
}

func parseTilePath(zs, xs, ys string) (tile.Coords, error) {
	// Allow "2692.png" style y segments.
	if i := strings.IndexByte(ys, '.'); i >= 0 {
		ys = ys[:i]
	}

	z, errZ := strconv.ParseUint(zs, 10, 32)
	x, errX := strconv.ParseUint(xs, 10, 32)
	y, errY := strconv.ParseUint(ys, 10, 32)
	if errZ != nil || errX != nil || errY != nil {
		return tile.Coords{}, fmt.Errorf("invalid tile coordinates %s/%s/%s", zs, xs, ys)
	}

	return tile.NewCoords(uint32(z), uint32(x), uint32(y)), nil
}
