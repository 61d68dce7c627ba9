package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/MeKo-Tech/chartdeck/internal/bounds"
	"github.com/MeKo-Tech/chartdeck/internal/layer"
	"github.com/MeKo-Tech/chartdeck/internal/store"
)

// layerJSON is the wire representation of a chart layer.
type layerJSON struct {
	ChartID      string      `json:"chartId"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	TileType     string      `json:"tileType"`
	Enabled      bool        `json:"enabled"`
	Opacity      float64     `json:"opacity"`
	ZOrder       int         `json:"zOrder"`
	MinZoom      *int        `json:"minZoom"`
	MaxZoom      *int        `json:"maxZoom"`
	BoundsCase   string      `json:"boundsCase,omitempty"`
	RenderBounds *[4]float64 `json:"renderBounds"`
	ZoomBounds   *[4]float64 `json:"zoomBounds"`
}

func toLayerJSON(l layer.Layer) layerJSON {
	out := layerJSON{
		ChartID:     l.ChartID,
		Name:        l.Name(),
		Description: l.Description(),
		TileType:    string(l.TileType),
		Enabled:     l.Enabled,
		Opacity:     l.Opacity,
		ZOrder:      l.ZOrder,
		MinZoom:     l.MinZoom(),
		MaxZoom:     l.MaxZoom(),
	}
	if l.Bounds != nil {
		out.BoundsCase = l.Bounds.Case.String()
	}
	if l.RenderBounds != nil {
		out.RenderBounds = rectJSON(*l.RenderBounds)
	}
	if l.ZoomBounds != nil {
		out.ZoomBounds = rectJSON(*l.ZoomBounds)
	}
	return out
}

func rectJSON(r bounds.Rect) *[4]float64 {
	return &[4]float64{r.West, r.South, r.East, r.North}
}

func (s *Server) handleListCharts(w http.ResponseWriter, r *http.Request) {
	layers := s.manager.Layers()
	out := make([]layerJSON, len(layers))
	for i, l := range layers {
		out[i] = toLayerJSON(l)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVisibleCharts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	zoom, err := parseFloatParam(q.Get("zoom"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid or missing zoom parameter")
		return
	}

	var viewport *bounds.Rect
	coords := []string{q.Get("west"), q.Get("south"), q.Get("east"), q.Get("north")}
	provided := 0
	for _, c := range coords {
		if c != "" {
			provided++
		}
	}
	switch provided {
	case 0:
		// No viewport yet: the filter fails open.
	case 4:
		var vals [4]float64
		for i, c := range coords {
			v, err := parseFloatParam(c)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid viewport parameter")
				return
			}
			vals[i] = v
		}
		viewport = &bounds.Rect{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
	default:
		httpError(w, http.StatusBadRequest, "viewport requires all of west, south, east, north")
		return
	}

	visible := s.manager.Visible(viewport, zoom)
	out := make([]layerJSON, len(visible))
	for i, l := range visible {
		out[i] = toLayerJSON(l)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChartsAt(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lon, lonErr := parseFloatParam(q.Get("lon"))
	lat, latErr := parseFloatParam(q.Get("lat"))
	if lonErr != nil || latErr != nil {
		httpError(w, http.StatusBadRequest, "invalid or missing lon/lat parameters")
		return
	}

	ids := s.currentIndex().At(lon, lat)
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Refresh(r.Context()); err != nil {
		s.log().Error("refresh failed", "error", err)
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.rebuildIndex()

	// Chart files may have changed on disk; detach cached readers without
	// closing them so in-flight tile reads finish undisturbed.
	s.retireReaders()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleZoomTo(w http.ResponseWriter, r *http.Request) {
	chartID := r.PathValue("id")

	rect, ok := s.manager.ZoomTo(chartID)
	if !ok {
		httpError(w, http.StatusNotFound, "chart has no navigable bounds")
		return
	}
	writeJSON(w, http.StatusOK, rectJSON(rect))
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	chartID := r.PathValue("id")

	l, ok := s.manager.Get(chartID)
	if !ok {
		httpError(w, http.StatusNotFound, "chart not found")
		return
	}
	if l.Bounds == nil {
		httpError(w, http.StatusNotFound, "chart has no declared bounds")
		return
	}

	a := *l.Bounds
	var geom orb.Geometry
	if a.Case.CrossesAntimeridian() {
		east := bounds.Rect{West: a.Rect.West, South: a.Rect.South, East: 180, North: a.Rect.North}
		west := bounds.Rect{West: -180, South: a.Rect.South, East: a.Rect.East, North: a.Rect.North}
		geom = orb.MultiPolygon{
			east.Bound().ToPolygon(),
			west.Bound().ToPolygon(),
		}
	} else {
		geom = a.Rect.Bound().ToPolygon()
	}

	feature := geojson.NewFeature(geom)
	feature.Properties["chartId"] = l.ChartID
	feature.Properties["name"] = l.Name()
	feature.Properties["boundsCase"] = a.Case.String()

	writeJSON(w, http.StatusOK, feature)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	chartID := r.PathValue("id")
	s.runMutation(w, chartID, s.manager.Toggle(r.Context(), chartID))
}

func (s *Server) handleOpacity(w http.ResponseWriter, r *http.Request) {
	chartID := r.PathValue("id")

	var body struct {
		Opacity float64 `json:"opacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if math.IsNaN(body.Opacity) || math.IsInf(body.Opacity, 0) {
		httpError(w, http.StatusBadRequest, "opacity must be a finite number")
		return
	}
	opacity := math.Min(math.Max(body.Opacity, 0), 1)

	s.runMutation(w, chartID, s.manager.SetOpacity(r.Context(), chartID, opacity))
}

func (s *Server) handleZOrder(w http.ResponseWriter, r *http.Request) {
	chartID := r.PathValue("id")

	var body struct {
		ZOrder int `json:"zOrder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.runMutation(w, chartID, s.manager.SetZOrder(r.Context(), chartID, body.ZOrder))
}

func (s *Server) handleSetMetadata(w http.ResponseWriter, r *http.Request) {
	chartID := r.PathValue("id")

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		MinZoom     *int    `json:"minZoom"`
		MaxZoom     *int    `json:"maxZoom"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	meta := store.CustomMetadata{
		ChartID:     chartID,
		Name:        body.Name,
		Description: body.Description,
		MinZoom:     body.MinZoom,
		MaxZoom:     body.MaxZoom,
	}
	s.runMutation(w, chartID, s.manager.SetMetadata(r.Context(), chartID, meta))
}

func (s *Server) handleResetMetadata(w http.ResponseWriter, r *http.Request) {
	chartID := r.PathValue("id")
	s.runMutation(w, chartID, s.manager.ResetMetadata(r.Context(), chartID))
}

// runMutation maps manager errors to HTTP responses and returns the updated
// layer snapshot on success.
func (s *Server) runMutation(w http.ResponseWriter, chartID string, err error) {
	if err != nil {
		if errors.Is(err, layer.ErrChartNotFound) {
			httpError(w, http.StatusNotFound, "chart not found")
			return
		}
		// Persistence failed; the manager has already reloaded from the
		// store. Recoverable, not fatal.
		s.log().Error("mutation failed", "chart_id", chartID, "error", err)
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}

	if l, ok := s.manager.Get(chartID); ok {
		writeJSON(w, http.StatusOK, toLayerJSON(l))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseFloatParam(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("missing parameter")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("invalid parameter")
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
