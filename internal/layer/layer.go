// Package layer maintains the working set of chart layers: source metadata
// joined with persisted state and user overrides, the single-select
// enablement invariant, and viewport/zoom visibility filtering.
package layer

import (
	"strings"

	"github.com/MeKo-Tech/chartdeck/internal/bounds"
	"github.com/MeKo-Tech/chartdeck/internal/catalog"
	"github.com/MeKo-Tech/chartdeck/internal/store"
)

// TileType distinguishes raster from vector charts.
type TileType string

const (
	TileTypeRaster TileType = "raster"
	TileTypeVector TileType = "vector"
)

// TileTypeForFormat derives the tile type from a chart's declared format.
func TileTypeForFormat(format string) TileType {
	switch strings.ToLower(format) {
	case "pbf", "mvt":
		return TileTypeVector
	default:
		return TileTypeRaster
	}
}

// Layer is one chart in the working set. Layers are rebuilt wholesale on
// every refresh by joining three independent records keyed by chart ID:
// source metadata, persisted layer state, and persisted metadata overrides.
type Layer struct {
	ChartID           string
	SourceName        string
	SourceDescription string
	SourceMinZoom     *int
	SourceMaxZoom     *int
	TileType          TileType
	Path              string

	Enabled bool
	Opacity float64
	ZOrder  int

	// Bounds is nil when the chart declares no parseable bounds.
	Bounds       *bounds.Analysis
	RenderBounds *bounds.Rect
	ZoomBounds   *bounds.Rect

	Custom store.CustomMetadata
}

// Name returns the effective display name: the user override when set,
// otherwise the source name.
func (l Layer) Name() string {
	if l.Custom.Name != nil {
		return *l.Custom.Name
	}
	return l.SourceName
}

// Description returns the effective description.
func (l Layer) Description() string {
	if l.Custom.Description != nil {
		return *l.Custom.Description
	}
	return l.SourceDescription
}

// MinZoom returns the effective minimum zoom, nil when neither the user nor
// the source declares one.
func (l Layer) MinZoom() *int {
	if l.Custom.MinZoom != nil {
		return l.Custom.MinZoom
	}
	return l.SourceMinZoom
}

// MaxZoom returns the effective maximum zoom.
func (l Layer) MaxZoom() *int {
	if l.Custom.MaxZoom != nil {
		return l.Custom.MaxZoom
	}
	return l.SourceMaxZoom
}

// newLayer joins one chart's three records. defaultZOrder is used when no
// state was persisted for the chart.
func newLayer(info catalog.ChartInfo, state *store.LayerState, meta *store.CustomMetadata, defaultZOrder int) *Layer {
	l := &Layer{
		ChartID:       info.ID,
		SourceName:    info.Name,
		SourceMinZoom: info.MinZoom,
		SourceMaxZoom: info.MaxZoom,
		TileType:      TileTypeForFormat(info.Format),
		Path:          info.Path,
		Opacity:       1,
		ZOrder:        defaultZOrder,
		Custom:        store.CustomMetadata{ChartID: info.ID},
	}
	if info.Description != nil {
		l.SourceDescription = *info.Description
	}

	if state != nil {
		l.Enabled = state.Enabled
		l.Opacity = state.Opacity
		l.ZOrder = state.ZOrder
	}
	if meta != nil {
		l.Custom = *meta
	}

	if info.Bounds != nil {
		if raw, ok := bounds.Parse(*info.Bounds); ok {
			a := bounds.Analyze(raw)
			l.Bounds = &a

			if rect, ok := a.RenderBounds(); ok {
				l.RenderBounds = &rect
			}
			zoom := a.ZoomBounds()
			l.ZoomBounds = &zoom
		}
	}

	return l
}
