package layer

import (
	"sort"

	"github.com/MeKo-Tech/chartdeck/internal/bounds"
)

const (
	// zoomWindowBuffer widens the declared zoom range on both sides so a
	// chart stays listed while the user zooms slightly past its range.
	zoomWindowBuffer = 2

	// Missing zoom metadata never excludes a chart on zoom grounds.
	defaultMinZoom = 0
	defaultMaxZoom = 22

	// defaultSortMaxZoom orders charts without a declared max zoom among
	// mid-detail charts rather than first or last.
	defaultSortMaxZoom = 18
)

// Visible returns the layers relevant to the current viewport and zoom
// level, most detailed first. It never mutates the working set; it is a pure
// view recomputed on every viewport or zoom change.
//
// A nil viewport means the map has not settled yet; nothing is filtered
// against it and all bounded candidates are kept (fail-open).
func (m *Manager) Visible(viewport *bounds.Rect, zoom float64) []Layer {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Layer
	for _, l := range m.layers {
		// An unbounded chart cannot be placed in viewport-relative UI.
		if l.Bounds == nil {
			continue
		}

		if viewport != nil && !m.tester.Overlaps(*l.Bounds, *viewport) {
			continue
		}

		minZoom := defaultMinZoom
		if v := l.MinZoom(); v != nil {
			minZoom = *v
		}
		maxZoom := defaultMaxZoom
		if v := l.MaxZoom(); v != nil {
			maxZoom = *v
		}
		if zoom < float64(minZoom)-zoomWindowBuffer || zoom > float64(maxZoom)+zoomWindowBuffer {
			continue
		}

		out = append(out, *l)
	}

	// More detailed charts first; ties keep their relative order.
	sort.SliceStable(out, func(i, j int) bool {
		return sortMaxZoom(out[i]) > sortMaxZoom(out[j])
	})

	return out
}

func sortMaxZoom(l Layer) int {
	if v := l.MaxZoom(); v != nil {
		return *v
	}
	return defaultSortMaxZoom
}
