package catalog

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/MeKo-Tech/chartdeck/internal/bounds"
)

// minExtent keeps R-tree rectangles non-degenerate for charts that declare
// zero-width or zero-height coverage.
const minExtent = 1e-9

// Entry is one chart's analyzed coverage to be indexed.
type Entry struct {
	ChartID  string
	Analysis bounds.Analysis
}

// indexEntry is one indexed coverage rectangle. Antimeridian-crossing charts
// contribute two of these, one per non-crossing half.
type indexEntry struct {
	chartID string
	rect    rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *indexEntry) Bounds() rtreego.Rect {
	return e.rect
}

// Index answers "which charts cover this point" queries over chart coverage
// using an R-tree.
type Index struct {
	rtree *rtreego.Rtree
}

// NewIndex builds a spatial index from analyzed chart coverage.
func NewIndex(entries []Entry) *Index {
	rtree := rtreego.NewTree(2, 25, 50)

	for _, e := range entries {
		a := e.Analysis
		if a.Case.CrossesAntimeridian() {
			// Index the two non-crossing halves separately.
			east := bounds.Rect{West: a.Rect.West, South: a.Rect.South, East: 180, North: a.Rect.North}
			west := bounds.Rect{West: -180, South: a.Rect.South, East: a.Rect.East, North: a.Rect.North}
			insert(rtree, e.ChartID, east)
			insert(rtree, e.ChartID, west)
			continue
		}
		insert(rtree, e.ChartID, a.Rect)
	}

	return &Index{rtree: rtree}
}

// IndexCharts builds a spatial index straight from catalog entries. Charts
// without parseable bounds are not indexed; they cannot answer point queries.
func IndexCharts(charts []ChartInfo) *Index {
	var entries []Entry
	for _, chart := range charts {
		if chart.Bounds == nil {
			continue
		}
		raw, ok := bounds.Parse(*chart.Bounds)
		if !ok {
			continue
		}
		entries = append(entries, Entry{ChartID: chart.ID, Analysis: bounds.Analyze(raw)})
	}
	return NewIndex(entries)
}

func insert(rtree *rtreego.Rtree, chartID string, r bounds.Rect) {
	if !r.IsFinite() || r.West > r.East || r.South > r.North {
		return
	}

	point := rtreego.Point{r.West, r.South}
	lengths := []float64{
		max(r.East-r.West, minExtent),
		max(r.North-r.South, minExtent),
	}

	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return
	}
	rtree.Insert(&indexEntry{chartID: chartID, rect: rect})
}

// At returns the IDs of all charts whose coverage contains the given point,
// sorted and deduplicated.
func (ix *Index) At(lon, lat float64) []string {
	point := rtreego.Point{lon, lat}
	rect, err := rtreego.NewRect(point, []float64{minExtent, minExtent})
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, spatial := range ix.rtree.SearchIntersect(rect) {
		entry := spatial.(*indexEntry)
		if !seen[entry.chartID] {
			seen[entry.chartID] = true
			ids = append(ids, entry.chartID)
		}
	}

	sort.Strings(ids)
	return ids
}
