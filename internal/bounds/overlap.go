package bounds

import "log/slog"

// Tester decides whether chart coverage intersects the current map viewport.
// Viewports are always non-crossing (west < east) by construction of the
// rendering surface; chart coverage may cross the antimeridian.
type Tester struct {
	logger *slog.Logger
}

// NewTester creates an overlap tester. A nil logger falls back to
// slog.Default().
func NewTester(logger *slog.Logger) *Tester {
	return &Tester{logger: logger}
}

// Overlaps reports whether the analyzed chart coverage intersects the
// viewport.
//
// Antimeridian-crossing coverage is decomposed into two non-crossing halves,
// [west, 180] and [-180, east], and intersecting either half counts. The raw
// (west, east) pair alone would never pass a naive rectangle test.
//
// Non-finite coordinates on either side degrade to "no overlap": malformed
// bounds should hide a chart from viewport-based display, not crash
// filtering.
func (t *Tester) Overlaps(a Analysis, viewport Rect) bool {
	if !a.Rect.IsFinite() || !viewport.IsFinite() {
		t.log().Warn("non-finite coordinates in overlap test",
			"chart_bounds", a.Rect.String(),
			"viewport", viewport.String(),
		)
		return false
	}

	if a.Case.CrossesAntimeridian() {
		eastHalf := Rect{West: a.Rect.West, South: a.Rect.South, East: 180, North: a.Rect.North}
		westHalf := Rect{West: -180, South: a.Rect.South, East: a.Rect.East, North: a.Rect.North}
		return rectsOverlap(eastHalf, viewport) || rectsOverlap(westHalf, viewport)
	}

	return rectsOverlap(a.Rect, viewport)
}

// rectsOverlap is the standard axis-aligned rectangle test. Strict
// comparisons are used for the separation checks so that edge-touching
// rectangles count as overlapping.
func rectsOverlap(a, b Rect) bool {
	if a.West > b.East || a.East < b.West {
		return false
	}
	if a.South > b.North || a.North < b.South {
		return false
	}
	return true
}

func (t *Tester) log() *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return slog.Default()
}
