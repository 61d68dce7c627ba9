package bounds

import "testing"

func TestAnalyze_Classification(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawBounds
		wantCase Case
		wantRect Rect
	}{
		{
			name:     "normal box unchanged",
			raw:      RawBounds{MinLon: -10, MinLat: -5, MaxLon: 20, MaxLat: 15},
			wantCase: CaseNormal,
			wantRect: Rect{West: -10, South: -5, East: 20, North: 15},
		},
		{
			name:     "east-to-west crossing keeps literal edges",
			raw:      RawBounds{MinLon: 175, MinLat: -10, MaxLon: -175, MaxLat: 10},
			wantCase: CaseAntimeridianEastToWest,
			wantRect: Rect{West: 175, South: -10, East: -175, North: 10},
		},
		{
			name:     "west-to-east wide span keeps literal edges",
			raw:      RawBounds{MinLon: -174.55, MinLat: -50, MaxLon: 175.53, MaxLat: 60},
			wantCase: CaseAntimeridianWestToEast,
			wantRect: Rect{West: -174.55, South: -50, East: 175.53, North: 60},
		},
		{
			name:     "inverted same-sign edges are swapped",
			raw:      RawBounds{MinLon: 30, MinLat: 40, MaxLon: 10, MaxLat: 50},
			wantCase: CaseInverted,
			wantRect: Rect{West: 10, South: 40, East: 30, North: 50},
		},
		{
			name:     "inverted negative edges are swapped",
			raw:      RawBounds{MinLon: -10, MinLat: 40, MaxLon: -30, MaxLat: 50},
			wantCase: CaseInverted,
			wantRect: Rect{West: -30, South: 40, East: -10, North: 50},
		},
		{
			name:     "sub-180 span with mixed signs stays normal",
			raw:      RawBounds{MinLon: -80, MinLat: 0, MaxLon: 80, MaxLat: 10},
			wantCase: CaseNormal,
			wantRect: Rect{West: -80, South: 0, East: 80, North: 10},
		},
		{
			name:     "exactly 180 span stays normal",
			raw:      RawBounds{MinLon: -90, MinLat: 0, MaxLon: 90, MaxLat: 10},
			wantCase: CaseNormal,
			wantRect: Rect{West: -90, South: 0, East: 90, North: 10},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Analyze(tc.raw)
			if got.Case != tc.wantCase {
				t.Errorf("Analyze case = %v, want %v", got.Case, tc.wantCase)
			}
			if got.Rect != tc.wantRect {
				t.Errorf("Analyze rect = %+v, want %+v", got.Rect, tc.wantRect)
			}
		})
	}
}

func TestRenderBounds_PresentOnlyForNonCrossingCases(t *testing.T) {
	tests := []struct {
		name        string
		raw         RawBounds
		wantPresent bool
	}{
		{"normal", RawBounds{MinLon: -10, MinLat: -5, MaxLon: 20, MaxLat: 15}, true},
		{"inverted", RawBounds{MinLon: 30, MinLat: 40, MaxLon: 10, MaxLat: 50}, true},
		{"east-to-west", RawBounds{MinLon: 175, MinLat: -10, MaxLon: -175, MaxLat: 10}, false},
		{"west-to-east", RawBounds{MinLon: -174.55, MinLat: -50, MaxLon: 175.53, MaxLat: 60}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := Analyze(tc.raw)
			rect, ok := a.RenderBounds()
			if ok != tc.wantPresent {
				t.Fatalf("RenderBounds present = %v, want %v", ok, tc.wantPresent)
			}
			if ok != (a.Case == CaseNormal || a.Case == CaseInverted) {
				t.Errorf("RenderBounds presence disagrees with case %v", a.Case)
			}
			if ok && rect != a.Rect {
				t.Errorf("RenderBounds rect = %+v, want canonical %+v", rect, a.Rect)
			}
		})
	}
}
