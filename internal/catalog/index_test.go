package catalog

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestIndex_At(t *testing.T) {
	charts := []ChartInfo{
		{ID: "pacific", Bounds: strPtr("175,-10,-175,10")},  // crosses antimeridian
		{ID: "bodega", Bounds: strPtr("-123.2,38.2,-122.9,38.4")},
		{ID: "nowhere", Bounds: nil},
		{ID: "garbage", Bounds: strPtr("1,2,3")},
	}

	ix := IndexCharts(charts)

	tests := []struct {
		name     string
		lon, lat float64
		want     []string
	}{
		{"inside bodega", -123.0, 38.3, []string{"bodega"}},
		{"east of antimeridian", 178, 0, []string{"pacific"}},
		{"west of antimeridian", -178, 0, []string{"pacific"}},
		{"open ocean", 0, 0, nil},
		{"between pacific halves", 0, 5, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ix.At(tc.lon, tc.lat)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("At(%v, %v) = %v, want %v", tc.lon, tc.lat, got, tc.want)
			}
		})
	}
}

func TestIndex_OverlappingCharts(t *testing.T) {
	charts := []ChartInfo{
		{ID: "wide", Bounds: strPtr("-130,30,-110,50")},
		{ID: "detail", Bounds: strPtr("-123.2,38.2,-122.9,38.4")},
	}

	ix := IndexCharts(charts)

	got := ix.At(-123.0, 38.3)
	want := []string{"detail", "wide"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("At = %v, want %v", got, want)
	}
}
