package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "chartdeck.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSQLiteStore_LayerStateRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	states, err := s.LayerStates(ctx)
	if err != nil {
		t.Fatalf("Failed to load states: %v", err)
	}
	if len(states) != 0 {
		t.Fatalf("Expected empty store, got %d states", len(states))
	}

	want := LayerState{ChartID: "noaa-18740", Enabled: true, Opacity: 0.8, ZOrder: 3}
	if err := s.SaveLayerState(ctx, want); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	states, err = s.LayerStates(ctx)
	if err != nil {
		t.Fatalf("Failed to reload states: %v", err)
	}
	if got := states["noaa-18740"]; got != want {
		t.Errorf("Loaded state = %+v, want %+v", got, want)
	}
}

func TestSQLiteStore_SaveReplacesExistingState(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := LayerState{ChartID: "c1", Enabled: true, Opacity: 1, ZOrder: 0}
	if err := s.SaveLayerState(ctx, first); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	second := LayerState{ChartID: "c1", Enabled: false, Opacity: 0.5, ZOrder: 2}
	if err := s.SaveLayerState(ctx, second); err != nil {
		t.Fatalf("Failed to overwrite: %v", err)
	}

	states, err := s.LayerStates(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(states) != 1 {
		t.Fatalf("Expected 1 state, got %d", len(states))
	}
	if got := states["c1"]; got != second {
		t.Errorf("Loaded state = %+v, want %+v", got, second)
	}
}

func TestSQLiteStore_CustomMetadataRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	name := "Bodega Bay (renamed)"
	minZoom := 9
	meta := CustomMetadata{ChartID: "c1", Name: &name, MinZoom: &minZoom}
	if err := s.SaveCustomMetadata(ctx, meta); err != nil {
		t.Fatalf("Failed to save metadata: %v", err)
	}

	metas, err := s.CustomMetadataAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load metadata: %v", err)
	}

	got, ok := metas["c1"]
	if !ok {
		t.Fatal("Expected metadata for c1")
	}
	if got.Name == nil || *got.Name != name {
		t.Errorf("Name = %v, want %q", got.Name, name)
	}
	if got.MinZoom == nil || *got.MinZoom != minZoom {
		t.Errorf("MinZoom = %v, want %d", got.MinZoom, minZoom)
	}
	if got.Description != nil || got.MaxZoom != nil {
		t.Errorf("Unset fields should stay nil, got %+v", got)
	}
}

func TestSQLiteStore_SaveAllNilClearsOverrides(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	name := "custom"
	desc := "custom description"
	minZoom, maxZoom := 5, 15
	full := CustomMetadata{
		ChartID:     "c1",
		Name:        &name,
		Description: &desc,
		MinZoom:     &minZoom,
		MaxZoom:     &maxZoom,
	}
	if err := s.SaveCustomMetadata(ctx, full); err != nil {
		t.Fatalf("Failed to save metadata: %v", err)
	}

	// Reset is a single write of an all-nil record.
	if err := s.SaveCustomMetadata(ctx, CustomMetadata{ChartID: "c1"}); err != nil {
		t.Fatalf("Failed to reset metadata: %v", err)
	}

	metas, err := s.CustomMetadataAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load metadata: %v", err)
	}
	if got := metas["c1"]; !got.IsZero() {
		t.Errorf("Expected all overrides cleared, got %+v", got)
	}
}
