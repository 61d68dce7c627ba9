package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/chartdeck/internal/mbtiles"
)

func intPtr(v int) *int { return &v }

func writeChart(t *testing.T, dir, id string, meta mbtiles.Metadata) {
	t.Helper()

	w, err := mbtiles.NewWriter(filepath.Join(dir, id+".mbtiles"), meta)
	if err != nil {
		t.Fatalf("Failed to create chart %s: %v", id, err)
	}
	if err := w.WriteTile(0, 0, 0, []byte("tile")); err != nil {
		t.Fatalf("Failed to write tile: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close chart %s: %v", id, err)
	}
}

func TestDirCatalog_List(t *testing.T) {
	dir := t.TempDir()

	writeChart(t, dir, "beta", mbtiles.Metadata{
		Name:        "Beta Chart",
		Format:      "png",
		Bounds:      "-123.2,38.2,-122.9,38.4",
		MinZoom:     intPtr(10),
		MaxZoom:     intPtr(14),
		Description: "Harbor chart",
	})
	writeChart(t, dir, "alpha", mbtiles.Metadata{
		Format: "pbf",
	})

	cat := NewDirCatalog(DirConfig{Dir: dir}, nil)
	charts, err := cat.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(charts) != 2 {
		t.Fatalf("Expected 2 charts, got %d", len(charts))
	}

	// Sorted by chart ID.
	if charts[0].ID != "alpha" || charts[1].ID != "beta" {
		t.Errorf("Unexpected order: %s, %s", charts[0].ID, charts[1].ID)
	}

	alpha := charts[0]
	if alpha.Name != "alpha" {
		t.Errorf("Missing name should fall back to ID, got %q", alpha.Name)
	}
	if alpha.Bounds != nil {
		t.Errorf("Expected nil bounds for alpha, got %q", *alpha.Bounds)
	}
	if alpha.MinZoom != nil || alpha.MaxZoom != nil {
		t.Error("Expected nil zoom range for alpha")
	}

	beta := charts[1]
	if beta.Name != "Beta Chart" {
		t.Errorf("Name = %q, want %q", beta.Name, "Beta Chart")
	}
	if beta.Bounds == nil || *beta.Bounds != "-123.2,38.2,-122.9,38.4" {
		t.Errorf("Bounds = %v, want raw string", beta.Bounds)
	}
	if beta.Description == nil || *beta.Description != "Harbor chart" {
		t.Errorf("Description = %v", beta.Description)
	}
	if beta.MinZoom == nil || *beta.MinZoom != 10 || beta.MaxZoom == nil || *beta.MaxZoom != 14 {
		t.Errorf("Zoom range = %v..%v, want 10..14", beta.MinZoom, beta.MaxZoom)
	}
}

func TestDirCatalog_SkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()

	writeChart(t, dir, "good", mbtiles.Metadata{Name: "Good", Format: "png"})

	// Not a sqlite database at all.
	if err := os.WriteFile(filepath.Join(dir, "broken.mbtiles"), []byte("not a database"), 0o644); err != nil {
		t.Fatalf("Failed to write broken file: %v", err)
	}

	cat := NewDirCatalog(DirConfig{Dir: dir}, nil)
	charts, err := cat.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(charts) != 1 || charts[0].ID != "good" {
		t.Fatalf("Expected only the readable chart, got %+v", charts)
	}
}

func TestDirCatalog_EmptyDir(t *testing.T) {
	cat := NewDirCatalog(DirConfig{Dir: t.TempDir()}, nil)
	charts, err := cat.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(charts) != 0 {
		t.Errorf("Expected no charts, got %d", len(charts))
	}
}
