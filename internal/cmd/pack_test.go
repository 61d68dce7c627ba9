package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanTilesDirectory(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"z3_x1_y2.png",
		"z5_x10_y11@2x.png",
		"z1_x2_y3_backup.png", // trailing text, not a tile name
		"preview.png",
		"notes.txt",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	tiles, minZoom, maxZoom, err := scanTilesDirectory(dir)
	if err != nil {
		t.Fatalf("scanTilesDirectory failed: %v", err)
	}

	if len(tiles) != 2 {
		t.Fatalf("Found %d tiles, want 2: %+v", len(tiles), tiles)
	}
	if minZoom != 3 || maxZoom != 5 {
		t.Errorf("Zoom range = %d-%d, want 3-5", minZoom, maxZoom)
	}

	byZoom := make(map[int]tileInfo)
	for _, ti := range tiles {
		byZoom[ti.z] = ti
	}
	if ti := byZoom[3]; ti.x != 1 || ti.y != 2 {
		t.Errorf("z3 tile = %+v, want x=1 y=2", ti)
	}
	if ti := byZoom[5]; ti.x != 10 || ti.y != 11 {
		t.Errorf("z5 tile = %+v, want x=10 y=11", ti)
	}
}

func TestScanTilesDirectory_Empty(t *testing.T) {
	tiles, minZoom, maxZoom, err := scanTilesDirectory(t.TempDir())
	if err != nil {
		t.Fatalf("scanTilesDirectory failed: %v", err)
	}
	if len(tiles) != 0 || minZoom != 0 || maxZoom != 0 {
		t.Errorf("Expected empty result, got %d tiles, zoom %d-%d", len(tiles), minZoom, maxZoom)
	}
}
