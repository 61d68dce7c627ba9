package mbtiles

import (
	"bytes"
	"compress/gzip"
	"path/filepath"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestWriterReaderRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chart.mbtiles")

	metadata := Metadata{
		Name:        "Bodega Bay",
		Format:      "png",
		MinZoom:     intPtr(10),
		MaxZoom:     intPtr(14),
		Bounds:      "-123.2,38.2,-122.9,38.4",
		Description: "Harbor chart",
		Type:        "overlay",
		Version:     "1.0",
	}

	w, err := NewWriter(dbPath, metadata)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	tileData := []byte("fake png data")
	if err := w.WriteTile(13, 4317, 2692, tileData); err != nil {
		t.Fatalf("Failed to write tile: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	got, err := r.ReadTile(13, 4317, 2692)
	if err != nil {
		t.Fatalf("Failed to read tile: %v", err)
	}
	if !bytes.Equal(got, tileData) {
		t.Errorf("Tile data mismatch: got %q, want %q", got, tileData)
	}

	meta, err := r.Metadata()
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	if meta.Name != "Bodega Bay" {
		t.Errorf("Name = %q, want %q", meta.Name, "Bodega Bay")
	}
	if meta.Bounds != "-123.2,38.2,-122.9,38.4" {
		t.Errorf("Bounds = %q, want raw string preserved", meta.Bounds)
	}
	if meta.MinZoom == nil || *meta.MinZoom != 10 {
		t.Errorf("MinZoom = %v, want 10", meta.MinZoom)
	}
	if meta.MaxZoom == nil || *meta.MaxZoom != 14 {
		t.Errorf("MaxZoom = %v, want 14", meta.MaxZoom)
	}
}

func TestReader_MissingTile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chart.mbtiles")

	w, err := NewWriter(dbPath, Metadata{Name: "Empty", Format: "png"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	if _, err := r.ReadTile(5, 1, 1); err == nil {
		t.Error("Expected error for missing tile")
	}
}

func TestReader_GzippedTileDecompressed(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "vector.mbtiles")

	w, err := NewWriter(dbPath, Metadata{Name: "Vector", Format: "pbf"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	payload := []byte("vector tile payload")
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(payload); err != nil {
		t.Fatalf("Failed to gzip: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}

	if err := w.WriteTile(3, 1, 2, buf.Bytes()); err != nil {
		t.Fatalf("Failed to write tile: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	got, err := r.ReadTile(3, 1, 2)
	if err != nil {
		t.Fatalf("Failed to read tile: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Expected transparent decompression, got %q", got)
	}
}

func TestMetadata_ContentType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"png", "image/png"},
		{"", "image/png"},
		{"jpg", "image/jpeg"},
		{"webp", "image/webp"},
		{"pbf", "application/x-protobuf"},
		{"mvt", "application/x-protobuf"},
	}

	for _, tc := range tests {
		m := Metadata{Format: tc.format}
		if got := m.ContentType(); got != tc.want {
			t.Errorf("ContentType(%q) = %q, want %q", tc.format, got, tc.want)
		}
	}
}
