// Package catalog discovers charts and exposes their source metadata.
package catalog

import "context"

// ChartInfo is the source metadata for one chart, as declared by the chart
// file. Nullable fields are nil when the file does not declare them.
type ChartInfo struct {
	ID          string  // Stable chart identity (file base name)
	Name        string  // Declared display name, falls back to ID
	Format      string  // Tile format (png, jpg, webp, pbf)
	Path        string  // Chart file path
	Bounds      *string // Raw bounds string, nil when not declared
	MinZoom     *int
	MaxZoom     *int
	Description *string
}

// Catalog lists the charts available to the layer manager.
type Catalog interface {
	List(ctx context.Context) ([]ChartInfo, error)
}
