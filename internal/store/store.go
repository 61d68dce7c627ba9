// Package store persists the per-chart state that survives a restart
// independent of the chart files themselves: layer enablement, opacity,
// paint order, and user-supplied metadata overrides.
package store

import "context"

// LayerState is the persisted portion of a chart layer, keyed by chart ID.
type LayerState struct {
	ChartID string
	Enabled bool
	Opacity float64 // [0, 1]
	ZOrder  int     // paint order, ascending bottom to top
}

// CustomMetadata holds user overrides for source-derived chart metadata.
// Each field is independently nullable; nil means "use the source value".
type CustomMetadata struct {
	ChartID     string
	Name        *string
	Description *string
	MinZoom     *int
	MaxZoom     *int
}

// IsZero reports whether no override field is set.
func (m CustomMetadata) IsZero() bool {
	return m.Name == nil && m.Description == nil && m.MinZoom == nil && m.MaxZoom == nil
}

// Store is the external key-value persistence collaborator. Implementations
// must treat a save as a full-record replace for the given chart ID.
type Store interface {
	// LayerStates loads all persisted layer states keyed by chart ID.
	LayerStates(ctx context.Context) (map[string]LayerState, error)

	// SaveLayerState replaces the persisted state for one chart.
	SaveLayerState(ctx context.Context, state LayerState) error

	// CustomMetadataAll loads all persisted metadata overrides keyed by
	// chart ID.
	CustomMetadataAll(ctx context.Context) (map[string]CustomMetadata, error)

	// SaveCustomMetadata replaces the metadata overrides for one chart in a
	// single write. Saving a record with all fields nil clears every
	// override at once.
	SaveCustomMetadata(ctx context.Context, meta CustomMetadata) error

	// Close releases the underlying resources.
	Close() error
}
