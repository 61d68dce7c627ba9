package layer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MeKo-Tech/chartdeck/internal/bounds"
	"github.com/MeKo-Tech/chartdeck/internal/catalog"
	"github.com/MeKo-Tech/chartdeck/internal/store"
)

// ErrChartNotFound is returned for operations on unknown chart IDs.
var ErrChartNotFound = errors.New("chart not found")

// Manager owns the working layer set and enforces the single-select
// invariant: at most one layer is enabled at any settled point in time.
//
// Mutations are optimistic: the in-memory change is applied first, then
// persisted. On any persistence failure the in-memory state is discarded and
// the whole layer set is reloaded from the authoritative store; there are no
// partial compensating writes.
type Manager struct {
	mu      sync.Mutex
	catalog catalog.Catalog
	store   store.Store
	tester  *bounds.Tester
	logger  *slog.Logger
	layers  []*Layer
}

// NewManager creates a layer manager. Call Refresh before use.
func NewManager(cat catalog.Catalog, st store.Store, logger *slog.Logger) *Manager {
	return &Manager{
		catalog: cat,
		store:   st,
		tester:  bounds.NewTester(logger),
		logger:  logger,
	}
}

// Refresh discards the working set and rebuilds it from the catalog and the
// store. If the persisted state has more than one layer enabled, the first
// (in chart ID order) is kept and the rest are disabled, with best-effort
// persistence of each demotion.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reloadLocked(ctx)
}

func (m *Manager) reloadLocked(ctx context.Context) error {
	charts, err := m.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list charts: %w", err)
	}

	states, err := m.store.LayerStates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load layer states: %w", err)
	}

	metas, err := m.store.CustomMetadataAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load custom metadata: %w", err)
	}

	layers := make([]*Layer, 0, len(charts))
	for i, info := range charts {
		var state *store.LayerState
		if st, ok := states[info.ID]; ok {
			state = &st
		}
		var meta *store.CustomMetadata
		if cm, ok := metas[info.ID]; ok {
			meta = &cm
		}
		layers = append(layers, newLayer(info, state, meta, i))
	}

	// Startup repair: the persisted state may have drifted into multiple
	// enabled layers. Keep the first, demote the rest. A failed demotion
	// write does not block the in-memory correction.
	seenEnabled := false
	for _, l := range layers {
		if !l.Enabled {
			continue
		}
		if !seenEnabled {
			seenEnabled = true
			continue
		}
		l.Enabled = false
		if err := m.store.SaveLayerState(ctx, layerState(l)); err != nil {
			m.log().Warn("failed to persist startup demotion", "chart_id", l.ChartID, "error", err)
		} else {
			m.log().Info("disabled extra enabled layer at startup", "chart_id", l.ChartID)
		}
	}

	m.layers = layers
	return nil
}

// Layers returns a snapshot of the working set in z-order-independent
// catalog order.
func (m *Manager) Layers() []Layer {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Layer, len(m.layers))
	for i, l := range m.layers {
		out[i] = *l
	}
	return out
}

// Get returns a snapshot of one layer.
func (m *Manager) Get(chartID string) (Layer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l := m.findLocked(chartID); l != nil {
		return *l, true
	}
	return Layer{}, false
}

// ZoomTo returns the navigable bounding box for a chart. The second return
// is false when the chart is unknown or has no parseable bounds.
func (m *Manager) ZoomTo(chartID string) (bounds.Rect, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.findLocked(chartID)
	if l == nil || l.ZoomBounds == nil {
		return bounds.Rect{}, false
	}
	return *l.ZoomBounds, true
}

// Toggle flips one layer's enablement. Enabling a layer disables every other
// enabled layer, in memory first and then in the store.
func (m *Manager) Toggle(ctx context.Context, chartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target := m.findLocked(chartID)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrChartNotFound, chartID)
	}

	newEnabled := !target.Enabled

	var demoted []*Layer
	if newEnabled {
		for _, l := range m.layers {
			if l != target && l.Enabled {
				demoted = append(demoted, l)
			}
		}
	}

	// Optimistic in-memory update.
	target.Enabled = newEnabled
	for _, l := range demoted {
		l.Enabled = false
	}

	if err := m.store.SaveLayerState(ctx, layerState(target)); err != nil {
		return m.rollbackLocked(ctx, fmt.Errorf("failed to persist toggle for %s: %w", chartID, err))
	}
	for _, l := range demoted {
		if err := m.store.SaveLayerState(ctx, layerState(l)); err != nil {
			return m.rollbackLocked(ctx, fmt.Errorf("failed to persist demotion for %s: %w", l.ChartID, err))
		}
	}

	return nil
}

// SetOpacity updates one layer's opacity. Opacity must be in [0, 1].
func (m *Manager) SetOpacity(ctx context.Context, chartID string, opacity float64) error {
	if !(opacity >= 0 && opacity <= 1) {
		return fmt.Errorf("invalid opacity %v: must be in [0, 1]", opacity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	target := m.findLocked(chartID)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrChartNotFound, chartID)
	}

	target.Opacity = opacity
	if err := m.store.SaveLayerState(ctx, layerState(target)); err != nil {
		return m.rollbackLocked(ctx, fmt.Errorf("failed to persist opacity for %s: %w", chartID, err))
	}
	return nil
}

// SetZOrder updates one layer's paint order.
func (m *Manager) SetZOrder(ctx context.Context, chartID string, zOrder int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target := m.findLocked(chartID)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrChartNotFound, chartID)
	}

	target.ZOrder = zOrder
	if err := m.store.SaveLayerState(ctx, layerState(target)); err != nil {
		return m.rollbackLocked(ctx, fmt.Errorf("failed to persist z-order for %s: %w", chartID, err))
	}
	return nil
}

// SetMetadata replaces one layer's metadata overrides in a single write.
func (m *Manager) SetMetadata(ctx context.Context, chartID string, meta store.CustomMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target := m.findLocked(chartID)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrChartNotFound, chartID)
	}

	meta.ChartID = chartID
	target.Custom = meta
	if err := m.store.SaveCustomMetadata(ctx, meta); err != nil {
		return m.rollbackLocked(ctx, fmt.Errorf("failed to persist metadata for %s: %w", chartID, err))
	}
	return nil
}

// ResetMetadata clears all four override fields in one write, reverting
// every effective value to the source simultaneously.
func (m *Manager) ResetMetadata(ctx context.Context, chartID string) error {
	return m.SetMetadata(ctx, chartID, store.CustomMetadata{ChartID: chartID})
}

// rollbackLocked discards the optimistic in-memory change by reloading the
// entire layer set from the store, then returns the original failure.
func (m *Manager) rollbackLocked(ctx context.Context, cause error) error {
	m.log().Warn("persistence failed, reloading layer set", "error", cause)
	if err := m.reloadLocked(ctx); err != nil {
		m.log().Error("reload after persistence failure also failed", "error", err)
	}
	return cause
}

func (m *Manager) findLocked(chartID string) *Layer {
	for _, l := range m.layers {
		if l.ChartID == chartID {
			return l
		}
	}
	return nil
}

func layerState(l *Layer) store.LayerState {
	return store.LayerState{
		ChartID: l.ChartID,
		Enabled: l.Enabled,
		Opacity: l.Opacity,
		ZOrder:  l.ZOrder,
	}
}

func (m *Manager) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}
