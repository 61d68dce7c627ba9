package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/MeKo-Tech/chartdeck/internal/mbtiles"
	"github.com/MeKo-Tech/chartdeck/internal/worker"
)

// DirCatalog discovers MBTiles charts in a directory. Metadata for the
// discovered files is read in parallel.
type DirCatalog struct {
	dir     string
	workers int
	logger  *slog.Logger
}

// DirConfig configures a directory catalog.
type DirConfig struct {
	Dir     string
	Workers int // parallel metadata readers, defaults to 4
}

// NewDirCatalog creates a catalog over a directory of *.mbtiles files.
func NewDirCatalog(cfg DirConfig, logger *slog.Logger) *DirCatalog {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &DirCatalog{
		dir:     cfg.Dir,
		workers: workers,
		logger:  logger,
	}
}

// List scans the directory and returns chart metadata sorted by chart ID.
// Files that cannot be read are logged at warning level and skipped; a
// broken chart file must not take down the whole catalog.
func (c *DirCatalog) List(ctx context.Context) ([]ChartInfo, error) {
	paths, err := filepath.Glob(filepath.Join(c.dir, "*.mbtiles"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan charts directory: %w", err)
	}
	sort.Strings(paths)

	var (
		mu     sync.Mutex
		charts []ChartInfo
	)

	pool := worker.New(worker.Config{
		Workers: c.workers,
		Run: func(ctx context.Context, task worker.Task) error {
			info, err := readChartInfo(task.Path)
			if err != nil {
				return err
			}
			mu.Lock()
			charts = append(charts, info)
			mu.Unlock()
			return nil
		},
	})

	tasks := make([]worker.Task, len(paths))
	for i, p := range paths {
		tasks[i] = worker.Task{Path: p}
	}

	for _, res := range pool.Run(ctx, tasks) {
		if res.Err != nil {
			c.log().Warn("skipping unreadable chart", "path", res.Task.Path, "error", res.Err)
		}
	}

	sort.Slice(charts, func(i, j int) bool { return charts[i].ID < charts[j].ID })
	return charts, nil
}

// readChartInfo reads source metadata from a single MBTiles file.
func readChartInfo(path string) (ChartInfo, error) {
	r, err := mbtiles.OpenReader(path)
	if err != nil {
		return ChartInfo{}, err
	}
	defer r.Close()

	meta, err := r.Metadata()
	if err != nil {
		return ChartInfo{}, err
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	info := ChartInfo{
		ID:      id,
		Name:    meta.Name,
		Format:  meta.Format,
		Path:    path,
		MinZoom: meta.MinZoom,
		MaxZoom: meta.MaxZoom,
	}
	if info.Name == "" {
		info.Name = id
	}
	if meta.Bounds != "" {
		b := meta.Bounds
		info.Bounds = &b
	}
	if meta.Description != "" {
		d := meta.Description
		info.Description = &d
	}

	return info, nil
}

func (c *DirCatalog) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}
