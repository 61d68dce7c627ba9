package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/chartdeck/internal/bounds"
	"github.com/MeKo-Tech/chartdeck/internal/mbtiles"
	"github.com/MeKo-Tech/chartdeck/internal/tile"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Pack a folder of tiles into an MBTiles chart",
	Long:  `Pack converts a folder of z{z}_x{x}_y{y}.png tiles into an MBTiles chart file.`,
	RunE:  runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().String("input-dir", "./tiles", "Input directory containing tiles")
	packCmd.Flags().StringP("output", "o", "", "Output MBTiles file path (required)")
	packCmd.Flags().String("name", "", "Chart name (defaults to the output file basename)")
	packCmd.Flags().String("description", "", "Chart description")
	packCmd.Flags().String("bounds", "", "Bounding box: minLon,minLat,maxLon,maxLat (optional)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"pack.input_dir", "input-dir"},
		{"pack.output", "output"},
		{"pack.name", "name"},
		{"pack.description", "description"},
		{"pack.bounds", "bounds"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, packCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runPack(cmd *cobra.Command, args []string) error {
	inputDir := viper.GetString("pack.input_dir")
	outputFile := viper.GetString("pack.output")
	name := viper.GetString("pack.name")
	description := viper.GetString("pack.description")
	boundsStr := viper.GetString("pack.bounds")

	if logger == nil {
		initLogging()
	}

	if outputFile == "" {
		return fmt.Errorf("--output is required")
	}
	if _, err := os.Stat(inputDir); os.IsNotExist(err) {
		return fmt.Errorf("input directory does not exist: %s", inputDir)
	}

	if boundsStr != "" {
		// Validate before writing it into the chart. Antimeridian-crossing
		// bounds are legitimate, so only reject what cannot be parsed.
		if _, ok := bounds.Parse(boundsStr); !ok {
			return fmt.Errorf("invalid bounds: %s", boundsStr)
		}
	}

	if name == "" {
		name = filepath.Base(outputFile)
		name = name[:len(name)-len(filepath.Ext(name))]
	}

	logger.Info("Packing folder tiles into MBTiles",
		"input_dir", inputDir,
		"output", outputFile,
		"name", name,
	)

	tiles, minZoom, maxZoom, err := scanTilesDirectory(inputDir)
	if err != nil {
		return fmt.Errorf("failed to scan tiles directory: %w", err)
	}
	if len(tiles) == 0 {
		return fmt.Errorf("no tiles found in %s", inputDir)
	}

	logger.Info("Found tiles", "count", len(tiles), "min_zoom", minZoom, "max_zoom", maxZoom)

	metadata := mbtiles.Metadata{
		Name:        name,
		Format:      "png",
		MinZoom:     &minZoom,
		MaxZoom:     &maxZoom,
		Bounds:      boundsStr,
		Description: description,
		Type:        "overlay",
		Version:     "1.0",
	}

	writer, err := mbtiles.NewWriter(outputFile, metadata)
	if err != nil {
		return fmt.Errorf("failed to create MBTiles writer: %w", err)
	}
	defer writer.Close()

	logger.Info("Packing tiles...")
	for i, ti := range tiles {
		data, err := os.ReadFile(ti.path)
		if err != nil {
			logger.Error("Failed to read tile", "path", ti.path, "error", err)
			continue
		}

		if err := writer.WriteTile(ti.z, ti.x, ti.y, data); err != nil {
			logger.Error("Failed to write tile", "coords", fmt.Sprintf("%d/%d/%d", ti.z, ti.x, ti.y), "error", err)
			continue
		}

		if (i+1)%100 == 0 {
			logger.Info("Progress", "packed", i+1, "total", len(tiles))
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush tiles: %w", err)
	}

	logger.Info("Packing complete", "output", outputFile, "tiles", len(tiles))
	return nil
}

type tileInfo struct {
	z, x, y int
	path    string
}

// scanTilesDirectory scans a directory for tile files named
// z{zoom}_x{x}_y{y}.png (optionally @2x) and returns tile info.
func scanTilesDirectory(dir string) ([]tileInfo, int, int, error) {
	var tiles []tileInfo
	minZoom := 999
	maxZoom := 0

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		name := filepath.Base(path)
		if !strings.HasSuffix(name, ".png") {
			return nil
		}
		stem := strings.TrimSuffix(strings.TrimSuffix(name, ".png"), "@2x")

		c, err := tile.ParseCoords(stem)
		if err != nil {
			return nil
		}
		// Sscanf tolerates trailing text; the round trip rejects it.
		if c.String() != stem {
			return nil
		}

		z := int(c.Z)
		tiles = append(tiles, tileInfo{z: z, x: int(c.X), y: int(c.Y), path: path})

		if z < minZoom {
			minZoom = z
		}
		if z > maxZoom {
			maxZoom = z
		}

		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}

	if len(tiles) == 0 {
		minZoom = 0
		maxZoom = 0
	}

	return tiles, minZoom, maxZoom, nil
}
