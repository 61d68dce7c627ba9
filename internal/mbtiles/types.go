// Package mbtiles reads and writes MBTiles chart databases.
package mbtiles

import "strconv"

// Metadata contains MBTiles metadata fields.
//
// Bounds and Center are kept as the raw metadata strings. Charts in the wild
// carry malformed or antimeridian-crossing bounds; interpreting them is the
// job of the bounds engine, not the file reader.
type Metadata struct {
	Name        string // Human-readable chart identifier
	Format      string // Tile data type (png, jpg, webp, pbf)
	Attribution string // Attribution text
	Description string // Human-readable description
	Type        string // "baselayer" or "overlay"
	Version     string // Version string
	Bounds      string // Raw "minLon,minLat,maxLon,maxLat" string, may be empty
	Center      string // Raw "lon,lat,zoom" string, may be empty
	MinZoom     *int   // Minimum zoom level, nil when not declared
	MaxZoom     *int   // Maximum zoom level, nil when not declared
}

// ToMap converts Metadata to a map for database insertion.
func (m Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	if m.Name != "" {
		result["name"] = m.Name
	}
	if m.Format != "" {
		result["format"] = m.Format
	}
	if m.MinZoom != nil {
		result["minzoom"] = strconv.Itoa(*m.MinZoom)
	}
	if m.MaxZoom != nil {
		result["maxzoom"] = strconv.Itoa(*m.MaxZoom)
	}
	if m.Bounds != "" {
		result["bounds"] = m.Bounds
	}
	if m.Center != "" {
		result["center"] = m.Center
	}
	if m.Attribution != "" {
		result["attribution"] = m.Attribution
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if m.Type != "" {
		result["type"] = m.Type
	}
	if m.Version != "" {
		result["version"] = m.Version
	}

	return result
}

// ContentType returns the MIME type for the chart's tile format.
func (m Metadata) ContentType() string {
	switch m.Format {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	case "pbf", "mvt":
		return "application/x-protobuf"
	default:
		return "image/png"
	}
}
