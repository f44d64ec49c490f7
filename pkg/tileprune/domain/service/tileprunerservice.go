package service

import (
	"bytes"
	"context"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/style"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"math"
)

type StyleMode string

const (
	StyleModeNone        StyleMode = "none"
	StyleModeLayer       StyleMode = "layer"
	StyleModeLayerFilter StyleMode = "layer+filter"
)

func ParseStyleMode(mode string) (StyleMode, error) {
	switch StyleMode(mode) {
	case StyleModeNone, StyleModeLayer, StyleModeLayerFilter:
		return StyleMode(mode), nil
	default:
		return "", fmt.Errorf("unknown style mode %q (expected none, layer or layer+filter)", mode)
	}
}

type PruneOptions struct {
	Mode StyleMode
	// DropUnknown removes features whose filters could not be decided.
	DropUnknown bool
}

type TilePruneService interface {
	PruneTile(ctx context.Context, tile entities.Tile) (entities.Tile, entities.PruneStats, error)
}

type tilePruneService struct {
	document *style.StyleDocument
	options  PruneOptions
}

// NewTilePruneService prunes with document; a nil document copies tiles through.
func NewTilePruneService(document *style.StyleDocument, options PruneOptions) TilePruneService {
	if document == nil {
		options.Mode = StyleModeNone
	}

	return &tilePruneService{
		document: document,
		options:  options,
	}
}

func (t *tilePruneService) PruneTile(ctx context.Context, tile entities.Tile) (entities.Tile, entities.PruneStats, error) {
	stats := entities.PruneStats{Tiles: 1, BytesIn: int64(len(tile.Data))}
	if err := ctx.Err(); err != nil {
		return tile, stats, err
	}

	if t.options.Mode == StyleModeNone {
		stats.BytesOut = stats.BytesIn
		return tile, stats, nil
	}

	gzipped := isGzipped(tile.Data)
	layers, err := unmarshalLayers(tile.Data, gzipped)
	if err != nil {
		return tile, stats, fmt.Errorf("decode tile %d/%d/%d failed: %w", tile.Coord.Z, tile.Coord.X, tile.Coord.Y, err)
	}

	zoom := zoomLevel(tile.Coord.Z)
	kept := layers[:0]
	for _, layer := range layers {
		if !t.document.HasSourceLayer(layer.Name) || !t.document.IsLayerVisibleOnZoom(layer.Name, zoom) {
			stats.LayersDropped++
			stats.FeaturesDropped += len(layer.Features)
			continue
		}

		if t.options.Mode == StyleModeLayerFilter {
			layer.Features = t.pruneFeatures(layer.Name, zoom, layer.Features, &stats)
		} else {
			stats.FeaturesKept += len(layer.Features)
		}

		if len(layer.Features) == 0 {
			stats.LayersDropped++
			continue
		}

		stats.LayersKept++
		kept = append(kept, layer)
	}

	data, err := marshalLayers(kept, gzipped)
	if err != nil {
		return tile, stats, fmt.Errorf("marshal layers failed: %w", err)
	}

	stats.BytesOut = int64(len(data))
	return entities.Tile{Coord: tile.Coord, Data: data}, stats, nil
}

func (t *tilePruneService) pruneFeatures(name string, zoom uint8, features []*geojson.Feature, stats *entities.PruneStats) []*geojson.Feature {
	kept := features[:0]
	for _, feature := range features {
		result, unknowns := t.document.EvaluateFeature(name, zoom, entities.NewFeatureView(feature))
		stats.UnknownChecks += unknowns

		switch result {
		case entities.FilterTrue:
			kept = append(kept, feature)
		case entities.FilterUnknown:
			stats.FeaturesUnknown++
			if t.options.DropUnknown {
				stats.FeaturesDropped++
				continue
			}
			kept = append(kept, feature)
		default:
			stats.FeaturesDropped++
			continue
		}
		stats.FeaturesKept++
	}
	return kept
}

// ExtractLayers keeps only the named layers of an encoded tile. With no names
// the tile is returned unchanged.
func ExtractLayers(tile entities.Tile, names []string) (entities.Tile, error) {
	if len(names) == 0 {
		return tile, nil
	}

	gzipped := isGzipped(tile.Data)
	layers, err := unmarshalLayers(tile.Data, gzipped)
	if err != nil {
		return tile, fmt.Errorf("decode tile %d/%d/%d failed: %w", tile.Coord.Z, tile.Coord.X, tile.Coord.Y, err)
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	kept := layers[:0]
	for _, layer := range layers {
		if wanted[layer.Name] {
			kept = append(kept, layer)
		}
	}

	data, err := marshalLayers(kept, gzipped)
	if err != nil {
		return tile, fmt.Errorf("marshal layers failed: %w", err)
	}

	return entities.Tile{Coord: tile.Coord, Data: data}, nil
}

// SummarizeTile counts the layers, features, vertices and distinct property
// keys and values of an encoded tile.
func SummarizeTile(tile entities.Tile) (entities.TileSummary, error) {
	summary := entities.TileSummary{Coord: tile.Coord}

	layers, err := unmarshalLayers(tile.Data, isGzipped(tile.Data))
	if err != nil {
		return summary, fmt.Errorf("decode tile %d/%d/%d failed: %w", tile.Coord.Z, tile.Coord.X, tile.Coord.Y, err)
	}

	keys := map[string]struct{}{}
	values := map[any]struct{}{}
	for _, layer := range layers {
		summary.Layers = append(summary.Layers, entities.LayerSummary{Name: layer.Name, Features: len(layer.Features)})
		summary.Features += len(layer.Features)

		for _, feature := range layer.Features {
			summary.Vertices += countVertices(feature.Geometry)
			for key, value := range feature.Properties {
				keys[key] = struct{}{}
				values[fmt.Sprint(value)] = struct{}{}
			}
		}
	}

	summary.Keys = len(keys)
	summary.Values = len(values)
	return summary, nil
}

func countVertices(geometry orb.Geometry) int {
	switch g := geometry.(type) {
	case orb.Point:
		return 1
	case orb.MultiPoint:
		return len(g)
	case orb.LineString:
		return len(g)
	case orb.MultiLineString:
		count := 0
		for _, line := range g {
			count += len(line)
		}
		return count
	case orb.Ring:
		return len(g)
	case orb.Polygon:
		count := 0
		for _, ring := range g {
			count += len(ring)
		}
		return count
	case orb.MultiPolygon:
		count := 0
		for _, polygon := range g {
			count += countVertices(polygon)
		}
		return count
	case orb.Collection:
		count := 0
		for _, child := range g {
			count += countVertices(child)
		}
		return count
	default:
		return 0
	}
}

func isGzipped(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0x1f, 0x8b})
}

func unmarshalLayers(data []byte, gzipped bool) (mvt.Layers, error) {
	if gzipped {
		return mvt.UnmarshalGzipped(data)
	}
	return mvt.Unmarshal(data)
}

func marshalLayers(layers mvt.Layers, gzipped bool) ([]byte, error) {
	if gzipped {
		return mvt.MarshalGzipped(layers)
	}
	return mvt.Marshal(layers)
}

func zoomLevel(z maptile.Zoom) uint8 {
	if z > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(z)
}
