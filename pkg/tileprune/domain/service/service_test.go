package service_test

import (
	"bytes"
	"context"
	"errors"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/repository"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/style"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

const testStyle = `{
  "version": 8,
  "sources": { "osm": { "type": "vector", "url": "https://example.com/tiles.json" } },
  "layers": [
    { "id": "background", "type": "background" },
    { "id": "roads-primary", "type": "line", "source": "osm", "source-layer": "roads", "filter": ["==", "class", "primary"] },
    { "id": "roads-secondary", "type": "line", "source": "osm", "source-layer": "roads", "filter": ["==", "class", "secondary"] },
    { "id": "buildings", "type": "fill", "source": "osm", "source-layer": "buildings", "maxzoom": 10 }
  ]
}`

func testDocument(t *testing.T) *style.StyleDocument {
	t.Helper()

	doc, err := style.ParseStyle([]byte(testStyle))
	require.NoError(t, err)
	return doc
}

func lineFeature(props map[string]any) *geojson.Feature {
	feature := geojson.NewFeature(orb.LineString{{0, 0}, {10, 10}})
	for key, value := range props {
		feature.Properties[key] = value
	}
	return feature
}

// encodeTile builds a tile with a "roads" layer holding a primary, a
// tertiary and an unclassified road and a "buildings" layer with one point.
func encodeTile(t *testing.T, gzipped bool) []byte {
	t.Helper()

	roads := geojson.NewFeatureCollection()
	roads.Append(lineFeature(map[string]any{"class": "primary"}))
	roads.Append(lineFeature(map[string]any{"class": "tertiary"}))
	roads.Append(lineFeature(map[string]any{"name": "Unnamed"}))

	buildings := geojson.NewFeatureCollection()
	building := geojson.NewFeature(orb.Point{5, 5})
	building.Properties["height"] = 10.0
	buildings.Append(building)

	layers := mvt.NewLayers(map[string]*geojson.FeatureCollection{
		"roads":     roads,
		"buildings": buildings,
	})

	var data []byte
	var err error
	if gzipped {
		data, err = mvt.MarshalGzipped(layers)
	} else {
		data, err = mvt.Marshal(layers)
	}
	require.NoError(t, err)
	return data
}

func decodeTile(t *testing.T, data []byte) map[string][]*geojson.Feature {
	t.Helper()

	var layers mvt.Layers
	var err error
	if bytes.HasPrefix(data, []byte{0x1f, 0x8b}) {
		layers, err = mvt.UnmarshalGzipped(data)
	} else {
		layers, err = mvt.Unmarshal(data)
	}
	require.NoError(t, err)

	out := map[string][]*geojson.Feature{}
	for _, layer := range layers {
		out[layer.Name] = layer.Features
	}
	return out
}

func classes(features []*geojson.Feature) []any {
	out := make([]any, 0, len(features))
	for _, feature := range features {
		out = append(out, feature.Properties["class"])
	}
	return out
}

// memoryRepository is an in-memory TileRepository and TileWriter.
type memoryRepository struct {
	mu       sync.Mutex
	metadata map[string]string
	tiles    map[maptile.Tile][]byte
	batches  int
	gets     int
	failOn   int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		metadata: map[string]string{},
		tiles:    map[maptile.Tile][]byte{},
	}
}

var _ repository.TileRepository = (*memoryRepository)(nil)
var _ repository.TileWriter = (*memoryRepository)(nil)

func (m *memoryRepository) Tiles(ctx context.Context) (repository.TileScanner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tiles := make([]entities.Tile, 0, len(m.tiles))
	for coord, data := range m.tiles {
		tiles = append(tiles, entities.Tile{Coord: coord, Data: data})
	}
	return &memoryScanner{tiles: tiles, pos: -1}, nil
}

func (m *memoryRepository) GetTile(ctx context.Context, tile maptile.Tile) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	data, ok := m.tiles[tile]
	if !ok {
		return nil, repository.ErrTileNotFound
	}
	return data, nil
}

func (m *memoryRepository) Metadata(ctx context.Context) (map[string]string, error) {
	return m.metadata, nil
}

func (m *memoryRepository) Stats(ctx context.Context, maxTileBytes int64) (entities.TileStats, error) {
	return entities.TileStats{TileCount: int64(len(m.tiles))}, nil
}

func (m *memoryRepository) WriteMetadata(ctx context.Context, metadata map[string]string) error {
	for name, value := range metadata {
		m.metadata[name] = value
	}
	return nil
}

func (m *memoryRepository) WriteTiles(ctx context.Context, tiles []entities.Tile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batches++
	if m.failOn > 0 && m.batches >= m.failOn {
		return errors.New("disk full")
	}
	for _, tile := range tiles {
		m.tiles[tile.Coord] = tile.Data
	}
	return nil
}

func (m *memoryRepository) Close() error {
	return nil
}

type memoryScanner struct {
	tiles []entities.Tile
	pos   int
}

func (s *memoryScanner) Scan() bool {
	s.pos++
	return s.pos < len(s.tiles)
}

func (s *memoryScanner) Tile() entities.Tile {
	return s.tiles[s.pos]
}

func (s *memoryScanner) Err() error {
	return nil
}

func (s *memoryScanner) Close() error {
	return nil
}
