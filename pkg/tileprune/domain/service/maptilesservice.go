package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"github.com/dgraph-io/ristretto"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/repository"
	"github.com/paulmach/orb/maptile"
	"io"
)

type MapTilesService interface {
	// GetMapTile returns the pruned tile and whether it is gzip encoded.
	GetMapTile(ctx context.Context, tile maptile.Tile, acceptGzip bool) ([]byte, bool, error)
}

type mapTilesService struct {
	tileRepository repository.TileRepository
	pruner         TilePruneService
	cache          *ristretto.Cache
}

// NewMapTilesService caches up to cacheBytes of pruned tiles. A zero size
// disables the cache.
func NewMapTilesService(tileRepository repository.TileRepository, pruner TilePruneService, cacheBytes int64) (MapTilesService, error) {
	service := &mapTilesService{
		tileRepository: tileRepository,
		pruner:         pruner,
	}

	if cacheBytes > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e6,
			MaxCost:     cacheBytes,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create tile cache: %w", err)
		}
		service.cache = cache
	}

	return service, nil
}

func (m *mapTilesService) GetMapTile(ctx context.Context, tile maptile.Tile, acceptGzip bool) ([]byte, bool, error) {
	data, err := m.prunedTile(ctx, tile)
	if err != nil {
		return nil, false, err
	}

	gzipped := isGzipped(data)
	if gzipped && !acceptGzip {
		data, err = gunzip(data)
		if err != nil {
			return nil, false, fmt.Errorf("decompress tile failed: %w", err)
		}
		gzipped = false
	}

	return data, gzipped, nil
}

func (m *mapTilesService) prunedTile(ctx context.Context, tile maptile.Tile) ([]byte, error) {
	key := fmt.Sprintf("%d/%d/%d", tile.Z, tile.X, tile.Y)
	if m.cache != nil {
		if cached, found := m.cache.Get(key); found {
			if data, ok := cached.([]byte); ok {
				return data, nil
			}
		}
	}

	raw, err := m.tileRepository.GetTile(ctx, tile)
	if err != nil {
		return nil, err
	}

	pruned, _, err := m.pruner.PruneTile(ctx, entities.Tile{Coord: tile, Data: raw})
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		m.cache.Set(key, pruned.Data, int64(len(pruned.Data)))
	}

	return pruned.Data, nil
}

func gunzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
