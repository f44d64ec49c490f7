package service

import (
	"context"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/repository"
	"github.com/rs/zerolog/log"
	"runtime"
	"sync"
)

type OptimizeOptions struct {
	Threads      int
	IOBatch      int
	MaxTileBytes int64
}

type OptimizeService interface {
	Optimize(ctx context.Context, input repository.TileRepository, output repository.TileWriter) (entities.PruneStats, error)
}

type optimizeService struct {
	pruner  TilePruneService
	options OptimizeOptions
}

func NewOptimizeService(pruner TilePruneService, options OptimizeOptions) OptimizeService {
	if options.Threads <= 0 {
		options.Threads = runtime.GOMAXPROCS(-1)
	}
	if options.IOBatch <= 0 {
		options.IOBatch = 1000
	}

	return &optimizeService{
		pruner:  pruner,
		options: options,
	}
}

type pruneResult struct {
	tile  entities.Tile
	stats entities.PruneStats
}

// Optimize copies metadata and every tile of input into output, pruning tiles
// on a pool of workers. A tile that fails to prune is copied unchanged.
func (o *optimizeService) Optimize(ctx context.Context, input repository.TileRepository, output repository.TileWriter) (entities.PruneStats, error) {
	metadata, err := input.Metadata(ctx)
	if err != nil {
		return entities.PruneStats{}, err
	}
	if err := output.WriteMetadata(ctx, metadata); err != nil {
		return entities.PruneStats{}, err
	}

	scanner, err := input.Tiles(ctx)
	if err != nil {
		return entities.PruneStats{}, err
	}
	defer scanner.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan entities.Tile, o.options.Threads*2)
	results := make(chan pruneResult, o.options.Threads*2)

	var scanErr error
	go func() {
		defer close(jobs)
		for scanner.Scan() {
			select {
			case jobs <- scanner.Tile():
			case <-ctx.Done():
				return
			}
		}
		scanErr = scanner.Err()
	}()

	var wg sync.WaitGroup
	for i := 0; i < o.options.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tile := range jobs {
				result := o.prune(ctx, tile)
				select {
				case results <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var total entities.PruneStats
	var writeErr error
	batch := make([]entities.Tile, 0, o.options.IOBatch)
	for result := range results {
		if writeErr != nil {
			continue
		}

		total.Add(result.stats)
		batch = append(batch, result.tile)
		if len(batch) < o.options.IOBatch {
			continue
		}

		if err := output.WriteTiles(ctx, batch); err != nil {
			writeErr = err
			cancel()
			continue
		}
		batch = batch[:0]

		log.Debug().
			Int("tiles", total.Tiles).
			Int64("bytes_in", total.BytesIn).
			Int64("bytes_out", total.BytesOut).
			Msg("Tiles written")
	}

	if writeErr != nil {
		return total, writeErr
	}
	if scanErr != nil {
		return total, fmt.Errorf("failed to read input tiles: %w", scanErr)
	}
	if err := ctx.Err(); err != nil {
		return total, err
	}

	if len(batch) > 0 {
		if err := output.WriteTiles(ctx, batch); err != nil {
			return total, err
		}
	}

	return total, nil
}

func (o *optimizeService) prune(ctx context.Context, tile entities.Tile) pruneResult {
	pruned, stats, err := o.pruner.PruneTile(ctx, tile)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().
				Err(err).
				Uint32("z", uint32(tile.Coord.Z)).
				Uint32("x", tile.Coord.X).
				Uint32("y", tile.Coord.Y).
				Msg("Failed to prune tile, copying it unchanged")
		}
		pruned = tile
		stats = entities.PruneStats{
			Tiles:    1,
			Failed:   1,
			BytesIn:  int64(len(tile.Data)),
			BytesOut: int64(len(tile.Data)),
		}
	}

	if o.options.MaxTileBytes > 0 && int64(len(pruned.Data)) > o.options.MaxTileBytes {
		stats.Oversized++
	}

	return pruneResult{tile: pruned, stats: stats}
}
