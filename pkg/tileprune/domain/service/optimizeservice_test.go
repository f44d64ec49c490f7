package service_test

import (
	"context"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/service"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestOptimizeService_Optimize(t *testing.T) {
	input := newMemoryRepository()
	input.metadata["name"] = "planet"
	for x := uint32(0); x < 4; x++ {
		input.tiles[maptile.New(x, 0, 12)] = encodeTile(t, false)
	}
	broken := maptile.New(9, 9, 12)
	input.tiles[broken] = []byte{0x1f, 0x8b, 0x00}

	output := newMemoryRepository()
	optimizer := service.NewOptimizeService(
		service.NewTilePruneService(testDocument(t), service.PruneOptions{Mode: service.StyleModeLayerFilter}),
		service.OptimizeOptions{Threads: 3, IOBatch: 2, MaxTileBytes: 1},
	)

	stats, err := optimizer.Optimize(context.Background(), input, output)
	require.NoError(t, err)

	assert.Equal(t, "planet", output.metadata["name"])
	assert.Len(t, output.tiles, 5)
	assert.Equal(t, 3, output.batches)
	assert.Equal(t, input.tiles[broken], output.tiles[broken])
	assert.Len(t, decodeTile(t, output.tiles[maptile.New(2, 0, 12)])["roads"], 2)

	assert.Equal(t, 5, stats.Tiles)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 5, stats.Oversized)
	assert.Equal(t, 8, stats.FeaturesKept)
	assert.Less(t, stats.BytesOut, stats.BytesIn)
}

func TestOptimizeService_WriteFailure(t *testing.T) {
	input := newMemoryRepository()
	for x := uint32(0); x < 6; x++ {
		input.tiles[maptile.New(x, 0, 3)] = encodeTile(t, false)
	}

	output := newMemoryRepository()
	output.failOn = 2
	optimizer := service.NewOptimizeService(
		service.NewTilePruneService(testDocument(t), service.PruneOptions{Mode: service.StyleModeLayer}),
		service.OptimizeOptions{Threads: 2, IOBatch: 2},
	)

	_, err := optimizer.Optimize(context.Background(), input, output)
	assert.EqualError(t, err, "disk full")
}

func TestOptimizeService_Canceled(t *testing.T) {
	input := newMemoryRepository()
	input.tiles[maptile.New(0, 0, 0)] = encodeTile(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	optimizer := service.NewOptimizeService(service.NewTilePruneService(nil, service.PruneOptions{}), service.OptimizeOptions{})
	_, err := optimizer.Optimize(ctx, input, newMemoryRepository())
	assert.ErrorIs(t, err, context.Canceled)
}
