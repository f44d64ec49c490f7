package cli

import (
	"context"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/config"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/infrastructure"
	"io"
)

type InspectCommand struct {
	MaxTileBytes int64 `long:"max-tile-bytes" description:"Count tiles above this size (default: 1280000)"`

	Args inputArgs `positional-args:"yes" required:"yes"`

	options *Options
	stdout  io.Writer
}

func (c *InspectCommand) Execute(args []string) error {
	cfg, err := c.options.loadConfig()
	if err != nil {
		return err
	}
	limit := config.Int(c.MaxTileBytes, config.Int(cfg.MaxTileBytes, config.DefaultMaxTileBytes))

	repo, err := infrastructure.NewSqliteMBTilesRepository(c.Args.Input)
	if err != nil {
		return err
	}
	defer repo.Close()

	stats, err := repo.Stats(context.Background(), limit)
	if err != nil {
		return err
	}

	return writeTileStats(c.stdout, stats, limit)
}

func writeTileStats(w io.Writer, stats entities.TileStats, limit int64) error {
	if _, err := fmt.Fprintf(w, "tiles: %d total_bytes: %d max_bytes: %d\n", stats.TileCount, stats.TotalBytes, stats.MaxBytes); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "oversized: %d max_tile_bytes: %d\n", stats.Oversized, limit); err != nil {
		return err
	}
	for _, zoom := range stats.Zooms {
		if _, err := fmt.Fprintf(w, "z%d tiles: %d total_bytes: %d max_bytes: %d\n", zoom.Zoom, zoom.TileCount, zoom.TotalBytes, zoom.MaxBytes); err != nil {
			return err
		}
	}
	return nil
}
