package repository

import (
	"context"
	"errors"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulmach/orb/maptile"
)

var ErrTileNotFound = errors.New("tile not found")

type TileRepository interface {
	Tiles(ctx context.Context) (TileScanner, error)
	GetTile(ctx context.Context, tile maptile.Tile) ([]byte, error)
	Metadata(ctx context.Context) (map[string]string, error)
	Stats(ctx context.Context, maxTileBytes int64) (entities.TileStats, error)
	Close() error
}

// TileScanner iterates the tiles of a repository, in the manner of osm.Scanner.
type TileScanner interface {
	Scan() bool
	Tile() entities.Tile
	Err() error
	Close() error
}

type TileWriter interface {
	WriteMetadata(ctx context.Context, metadata map[string]string) error
	// WriteTiles stores a batch of tiles in a single transaction.
	WriteTiles(ctx context.Context, tiles []entities.Tile) error
	Close() error
}
