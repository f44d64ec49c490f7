package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/pkg/libraries/sqlitedriver"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/repository"
	"github.com/paulmach/orb/maptile"
)

var _ repository.TileRepository = (*SqliteMBTilesRepository)(nil)

const (
	tilesTableQuery     = "SELECT zoom_level, tile_column, tile_row, tile_data FROM tiles"
	mapImagesTableQuery = "SELECT map.zoom_level, map.tile_column, map.tile_row, images.tile_data FROM map JOIN images ON images.tile_id = map.tile_id"
)

// NewSqliteMBTilesRepository opens an existing MBTiles file read-only.
func NewSqliteMBTilesRepository(path string) (*SqliteMBTilesRepository, error) {
	sqlConn, err := sql.Open(sqlitedriver.DriverName, "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open mbtiles database connection: %w", err)
	}

	return (&SqliteMBTilesRepository{
		conn: sqlConn,
	}).init()
}

type SqliteMBTilesRepository struct {
	conn        *sql.DB
	tilesSource string
	hasMetadata bool
}

// init detects whether the tiles live in a "tiles" table or view or in the
// deduplicated map/images schema.
func (s *SqliteMBTilesRepository) init() (*SqliteMBTilesRepository, error) {
	rows, err := s.conn.Query("SELECT name FROM sqlite_master WHERE type IN ('table', 'view')")
	if err != nil {
		_ = s.conn.Close()
		return nil, fmt.Errorf("failed to read mbtiles schema: %w", err)
	}
	defer rows.Close()

	names := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = s.conn.Close()
			return nil, fmt.Errorf("failed to read mbtiles schema: %w", err)
		}
		names[name] = true
	}
	if err := rows.Err(); err != nil {
		_ = s.conn.Close()
		return nil, fmt.Errorf("failed to read mbtiles schema: %w", err)
	}

	switch {
	case names["tiles"]:
		s.tilesSource = tilesTableQuery
	case names["map"] && names["images"]:
		s.tilesSource = mapImagesTableQuery
	default:
		_ = s.conn.Close()
		return nil, fmt.Errorf("mbtiles file has neither a tiles table nor map and images tables")
	}
	s.hasMetadata = names["metadata"]

	return s, nil
}

func (s *SqliteMBTilesRepository) Tiles(ctx context.Context) (repository.TileScanner, error) {
	rows, err := s.conn.QueryContext(ctx, s.tilesSource)
	if err != nil {
		return nil, fmt.Errorf("failed to query tiles: %w", err)
	}

	return &sqliteTileScanner{rows: rows}, nil
}

func (s *SqliteMBTilesRepository) GetTile(ctx context.Context, tile maptile.Tile) ([]byte, error) {
	query := "SELECT tile_data FROM (" + s.tilesSource + ") WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?"

	var data []byte
	err := s.conn.QueryRowContext(ctx, query, tile.Z, tile.X, flipRow(tile.Z, tile.Y)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d/%d/%d", repository.ErrTileNotFound, tile.Z, tile.X, tile.Y)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tile %d/%d/%d: %w", tile.Z, tile.X, tile.Y, err)
	}

	return data, nil
}

func (s *SqliteMBTilesRepository) Metadata(ctx context.Context) (map[string]string, error) {
	metadata := map[string]string{}
	if !s.hasMetadata {
		return metadata, nil
	}

	rows, err := s.conn.QueryContext(ctx, "SELECT name, value FROM metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var value sql.NullString
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to read metadata: %w", err)
		}
		metadata[name] = value.String
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	return metadata, nil
}

func (s *SqliteMBTilesRepository) Stats(ctx context.Context, maxTileBytes int64) (entities.TileStats, error) {
	query := "SELECT zoom_level, COUNT(*), COALESCE(SUM(LENGTH(tile_data)), 0), COALESCE(MAX(LENGTH(tile_data)), 0), " +
		"COALESCE(SUM(LENGTH(tile_data) > ?), 0) FROM (" + s.tilesSource + ") GROUP BY zoom_level ORDER BY zoom_level"

	rows, err := s.conn.QueryContext(ctx, query, maxTileBytes)
	if err != nil {
		return entities.TileStats{}, fmt.Errorf("failed to query tile stats: %w", err)
	}
	defer rows.Close()

	var stats entities.TileStats
	for rows.Next() {
		var zoom entities.ZoomStats
		var oversized int64
		if err := rows.Scan(&zoom.Zoom, &zoom.TileCount, &zoom.TotalBytes, &zoom.MaxBytes, &oversized); err != nil {
			return entities.TileStats{}, fmt.Errorf("failed to read tile stats: %w", err)
		}

		stats.Zooms = append(stats.Zooms, zoom)
		stats.TileCount += zoom.TileCount
		stats.TotalBytes += zoom.TotalBytes
		stats.Oversized += oversized
		if zoom.MaxBytes > stats.MaxBytes {
			stats.MaxBytes = zoom.MaxBytes
		}
	}

	if err := rows.Err(); err != nil {
		return entities.TileStats{}, fmt.Errorf("failed to read tile stats: %w", err)
	}

	return stats, nil
}

func (s *SqliteMBTilesRepository) Close() error {
	return s.conn.Close()
}

type sqliteTileScanner struct {
	rows *sql.Rows
	tile entities.Tile
	err  error
}

func (s *sqliteTileScanner) Scan() bool {
	if s.err != nil || !s.rows.Next() {
		return false
	}

	var z, x, row uint32
	var data []byte
	if err := s.rows.Scan(&z, &x, &row, &data); err != nil {
		s.err = fmt.Errorf("failed to read tile row: %w", err)
		return false
	}

	zoom := maptile.Zoom(z)
	s.tile = entities.Tile{
		Coord: maptile.New(x, flipRow(zoom, row), zoom),
		Data:  data,
	}
	return true
}

func (s *sqliteTileScanner) Tile() entities.Tile {
	return s.tile
}

func (s *sqliteTileScanner) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.rows.Err()
}

func (s *sqliteTileScanner) Close() error {
	return s.rows.Close()
}

// flipRow converts between the TMS rows of MBTiles and XYZ rows. It is its own inverse.
func flipRow(zoom maptile.Zoom, row uint32) uint32 {
	return (uint32(1) << uint32(zoom)) - 1 - row
}
