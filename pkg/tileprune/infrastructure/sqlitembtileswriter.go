package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/migrations"
	"github.com/paulkoehlerdev/TilePrune/pkg/libraries/sqlitedriver"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/repository"
	"os"
	"strings"
)

var _ repository.TileWriter = (*SqliteMBTilesWriter)(nil)

// NewSqliteMBTilesWriter creates a new MBTiles file at path. It fails if the
// file already exists.
func NewSqliteMBTilesWriter(path string) (*SqliteMBTilesWriter, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("output file %s already exists", path)
	}

	sqlConn, err := sql.Open(sqlitedriver.DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mbtiles database connection: %w", err)
	}
	// the schema PRAGMAs are per connection
	sqlConn.SetMaxOpenConns(1)

	return (&SqliteMBTilesWriter{
		conn: sqlConn,
	}).init()
}

type SqliteMBTilesWriter struct {
	conn *sql.DB
}

func (s *SqliteMBTilesWriter) init() (*SqliteMBTilesWriter, error) {
	file, err := migrations.FS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to open schema file: %w", err)
	}

	for _, query := range strings.Split(string(file), ";") {
		if strings.TrimSpace(query) == "" {
			continue
		}
		if _, err := s.conn.Exec(query); err != nil {
			return nil, fmt.Errorf("failed to execute schema file at query %s: %w", query, err)
		}
	}

	return s, nil
}

func (s *SqliteMBTilesWriter) WriteMetadata(ctx context.Context, metadata map[string]string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start mbtiles database transaction: %w", err)
	}
	defer tx.Rollback()

	importer := sqlitetileimporter{}
	if err := importer.init(tx); err != nil {
		return fmt.Errorf("failed to create sqliteimporter: %w", err)
	}
	defer importer.close()

	for name, value := range metadata {
		if err := importer.importMetadata(name, value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mbtiles database transaction: %w", err)
	}

	return nil
}

func (s *SqliteMBTilesWriter) WriteTiles(ctx context.Context, tiles []entities.Tile) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start mbtiles database transaction: %w", err)
	}
	defer tx.Rollback()

	importer := sqlitetileimporter{}
	if err := importer.init(tx); err != nil {
		return fmt.Errorf("failed to create sqliteimporter: %w", err)
	}
	defer importer.close()

	for _, tile := range tiles {
		if err := importer.importTile(tile); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mbtiles database transaction: %w", err)
	}

	return nil
}

func (s *SqliteMBTilesWriter) Close() error {
	if _, err := s.conn.Exec("ANALYZE"); err != nil {
		_ = s.conn.Close()
		return fmt.Errorf("failed to analyze mbtiles database: %w", err)
	}
	return s.conn.Close()
}
