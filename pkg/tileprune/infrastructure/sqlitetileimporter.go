package infrastructure

import (
	"database/sql"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
)

type sqlitetileimporter struct {
	insertTilePreparedStatement     *sql.Stmt
	insertMetadataPreparedStatement *sql.Stmt
}

func (s *sqlitetileimporter) init(tx *sql.Tx) error {
	if err := s.prepareStatements(tx); err != nil {
		return fmt.Errorf("failed to prepare statements: %w", err)
	}

	return nil
}

func (s *sqlitetileimporter) prepareStatements(tx *sql.Tx) error {
	var err error

	s.insertTilePreparedStatement, err = tx.Prepare(
		"INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}

	s.insertMetadataPreparedStatement, err = tx.Prepare(
		"INSERT OR REPLACE INTO metadata (name, value) VALUES (?, ?)",
	)
	if err != nil {
		return err
	}

	return nil
}

func (s *sqlitetileimporter) importTile(tile entities.Tile) error {
	_, err := s.insertTilePreparedStatement.Exec(tile.Coord.Z, tile.Coord.X, flipRow(tile.Coord.Z, tile.Coord.Y), tile.Data)
	if err != nil {
		return fmt.Errorf("failed to insert tile %d/%d/%d: %w", tile.Coord.Z, tile.Coord.X, tile.Coord.Y, err)
	}

	return nil
}

func (s *sqlitetileimporter) importMetadata(name, value string) error {
	_, err := s.insertMetadataPreparedStatement.Exec(name, value)
	if err != nil {
		return fmt.Errorf("failed to insert metadata %s: %w", name, err)
	}

	return nil
}

func (s *sqlitetileimporter) close() {
	for _, stmt := range []*sql.Stmt{s.insertTilePreparedStatement, s.insertMetadataPreparedStatement} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}
