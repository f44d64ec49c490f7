package cli

import (
	"context"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/service"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/infrastructure"
	"github.com/paulmach/orb/maptile"
	"io"
)

type SimplifyCommand struct {
	Z      uint32   `short:"z" long:"zoom"   description:"Tile zoom" required:"yes"`
	X      uint32   `short:"x" long:"column" description:"Tile column" required:"yes"`
	Y      uint32   `short:"y" long:"row"    description:"Tile row (XYZ scheme)" required:"yes"`
	Layers []string `short:"l" long:"layer"  description:"Layer to keep, may be repeated (default: all)"`
	Output string   `short:"o" long:"output" description:"Output path (default: <input>.pruned.mbtiles)"`

	Args inputArgs `positional-args:"yes" required:"yes"`

	stdout io.Writer
}

func (c *SimplifyCommand) Execute(args []string) error {
	output, err := resolveFormats(c.Args.Input, c.Output, "", "")
	if err != nil {
		return err
	}

	ctx := context.Background()
	coord := maptile.New(c.X, c.Y, maptile.Zoom(c.Z))

	repo, err := infrastructure.NewSqliteMBTilesRepository(c.Args.Input)
	if err != nil {
		return err
	}
	defer repo.Close()

	data, err := repo.GetTile(ctx, coord)
	if err != nil {
		return fmt.Errorf("failed to read tile %d/%d/%d: %w", c.Z, c.X, c.Y, err)
	}

	tile, err := service.ExtractLayers(entities.Tile{Coord: coord, Data: data}, c.Layers)
	if err != nil {
		return err
	}

	metadata, err := repo.Metadata(ctx)
	if err != nil {
		return err
	}

	writer, err := infrastructure.NewSqliteMBTilesWriter(output)
	if err != nil {
		return err
	}
	err = writer.WriteMetadata(ctx, metadata)
	if err == nil {
		err = writer.WriteTiles(ctx, []entities.Tile{tile})
	}
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	summary, err := service.SummarizeTile(tile)
	if err != nil {
		return err
	}
	return writeTileSummary(c.stdout, summary)
}

func writeTileSummary(w io.Writer, summary entities.TileSummary) error {
	lines := []string{
		fmt.Sprintf("- z=%d x=%d y=%d", summary.Coord.Z, summary.Coord.X, summary.Coord.Y),
		fmt.Sprintf("- Layers in this tile: %d", len(summary.Layers)),
		fmt.Sprintf("- Features in this tile: %d", summary.Features),
		fmt.Sprintf("- Vertices in this tile: %d", summary.Vertices),
		fmt.Sprintf("- Keys in this tile: %d", summary.Keys),
		fmt.Sprintf("- Values in this tile: %d", summary.Values),
	}
	for _, layer := range summary.Layers {
		lines = append(lines, fmt.Sprintf("  - %s: %d features", layer.Name, layer.Features))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
