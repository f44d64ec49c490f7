package cli

import (
	"context"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/config"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/service"
	"io"
)

type CopyCommand struct {
	Output       string `short:"o" long:"output"  description:"Output path (default: <input>.pruned.mbtiles)"`
	InputFormat  string `long:"input-format"      description:"Input container format" choice:"mbtiles" choice:"pmtiles"`
	OutputFormat string `long:"output-format"     description:"Output container format" choice:"mbtiles" choice:"pmtiles"`
	IOBatch      int    `long:"io-batch"          description:"Tiles written per transaction (default: 1000)"`

	Args inputArgs `positional-args:"yes" required:"yes"`

	options *Options
	stdout  io.Writer
}

func (c *CopyCommand) Execute(args []string) error {
	cfg, err := c.options.loadConfig()
	if err != nil {
		return err
	}

	output, err := resolveFormats(c.Args.Input, c.Output, c.InputFormat, c.OutputFormat)
	if err != nil {
		return err
	}

	pruner := service.NewTilePruneService(nil, service.PruneOptions{Mode: service.StyleModeNone})
	stats, err := runOptimize(context.Background(), c.Args.Input, output, pruner, service.OptimizeOptions{
		IOBatch: config.Int(c.IOBatch, config.Int(cfg.IOBatch, config.DefaultIOBatch)),
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.stdout, "copy: tiles: %d bytes: %d output: %s\n", stats.Tiles, stats.BytesOut, output)
	return err
}
