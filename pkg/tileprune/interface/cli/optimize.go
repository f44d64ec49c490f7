package cli

import (
	"context"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/config"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/service"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/infrastructure"
	"github.com/rs/zerolog/log"
	"io"
	"time"
)

type OptimizeCommand struct {
	Output       string `short:"o" long:"output"         description:"Output path (default: <input>.pruned.mbtiles)"`
	InputFormat  string `long:"input-format"             description:"Input container format" choice:"mbtiles" choice:"pmtiles"`
	OutputFormat string `long:"output-format"            description:"Output container format" choice:"mbtiles" choice:"pmtiles"`
	Style        string `short:"s" long:"style"          description:"Style JSON used to decide what is drawn"`
	StyleMode    string `long:"style-mode"               description:"What the style prunes (default: layer+filter)" choice:"none" choice:"layer" choice:"layer+filter"`
	MaxTileBytes int64  `long:"max-tile-bytes"           description:"Report tiles above this size (default: 1280000)"`
	Threads      int    `short:"j" long:"threads"        description:"Number of worker threads (default: number of CPUs)"`
	IOBatch      int    `long:"io-batch"                 description:"Tiles written per transaction (default: 1000)"`
	DropUnknown  bool   `long:"drop-unknown"             description:"Drop features whose filters cannot be decided"`

	Args inputArgs `positional-args:"yes" required:"yes"`

	options *Options
	stdout  io.Writer
}

// OptimizeSettings are the effective optimize options after applying the
// configuration file and defaults.
type OptimizeSettings struct {
	Input   string
	Output  string
	Style   string
	Prune   service.PruneOptions
	Workers service.OptimizeOptions
}

func (c *OptimizeCommand) Settings(cfg *config.Config) (OptimizeSettings, error) {
	output, err := resolveFormats(c.Args.Input, c.Output, c.InputFormat, c.OutputFormat)
	if err != nil {
		return OptimizeSettings{}, err
	}

	settings := OptimizeSettings{
		Input:  c.Args.Input,
		Output: output,
		Style:  config.String(c.Style, cfg.Style),
		Workers: service.OptimizeOptions{
			Threads:      config.Int(c.Threads, cfg.Threads),
			IOBatch:      config.Int(c.IOBatch, config.Int(cfg.IOBatch, config.DefaultIOBatch)),
			MaxTileBytes: config.Int(c.MaxTileBytes, config.Int(cfg.MaxTileBytes, config.DefaultMaxTileBytes)),
		},
	}

	mode, err := service.ParseStyleMode(config.String(c.StyleMode, config.String(cfg.StyleMode, config.DefaultStyleMode)))
	if err != nil {
		return OptimizeSettings{}, err
	}
	if settings.Style == "" {
		mode = service.StyleModeNone
	}
	settings.Prune = service.PruneOptions{
		Mode:        mode,
		DropUnknown: c.DropUnknown || cfg.DropUnknown,
	}

	return settings, nil
}

func (c *OptimizeCommand) Execute(args []string) error {
	cfg, err := c.options.loadConfig()
	if err != nil {
		return err
	}

	settings, err := c.Settings(cfg)
	if err != nil {
		return err
	}

	document, err := loadStyle(settings.Style)
	if err != nil {
		return err
	}

	pruner := service.NewTilePruneService(document, settings.Prune)
	stats, err := runOptimize(context.Background(), settings.Input, settings.Output, pruner, settings.Workers)
	if err != nil {
		return err
	}

	log.Info().
		Str("input", settings.Input).
		Str("output", settings.Output).
		Str("style_mode", string(settings.Prune.Mode)).
		Int("layers_dropped", stats.LayersDropped).
		Int("features_kept", stats.FeaturesKept).
		Int("features_dropped", stats.FeaturesDropped).
		Int("features_unknown", stats.FeaturesUnknown).
		Int("unknown_checks", stats.UnknownChecks).
		Msg("Optimize finished")

	if stats.Oversized > 0 {
		log.Warn().
			Int("tiles", stats.Oversized).
			Int64("max_tile_bytes", settings.Workers.MaxTileBytes).
			Msg("Tiles still exceed the size limit")
	}

	_, err = fmt.Fprintf(c.stdout, "optimize: tiles: %d bytes_in: %d bytes_out: %d failed: %d oversized: %d\n",
		stats.Tiles, stats.BytesIn, stats.BytesOut, stats.Failed, stats.Oversized)
	return err
}

// runOptimize streams input into a new MBTiles file at output through pruner.
func runOptimize(ctx context.Context, input, output string, pruner service.TilePruneService, options service.OptimizeOptions) (entities.PruneStats, error) {
	start := time.Now()

	repo, err := infrastructure.NewSqliteMBTilesRepository(input)
	if err != nil {
		return entities.PruneStats{}, err
	}
	defer repo.Close()

	writer, err := infrastructure.NewSqliteMBTilesWriter(output)
	if err != nil {
		return entities.PruneStats{}, err
	}

	stats, err := service.NewOptimizeService(pruner, options).Optimize(ctx, repo, writer)
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return stats, err
	}

	log.Debug().
		Int("tiles", stats.Tiles).
		Dur("duration", time.Since(start)).
		Msg("Tiles copied")

	return stats, nil
}
