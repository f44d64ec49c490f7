// Package cli wires the tileprune commands onto a go-flags parser.
package cli

import (
	"fmt"
	"github.com/jessevdk/go-flags"
	"github.com/paulkoehlerdev/TilePrune/pkg/libraries/logger"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/config"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/style"
	"io"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"TILEPRUNE_CONFIG" description:"Path to YAML configuration file"`
}

func (o *Options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

type inputArgs struct {
	Input string `positional-arg-name:"input" description:"Input tile container" required:"yes"`
}

// NewParser registers all commands. Command output is written to stdout.
func NewParser(stdout io.Writer) (*flags.Parser, *Options) {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)

	parser.CommandHandler = func(command flags.Commander, args []string) error {
		opts.Logger.Setup()
		if command == nil {
			return nil
		}
		return command.Execute(args)
	}

	mustAddCommand(parser, "optimize", "Prune tiles by style",
		"Copies a tile container, dropping every layer and feature the style does not draw.",
		&OptimizeCommand{options: opts, stdout: stdout})
	mustAddCommand(parser, "inspect", "Print tile statistics",
		"Prints tile counts and sizes, in total and per zoom level.",
		&InspectCommand{options: opts, stdout: stdout})
	mustAddCommand(parser, "copy", "Copy a tile container",
		"Copies metadata and all tiles unchanged.",
		&CopyCommand{options: opts, stdout: stdout})
	mustAddCommand(parser, "simplify", "Extract layers of one tile",
		"Writes a single tile keeping only the given layers.",
		&SimplifyCommand{stdout: stdout})
	mustAddCommand(parser, "serve", "Serve pruned tiles over HTTP",
		"Serves /tiles/{z}/{x}/{y} pruned on the fly and /style.json.",
		&ServeCommand{options: opts})

	return parser, opts
}

func mustAddCommand(parser *flags.Parser, name, short, long string, data any) {
	if _, err := parser.AddCommand(name, short, long, data); err != nil {
		panic(err)
	}
}

func loadStyle(path string) (*style.StyleDocument, error) {
	if path == "" {
		return nil, nil
	}
	return style.ReadStyle(path)
}

// resolveFormats checks both containers and derives the output path when
// none is given.
func resolveFormats(input, output, inputFormat, outputFormat string) (string, error) {
	in, err := entities.ParseTileFormat(inputFormat, input)
	if err != nil {
		return "", err
	}

	if outputFormat == "" && output == "" {
		outputFormat = string(in)
	}
	out, err := entities.ParseTileFormat(outputFormat, output)
	if err != nil {
		return "", err
	}

	if err := entities.RequireMBTiles(in, out); err != nil {
		return "", err
	}

	if output == "" {
		output = entities.DefaultOutputPath(input, out)
	}
	return output, nil
}
