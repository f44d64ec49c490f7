package cli

import (
	"errors"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/application"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/config"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/service"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/style"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/infrastructure"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/interface/http"
	"github.com/rs/zerolog/log"
	"net"
	"os"
)

type ServeCommand struct {
	Style       string `short:"s" long:"style"      description:"Style JSON used to decide what is drawn"`
	StyleMode   string `long:"style-mode"           description:"What the style prunes (default: layer+filter)" choice:"none" choice:"layer" choice:"layer+filter"`
	DropUnknown bool   `long:"drop-unknown"         description:"Drop features whose filters cannot be decided"`
	Addr        string `short:"a" long:"addr"       env:"LISTEN_ADDRESS" description:"Address to listen on (default: 127.0.0.1:8080)"`
	PublicURL   string `long:"public-url"           env:"PUBLIC_URL" description:"Base URL written into the served style"`
	CacheSize   int64  `long:"cache-size"           description:"Bytes of pruned tiles kept in memory (default: 64MiB)"`

	Args inputArgs `positional-args:"yes" required:"yes"`

	options *Options
}

func (c *ServeCommand) Execute(args []string) error {
	cfg, err := c.options.loadConfig()
	if err != nil {
		return err
	}

	stylePath := config.String(c.Style, cfg.Style)
	if stylePath == "" {
		return errors.New("serve requires a style (--style)")
	}

	styleData, err := os.ReadFile(stylePath)
	if err != nil {
		return fmt.Errorf("%w %s: %w", style.ErrStyleRead, stylePath, err)
	}
	document, err := style.ParseStyle(styleData)
	if err != nil {
		return err
	}

	mode, err := service.ParseStyleMode(config.String(c.StyleMode, config.String(cfg.StyleMode, config.DefaultStyleMode)))
	if err != nil {
		return err
	}

	repo, err := infrastructure.NewSqliteMBTilesRepository(c.Args.Input)
	if err != nil {
		return err
	}
	defer repo.Close()

	pruner := service.NewTilePruneService(document, service.PruneOptions{
		Mode:        mode,
		DropUnknown: c.DropUnknown || cfg.DropUnknown,
	})

	tilesService, err := service.NewMapTilesService(repo, pruner, config.Int(c.CacheSize, config.Int(cfg.Serve.CacheSize, config.DefaultCacheSize)))
	if err != nil {
		return err
	}

	styleService := service.NewMapStyleService(styleData, config.String(c.PublicURL, cfg.Serve.PublicURL))
	app := application.New(styleService, tilesService)

	addr := config.String(c.Addr, config.String(cfg.Serve.Addr, config.DefaultAddr))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().
		Str("addr", listener.Addr().String()).
		Str("input", c.Args.Input).
		Str("style", stylePath).
		Str("style_mode", string(mode)).
		Msg("Web server started")

	return http.ServeApplication(listener, app)
}
