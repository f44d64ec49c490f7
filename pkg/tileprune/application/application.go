package application

import (
	"context"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/service"
	"github.com/paulmach/orb/maptile"
)

const maxZoom = 30

type Application interface {
	GetMapStyle(ctx context.Context) ([]byte, error)
	// GetTile returns the pruned tile at the XYZ coordinate and whether it is gzip encoded.
	GetTile(ctx context.Context, x, y, z uint32, acceptGzip bool) ([]byte, bool, error)
}

type application struct {
	styleService service.MapStyleService
	tilesService service.MapTilesService
}

func New(styleService service.MapStyleService, tilesService service.MapTilesService) Application {
	return &application{
		styleService: styleService,
		tilesService: tilesService,
	}
}

func (app *application) GetMapStyle(ctx context.Context) ([]byte, error) {
	return app.styleService.GetMapStyle(ctx)
}

func (app *application) GetTile(ctx context.Context, x, y, z uint32, acceptGzip bool) ([]byte, bool, error) {
	tile := maptile.Tile{
		X: x,
		Y: y,
		Z: maptile.Zoom(z),
	}
	if z > maxZoom || uint64(x) >= 1<<z || uint64(y) >= 1<<z {
		return nil, false, ErrInvalidTile
	}
	return app.tilesService.GetMapTile(ctx, tile, acceptGzip)
}
