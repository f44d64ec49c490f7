package http

import (
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/application"
	"net"
	"net/http"
)

func ServeApplication(l net.Listener, app application.Application) error {
	return http.Serve(l, Handler(app))
}

func Handler(app application.Application) http.Handler {
	mux := http.NewServeMux()
	MapStyleRoute(mux, app)
	MapTileRoute(mux, app)

	return RequestLogger(mux)
}
