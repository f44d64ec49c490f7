package http

import (
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/application"
	"github.com/rs/zerolog/log"
	"net/http"
)

func MapStyleRoute(mux *http.ServeMux, app application.Application) {
	mux.HandleFunc("GET /style.json", func(w http.ResponseWriter, req *http.Request) {
		style, err := app.GetMapStyle(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		_, err = w.Write(style)
		if err != nil {
			log.Warn().Err(err).Msg("failed to write style")
		}
	})
}
