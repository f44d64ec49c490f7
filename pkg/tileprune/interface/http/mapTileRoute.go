package http

import (
	"errors"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/application"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/repository"
	"github.com/rs/zerolog/log"
	"net/http"
	"strconv"
	"strings"
)

func MapTileRoute(mux *http.ServeMux, app application.Application) {
	mux.HandleFunc("GET /tiles/{z}/{x}/{y}", func(w http.ResponseWriter, req *http.Request) {
		z, err := strconv.ParseUint(req.PathValue("z"), 10, 32)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		x, err := strconv.ParseUint(req.PathValue("x"), 10, 32)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		y, err := strconv.ParseUint(strings.TrimSuffix(req.PathValue("y"), ".pbf"), 10, 32)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		encodings := req.Header.Get("Accept-Encoding")
		acceptGzip := strings.Contains(encodings, "gzip")

		tile, gzipped, err := app.GetTile(req.Context(), uint32(x), uint32(y), uint32(z), acceptGzip)
		switch {
		case errors.Is(err, application.ErrInvalidTile):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, repository.ErrTileNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case err != nil:
			log.Error().Err(err).Str("path", req.URL.Path).Msg("failed to serve tile")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/x-protobuf")
		if gzipped {
			w.Header().Set("Content-Encoding", "gzip")
		}

		_, err = w.Write(tile)
		if err != nil {
			log.Warn().Err(err).Str("path", req.URL.Path).Msg("failed to write tile")
		}
	})
}
