package http_test

import (
	"context"
	"errors"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/application"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/repository"
	tilehttp "github.com/paulkoehlerdev/TilePrune/pkg/tileprune/interface/http"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeApplication struct {
	style    []byte
	styleErr error
	tiles    map[[3]uint32][]byte
	tileErr  error
}

func (f *fakeApplication) GetMapStyle(ctx context.Context) ([]byte, error) {
	return f.style, f.styleErr
}

func (f *fakeApplication) GetTile(ctx context.Context, x, y, z uint32, acceptGzip bool) ([]byte, bool, error) {
	if f.tileErr != nil {
		return nil, false, f.tileErr
	}
	data, ok := f.tiles[[3]uint32{z, x, y}]
	if !ok {
		return nil, false, repository.ErrTileNotFound
	}
	return data, acceptGzip, nil
}

func serve(app application.Application, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for key, values := range header {
		req.Header[key] = values
	}
	rec := httptest.NewRecorder()
	tilehttp.Handler(app).ServeHTTP(rec, req)
	return rec
}

func TestMapTileRoute(t *testing.T) {
	app := &fakeApplication{
		tiles: map[[3]uint32][]byte{{2, 1, 3}: []byte("pbf")},
	}

	rec := serve(app, http.MethodGet, "/tiles/2/1/3", http.Header{"Accept-Encoding": {"gzip, deflate"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pbf", rec.Body.String())
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "application/x-protobuf", rec.Header().Get("Content-Type"))

	rec = serve(app, http.MethodGet, "/tiles/2/1/3.pbf", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))

	rec = serve(app, http.MethodGet, "/tiles/2/0/0", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(app, http.MethodGet, "/tiles/two/0/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(app, http.MethodPost, "/tiles/2/1/3", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMapTileRoute_Errors(t *testing.T) {
	rec := serve(&fakeApplication{tileErr: application.ErrInvalidTile}, http.MethodGet, "/tiles/1/5/5", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeApplication{tileErr: errors.New("broken")}, http.MethodGet, "/tiles/1/0/0", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMapStyleRoute(t *testing.T) {
	rec := serve(&fakeApplication{style: []byte(`{"version":8}`)}, http.MethodGet, "/style.json", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"version":8}`, rec.Body.String())

	rec = serve(&fakeApplication{styleErr: errors.New("broken")}, http.MethodGet, "/style.json", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
