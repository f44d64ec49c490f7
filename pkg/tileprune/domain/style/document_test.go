package style_test

import (
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func writeStyle(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "style.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readStyle(t *testing.T, content string) *style.StyleDocument {
	t.Helper()

	doc, err := style.ReadStyle(writeStyle(t, content))
	require.NoError(t, err)
	return doc
}

func TestReadStyle_VisibilityChecksZoomAndPaint(t *testing.T) {
	doc := readStyle(t, `{
  "version": 8,
  "sources": { "osm": { "type": "vector" } },
  "layers": [
    { "id": "water", "type": "fill", "source": "osm", "source-layer": "water", "minzoom": 2, "maxzoom": 5, "paint": { "fill-opacity": 1 } },
    { "id": "water-hidden", "type": "fill", "source": "osm", "source-layer": "water", "layout": { "visibility": "none" } },
    { "id": "roads-width", "type": "line", "source": "osm", "source-layer": "roads", "paint": { "line-width": 0 } },
    { "id": "roads-stops", "type": "line", "source": "osm", "source-layer": "roads", "paint": { "line-width": { "base": 1, "stops": [[3, 0], [4, 2]] } } }
  ]
}`)

	assert.Equal(t, []string{"roads", "water"}, doc.SourceLayers())

	assert.False(t, doc.IsLayerVisibleOnZoom("water", 1))
	assert.True(t, doc.IsLayerVisibleOnZoom("water", 2))
	assert.True(t, doc.IsLayerVisibleOnZoom("water", 3))
	assert.False(t, doc.IsLayerVisibleOnZoom("water", 5))
	assert.False(t, doc.IsLayerVisibleOnZoom("roads", 3))
	assert.True(t, doc.IsLayerVisibleOnZoom("roads", 4))
	assert.False(t, doc.IsLayerVisibleOnZoom("buildings", 4))
}

func TestReadStyle_ZeroWidthNeverRendered(t *testing.T) {
	doc := readStyle(t, `{
  "layers": [
    { "id": "roads", "type": "line", "source": "osm", "source-layer": "roads", "paint": { "line-width": 0 }, "filter": ["==", "class", "primary"] }
  ]
}`)

	primary := feature(map[string]any{"class": "primary"})
	for _, zoom := range []uint8{0, 4, 14, 255} {
		assert.False(t, doc.IsLayerVisibleOnZoom("roads", zoom))
		assert.Equal(t, entities.FilterFalse, doc.ShouldKeepFeature("roads", zoom, primary))
	}
}

func TestReadStyle_SourceLayersSkipsLayersWithoutSource(t *testing.T) {
	doc := readStyle(t, `{
  "layers": [
    { "id": "background", "type": "background", "paint": { "background-color": "#fff" } },
    { "id": "orphan", "type": "fill", "source-layer": "orphan" },
    { "id": "bad", "type": "fill", "source": "osm", "source-layer": 7 },
    { "id": "landuse", "type": "fill", "source": "osm", "source-layer": "landuse" },
    { "id": "landuse-outline", "type": "line", "source": "osm", "source-layer": "landuse" },
    { "id": "poi", "type": "symbol", "source": "osm", "source-layer": "poi" }
  ]
}`)

	assert.Equal(t, []string{"landuse", "poi"}, doc.SourceLayers())
	assert.True(t, doc.HasSourceLayer("poi"))
	assert.False(t, doc.HasSourceLayer("orphan"))
	assert.Len(t, doc.Layers("landuse"), 2)
}

func TestReadStyle_UnparsablePaintIsIgnored(t *testing.T) {
	doc := readStyle(t, `{
  "layers": [
    { "id": "a", "type": "fill", "source": "osm", "source-layer": "a", "paint": { "fill-outline-color": "#000", "fill-opacity": { "stops": [[1, "x"]] } } },
    { "id": "b", "type": "line", "source": "osm", "source-layer": "b", "paint": { "line-opacity": ["interpolate", ["linear"], ["zoom"], 5, 0, 10, 1] } }
  ]
}`)

	assert.Empty(t, doc.Layers("a")[0].Paint)
	assert.True(t, doc.IsLayerVisibleOnZoom("a", 0))

	assert.False(t, doc.IsLayerVisibleOnZoom("b", 5))
	assert.True(t, doc.IsLayerVisibleOnZoom("b", 6))
	assert.True(t, doc.IsLayerVisibleOnZoom("b", 10))
}

func TestReadStyle_Errors(t *testing.T) {
	_, err := style.ReadStyle(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, style.ErrStyleRead)

	_, err = style.ReadStyle(writeStyle(t, `{"layers": [`))
	assert.ErrorIs(t, err, style.ErrStyleParse)

	_, err = style.ReadStyle(writeStyle(t, `{"version": 8}`))
	assert.ErrorIs(t, err, style.ErrStyleParse)

	_, err = style.ReadStyle(writeStyle(t, `{"layers": [{ "id": "bg", "type": "background" }]}`))
	assert.ErrorIs(t, err, style.ErrMissingLayers)

	_, err = style.ParseStyle([]byte(`{"layers": []}`))
	assert.ErrorIs(t, err, style.ErrMissingLayers)
}

func TestShouldKeepFeature_LayersCombineAsAny(t *testing.T) {
	doc := readStyle(t, `{
  "layers": [
    { "id": "primary", "type": "line", "source": "osm", "source-layer": "roads", "filter": ["==", "class", "primary"] },
    { "id": "secondary", "type": "line", "source": "osm", "source-layer": "roads", "filter": ["==", "class", "secondary"] }
  ]
}`)

	assert.Equal(t, entities.FilterTrue, doc.ShouldKeepFeature("roads", 10, feature(map[string]any{"class": "primary"})))
	assert.Equal(t, entities.FilterTrue, doc.ShouldKeepFeature("roads", 10, feature(map[string]any{"class": "secondary"})))
	assert.Equal(t, entities.FilterFalse, doc.ShouldKeepFeature("roads", 10, feature(map[string]any{"class": "tertiary"})))
	assert.Equal(t, entities.FilterUnknown, doc.ShouldKeepFeature("roads", 10, feature(nil)))
	assert.Equal(t, entities.FilterFalse, doc.ShouldKeepFeature("water", 10, feature(nil)))
}

func TestShouldKeepFeature_TrueWinsOverUnknown(t *testing.T) {
	doc := readStyle(t, `{
  "layers": [
    { "id": "named", "type": "symbol", "source": "osm", "source-layer": "poi", "filter": ["==", "rank", 1] },
    { "id": "all", "type": "circle", "source": "osm", "source-layer": "poi" },
    { "id": "hidden", "type": "circle", "source": "osm", "source-layer": "hidden", "layout": { "visibility": "none" } }
  ]
}`)

	result, unknowns := doc.EvaluateFeature("poi", 3, feature(nil))
	assert.Equal(t, entities.FilterTrue, result)
	assert.Equal(t, 1, unknowns)

	assert.Equal(t, entities.FilterFalse, doc.ShouldKeepFeature("hidden", 3, feature(nil)))
}

func TestShouldKeepFeature_SkipsLayersNotDrawn(t *testing.T) {
	doc := readStyle(t, `{
  "layers": [
    { "id": "low", "type": "fill", "source": "osm", "source-layer": "landuse", "maxzoom": 8, "filter": ["==", "class", "park"] },
    { "id": "high", "type": "fill", "source": "osm", "source-layer": "landuse", "minzoom": 8 }
  ]
}`)

	cemetery := feature(map[string]any{"class": "cemetery"})
	assert.Equal(t, entities.FilterFalse, doc.ShouldKeepFeature("landuse", 7, cemetery))
	assert.Equal(t, entities.FilterTrue, doc.ShouldKeepFeature("landuse", 8, cemetery))
}

func TestShouldKeepFeature_ZoomReference(t *testing.T) {
	doc := readStyle(t, `{
  "version": 8,
  "sources": { "osm": { "type": "vector" } },
  "layers": [
    { "id": "roads", "type": "line", "source": "osm", "source-layer": "roads", "filter": ["==", "zoom", 3] }
  ]
}`)

	point := entities.FeatureView{Geometry: entities.GeometryPoint}

	assert.True(t, doc.IsLayerVisibleOnZoom("roads", 3))
	assert.True(t, doc.IsLayerVisibleOnZoom("roads", 2))
	assert.Equal(t, entities.FilterTrue, doc.ShouldKeepFeature("roads", 3, point))
	assert.Equal(t, entities.FilterFalse, doc.ShouldKeepFeature("roads", 2, point))
}

func TestEvaluateFeature_CountsUnknowns(t *testing.T) {
	doc := readStyle(t, `{
  "layers": [
    { "id": "a", "type": "line", "source": "osm", "source-layer": "roads", "filter": ["all", ["==", "class", "primary"], ["in", "surface", "paved"]] },
    { "id": "b", "type": "line", "source": "osm", "source-layer": "roads", "filter": [">", "rank", 2] }
  ]
}`)

	result, unknowns := doc.EvaluateFeature("roads", 0, feature(map[string]any{"other": true}))
	assert.Equal(t, entities.FilterUnknown, result)
	assert.Equal(t, 3, unknowns)

	result, unknowns = doc.EvaluateFeature("roads", 0, feature(map[string]any{"class": "minor"}))
	assert.Equal(t, entities.FilterUnknown, result)
	assert.Equal(t, 1, unknowns)
}
