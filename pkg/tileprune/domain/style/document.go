package style

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
	"os"
	"sort"
)

var (
	ErrStyleRead     = errors.New("failed to read style file")
	ErrStyleParse    = errors.New("failed to parse style")
	ErrMissingLayers = errors.New("style contains no source-layer entries")
)

// StyleDocument indexes the layers of a style by source-layer. It is
// read-only after construction and safe for concurrent use.
type StyleDocument struct {
	layersBySourceLayer map[string][]*StyleLayer
}

func ReadStyle(path string) (*StyleDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrStyleRead, path, err)
	}
	return ParseStyle(data)
}

func ParseStyle(data []byte) (*StyleDocument, error) {
	var mapStyle entities.MapStyle
	if err := json.Unmarshal(data, &mapStyle); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStyleParse, err)
	}
	if mapStyle.Layers == nil {
		return nil, fmt.Errorf("%w: missing layers array", ErrStyleParse)
	}
	return NewStyleDocument(mapStyle)
}

// NewStyleDocument keeps every layer that names both a source and a
// source-layer.
func NewStyleDocument(mapStyle entities.MapStyle) (*StyleDocument, error) {
	layersBySourceLayer := make(map[string][]*StyleLayer)
	for _, layer := range mapStyle.Layers {
		if layer.Source == nil {
			continue
		}
		sourceLayer, ok := layer.SourceLayer.(string)
		if !ok {
			continue
		}
		layersBySourceLayer[sourceLayer] = append(layersBySourceLayer[sourceLayer], newStyleLayer(layer))
	}

	if len(layersBySourceLayer) == 0 {
		return nil, ErrMissingLayers
	}

	return &StyleDocument{
		layersBySourceLayer: layersBySourceLayer,
	}, nil
}

// SourceLayers returns the source-layer names in sorted order.
func (d *StyleDocument) SourceLayers() []string {
	names := make([]string, 0, len(d.layersBySourceLayer))
	for name := range d.layersBySourceLayer {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *StyleDocument) HasSourceLayer(name string) bool {
	_, ok := d.layersBySourceLayer[name]
	return ok
}

func (d *StyleDocument) Layers(name string) []*StyleLayer {
	return d.layersBySourceLayer[name]
}

// IsLayerVisibleOnZoom reports whether any layer bound to name is drawn at
// zoom, ignoring filters.
func (d *StyleDocument) IsLayerVisibleOnZoom(name string, zoom uint8) bool {
	for _, layer := range d.layersBySourceLayer[name] {
		if layer.IsDrawn(zoom) {
			return true
		}
	}
	return false
}

// ShouldKeepFeature combines the filters of all layers drawn at zoom like Any.
// It is False when no layer bound to name is drawn.
func (d *StyleDocument) ShouldKeepFeature(name string, zoom uint8, feature Feature) entities.FilterResult {
	result, _ := d.EvaluateFeature(name, zoom, feature)
	return result
}

// EvaluateFeature is ShouldKeepFeature that also returns how many predicates
// evaluated to unknown along the way.
func (d *StyleDocument) EvaluateFeature(name string, zoom uint8, feature Feature) (entities.FilterResult, int) {
	e := evaluation{feature: feature, zoom: zoom}

	sawUnknown := false
	for _, layer := range d.layersBySourceLayer[name] {
		if !layer.IsDrawn(zoom) {
			continue
		}
		switch e.filter(layer.Filter) {
		case entities.FilterTrue:
			return entities.FilterTrue, e.unknowns
		case entities.FilterUnknown:
			sawUnknown = true
		}
	}

	if sawUnknown {
		return entities.FilterUnknown, e.unknowns
	}
	return entities.FilterFalse, e.unknowns
}
