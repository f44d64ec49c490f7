package style

import (
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/domain/entities"
)

// StyleLayer is one style layer bound to a source-layer.
type StyleLayer struct {
	ID         string
	MinZoom    *float64
	MaxZoom    *float64
	Visibility string
	Paint      map[string]PaintValue
	// Filter is nil when the layer matches every feature.
	Filter Filter
}

func newStyleLayer(layer entities.Layer) *StyleLayer {
	styleLayer := &StyleLayer{
		ID:      layer.ID,
		MinZoom: number(layer.MinZoom),
		MaxZoom: number(layer.MaxZoom),
		Paint:   make(map[string]PaintValue, len(layer.Paint)),
	}

	if visibility, ok := layer.Layout["visibility"].(string); ok {
		styleLayer.Visibility = visibility
	}

	for name, raw := range layer.Paint {
		if value, ok := parsePaintValue(raw); ok {
			styleLayer.Paint[name] = value
		}
	}

	if layer.Filter != nil {
		styleLayer.Filter = ParseFilter(layer.Filter)
	}

	return styleLayer
}

func number(raw any) *float64 {
	if v, ok := raw.(float64); ok {
		return &v
	}
	return nil
}

func (l *StyleLayer) CheckLayoutVisibility() bool {
	return l.Visibility != "none"
}

func (l *StyleLayer) CheckZoomUnderflow(zoom uint8) bool {
	return l.MinZoom == nil || float64(zoom) >= *l.MinZoom
}

// CheckZoomOverflow is strict: a layer is hidden at its maxzoom.
func (l *StyleLayer) CheckZoomOverflow(zoom uint8) bool {
	return l.MaxZoom == nil || *l.MaxZoom > float64(zoom)
}

func (l *StyleLayer) IsVisibleOnZoom(zoom uint8) bool {
	return l.CheckLayoutVisibility() && l.CheckZoomUnderflow(zoom) && l.CheckZoomOverflow(zoom)
}

// IsRendered is false when any present opacity or size property is zero at zoom.
func (l *StyleLayer) IsRendered(zoom uint8) bool {
	for _, property := range renderedPaintProperties {
		value, ok := l.Paint[property]
		if ok && !value.NonZeroAt(zoom) {
			return false
		}
	}
	return true
}

// IsDrawn reports whether the layer paints anything at zoom.
func (l *StyleLayer) IsDrawn(zoom uint8) bool {
	return l.IsVisibleOnZoom(zoom) && l.IsRendered(zoom)
}
