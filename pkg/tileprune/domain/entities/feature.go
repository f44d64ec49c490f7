package entities

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeometryType is the geometry class a style filter sees through "$type".
type GeometryType string

const (
	GeometryPoint      GeometryType = "Point"
	GeometryLineString GeometryType = "LineString"
	GeometryPolygon    GeometryType = "Polygon"
	GeometryUnknown    GeometryType = "Unknown"
)

// GeometryTypeOf collapses multi geometries into their singular class.
// Collections are Unknown.
func GeometryTypeOf(geometry orb.Geometry) GeometryType {
	switch geometry.(type) {
	case orb.Point, orb.MultiPoint:
		return GeometryPoint
	case orb.LineString, orb.MultiLineString:
		return GeometryLineString
	case orb.Polygon, orb.MultiPolygon, orb.Ring, orb.Bound:
		return GeometryPolygon
	default:
		return GeometryUnknown
	}
}

// FeatureView exposes one decoded tile feature to the style filters.
// Properties are converted lazily on lookup.
type FeatureView struct {
	Geometry   GeometryType
	Properties map[string]any
}

func NewFeatureView(feature *geojson.Feature) FeatureView {
	return FeatureView{
		Geometry:   GeometryTypeOf(feature.Geometry),
		Properties: feature.Properties,
	}
}

func (f FeatureView) GeometryType() GeometryType {
	if f.Geometry == "" {
		return GeometryUnknown
	}
	return f.Geometry
}

// Property returns the value stored under key. Missing keys, nulls and
// unsupported types report false.
func (f FeatureView) Property(key string) (Value, bool) {
	raw, ok := f.Properties[key]
	if !ok {
		return Value{}, false
	}
	return ValueOf(raw)
}

func (f FeatureView) HasProperty(key string) bool {
	_, ok := f.Properties[key]
	return ok
}
