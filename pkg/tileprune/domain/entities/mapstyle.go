package entities

// MapStyle for reference see: https://docs.mapbox.com/style-spec/reference/root
type MapStyle struct {
	Version int               `json:"version"` // must be 8
	Name    string            `json:"name,omitempty"`
	Layers  []Layer           `json:"layers"`
	Sources map[string]Source `json:"sources"`
}

// Layer for reference see: https://docs.mapbox.com/style-spec/reference/layers
//
// Fields whose JSON type varies between styles are kept as decoded values and
// interpreted by the style package.
type Layer struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Source      any            `json:"source,omitempty"`
	SourceLayer any            `json:"source-layer,omitempty"`
	MinZoom     any            `json:"minzoom,omitempty"`
	MaxZoom     any            `json:"maxzoom,omitempty"`
	Layout      map[string]any `json:"layout,omitempty"`
	Paint       map[string]any `json:"paint,omitempty"`
	Filter      any            `json:"filter,omitempty"`
}

// Source for reference see: https://docs.mapbox.com/style-spec/reference/sources
type Source struct {
	Type      string   `json:"type"`
	URL       string   `json:"url,omitempty"`
	TilesURLs []string `json:"tiles,omitempty"`
	MinZoom   *float64 `json:"minzoom,omitempty"`
	MaxZoom   *float64 `json:"maxzoom,omitempty"`
}
