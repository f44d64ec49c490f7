package style

// renderedPaintProperties are the paint properties that make a layer invisible
// when they are zero.
var renderedPaintProperties = []string{
	"fill-opacity",
	"fill-outline-color",
	"line-opacity",
	"line-width",
	"icon-size",
	"text-size",
	"text-max-width",
	"text-opacity",
	"raster-opacity",
	"circle-radius",
	"circle-opacity",
	"fill-extrusion-opacity",
	"heatmap-opacity",
}

// PaintValue is a numeric paint property: a Constant or a Stops table.
type PaintValue interface {
	// NonZeroAt reports whether the property may be non-zero at zoom.
	NonZeroAt(zoom uint8) bool
}

type Constant float64

func (c Constant) NonZeroAt(uint8) bool {
	return c != 0
}

type Stop struct {
	Zoom  uint8
	Value float64
}

// Stops only answers for zoom levels it has an exact stop for. Between stops
// the value is not known and the property counts as non-zero.
type Stops []Stop

func (s Stops) NonZeroAt(zoom uint8) bool {
	for _, stop := range s {
		if stop.Zoom == zoom {
			return stop.Value != 0
		}
	}
	return true
}

// parsePaintValue understands numbers, {"stops": [[zoom, value], ...]} and
// ["interpolate", type, ["zoom"], zoom, value, ...].
func parsePaintValue(raw any) (PaintValue, bool) {
	switch v := raw.(type) {
	case float64:
		return Constant(v), true
	case map[string]any:
		stops, ok := v["stops"].([]any)
		if !ok {
			return nil, false
		}
		return parseStops(stops)
	case []any:
		return parseInterpolate(v)
	default:
		return nil, false
	}
}

func parseStops(raw []any) (PaintValue, bool) {
	stops := make(Stops, 0, len(raw))
	for _, item := range raw {
		pair, ok := item.([]any)
		if !ok {
			return nil, false
		}
		if len(pair) < 2 {
			continue
		}
		stop, ok, valid := parseStop(pair[0], pair[1])
		if !valid {
			return nil, false
		}
		if ok {
			stops = append(stops, stop)
		}
	}

	if len(stops) == 0 {
		return nil, false
	}
	return stops, true
}

func parseInterpolate(array []any) (PaintValue, bool) {
	if len(array) < 5 || (len(array)-3)%2 != 0 || array[0] != "interpolate" {
		return nil, false
	}
	input, ok := array[2].([]any)
	if !ok || len(input) != 1 || input[0] != "zoom" {
		return nil, false
	}

	stops := make(Stops, 0, (len(array)-3)/2)
	for i := 3; i < len(array); i += 2 {
		stop, ok, valid := parseStop(array[i], array[i+1])
		if !valid {
			return nil, false
		}
		if ok {
			stops = append(stops, stop)
		}
	}

	if len(stops) == 0 {
		return nil, false
	}
	return stops, true
}

// parseStop returns valid=false when either side is not a number and ok=false
// when the zoom is outside 0..255.
func parseStop(rawZoom, rawValue any) (stop Stop, ok bool, valid bool) {
	zoom, isNumber := rawZoom.(float64)
	if !isNumber {
		return Stop{}, false, false
	}
	value, isNumber := rawValue.(float64)
	if !isNumber {
		return Stop{}, false, false
	}

	z := int64(zoom)
	if z < 0 || z > 255 {
		return Stop{}, false, true
	}
	return Stop{Zoom: uint8(z), Value: value}, true, true
}
