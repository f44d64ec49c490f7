package entities

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported tile container format")

type TileFormat string

const (
	FormatMBTiles TileFormat = "mbtiles"
	FormatPMTiles TileFormat = "pmtiles"
)

// ParseTileFormat accepts an explicit format name, falling back to the file
// extension of path when name is empty.
func ParseTileFormat(name, path string) (TileFormat, error) {
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	switch TileFormat(strings.ToLower(name)) {
	case FormatMBTiles:
		return FormatMBTiles, nil
	case FormatPMTiles:
		return FormatPMTiles, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// RequireMBTiles rejects every format this tool cannot read or write.
func RequireMBTiles(formats ...TileFormat) error {
	for _, format := range formats {
		if format != FormatMBTiles {
			return fmt.Errorf("%w: %s (only mbtiles is supported)", ErrUnsupportedFormat, format)
		}
	}
	return nil
}

// DefaultOutputPath derives "<name>.pruned.<ext>" next to the input.
func DefaultOutputPath(input string, format TileFormat) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".pruned." + string(format)
}
