package entities

import (
	"github.com/paulmach/orb/maptile"
)

// Tile is one encoded tile as stored in a container, addressed in XYZ scheme.
type Tile struct {
	Coord maptile.Tile
	Data  []byte
}

// PruneStats describes what pruning did to one or more tiles.
type PruneStats struct {
	Tiles           int
	LayersKept      int
	LayersDropped   int
	FeaturesKept    int
	FeaturesDropped int
	FeaturesUnknown int
	UnknownChecks   int
	BytesIn         int64
	BytesOut        int64
	Failed          int
	Oversized       int
}

func (s *PruneStats) Add(other PruneStats) {
	s.Tiles += other.Tiles
	s.LayersKept += other.LayersKept
	s.LayersDropped += other.LayersDropped
	s.FeaturesKept += other.FeaturesKept
	s.FeaturesDropped += other.FeaturesDropped
	s.FeaturesUnknown += other.FeaturesUnknown
	s.UnknownChecks += other.UnknownChecks
	s.BytesIn += other.BytesIn
	s.BytesOut += other.BytesOut
	s.Failed += other.Failed
	s.Oversized += other.Oversized
}

// TileStats summarizes the tiles of a container.
type TileStats struct {
	TileCount  int64
	TotalBytes int64
	MaxBytes   int64
	Oversized  int64
	Zooms      []ZoomStats
}

type ZoomStats struct {
	Zoom       maptile.Zoom
	TileCount  int64
	TotalBytes int64
	MaxBytes   int64
}

// TileSummary describes the content of one decoded tile.
type TileSummary struct {
	Coord    maptile.Tile
	Layers   []LayerSummary
	Features int
	Vertices int
	Keys     int
	Values   int
}

type LayerSummary struct {
	Name     string
	Features int
}
