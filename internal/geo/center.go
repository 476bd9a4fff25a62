package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Center returns a representative point for the feature geometry: the point
// itself for points, the planar centroid otherwise. ok is false when the
// feature has no geometry.
func Center(f *geojson.Feature) (center orb.Point, ok bool) {
	if f == nil || f.Geometry == nil {
		return orb.Point{}, false
	}

	if p, isPoint := f.Geometry.(orb.Point); isPoint {
		return p, true
	}

	center, _ = planar.CentroidArea(f.Geometry)
	return center, true
}
