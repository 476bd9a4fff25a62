// Package geo holds the canonical feature-collection helpers shared by the
// format adapters. The in-memory model is the orb/geojson feature collection;
// feature order is the import order and is preserved by every helper here.
package geo

import (
	"strings"

	"github.com/paulmach/orb/geojson"
)

// InternalPrefix marks property keys reserved for host-application
// bookkeeping. Such keys must never survive an export/import round-trip.
const InternalPrefix = "_"

// NewCollection returns an empty feature collection ready to append to.
func NewCollection() *geojson.FeatureCollection {
	return geojson.NewFeatureCollection()
}

// NewFeature appends a fresh feature with no geometry and an empty property
// map to fc and returns it. Nil geometry means "not resolved yet".
func NewFeature(fc *geojson.FeatureCollection) *geojson.Feature {
	f := &geojson.Feature{Type: "Feature", Properties: geojson.Properties{}}
	fc.Append(f)
	return f
}

// ScrubProperties deletes internal-bookkeeping keys and structured values
// left over from raw XML parsing, keeping properties flat and re-importable.
func ScrubProperties(f *geojson.Feature) {
	for key, value := range f.Properties {
		if strings.HasPrefix(key, InternalPrefix) || IsStructured(value) {
			delete(f.Properties, key)
		}
	}
}

// IsStructured reports whether value is an object or array rather than a
// scalar.
func IsStructured(value interface{}) bool {
	switch value.(type) {
	case map[string]interface{}, []interface{}, geojson.Properties:
		return true
	}
	return false
}
