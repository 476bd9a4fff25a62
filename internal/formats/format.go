// Package formats converts between external geodata formats and the
// canonical in-memory feature collection. Import dispatch is a closed switch
// over the fixed format set; export goes through an immutable formatter
// table carrying file metadata.
package formats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/maptools/geoport/internal/report"
)

// Format identifies one supported external format.
type Format string

// The closed set of supported formats.
const (
	GeoJSON Format = "geojson"
	GPX     Format = "gpx"
	KML     Format = "kml"
	CSV     Format = "csv"
	OSM     Format = "osm"
	GeoRSS  Format = "georss"
)

// ErrUnknownFormat is returned for tags outside the supported set.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat validates a raw tag from the CLI or HTTP boundary.
func ParseFormat(tag string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(tag))); f {
	case GeoJSON, GPX, KML, CSV, OSM, GeoRSS:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, tag)
	}
}

// Pipeline binds the format adapters to a shared error reporter. Each
// import call builds a fresh collection; the pipeline itself holds no
// per-call state and is safe to reuse.
type Pipeline struct {
	reporter *report.Reporter
}

// NewPipeline returns a pipeline reporting through r, or through a default
// log-backed reporter when r is nil.
func NewPipeline(r *report.Reporter) *Pipeline {
	if r == nil {
		r = report.NewReporter(nil)
	}
	return &Pipeline{reporter: r}
}

// Parse dispatches text to the adapter for f and returns the normalized
// feature collection. Unknown tags are an explicit error.
func (p *Pipeline) Parse(text string, f Format) (*geojson.FeatureCollection, error) {
	switch f {
	case GeoJSON:
		return p.importGeoJSON(text)
	case GPX:
		return p.importGPX(text)
	case KML:
		return p.importKML(text)
	case CSV:
		return p.importCSV(text)
	case OSM:
		return p.importOSM(text)
	case GeoRSS:
		return p.importGeoRSS(text)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// rawLineCount counts lines of the raw input before parsing, used by the
// blank-file alert heuristic.
func rawLineCount(text string) int {
	return strings.Count(text, "\n") + 1
}
