package formats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/maptools/geoport/internal/geo"
)

// Exporter serializes a feature collection into one external format and
// carries the metadata a caller needs to assemble a downloadable artifact.
type Exporter struct {
	Export    func(fc *geojson.FeatureCollection) (string, error)
	Extension string
	MimeType  string
}

// Exporters is the process-wide formatter table, keyed by format tag.
// It is read-only after package initialization.
var Exporters = map[Format]Exporter{
	GeoJSON: {Export: exportGeoJSON, Extension: "geojson", MimeType: "application/geo+json"},
	GPX:     {Export: exportGPX, Extension: "gpx", MimeType: "application/gpx+xml"},
	KML:     {Export: exportKML, Extension: "kml", MimeType: "application/vnd.google-earth.kml+xml"},
	CSV:     {Export: exportCSV, Extension: "csv", MimeType: "text/csv"},
}

// Export serializes fc as format f.
func Export(fc *geojson.FeatureCollection, f Format) (string, error) {
	e, ok := Exporters[f]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	return e.Export(fc)
}

// Descriptor returns the export metadata for f.
func Descriptor(f Format) (Exporter, error) {
	e, ok := Exporters[f]
	if !ok {
		return Exporter{}, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	return e, nil
}

func exportGeoJSON(fc *geojson.FeatureCollection) (string, error) {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// exportCSV writes one row per feature: the scrubbed flat properties plus
// Latitude/Longitude taken from the feature's center point. The header is
// the union of property keys in first-seen order.
func exportCSV(fc *geojson.FeatureCollection) (string, error) {
	var keys []string
	seen := make(map[string]bool)
	for _, f := range fc.Features {
		for key := range f.Properties {
			if strings.HasPrefix(key, geo.InternalPrefix) || seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sortWithinFeatureOrder(fc, keys)

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := append(append([]string{}, keys...), "Latitude", "Longitude")
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, f := range fc.Features {
		row := make([]string, 0, len(header))
		for _, key := range keys {
			row = append(row, cellText(f.Properties[key]))
		}

		lat, lon := "", ""
		if center, ok := geo.Center(f); ok {
			lat = strconv.FormatFloat(center[1], 'f', -1, 64)
			lon = strconv.FormatFloat(center[0], 'f', -1, 64)
		}
		row = append(row, lat, lon)

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return sb.String(), w.Error()
}

// sortWithinFeatureOrder orders keys by the first feature that defines them,
// alphabetically within one feature, so the header stays deterministic.
func sortWithinFeatureOrder(fc *geojson.FeatureCollection, keys []string) {
	rank := make(map[string]int, len(keys))
	for _, key := range keys {
		rank[key] = len(fc.Features)
	}
	for i, f := range fc.Features {
		for key := range f.Properties {
			if r, ok := rank[key]; ok && i < r {
				rank[key] = i
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if rank[keys[i]] != rank[keys[j]] {
			return rank[keys[i]] < rank[keys[j]]
		}
		return keys[i] < keys[j]
	})
}

func cellText(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	}
	if geo.IsStructured(v) {
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return fmt.Sprint(v)
}
