// Package csvgeo converts delimited text into GeoJSON features. It detects
// which columns carry coordinates, accumulates row-level errors without
// aborting the batch, and delivers exactly one result event per conversion.
package csvgeo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/maptools/geoport/internal/geo"
)

// Options control a conversion.
type Options struct {
	// Delimiter forces a field separator; zero enables auto-detection.
	Delimiter rune
	// KeepLatLonColumns retains the detected coordinate columns in the
	// feature properties instead of consuming them.
	KeepLatLonColumns bool
	// ParseCoordinate converts a raw cell into a coordinate value. The
	// default accepts a decimal comma as the decimal separator and does
	// not attempt sexagesimal notation.
	ParseCoordinate func(string) (float64, error)
}

// RowError describes a single row that could not be converted. Other rows
// are unaffected.
type RowError struct {
	Line    int
	Message string
}

// Result is the single outcome event of a conversion. Err is set only when
// the input was unusable as a whole; RowErrors may accompany a non-empty
// collection.
type Result struct {
	Collection *geojson.FeatureCollection
	RowErrors  []RowError
	Err        error
}

// ErrEmptyInput is returned when the input has no header row at all.
var ErrEmptyInput = errors.New("empty input")

var (
	latColumns = []string{"lat", "latitude", "y"}
	lonColumns = []string{"lon", "lng", "long", "longitude", "x"}

	delimiters = []rune{',', ';', '\t', '|'}
)

// Convert parses text in the background and delivers exactly one Result on
// the returned channel. The channel is buffered, so the conversion completes
// whether or not the caller is already waiting.
func Convert(text string, opts Options) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		out <- convert(text, opts)
	}()
	return out
}

func convert(text string, opts Options) Result {
	parseCoord := opts.ParseCoordinate
	if parseCoord == nil {
		parseCoord = ParseCoordinate
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = sniffDelimiter(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{Err: ErrEmptyInput}
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	latIdx := findColumn(columns, latColumns)
	lonIdx := findColumn(columns, lonColumns)
	hasCoords := latIdx >= 0 && lonIdx >= 0

	fc := geo.NewCollection()
	var rowErrors []RowError

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Message: err.Error()})
			continue
		}

		f := &geojson.Feature{Type: "Feature", Properties: geojson.Properties{}}

		for i, raw := range record {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			if !opts.KeepLatLonColumns && hasCoords && (i == latIdx || i == lonIdx) {
				continue
			}
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}
			f.Properties[columns[i]] = inferValue(value)
		}

		if hasCoords {
			lat, latErr := parseCoord(record[latIdx])
			lon, lonErr := parseCoord(record[lonIdx])
			if latErr != nil || lonErr != nil {
				rowErrors = append(rowErrors, RowError{
					Line:    line,
					Message: fmt.Sprintf("invalid coordinates %q, %q", record[latIdx], record[lonIdx]),
				})
				continue
			}
			f.Geometry = orb.Point{lon, lat}
		}

		fc.Append(f)
	}

	return Result{Collection: fc, RowErrors: rowErrors}
}

// ParseCoordinate is the default coordinate parser: a plain floating-point
// parse with a decimal comma normalized to a decimal point first.
func ParseCoordinate(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	return strconv.ParseFloat(cleaned, 64)
}

// sniffDelimiter picks the candidate separator occurring most often in the
// header line, defaulting to a comma.
func sniffDelimiter(text string) rune {
	line := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		line = text[:idx]
	}

	best := ','
	bestCount := 0
	for _, d := range delimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

func findColumn(columns []string, candidates []string) int {
	for i, name := range columns {
		lower := strings.ToLower(name)
		for _, c := range candidates {
			if lower == c {
				return i
			}
		}
	}
	return -1
}

// inferValue keeps numeric-looking cells numeric and everything else string.
func inferValue(value string) interface{} {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}
