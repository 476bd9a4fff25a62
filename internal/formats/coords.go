package formats

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
)

// latLonAttrs reads lat/lon attributes from an element (GPX waypoints and
// track points, OSM nodes).
func latLonAttrs(el *etree.Element) (orb.Point, bool) {
	lat, latErr := strconv.ParseFloat(el.SelectAttrValue("lat", ""), 64)
	lon, lonErr := strconv.ParseFloat(el.SelectAttrValue("lon", ""), 64)
	if latErr != nil || lonErr != nil {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

// kmlCoordinates parses a KML coordinates block: whitespace-separated
// "lon,lat[,ele]" tuples.
func kmlCoordinates(text string) []orb.Point {
	var points []orb.Point
	for _, tuple := range strings.Fields(text) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			continue
		}
		lon, lonErr := strconv.ParseFloat(parts[0], 64)
		lat, latErr := strconv.ParseFloat(parts[1], 64)
		if lonErr != nil || latErr != nil {
			continue
		}
		points = append(points, orb.Point{lon, lat})
	}
	return points
}

// kmlCoordinateText renders points as a KML coordinates block.
func kmlCoordinateText(points []orb.Point) string {
	tuples := make([]string, 0, len(points))
	for _, p := range points {
		tuples = append(tuples,
			strconv.FormatFloat(p[0], 'f', -1, 64)+","+strconv.FormatFloat(p[1], 'f', -1, 64))
	}
	return strings.Join(tuples, " ")
}

// geoRSSPairs parses a GeoRSS coordinate list: whitespace-separated
// "lat lon" pairs.
func geoRSSPairs(text string) []orb.Point {
	fields := strings.Fields(text)
	var points []orb.Point
	for i := 0; i+1 < len(fields); i += 2 {
		lat, latErr := strconv.ParseFloat(fields[i], 64)
		lon, lonErr := strconv.ParseFloat(fields[i+1], 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		points = append(points, orb.Point{lon, lat})
	}
	return points
}
