package formats

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/maptools/geoport/internal/geo"
	"github.com/maptools/geoport/internal/xmlutil"
)

// importGeoRSS converts RSS items or Atom entries carrying GeoRSS simple
// elements (georss:point, georss:line, georss:polygon) or W3C geo:lat and
// geo:long pairs into features.
func (p *Pipeline) importGeoRSS(text string) (*geojson.FeatureCollection, error) {
	doc := xmlutil.Parse(text, p.reporter.Alerts())
	fc := geo.NewCollection()

	root := doc.Root()
	if root == nil {
		return fc, nil
	}

	entries := xmlutil.FindAll(root, "item")
	entries = append(entries, xmlutil.FindAll(root, "entry")...)

	for _, entry := range entries {
		g := geoRSSGeometry(entry)
		if g == nil {
			continue
		}

		f := geojson.NewFeature(g)
		if title := xmlutil.ChildText(entry, "title"); title != "" {
			f.Properties["name"] = title
		}
		for _, tag := range []string{"description", "summary", "link", "author"} {
			if v := xmlutil.ChildText(entry, tag); v != "" {
				f.Properties[tag] = v
			}
		}

		geo.ScrubProperties(f)
		fc.Append(f)
	}

	return fc, nil
}

func geoRSSGeometry(entry *etree.Element) orb.Geometry {
	if v := xmlutil.ChildText(entry, "point"); v != "" {
		if pts := geoRSSPairs(v); len(pts) > 0 {
			return pts[0]
		}
	}
	if v := xmlutil.ChildText(entry, "line"); v != "" {
		if pts := geoRSSPairs(v); len(pts) > 1 {
			return orb.LineString(pts)
		}
	}
	if v := xmlutil.ChildText(entry, "polygon"); v != "" {
		if pts := geoRSSPairs(v); len(pts) > 2 {
			return orb.Polygon{orb.Ring(pts)}
		}
	}

	// W3C geo vocabulary fallback
	latText := xmlutil.ChildText(entry, "lat")
	lonText := xmlutil.ChildText(entry, "long")
	if latText != "" && lonText != "" {
		lat, latErr := strconv.ParseFloat(latText, 64)
		lon, lonErr := strconv.ParseFloat(lonText, 64)
		if latErr == nil && lonErr == nil {
			return orb.Point{lon, lat}
		}
	}

	return nil
}
