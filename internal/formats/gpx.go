package formats

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/maptools/geoport/internal/geo"
	"github.com/maptools/geoport/internal/xmlutil"
)

// GPX scalar child elements copied into feature properties on import.
var gpxPropertyTags = []string{"name", "desc", "cmt", "sym", "type", "time"}

// importGPX converts GPX waypoints, tracks and routes into features. The
// GPX description lives in a desc element; it is copied to the canonical
// description property so the data round-trips through other formats.
func (p *Pipeline) importGPX(text string) (*geojson.FeatureCollection, error) {
	doc := xmlutil.Parse(text, p.reporter.Alerts())
	fc := geo.NewCollection()

	root := doc.Root()
	if root == nil {
		return fc, nil
	}

	for _, wpt := range xmlutil.FindAll(root, "wpt") {
		point, ok := latLonAttrs(wpt)
		if !ok {
			continue
		}
		f := geojson.NewFeature(point)
		copyGPXProperties(wpt, f)
		fc.Append(f)
	}

	for _, trk := range xmlutil.FindAll(root, "trk") {
		var lines []orb.LineString
		for _, seg := range xmlutil.FindAll(trk, "trkseg") {
			var line orb.LineString
			for _, pt := range xmlutil.FindAll(seg, "trkpt") {
				if point, ok := latLonAttrs(pt); ok {
					line = append(line, point)
				}
			}
			if len(line) > 0 {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}

		var f *geojson.Feature
		if len(lines) == 1 {
			f = geojson.NewFeature(lines[0])
		} else {
			f = geojson.NewFeature(orb.MultiLineString(lines))
		}
		copyGPXProperties(trk, f)
		fc.Append(f)
	}

	for _, rte := range xmlutil.FindAll(root, "rte") {
		var line orb.LineString
		for _, pt := range xmlutil.FindAll(rte, "rtept") {
			if point, ok := latLonAttrs(pt); ok {
				line = append(line, point)
			}
		}
		if len(line) == 0 {
			continue
		}
		f := geojson.NewFeature(line)
		copyGPXProperties(rte, f)
		fc.Append(f)
	}

	for _, f := range fc.Features {
		if desc, ok := f.Properties["desc"]; ok {
			f.Properties["description"] = desc
		}
		geo.ScrubProperties(f)
	}

	return fc, nil
}

func copyGPXProperties(el *etree.Element, f *geojson.Feature) {
	for _, tag := range gpxPropertyTags {
		if v := xmlutil.ChildText(el, tag); v != "" {
			f.Properties[tag] = v
		}
	}
	if v := xmlutil.ChildText(el, "ele"); v != "" {
		if ele, err := strconv.ParseFloat(v, 64); err == nil {
			f.Properties["ele"] = ele
		}
	}
}

// exportGPX serializes the collection as GPX 1.1. The canonical description
// property is copied back into the GPX desc element, inverting the import
// remap.
func exportGPX(fc *geojson.FeatureCollection) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("gpx")
	root.CreateAttr("xmlns", "http://www.topografix.com/GPX/1/1")
	root.CreateAttr("version", "1.1")
	root.CreateAttr("creator", "geoport")

	for _, f := range fc.Features {
		name := stringProp(f.Properties, "name")
		desc := stringProp(f.Properties, "description")
		if desc == "" {
			desc = stringProp(f.Properties, "desc")
		}

		switch g := f.Geometry.(type) {
		case orb.Point:
			writeGPXWaypoint(root, g, name, desc)
		case orb.MultiPoint:
			for _, pt := range g {
				writeGPXWaypoint(root, pt, name, desc)
			}
		case orb.LineString:
			writeGPXTrack(root, []orb.LineString{g}, name, desc)
		case orb.MultiLineString:
			writeGPXTrack(root, g, name, desc)
		case orb.Polygon:
			rings := make([]orb.LineString, 0, len(g))
			for _, ring := range g {
				rings = append(rings, orb.LineString(ring))
			}
			writeGPXTrack(root, rings, name, desc)
		}
	}

	return xmlutil.Serialize(doc)
}

func writeGPXWaypoint(root *etree.Element, p orb.Point, name, desc string) {
	wpt := root.CreateElement("wpt")
	wpt.CreateAttr("lat", strconv.FormatFloat(p[1], 'f', -1, 64))
	wpt.CreateAttr("lon", strconv.FormatFloat(p[0], 'f', -1, 64))
	writeNameDesc(wpt, name, desc)
}

func writeGPXTrack(root *etree.Element, lines []orb.LineString, name, desc string) {
	trk := root.CreateElement("trk")
	writeNameDesc(trk, name, desc)
	for _, line := range lines {
		seg := trk.CreateElement("trkseg")
		for _, p := range line {
			pt := seg.CreateElement("trkpt")
			pt.CreateAttr("lat", strconv.FormatFloat(p[1], 'f', -1, 64))
			pt.CreateAttr("lon", strconv.FormatFloat(p[0], 'f', -1, 64))
		}
	}
}

func writeNameDesc(el *etree.Element, name, desc string) {
	if name != "" {
		el.CreateElement("name").SetText(name)
	}
	if desc != "" {
		el.CreateElement("desc").SetText(desc)
	}
}

// stringProp renders a scalar property as text, "" when absent or
// structured.
func stringProp(props geojson.Properties, key string) string {
	v, ok := props[key]
	if !ok || v == nil || geo.IsStructured(v) {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
