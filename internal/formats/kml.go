package formats

import (
	"github.com/beevik/etree"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/maptools/geoport/internal/geo"
	"github.com/maptools/geoport/internal/xmlutil"
)

// importKML converts KML Placemarks into features. Simple properties come
// from the name/description elements and from ExtendedData entries.
func (p *Pipeline) importKML(text string) (*geojson.FeatureCollection, error) {
	doc := xmlutil.Parse(text, p.reporter.Alerts())
	fc := geo.NewCollection()

	root := doc.Root()
	if root == nil {
		return fc, nil
	}

	for _, pm := range xmlutil.FindAll(root, "Placemark") {
		g := kmlGeometry(pm)
		if g == nil {
			continue
		}

		f := geojson.NewFeature(g)
		for _, tag := range []string{"name", "description", "address", "phoneNumber"} {
			if v := xmlutil.ChildText(pm, tag); v != "" {
				f.Properties[tag] = v
			}
		}
		for _, data := range xmlutil.FindAll(pm, "Data") {
			if name := data.SelectAttrValue("name", ""); name != "" {
				f.Properties[name] = xmlutil.ChildText(data, "value")
			}
		}
		for _, data := range xmlutil.FindAll(pm, "SimpleData") {
			if name := data.SelectAttrValue("name", ""); name != "" {
				f.Properties[name] = data.Text()
			}
		}

		geo.ScrubProperties(f)
		fc.Append(f)
	}

	return fc, nil
}

// kmlGeometry builds the geometry of a Placemark from its first geometry
// element. MultiGeometry becomes a geometry collection.
func kmlGeometry(pm *etree.Element) orb.Geometry {
	for _, child := range pm.ChildElements() {
		if g := kmlGeometryElement(child); g != nil {
			return g
		}
	}
	return nil
}

func kmlGeometryElement(el *etree.Element) orb.Geometry {
	switch el.Tag {
	case "Point":
		if pts := kmlCoordinates(xmlutil.ChildText(el, "coordinates")); len(pts) > 0 {
			return pts[0]
		}
	case "LineString":
		if pts := kmlCoordinates(xmlutil.ChildText(el, "coordinates")); len(pts) > 1 {
			return orb.LineString(pts)
		}
	case "Polygon":
		if poly := kmlPolygon(el); len(poly) > 0 {
			return poly
		}
	case "MultiGeometry":
		var collection orb.Collection
		for _, sub := range el.ChildElements() {
			if g := kmlGeometryElement(sub); g != nil {
				collection = append(collection, g)
			}
		}
		if len(collection) > 0 {
			return collection
		}
	}
	return nil
}

func kmlPolygon(el *etree.Element) orb.Polygon {
	var poly orb.Polygon

	appendRing := func(boundary *etree.Element) {
		ring := xmlutil.FindChild(boundary, "LinearRing")
		pts := kmlCoordinates(xmlutil.ChildText(ring, "coordinates"))
		if len(pts) > 2 {
			poly = append(poly, orb.Ring(pts))
		}
	}

	if outer := xmlutil.FindChild(el, "outerBoundaryIs"); outer != nil {
		appendRing(outer)
	}
	for _, inner := range xmlutil.FindAll(el, "innerBoundaryIs") {
		appendRing(inner)
	}

	return poly
}

// exportKML serializes the collection as a KML document with one Placemark
// per feature.
func exportKML(fc *geojson.FeatureCollection) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	kml := doc.CreateElement("kml")
	kml.CreateAttr("xmlns", "http://www.opengis.net/kml/2.2")
	document := kml.CreateElement("Document")

	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		pm := document.CreateElement("Placemark")
		if name := stringProp(f.Properties, "name"); name != "" {
			pm.CreateElement("name").SetText(name)
		}
		if desc := stringProp(f.Properties, "description"); desc != "" {
			pm.CreateElement("description").SetText(desc)
		}
		writeKMLGeometry(pm, f.Geometry)
	}

	return xmlutil.Serialize(doc)
}

func writeKMLGeometry(parent *etree.Element, g orb.Geometry) {
	switch g := g.(type) {
	case orb.Point:
		point := parent.CreateElement("Point")
		point.CreateElement("coordinates").SetText(kmlCoordinateText([]orb.Point{g}))
	case orb.LineString:
		line := parent.CreateElement("LineString")
		line.CreateElement("coordinates").SetText(kmlCoordinateText(g))
	case orb.Polygon:
		poly := parent.CreateElement("Polygon")
		for i, ring := range g {
			boundary := "outerBoundaryIs"
			if i > 0 {
				boundary = "innerBoundaryIs"
			}
			lr := poly.CreateElement(boundary).CreateElement("LinearRing")
			lr.CreateElement("coordinates").SetText(kmlCoordinateText(ring))
		}
	case orb.MultiPoint:
		multi := parent.CreateElement("MultiGeometry")
		for _, pt := range g {
			writeKMLGeometry(multi, pt)
		}
	case orb.MultiLineString:
		multi := parent.CreateElement("MultiGeometry")
		for _, line := range g {
			writeKMLGeometry(multi, line)
		}
	case orb.MultiPolygon:
		multi := parent.CreateElement("MultiGeometry")
		for _, poly := range g {
			writeKMLGeometry(multi, poly)
		}
	case orb.Collection:
		multi := parent.CreateElement("MultiGeometry")
		for _, sub := range g {
			writeKMLGeometry(multi, sub)
		}
	}
}
