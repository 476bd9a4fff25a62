package formats

import (
	"encoding/json"
	"strconv"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/maptools/geoport/internal/geo"
	"github.com/maptools/geoport/internal/xmlutil"
)

// osmElement covers both node and way entries of an Overpass-style JSON
// payload.
type osmElement struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

type osmPayload struct {
	Elements []osmElement `json:"elements"`
}

// Closed ways carrying one of these tags are imported as polygons.
var osmAreaTags = []string{"area", "building", "landuse", "natural", "leisure", "amenity"}

// importOSM accepts either JSON-encoded OSM data or raw OSM XML: the JSON
// decode is attempted first, XML is the fallback. Element tags are flattened
// into plain feature properties.
func (p *Pipeline) importOSM(text string) (*geojson.FeatureCollection, error) {
	var payload osmPayload
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		return osmToCollection(payload.Elements), nil
	}

	doc := xmlutil.Parse(text, p.reporter.Alerts())
	return osmToCollection(osmElementsFromXML(doc.Root())), nil
}

// osmElementsFromXML reads node and way elements out of an OSM XML tree.
func osmElementsFromXML(root *etree.Element) []osmElement {
	if root == nil {
		return nil
	}

	var elements []osmElement

	for _, node := range xmlutil.FindAll(root, "node") {
		pt, ok := latLonAttrs(node)
		if !ok {
			continue
		}
		id, _ := strconv.ParseInt(node.SelectAttrValue("id", ""), 10, 64)
		elements = append(elements, osmElement{
			Type: "node",
			ID:   id,
			Lat:  pt[1],
			Lon:  pt[0],
			Tags: osmXMLTags(node),
		})
	}

	for _, way := range xmlutil.FindAll(root, "way") {
		id, _ := strconv.ParseInt(way.SelectAttrValue("id", ""), 10, 64)
		var refs []int64
		for _, nd := range xmlutil.FindAll(way, "nd") {
			if ref, err := strconv.ParseInt(nd.SelectAttrValue("ref", ""), 10, 64); err == nil {
				refs = append(refs, ref)
			}
		}
		elements = append(elements, osmElement{
			Type:  "way",
			ID:    id,
			Nodes: refs,
			Tags:  osmXMLTags(way),
		})
	}

	return elements
}

func osmXMLTags(el *etree.Element) map[string]string {
	tags := make(map[string]string)
	for _, tag := range xmlutil.FindAll(el, "tag") {
		if k := tag.SelectAttrValue("k", ""); k != "" {
			tags[k] = tag.SelectAttrValue("v", "")
		}
	}
	return tags
}

// osmToCollection converts elements into features: tagged nodes become
// points, ways become lines or polygons depending on closure and tags.
func osmToCollection(elements []osmElement) *geojson.FeatureCollection {
	fc := geo.NewCollection()

	nodes := make(map[int64]orb.Point)
	for _, el := range elements {
		if el.Type == "node" {
			nodes[el.ID] = orb.Point{el.Lon, el.Lat}
		}
	}

	for _, el := range elements {
		switch el.Type {
		case "node":
			if len(el.Tags) == 0 {
				continue
			}
			f := geojson.NewFeature(nodes[el.ID])
			flattenOSMTags(f, el)
			fc.Append(f)

		case "way":
			var line orb.LineString
			for _, ref := range el.Nodes {
				if pt, ok := nodes[ref]; ok {
					line = append(line, pt)
				}
			}
			if len(line) < 2 {
				continue
			}

			var f *geojson.Feature
			if osmWayIsArea(el, line) {
				f = geojson.NewFeature(orb.Polygon{orb.Ring(line)})
			} else {
				f = geojson.NewFeature(line)
			}
			flattenOSMTags(f, el)
			fc.Append(f)
		}
	}

	return fc
}

func osmWayIsArea(el osmElement, line orb.LineString) bool {
	if len(line) < 4 || line[0] != line[len(line)-1] {
		return false
	}
	if el.Tags["area"] == "no" {
		return false
	}
	for _, tag := range osmAreaTags {
		if _, ok := el.Tags[tag]; ok {
			return true
		}
	}
	return false
}

// flattenOSMTags spreads element tags as flat scalar properties.
func flattenOSMTags(f *geojson.Feature, el osmElement) {
	f.Properties["id"] = strconv.FormatInt(el.ID, 10)
	for k, v := range el.Tags {
		f.Properties[k] = v
	}
}
