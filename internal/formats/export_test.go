package formats

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func pointFeature(lon, lat float64, props map[string]interface{}) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{lon, lat})
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

func TestExportDescriptors(t *testing.T) {
	cases := map[Format]struct {
		extension string
		mimeType  string
	}{
		GeoJSON: {"geojson", "application/geo+json"},
		GPX:     {"gpx", "application/gpx+xml"},
		KML:     {"kml", "application/vnd.google-earth.kml+xml"},
		CSV:     {"csv", "text/csv"},
	}
	for f, want := range cases {
		d, err := Descriptor(f)
		if err != nil {
			t.Errorf("Descriptor(%s) unexpected error: %v", f, err)
			continue
		}
		if d.Extension != want.extension || d.MimeType != want.mimeType {
			t.Errorf("Descriptor(%s) = %s/%s, want %s/%s",
				f, d.Extension, d.MimeType, want.extension, want.mimeType)
		}
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	if _, err := Export(fc, OSM); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("OSM has no exporter, expected ErrUnknownFormat, got %v", err)
	}
	if _, err := Descriptor(Format("shapefile")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestGeoJSONRoundTrip(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(pointFeature(2.5, 1.5, map[string]interface{}{"name": "A", "value": 2.0}))
	fc.Append(pointFeature(3.5, 4.5, map[string]interface{}{"name": "B"}))

	out, err := Export(fc, GeoJSON)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	p, _ := newTestPipeline()
	back, err := p.Parse(out, GeoJSON)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if len(back.Features) != len(fc.Features) {
		t.Fatalf("feature count changed: %d -> %d", len(fc.Features), len(back.Features))
	}

	for i := range fc.Features {
		if !orb.Equal(fc.Features[i].Geometry, back.Features[i].Geometry) {
			t.Errorf("feature %d geometry changed: %v -> %v",
				i, fc.Features[i].Geometry, back.Features[i].Geometry)
		}
		if !reflect.DeepEqual(map[string]interface{}(fc.Features[i].Properties),
			map[string]interface{}(back.Features[i].Properties)) {
			t.Errorf("feature %d properties changed: %v -> %v",
				i, fc.Features[i].Properties, back.Features[i].Properties)
		}
	}
}

func TestGPXRoundTrip_Description(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(pointFeature(2.5, 1.5, map[string]interface{}{
		"name":        "Camp",
		"description": "hello",
		"_options":    "internal state",
	}))

	out, err := Export(fc, GPX)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "<desc>hello</desc>") {
		t.Fatalf("description should be exported as desc, got:\n%s", out)
	}

	p, _ := newTestPipeline()
	back, err := p.Parse(out, GPX)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if len(back.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(back.Features))
	}

	f := back.Features[0]
	if f.Properties["description"] != "hello" {
		t.Errorf("description lost in round trip: %v", f.Properties)
	}
	for key := range f.Properties {
		if strings.HasPrefix(key, "_") {
			t.Errorf("internal property %q survived the round trip", key)
		}
	}
}

func TestExportCSV(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(pointFeature(2.5, 1.5, map[string]interface{}{
		"name":     "A",
		"_options": "internal",
	}))

	out, err := Export(fc, CSV)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "name,Latitude,Longitude" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "A,1.5,2.5" {
		t.Errorf("unexpected row: %q", lines[1])
	}
	if strings.Contains(out, "_options") || strings.Contains(out, "internal") {
		t.Error("internal bookkeeping key should not be exported")
	}
}

func TestExportCSV_RoundTripThroughImport(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(pointFeature(2.5, 1.5, map[string]interface{}{"name": "A"}))

	out, err := Export(fc, CSV)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	p, _ := newTestPipeline()
	back, err := p.Parse(out, CSV)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}

	pt, ok := back.Features[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("expected point, got %T", back.Features[0].Geometry)
	}
	if pt[0] != 2.5 || pt[1] != 1.5 {
		t.Errorf("coordinates changed in round trip: %v", pt)
	}
}

func TestExportKML(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(pointFeature(2.5, 1.5, map[string]interface{}{
		"name":        "Spot",
		"description": "a place",
	}))

	out, err := Export(fc, KML)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	for _, want := range []string{"<Placemark>", "<name>Spot</name>", "2.5,1.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("KML output missing %q:\n%s", want, out)
		}
	}
}

func TestExportGeoJSON_PrettyPrinted(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(pointFeature(1, 2, nil))

	out, err := Export(fc, GeoJSON)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "\n  ") {
		t.Error("GeoJSON export should be pretty-printed")
	}
}
