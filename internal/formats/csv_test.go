package formats

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/maptools/geoport/internal/report"
)

func TestImportCSV_LatLonColumns(t *testing.T) {
	p, sink := newTestPipeline()
	fc, err := p.Parse("name,lat,lon\nA,1.5,2.5", CSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}

	f := fc.Features[0]
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		t.Fatalf("expected point geometry, got %T", f.Geometry)
	}
	if pt[0] != 2.5 || pt[1] != 1.5 {
		t.Errorf("unexpected coordinates: %v", pt)
	}
	if len(f.Properties) != 1 || f.Properties["name"] != "A" {
		t.Errorf("expected properties {name: A}, got %v", f.Properties)
	}
	if len(sink.messages) != 0 {
		t.Errorf("unexpected alerts: %v", sink.messages)
	}
}

func TestImportCSV_WKTColumn(t *testing.T) {
	p, _ := newTestPipeline()
	fc, err := p.Parse("name,wkt\nA,\"POINT(2.5 1.5)\"", CSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := fc.Features[0]
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		t.Fatalf("expected geometry resolved from WKT, got %T", f.Geometry)
	}
	if pt[0] != 2.5 || pt[1] != 1.5 {
		t.Errorf("unexpected coordinates: %v", pt)
	}
	if _, ok := f.Properties["wkt"]; ok {
		t.Error("wkt column should be removed from properties after resolution")
	}
}

func TestImportCSV_GeoJSONColumn(t *testing.T) {
	p, _ := newTestPipeline()
	fc, err := p.Parse(`name;geojson`+"\n"+`A;{"type":"Point","coordinates":[2.5,1.5]}`, CSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := fc.Features[0]
	if _, ok := f.Geometry.(orb.Point); !ok {
		t.Fatalf("expected point from geojson column, got %T", f.Geometry)
	}
	if _, ok := f.Properties["geojson"]; ok {
		t.Error("geojson column should be removed from properties")
	}
}

func TestImportCSV_CandidateOrder(t *testing.T) {
	// geom comes before wkt in the candidate list; once found, wkt must
	// not be consumed.
	p, _ := newTestPipeline()
	fc, err := p.Parse("geom,wkt\nPOINT(1 1),POINT(9 9)", CSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := fc.Features[0]
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		t.Fatalf("expected point geometry, got %T", f.Geometry)
	}
	if pt[0] != 1 || pt[1] != 1 {
		t.Errorf("geometry should come from the geom column, got %v", pt)
	}
	if _, ok := f.Properties["wkt"]; !ok {
		t.Error("wkt column should stay when geom matched first")
	}
}

func TestImportCSV_RowMissingGeometryColumn(t *testing.T) {
	p, _ := newTestPipeline()
	fc, err := p.Parse("name,wkt\nA,POINT(1 1)\nB,", CSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}
	if fc.Features[0].Geometry == nil {
		t.Error("first feature should have resolved geometry")
	}
	if fc.Features[1].Geometry != nil {
		t.Error("row without column value should resolve to nil geometry, not fail")
	}
}

func TestImportCSV_NoGeoColumn(t *testing.T) {
	p, sink := newTestPipeline()
	_, err := p.Parse("name,color\nA,red", CSV)

	var fatal *report.FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %v", err)
	}
	if !strings.Contains(fatal.Message, "geographic column") {
		t.Errorf("unexpected message: %q", fatal.Message)
	}
	if len(sink.messages) != 1 {
		t.Fatalf("no-geo-column error should alert once, got %v", sink.messages)
	}
}

func TestImportCSV_RowErrorsSuppressedOnTinyInput(t *testing.T) {
	p, sink := newTestPipeline()
	_, err := p.Parse("name,lat,lon\nA,bogus,2.5", CSV)

	var batch *report.RowErrorBatch
	if !errors.As(err, &batch) {
		t.Fatalf("expected RowErrorBatch, got %v", err)
	}
	if len(sink.messages) != 0 {
		t.Errorf("row errors on 2-line input should not alert, got %v", sink.messages)
	}
}

func TestImportCSV_RowErrorsAlertOnLargeInput(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("name,lat,lon\n")
	for i := 0; i < 48; i++ {
		sb.WriteString("A,1.5,2.5\n")
	}
	sb.WriteString("B,bogus,2.5")

	p, sink := newTestPipeline()
	fc, err := p.Parse(sb.String(), CSV)
	if err != nil {
		t.Fatalf("partial success should deliver the collection, got error: %v", err)
	}
	if len(fc.Features) != 48 {
		t.Errorf("expected 48 features, got %d", len(fc.Features))
	}
	if len(sink.messages) != 1 {
		t.Fatalf("row errors on a 50-line input should alert once, got %v", sink.messages)
	}
}
