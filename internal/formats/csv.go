package formats

import (
	"github.com/paulmach/orb/geojson"

	"github.com/maptools/geoport/internal/csvgeo"
	"github.com/maptools/geoport/internal/geomtext"
	"github.com/maptools/geoport/internal/i18n"
	"github.com/maptools/geoport/internal/report"
)

// Ordered candidate columns that may carry geometry text when no coordinate
// columns were detected. First match on the first feature wins.
var geometryColumns = []string{"geom", "geometry", "wkt", "geojson"}

// importCSV delegates tokenizing and coordinate-column detection to the
// csvgeo converter, then applies the geometry-column fallback heuristic.
// Partial success is a first-class outcome: the collection is delivered
// whenever at least one feature exists, even alongside row errors.
func (p *Pipeline) importCSV(text string) (*geojson.FeatureCollection, error) {
	lines := rawLineCount(text)

	result := <-csvgeo.Convert(text, csvgeo.Options{})
	if result.Err != nil {
		ferr := &report.FatalError{Message: result.Err.Error()}
		p.reporter.Report(ferr, lines)
		return nil, ferr
	}

	fc := result.Collection

	// The converter signals "no coordinate columns" through a nil geometry
	// on the first feature. Detection runs against the first feature only;
	// the chosen column is then applied uniformly to every row.
	if len(fc.Features) > 0 && fc.Features[0].Geometry == nil {
		column := geometryColumn(fc.Features[0])
		if column == "" {
			ferr := &report.FatalError{Message: i18n.T("no geo column found")}
			p.reporter.Report(ferr, lines)
			return nil, ferr
		}

		for _, f := range fc.Features {
			// A row missing the column resolves to nil geometry; it
			// never fails the batch.
			raw, _ := f.Properties[column].(string)
			f.Geometry = geomtext.Resolve(raw)
			delete(f.Properties, column)
		}
	}

	var ierr report.ImportError
	if len(result.RowErrors) > 0 {
		ierr = &report.RowErrorBatch{
			Count:        len(result.RowErrors),
			FirstMessage: result.RowErrors[0].Message,
		}
	}
	p.reporter.Report(ierr, lines)

	if len(fc.Features) == 0 && ierr != nil {
		return nil, ierr
	}
	return fc, nil
}

// geometryColumn returns the first candidate column holding a truthy value
// on the first feature, or "".
func geometryColumn(first *geojson.Feature) string {
	for _, name := range geometryColumns {
		if v, ok := first.Properties[name]; ok && truthy(v) {
			return name
		}
	}
	return ""
}

func truthy(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return value != ""
	case float64:
		return value != 0
	case bool:
		return value
	}
	return true
}
