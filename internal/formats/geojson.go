package formats

import (
	"github.com/paulmach/orb/geojson"

	"github.com/maptools/geoport/internal/i18n"
	"github.com/maptools/geoport/internal/report"
)

// importGeoJSON decodes text directly as a feature collection. Invalid
// structured data is a fatal error.
func (p *Pipeline) importGeoJSON(text string) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection([]byte(text))
	if err != nil {
		ferr := &report.FatalError{Message: i18n.T("cannot parse data")}
		p.reporter.Report(ferr, rawLineCount(text))
		return nil, ferr
	}
	return fc, nil
}
