// Package geomtext resolves free-form text cells into geometries. It is the
// fallback used when tabular input has no recognizable coordinate columns.
package geomtext

import (
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// The lenient decoder is initialized on first use and reused for the process
// lifetime, mirroring the on-demand loading of the WKT capability.
var (
	lenientOnce sync.Once
	lenient     func(string) (orb.Geometry, error)
)

func lenientDecode(text string) (orb.Geometry, error) {
	lenientOnce.Do(func() {
		lenient = wkt.Unmarshal
	})
	return lenient(text)
}

// Resolve attempts a strict GeoJSON geometry decode of text, then falls back
// to well-known text. Whatever the strict decode accepts is returned as-is;
// validating that it makes sense as geometry is the caller's job. A nil
// result means the text could not be resolved. It is a soft failure and is
// never surfaced as an error.
func Resolve(text string) orb.Geometry {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if g, err := geojson.UnmarshalGeometry([]byte(trimmed)); err == nil {
		return g.Geometry()
	}

	g, err := lenientDecode(trimmed)
	if err != nil {
		return nil
	}
	return g
}
