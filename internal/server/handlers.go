// Package server handles HTTP requests and middleware for the conversion
// service.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/maptools/geoport/internal/formats"
	"github.com/maptools/geoport/internal/report"
)

type importResponse struct {
	Collection *geojson.FeatureCollection `json:"collection"`
	Alerts     []string                   `json:"alerts,omitempty"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Alerts []string `json:"alerts,omitempty"`
}

type formatInfo struct {
	Tag       string `json:"tag"`
	Import    bool   `json:"import"`
	Export    bool   `json:"export"`
	Extension string `json:"extension,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
}

// HandleImport normalizes the request body into a feature collection.
// POST /api/import?format=<tag>
func (s *ServerContext) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format, err := formats.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	alerts := &alertCollector{}
	pipeline := formats.NewPipeline(report.NewReporter(alerts))

	fc, err := pipeline.Parse(body, format)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  err.Error(),
			Alerts: alerts.messages,
		})
		return
	}

	writeJSON(w, http.StatusOK, importResponse{Collection: fc, Alerts: alerts.messages})
}

// HandleConvert imports the request body and re-exports it in another
// format. POST /api/convert?from=<tag>&to=<tag>
func (s *ServerContext) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	from, err := formats.ParseFormat(r.URL.Query().Get("from"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	to, err := formats.ParseFormat(r.URL.Query().Get("to"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	descriptor, err := formats.Descriptor(to)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	alerts := &alertCollector{}
	pipeline := formats.NewPipeline(report.NewReporter(alerts))

	fc, err := pipeline.Parse(body, from)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  err.Error(),
			Alerts: alerts.messages,
		})
		return
	}

	out, err := formats.Export(fc, to)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  err.Error(),
			Alerts: alerts.messages,
		})
		return
	}

	if len(alerts.messages) > 0 {
		w.Header().Set("X-Import-Alert", strings.Join(alerts.messages, "; "))
	}
	w.Header().Set("Content-Type", descriptor.MimeType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="export.%s"`, descriptor.Extension))
	_, _ = io.WriteString(w, out)
}

// HandleFormats lists the supported formats and their export metadata.
// GET /api/formats
func (s *ServerContext) HandleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := []formats.Format{
		formats.GeoJSON, formats.GPX, formats.KML,
		formats.CSV, formats.OSM, formats.GeoRSS,
	}

	infos := make([]formatInfo, 0, len(all))
	for _, f := range all {
		info := formatInfo{Tag: string(f), Import: true}
		if descriptor, err := formats.Descriptor(f); err == nil {
			info.Export = true
			info.Extension = descriptor.Extension
			info.MimeType = descriptor.MimeType
		}
		infos = append(infos, info)
	}

	writeJSON(w, http.StatusOK, infos)
}

// readBody reads the request body under the configured size limit. It
// writes the error response itself when reading fails.
func (s *ServerContext) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.Config.MaxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		return "", false
	}
	return string(data), true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(payload)
}
