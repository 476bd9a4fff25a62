package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maptools/geoport/internal/config"
)

func testContext() *ServerContext {
	return NewServerContext(config.Default())
}

func TestHandleImport_CSV(t *testing.T) {
	s := testContext()
	req := httptest.NewRequest(http.MethodPost, "/api/import?format=csv",
		strings.NewReader("name,lat,lon\nA,1.5,2.5"))
	rec := httptest.NewRecorder()

	s.HandleImport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Collection struct {
			Features []json.RawMessage `json:"features"`
		} `json:"collection"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.Collection.Features) != 1 {
		t.Errorf("expected 1 feature, got %d", len(resp.Collection.Features))
	}
}

func TestHandleImport_UnknownFormat(t *testing.T) {
	s := testContext()
	req := httptest.NewRequest(http.MethodPost, "/api/import?format=shapefile",
		strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	s.HandleImport(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", rec.Code)
	}
}

func TestHandleImport_FatalErrorReturnsAlerts(t *testing.T) {
	s := testContext()
	req := httptest.NewRequest(http.MethodPost, "/api/import?format=csv",
		strings.NewReader("name,color\nA,red"))
	rec := httptest.NewRecorder()

	s.HandleImport(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var resp struct {
		Error  string   `json:"error"`
		Alerts []string `json:"alerts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Error == "" || len(resp.Alerts) != 1 {
		t.Errorf("expected error and one alert, got %+v", resp)
	}
}

func TestHandleConvert(t *testing.T) {
	s := testContext()
	req := httptest.NewRequest(http.MethodPost, "/api/convert?from=csv&to=kml",
		strings.NewReader("name,lat,lon\nA,1.5,2.5"))
	rec := httptest.NewRecorder()

	s.HandleConvert(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.google-earth.kml+xml" {
		t.Errorf("unexpected content type: %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<Placemark>") {
		t.Errorf("expected KML body, got: %s", rec.Body.String())
	}
}

func TestHandleConvert_MethodNotAllowed(t *testing.T) {
	s := testContext()
	req := httptest.NewRequest(http.MethodGet, "/api/convert?from=csv&to=kml", nil)
	rec := httptest.NewRecorder()

	s.HandleConvert(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestHandleFormats(t *testing.T) {
	s := testContext()
	req := httptest.NewRequest(http.MethodGet, "/api/formats", nil)
	rec := httptest.NewRecorder()

	s.HandleFormats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var infos []struct {
		Tag    string `json:"tag"`
		Import bool   `json:"import"`
		Export bool   `json:"export"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(infos) != 6 {
		t.Fatalf("expected 6 formats, got %d", len(infos))
	}
	for _, info := range infos {
		if !info.Import {
			t.Errorf("format %s should be importable", info.Tag)
		}
		if (info.Tag == "osm" || info.Tag == "georss") && info.Export {
			t.Errorf("format %s should not be exportable", info.Tag)
		}
	}
}
