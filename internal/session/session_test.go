package session

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hydrometrics/adcp-survey/internal/sensor"
)

const sessionDoc = `{
  "version": "1.2",
  "stationName": "Clearwater River at Miles Crossing",
  "stationID": "07153000",
  "site": {"latitude": 45.1182, "longitude": -122.9821, "datum": "NAD83"},
  "transects": [
    {
      "fileName": "20250412_0841_000.PD0",
      "checked": true,
      "startedAt": "2025-04-12T08:41:03Z",
      "sensors": {
        "pitchDeg": {
          "internal": {"data": [0.4, null, 0.6], "dataOrig": [0.4, null, 0.6], "source": "Internal Sensor"},
          "selected": "internal"
        },
        "temperatureDegC": {
          "internal": {"data": [null, null, null], "dataOrig": [null, null, null], "source": "Internal Sensor"},
          "user": {"data": 18.5, "dataOrig": 18.5, "source": "User"},
          "selected": "user"
        },
        "salinityPpt": {
          "user": {"data": [0.0, 0.0, 0.0], "dataOrig": [0.0, 0.0, 0.0], "source": "User"}
        }
      }
    },
    {
      "fileName": "20250412_0858_001.PD0",
      "checked": false,
      "sensors": {}
    }
  ]
}`

func TestParse(t *testing.T) {
	d, err := Parse(strings.NewReader(sessionDoc))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}

	if d.StationName != "Clearwater River at Miles Crossing" {
		t.Errorf("Expected station name, got %q", d.StationName)
	}
	if d.StationID != "07153000" {
		t.Errorf("Expected station ID 07153000, got %q", d.StationID)
	}
	if d.Site == nil || d.Site.Latitude == nil || *d.Site.Latitude != 45.1182 {
		t.Errorf("Expected site latitude 45.1182, got %+v", d.Site)
	}
	if len(d.Transects) != 2 {
		t.Fatalf("Expected 2 transects, got %d", len(d.Transects))
	}

	tr := d.Transects[0]
	if tr.FileName != "20250412_0841_000.PD0" {
		t.Errorf("Expected transect file name, got %q", tr.FileName)
	}
	if !tr.Checked {
		t.Error("Expected first transect to be checked")
	}
	if tr.StartedAt == nil {
		t.Error("Expected a start time on the first transect")
	}

	pitch := tr.Sensors.Group(sensor.KindPitch)
	if pitch == nil {
		t.Fatal("Expected a pitch group record")
	}
	if pitch.Selected != "internal" {
		t.Errorf("Expected pitch selection internal, got %q", pitch.Selected)
	}
	want := FloatSeries{0.4, math.NaN(), 0.6}
	if diff := cmp.Diff(want, pitch.Internal.Data, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("Pitch data mismatch (-want +got):\n%s", diff)
	}

	// Scalar temperature promoted to a one-element series
	temp := tr.Sensors.Group(sensor.KindTemperature)
	if temp == nil || temp.User == nil {
		t.Fatal("Expected a user temperature record")
	}
	if diff := cmp.Diff(FloatSeries{18.5}, temp.User.Data); diff != "" {
		t.Errorf("Temperature data mismatch (-want +got):\n%s", diff)
	}
}

func TestTransect_Suite(t *testing.T) {
	d, err := Parse(strings.NewReader(sessionDoc))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}

	suite, err := d.Transects[0].Suite()
	if err != nil {
		t.Fatalf("Failed to build suite: %v", err)
	}

	// Interior NaN markers survive population
	pitch, err := suite.Group(sensor.KindPitch)
	if err != nil {
		t.Fatalf("Failed to get pitch group: %v", err)
	}
	if got := pitch.SelectedOrigin(); got != sensor.OriginInternal {
		t.Errorf("Expected pitch selection %q, got %q", sensor.OriginInternal, got)
	}
	sel := pitch.Selected()
	if sel == nil {
		t.Fatal("Expected a selected pitch channel")
	}
	want := []float64{0.4, math.NaN(), 0.6}
	if diff := cmp.Diff(want, sel.Data(), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("Pitch data mismatch (-want +got):\n%s", diff)
	}
	if got := sel.Source(); got != "Internal Sensor" {
		t.Errorf("Expected pitch source %q, got %q", "Internal Sensor", got)
	}

	// The all-NaN internal temperature normalizes to empty, while the user
	// channel keeps its promoted scalar
	temp, err := suite.Group(sensor.KindTemperature)
	if err != nil {
		t.Fatalf("Failed to get temperature group: %v", err)
	}
	internal := temp.Channel(sensor.OriginInternal)
	if internal == nil {
		t.Fatal("Expected an internal temperature channel")
	}
	if got := internal.Data(); got == nil || len(got) != 0 {
		t.Errorf("Expected empty internal temperature data, got %v", got)
	}
	if diff := cmp.Diff([]float64{18.5}, temp.Selected().Data()); diff != "" {
		t.Errorf("Selected temperature mismatch (-want +got):\n%s", diff)
	}

	// No selection recorded for salinity
	sal, err := suite.Group(sensor.KindSalinity)
	if err != nil {
		t.Fatalf("Failed to get salinity group: %v", err)
	}
	if sal.Selected() != nil {
		t.Error("Expected no selected salinity channel")
	}
	if sal.Channel(sensor.OriginUser) == nil {
		t.Error("Expected a user salinity channel")
	}

	// Kinds absent from the document stay empty
	sos, err := suite.Group(sensor.KindSpeedOfSound)
	if err != nil {
		t.Fatalf("Failed to get speed of sound group: %v", err)
	}
	for _, origin := range sensor.Origins() {
		if sos.Channel(origin) != nil {
			t.Errorf("Expected no %s speed of sound channel", origin)
		}
	}
}

func TestTransect_SuiteUnknownSelection(t *testing.T) {
	doc := `{"transects": [{"fileName": "a.PD0", "sensors": {
		"rollDeg": {"internal": {"data": [1.1], "dataOrig": [1.1], "source": "Internal Sensor"}, "selected": "computed"}
	}}]}`

	d, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}

	if _, err = d.Transects[0].Suite(); !errors.Is(err, sensor.ErrUnknownOrigin) {
		t.Errorf("Expected ErrUnknownOrigin, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployment.json")
	if err := os.WriteFile(path, []byte(sessionDoc), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if len(d.Transects) != 2 {
		t.Errorf("Expected 2 transects, got %d", len(d.Transects))
	}

	if _, err = Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error loading a missing file")
	}
}
