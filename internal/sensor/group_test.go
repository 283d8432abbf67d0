package sensor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGroup_PopulateAndSelect(t *testing.T) {
	var g Group

	if err := g.Populate(OriginInternal, []float64{23.4, 23.5}, "Internal Sensor"); err != nil {
		t.Fatalf("Failed to populate internal origin: %v", err)
	}
	if err := g.Populate(OriginUser, []float64{24.0}, "User"); err != nil {
		t.Fatalf("Failed to populate user origin: %v", err)
	}

	if g.Selected() != nil {
		t.Error("Expected no selected channel before Select")
	}
	if got := g.SelectedOrigin(); got != "" {
		t.Errorf("Expected no selected origin, got %q", got)
	}

	if err := g.Select(OriginInternal); err != nil {
		t.Fatalf("Failed to select internal origin: %v", err)
	}
	if got := g.SelectedOrigin(); got != OriginInternal {
		t.Errorf("Expected selected origin %q, got %q", OriginInternal, got)
	}

	sel := g.Selected()
	if sel == nil {
		t.Fatal("Expected a selected channel")
	}
	if diff := cmp.Diff([]float64{23.4, 23.5}, sel.Data()); diff != "" {
		t.Errorf("Selected data mismatch (-want +got):\n%s", diff)
	}

	// The external origin was never populated
	if g.Channel(OriginExternal) != nil {
		t.Error("Expected nil channel for unpopulated external origin")
	}
}

func TestGroup_SelectBeforePopulate(t *testing.T) {
	var g Group

	if err := g.Select(OriginUser); err != nil {
		t.Fatalf("Failed to select user origin: %v", err)
	}
	if g.Selected() != nil {
		t.Error("Expected nil selected channel while the origin has no cell")
	}

	if err := g.Populate(OriginUser, []float64{35.0}, "User"); err != nil {
		t.Fatalf("Failed to populate user origin: %v", err)
	}
	if g.Selected() == nil {
		t.Error("Expected selected channel once the origin is populated")
	}
}

func TestGroup_UnknownOrigin(t *testing.T) {
	var g Group

	if err := g.Populate("bogus", nil, ""); !errors.Is(err, ErrUnknownOrigin) {
		t.Errorf("Expected ErrUnknownOrigin from Populate, got %v", err)
	}
	if err := g.PopulateFromRecord("bogus", Record{}); !errors.Is(err, ErrUnknownOrigin) {
		t.Errorf("Expected ErrUnknownOrigin from PopulateFromRecord, got %v", err)
	}
	if err := g.Select("bogus"); !errors.Is(err, ErrUnknownOrigin) {
		t.Errorf("Expected ErrUnknownOrigin from Select, got %v", err)
	}
	if g.Channel("bogus") != nil {
		t.Error("Expected nil channel for unknown origin")
	}
}

func TestGroup_PopulateFromRecord(t *testing.T) {
	var g Group

	err := g.PopulateFromRecord(OriginExternal, Record{
		Data:     []float64{14.7},
		DataOrig: []float64{14.9},
		Source:   "External Sensor",
	})
	if err != nil {
		t.Fatalf("Failed to populate from record: %v", err)
	}

	ch := g.Channel(OriginExternal)
	if ch == nil {
		t.Fatal("Expected a channel for the external origin")
	}
	if got := ch.Source(); got != "External Sensor" {
		t.Errorf("Expected source %q, got %q", "External Sensor", got)
	}
	if diff := cmp.Diff([]float64{14.9}, ch.OriginalData()); diff != "" {
		t.Errorf("Original data mismatch (-want +got):\n%s", diff)
	}
}
