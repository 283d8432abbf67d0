package app

import (
	"image/color"
	"math"
	"testing"

	"github.com/hydrometrics/adcp-survey/internal/sensor"
)

func TestCalculateNiceIndexStep(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{1, 1},
		{10, 5},
		{100, 50},
		{300, 150},
		{400, 200},
		{1000, 200},
	}

	for _, tt := range tests {
		if got := calculateNiceIndexStep(tt.width); got != tt.want {
			t.Errorf("calculateNiceIndexStep(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestFormatValueRange(t *testing.T) {
	if got := formatValueRange(1.5, 20.25, "deg C"); got != "1.50 - 20.25 deg C" {
		t.Errorf("formatValueRange() = %q", got)
	}
	if got := formatValueRange(-1, 1, ""); got != "-1.00 - 1.00" {
		t.Errorf("formatValueRange() = %q", got)
	}
}

func TestNewTraceRenderer_Defaults(t *testing.T) {
	r, err := NewTraceRenderer(RenderConfig{})
	if err != nil {
		t.Fatalf("NewTraceRenderer() error = %v", err)
	}

	c := r.config
	if c.DatetimeFormat != defaultDatetimeFormat {
		t.Errorf("DatetimeFormat = %q, want %q", c.DatetimeFormat, defaultDatetimeFormat)
	}
	if c.FontSize != fontSize {
		t.Errorf("FontSize = %f, want %f", c.FontSize, fontSize)
	}
	if c.BandHeight != defaultBandHeight {
		t.Errorf("BandHeight = %d, want %d", c.BandHeight, defaultBandHeight)
	}
	if c.BorderConfig.Top != defaultTopBorder || c.BorderConfig.Left != defaultLeftBorder ||
		c.BorderConfig.Bottom != defaultBottomBorder || c.BorderConfig.Right != defaultRightBorder {
		t.Errorf("BorderConfig = %+v, want defaults", c.BorderConfig)
	}
}

func TestNewTraceRenderer_AnnotateRequiresFont(t *testing.T) {
	if _, err := NewTraceRenderer(RenderConfig{Annotate: true}); err == nil {
		t.Error("NewTraceRenderer() expected an error when annotations have no font")
	}
}

func TestTraceRenderer_Render(t *testing.T) {
	d := NewTraceData(sensor.KindTemperature, NewBoundsTracker(), false)
	d.Update(span(0, nil, []float64{10, math.NaN(), 30}, nil))
	d.Update(span(1, nil, []float64{20, 25}, nil))

	r, err := NewTraceRenderer(RenderConfig{
		BandHeight:   2,
		BorderConfig: BorderConfig{Top: 4, Left: 6, Bottom: 4, Right: 2},
	})
	if err != nil {
		t.Fatalf("NewTraceRenderer() error = %v", err)
	}

	img, err := r.Render(d)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	wantW := 3 + 6 + 2
	wantH := 2*2 + 4 + 4
	if got := img.Bounds().Size(); got.X != wantW || got.Y != wantH {
		t.Errorf("image size = %dx%d, want %dx%d", got.X, got.Y, wantW, wantH)
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// NaN readings leave the white background
	if c := img.RGBAAt(7, 4); c != white {
		t.Errorf("NaN pixel = %v, want white", c)
	}
	// Real readings fill the whole band height with a theme color
	if c := img.RGBAAt(6, 4); c == white {
		t.Error("reading pixel kept the background color")
	}
	if img.RGBAAt(6, 5) != img.RGBAAt(6, 4) {
		t.Error("band rows must share the reading color")
	}

	// Manual overrides pin the color scale
	minValue, maxValue := 20.0, 21.0
	r2, err := NewTraceRenderer(RenderConfig{
		BandHeight: 1,
		MinValue:   &minValue,
		MaxValue:   &maxValue,
	})
	if err != nil {
		t.Fatalf("NewTraceRenderer() error = %v", err)
	}
	if _, err = r2.Render(d); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if r2.colorMap.boundsMin != minValue || r2.colorMap.boundsRange != maxValue-minValue {
		t.Errorf("color map bounds = %f..%f, want %f..%f",
			r2.colorMap.boundsMin, r2.colorMap.boundsMin+r2.colorMap.boundsRange, minValue, maxValue)
	}
}
