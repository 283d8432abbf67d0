package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	dpi            = 120.0
	fontSize       = 12.0
	tickMarkHeight = 5
	pixelsPerLabel = 150.0

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 40
	defaultRightBorder  = 40

	defaultBandHeight = 8 // Height of one transect band in pixels

	defaultDatetimeFormat = time.DateTime
)

// BorderConfig defines the sizes of white space around the trace ribbon
type BorderConfig struct {
	Top    int // Space for ensemble scale
	Left   int // Space for transect labels
	Bottom int // Space for information bar
	Right  int // Right padding
}

// RenderConfig holds all configuration options for trace visualization
type RenderConfig struct {
	DatetimeFormat string // Format string for date/time display

	// Visual configuration
	FontPath     string     // Path to a TTF file, required for annotations
	FontSize     float64    // Font size in points
	ColorTheme   ColorTheme // Color scheme for readings
	ColorMapSize int        // Number of colors in gradient (0 for default)
	BandHeight   int        // Height of one transect band in pixels

	// Manual display range overrides
	MinValue *float64
	MaxValue *float64

	Annotate bool // Draw scales and the information bar

	// Border configuration
	BorderConfig BorderConfig
}

// TraceRenderer handles the visualization of sensor channel traces
type TraceRenderer struct {
	colorMap *ColorMapper
	config   RenderConfig
}

// NewTraceRenderer creates a new trace renderer with the given configuration
func NewTraceRenderer(config RenderConfig) (*TraceRenderer, error) {
	// Set defaults for zero values
	if config.DatetimeFormat == "" {
		config.DatetimeFormat = defaultDatetimeFormat
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.BandHeight <= 0 {
		config.BandHeight = defaultBandHeight
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	if config.Annotate && config.FontPath == "" {
		return nil, errors.New("annotations require a font file")
	}

	return &TraceRenderer{config: config}, nil
}

// Render creates an image of the accumulated traces with annotations
func (r *TraceRenderer) Render(data *TraceData) (*image.RGBA, error) {
	ribbonHeight := data.Height * r.config.BandHeight

	// Create image with space for borders
	fullWidth := data.Width + r.config.BorderConfig.Left + r.config.BorderConfig.Right
	fullHeight := ribbonHeight + r.config.BorderConfig.Top + r.config.BorderConfig.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	// Fill with white background
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	// Define ribbon area, one column per ensemble
	ribbonArea := image.Rect(
		r.config.BorderConfig.Left,
		r.config.BorderConfig.Top,
		r.config.BorderConfig.Left+data.Width,
		r.config.BorderConfig.Top+ribbonHeight,
	)

	// Update or create color map
	bounds := data.BoundsTracker.Current()
	if r.config.MinValue != nil {
		bounds.Min = *r.config.MinValue
	}
	if r.config.MaxValue != nil {
		bounds.Max = *r.config.MaxValue
	}
	if r.colorMap == nil {
		r.colorMap = NewColorMapperWithSize(r.config.ColorTheme, bounds, r.config.ColorMapSize)
	} else {
		r.colorMap.UpdateBounds(bounds)
	}

	if r.config.Annotate {
		ann, err := newAnnotator(annotatorConfig{
			DatetimeFormat: r.config.DatetimeFormat,
			FontPath:       r.config.FontPath,
			FontSize:       r.config.FontSize,
			BandHeight:     r.config.BandHeight,
			Borders:        r.config.BorderConfig,
		})
		if err != nil {
			return nil, fmt.Errorf("creating annotator: %w", err)
		}
		defer ann.Close()

		// Draw annotations first
		if err = ann.annotate(img, data, bounds); err != nil {
			return nil, fmt.Errorf("drawing annotations: %w", err)
		}
	}

	// Then render trace bands (overwriting any overlapping annotations)
	r.renderBands(img, ribbonArea, data)

	return img, nil
}

// renderBands draws the trace bands using the color map. NaN readings
// leave the background untouched.
func (r *TraceRenderer) renderBands(img *image.RGBA, area image.Rectangle, data *TraceData) {
	for row, values := range data.Rows {
		bandY := area.Min.Y + row*r.config.BandHeight
		for x, v := range values {
			if math.IsNaN(v) {
				continue
			}

			c := r.colorMap.GetColor(v)
			imgX := area.Min.X + x
			for dy := 0; dy < r.config.BandHeight; dy++ {
				img.Set(imgX, bandY+dy, c)
			}
		}
	}
}

// Internal annotator implementation
type annotatorConfig struct {
	DatetimeFormat string
	FontPath       string
	FontSize       float64
	BandHeight     int
	Borders        BorderConfig
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	fontBytes, err := os.ReadFile(config.FontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, data *TraceData, bounds ValueBounds) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	ops := []struct {
		msg string
		fn  func() error
	}{
		{"drawing ensemble scale", func() error { return a.drawEnsembleScale(img, data) }},
		{"drawing transect scale", func() error { return a.drawTransectScale(img, data) }},
		{"drawing info bar", func() error { return a.drawInfoBar(img, data, bounds) }},
	}
	for _, op := range ops {
		if err := op.fn(); err != nil {
			return fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	return nil
}

func (a *annotator) drawEnsembleScale(img *image.RGBA, data *TraceData) error {
	step := calculateNiceIndexStep(data.Width)

	// Get actual font height in pixels
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	// Center the labels in the top border
	textY := a.config.Borders.Top - fontHeight/2

	for idx := 0; idx < data.Width; idx += step {
		x := a.config.Borders.Left + idx

		// Draw tick mark
		for y := a.config.Borders.Top - tickMarkHeight; y < a.config.Borders.Top; y++ {
			img.Set(x, y, color.Black)
		}

		// Format and draw ensemble label
		label := humanize.Comma(int64(idx))
		width := font.MeasureString(a.fontFace, label)
		pt := freetype.Pt(x-(width.Round()/2), textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing ensemble label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawTransectScale(img *image.RGBA, data *TraceData) error {
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	// Label every band unless the bands are shorter than the font
	rowStep := 1
	if a.config.BandHeight < fontHeight {
		rowStep = (fontHeight + a.config.BandHeight - 1) / a.config.BandHeight
	}

	for row := 0; row < len(data.Seqs); row += rowStep {
		bandY := a.config.Borders.Top + row*a.config.BandHeight

		// Draw tick mark
		for x := a.config.Borders.Left - tickMarkHeight; x < a.config.Borders.Left; x++ {
			img.Set(x, bandY, color.Black)
		}

		// Center text vertically relative to the band top
		textY := bandY + fontHeight/2 - metrics.Descent.Round()

		label := fmt.Sprintf("#%d", data.Seqs[row])
		pt := freetype.Pt(10, textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing transect label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawInfoBar(img *image.RGBA, data *TraceData, bounds ValueBounds) error {
	var sb strings.Builder

	if data.StationName != "" {
		sb.WriteString(data.StationName)
		sb.WriteString("; ")
	}
	sb.WriteString(fmt.Sprintf("%s: %s", data.Kind.Label(), formatValueRange(bounds.Min, bounds.Max, data.Kind.Unit())))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Transects: %s", humanize.Comma(int64(data.Height))))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Readings: %s", humanize.Comma(int64(data.BoundsTracker.Count()))))

	if !data.TimestampStart.IsZero() {
		sb.WriteString("; ")
		sb.WriteString(fmt.Sprintf("Time: %s - %s",
			data.TimestampStart.Format(a.config.DatetimeFormat),
			data.TimestampEnd.Format(a.config.DatetimeFormat)))
	}

	// Center text vertically in bottom border
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := img.Bounds().Max.Y - (a.config.Borders.Bottom-fontHeight)/2 - metrics.Descent.Round()

	pt := freetype.Pt(a.config.Borders.Left, textY)
	if _, err := a.context.DrawString(sb.String(), pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}
	return nil
}

// Helper functions

func calculateNiceIndexStep(width int) int {
	// Standard step sizes in ensembles
	steps := []int{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000, 10000}

	desiredSteps := float64(width) / pixelsPerLabel
	if desiredSteps < 1 {
		desiredSteps = 1
	}
	targetStep := float64(width) / desiredSteps

	// Find the closest standard step size
	for _, step := range steps {
		if float64(step) >= targetStep {
			// If this step would give us at least 2 labels
			if width/step >= 2 {
				return step
			}
			break
		}
	}

	// If we can't find a suitable step or would get too few labels,
	// return half the width to show at least two of them
	return max(width/2, 1)
}

func formatValueRange(min, max float64, unit string) string {
	if unit == "" {
		return fmt.Sprintf("%.2f - %.2f", min, max)
	}
	return fmt.Sprintf("%.2f - %.2f %s", min, max, unit)
}
