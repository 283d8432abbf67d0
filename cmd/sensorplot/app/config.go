package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/hydrometrics/adcp-survey/internal/sensor"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

type Config struct {
	DBPath        string
	DeploymentID  int64
	Kind          sensor.Kind
	Origin        *sensor.Origin
	Original      bool
	OutputFile    string
	Format        ImageFormat
	Theme         ColorTheme
	FontPath      string
	BandHeight    int
	MinValue      *float64
	MaxValue      *float64
	MinTransect   *int
	MaxTransect   *int
	Verbose       bool
	NoAnnotations bool
}

func NewConfig() *Config {
	return &Config{
		Format:     ImagePNG,
		Theme:      ClassicTheme,
		BandHeight: defaultBandHeight,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var kind, origin, imageFormat, theme string
	var minValue, maxValue float64
	var minTransect, maxTransect int
	flag.StringVar(&c.DBPath, "db", "", "Path to the database file")
	flag.Int64Var(&c.DeploymentID, "d", 1, "Deployment ID")
	flag.StringVar(&kind, "k", string(sensor.KindTemperature), "Sensor kind to plot. [pitch, roll, temperature, salinity, sos]")
	flag.StringVar(&origin, "origin", "", "Plot a specific channel origin instead of the selected one. [internal, external, user]")
	flag.BoolVar(&c.Original, "orig", false, "Plot as-loaded values instead of the working series")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&theme, "theme", string(ClassicTheme), "Color theme. [classic, grayscale, jungle, thermal, marine]")
	flag.StringVar(&c.FontPath, "font", "", "Path to a TTF font used for annotations")
	flag.IntVar(&c.BandHeight, "band-height", defaultBandHeight, "Height of one transect band in pixels")
	flag.Float64Var(&minValue, "min-value", 0, "Define a manual minimum value (format nn.n)")
	flag.Float64Var(&maxValue, "max-value", 0, "Define a manual maximum value (format nn.n)")
	flag.IntVar(&minTransect, "min-transect", 0, "First transect sequence to include")
	flag.IntVar(&maxTransect, "max-transect", 0, "Last transect sequence to include")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable annotations such as scales and the info bar")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-value":
			c.MinValue = &minValue
		case "max-value":
			c.MaxValue = &maxValue
		case "min-transect":
			c.MinTransect = &minTransect
		case "max-transect":
			c.MaxTransect = &maxTransect
		}
	})

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.DeploymentID <= 0 {
		err = errors.New("deployment id is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if _, ok := validColorThemes[ColorTheme(theme)]; !ok {
		err = fmt.Errorf("invalid color theme: %s", theme)
	} else if c.BandHeight <= 0 {
		err = errors.New("band height must be positive")
	}

	if err == nil {
		c.Kind, err = sensor.ParseKind(kind)
	}
	if err == nil && origin != "" {
		var o sensor.Origin
		if o, err = sensor.ParseOrigin(origin); err == nil {
			c.Origin = &o
		}
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.Theme = ColorTheme(theme)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
