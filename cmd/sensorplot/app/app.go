package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/hydrometrics/adcp-survey/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	return renderTraces(ctx, store, config, logger)
}

func renderTraces(ctx context.Context, store *storage.SqliteStore, config *Config, logger *slog.Logger) error {
	opts := []storage.ReaderOption{storage.WithKind(config.Kind)}
	filters := []any{slog.String("kind", string(config.Kind))}

	if config.Origin != nil {
		opts = append(opts, storage.WithOrigin(*config.Origin))
		filters = append(filters, slog.String("origin", string(*config.Origin)))
	} else {
		opts = append(opts, storage.WithSelectedOnly())
		filters = append(filters, slog.Bool("selectedOnly", true))
	}

	switch {
	case config.MinTransect != nil && config.MaxTransect != nil:
		opts = append(opts, storage.WithSeqRange(*config.MinTransect, *config.MaxTransect))

		filters = append(filters,
			slog.Int("minTransect", *config.MinTransect),
			slog.Int("maxTransect", *config.MaxTransect))

	case config.MinTransect != nil:
		opts = append(opts, storage.WithMinSeq(*config.MinTransect))
		filters = append(filters, slog.Int("minTransect", *config.MinTransect))

	case config.MaxTransect != nil:
		opts = append(opts, storage.WithMaxSeq(*config.MaxTransect))
		filters = append(filters, slog.Int("maxTransect", *config.MaxTransect))
	}

	logger.Info("iterator configuration", filters...)

	iter, err := store.ReadTraces(ctx, config.DeploymentID, opts...)
	if err != nil {
		return err
	}
	defer iter.Close()

	data := NewTraceData(config.Kind, NewBoundsTracker(), config.Original)
	data.StationName = iter.Deployment().StationName

	for iter.Next(ctx) {
		span := iter.Current()
		logger.Debug("channel trace",
			slog.Int("transect", span.Transect.Seq),
			slog.Int("traces", len(span.Traces)))

		data.Update(span)
	}
	if err = iter.Error(); err != nil {
		return err
	}

	if data.Height == 0 {
		return fmt.Errorf("no channel traces matched the configured filters")
	}

	bounds := data.BoundsTracker.Current()

	stats := []any{
		slog.Int("transects", data.Height),
		slog.Int("readings", data.BoundsTracker.Count()),
		slog.Int("minTransect", data.SeqStart),
		slog.Int("maxTransect", data.SeqEnd),
		slog.String("minValue", fmt.Sprintf("%0.2f", bounds.Min)),
		slog.String("maxValue", fmt.Sprintf("%0.2f", bounds.Max)),
	}
	if !data.TimestampStart.IsZero() {
		stats = append(stats,
			slog.String("minTimestamp", data.TimestampStart.Format(time.DateTime)),
			slog.String("maxTimestamp", data.TimestampEnd.Format(time.DateTime)))
	}

	logger.Info("finished reading channel traces", slog.Group("stats", stats...))

	annotate := !config.NoAnnotations && config.FontPath != ""
	if !config.NoAnnotations && config.FontPath == "" {
		logger.Warn("no font file configured, annotations are disabled")
	}

	renderer, err := NewTraceRenderer(RenderConfig{
		FontPath:   config.FontPath,
		ColorTheme: config.Theme,
		BandHeight: config.BandHeight,
		MinValue:   config.MinValue,
		MaxValue:   config.MaxValue,
		Annotate:   annotate,
	})
	if err != nil {
		return fmt.Errorf("creating trace renderer: %w", err)
	}

	logger.Info("rendering channel traces",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.String("theme", string(config.Theme)),
			slog.Int("width", data.Width),
			slog.Int("height", data.Height*config.BandHeight),
		))

	img, err := renderer.Render(data)
	if err != nil {
		return fmt.Errorf("rendering channel traces: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)
	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	if cErr := out.Close(); cErr != nil && err == nil {
		err = cErr
	}
	return err
}
