package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/hydrometrics/adcp-survey/internal/sensor"
	"github.com/hydrometrics/adcp-survey/internal/session"
	"github.com/hydrometrics/adcp-survey/internal/storage"
)

const defaultWorkers = 4

// WithWorkers sets the number of deployment documents archived concurrently.
func WithWorkers(n int) func(*Importer) {
	return func(im *Importer) {
		if n > 0 {
			im.workers = n
		}
	}
}

// WithCheckedOnly restricts the import to transects marked for use in
// discharge processing.
func WithCheckedOnly() func(*Importer) {
	return func(im *Importer) {
		im.checkedOnly = true
	}
}

// Importer archives deployment documents into a sensor archive database.
// Documents are fanned out to a pool of workers, and per-document results
// are funnelled into a single consumer that logs failures and keeps totals.
type Importer struct {
	logger *slog.Logger
	store  storage.Store

	workers     int
	checkedOnly bool

	wg sync.WaitGroup
}

// NewImporter creates a new Importer
func NewImporter(store storage.Store, logger *slog.Logger, options ...func(*Importer)) *Importer {
	im := Importer{
		logger:  logger,
		store:   store,
		workers: defaultWorkers,
	}

	for _, option := range options {
		option(&im)
	}

	return &im
}

type importResult struct {
	path      string
	transects int
	channels  int
	readings  int64
	err       error
}

type importTotals struct {
	deployments int64
	transects   int64
	channels    int64
	readings    int64
	failed      int64
}

// Run archives every document in files and logs aggregate totals once all
// workers finish. A document that fails to import is logged and skipped; Run
// returns an error only when nothing could be archived.
func (im *Importer) Run(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("no documents to import")
	}

	jobs := make(chan string, len(files))
	results := make(chan importResult, len(files))
	startGate := make(chan struct{})
	done := make(chan struct{})

	var totals importTotals
	go im.handleResults(results, &totals, done)

	for range min(im.workers, len(files)) {
		im.wg.Add(1)
		go im.beginImport(ctx, jobs, results, startGate)
	}

	for _, path := range files {
		jobs <- path
	}
	close(jobs)

	close(startGate) // Start the import goroutines

	im.wg.Wait()

	close(results) // Close the results channel and signal the consumer to stop
	<-done

	im.logger.Info(fmt.Sprintf("archived %s deployments, %s transects, %s channels, %s readings",
		humanize.Comma(totals.deployments),
		humanize.Comma(totals.transects),
		humanize.Comma(totals.channels),
		humanize.Comma(totals.readings)))

	if totals.failed > 0 && totals.deployments == 0 {
		return fmt.Errorf("all %d documents failed to import", totals.failed)
	}
	return nil
}

func (im *Importer) beginImport(ctx context.Context, jobs <-chan string, results chan<- importResult, startGate chan struct{}) {
	defer im.wg.Done()

	<-startGate

	for path := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- im.importDocument(ctx, path)
	}
}

func (im *Importer) handleResults(results chan importResult, totals *importTotals, done chan struct{}) {
	defer close(done)

	for res := range results {
		if res.err != nil {
			im.logger.Error(res.err.Error(), slog.String("path", res.path))
			totals.failed++
			continue
		}

		im.logger.Info("archived deployment document",
			slog.String("path", res.path),
			slog.Int("transects", res.transects),
			slog.Int("channels", res.channels))

		totals.deployments++
		totals.transects += int64(res.transects)
		totals.channels += int64(res.channels)
		totals.readings += res.readings
	}
}

func (im *Importer) importDocument(ctx context.Context, path string) importResult {
	res := importResult{path: path}

	doc, err := session.Load(path)
	if err != nil {
		res.err = err
		return res
	}

	var site any
	if doc.Site != nil {
		site = doc.Site
	}

	deploymentID, err := im.store.CreateDeployment(ctx, doc.StationName, doc.StationID, site)
	if err != nil {
		res.err = fmt.Errorf("creating deployment: %w", err)
		return res
	}

	for i := range doc.Transects {
		t := &doc.Transects[i]
		if im.checkedOnly && !t.Checked {
			continue
		}

		if err = im.importTransect(ctx, deploymentID, i, t, &res); err != nil {
			res.err = fmt.Errorf("transect %s: %w", t.FileName, err)
			return res
		}
	}
	return res
}

func (im *Importer) importTransect(ctx context.Context, deploymentID int64, seq int, t *session.Transect, res *importResult) error {
	transectID, err := im.store.StoreTransect(ctx, deploymentID, seq, t)
	if err != nil {
		return fmt.Errorf("storing transect: %w", err)
	}

	suite, err := t.Suite()
	if err != nil {
		return fmt.Errorf("building sensor suite: %w", err)
	}

	for kind, group := range suite.All() {
		for _, origin := range sensor.Origins() {
			ch := group.Channel(origin)
			if ch == nil {
				continue
			}

			selected := group.SelectedOrigin() == origin
			if _, err = im.store.StoreChannel(ctx, transectID, kind, origin, ch, selected); err != nil {
				return fmt.Errorf("storing %s %s channel: %w", origin, kind, err)
			}

			res.channels++
			res.readings += int64(max(len(ch.Data()), len(ch.OriginalData())))
		}
	}

	res.transects++
	return nil
}
