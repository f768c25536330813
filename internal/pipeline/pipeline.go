package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/RandomEdge999/RedSubContinent/internal/extract/adapters"
	"github.com/RandomEdge999/RedSubContinent/internal/geocode"
	"github.com/RandomEdge999/RedSubContinent/internal/model"
	"github.com/RandomEdge999/RedSubContinent/internal/store"
	"github.com/RandomEdge999/RedSubContinent/internal/util"
	"github.com/RandomEdge999/RedSubContinent/internal/worker"
)

// Pipeline orchestrates scraping, cleaning and persistence
type Pipeline struct {
	cfg      *model.Config
	fetcher  *Fetcher
	registry *adapters.Registry
	cleaner  *Cleaner
	geocoder *geocode.Geocoder
	sinks    []store.Sink
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithFetcher replaces the configured fetcher
func WithFetcher(f *Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithGeocoder replaces the configured geocoder
func WithGeocoder(g *geocode.Geocoder) Option {
	return func(p *Pipeline) { p.geocoder = g }
}

// WithSink adds an output in addition to the JSON artifact
func WithSink(s store.Sink) Option {
	return func(p *Pipeline) { p.sinks = append(p.sinks, s) }
}

// WithClock sets the time source for checkpoint timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pipeline{
		cfg:      cfg,
		registry: adapters.NewRegistry(cfg.Extract, cfg.Sources, logger),
		cleaner:  NewCleaner(cfg.Pipeline, nil),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.fetcher == nil {
		p.fetcher = NewFetcher(cfg.HTTP, cfg.Fetch, logger)
	}
	if p.geocoder == nil {
		client := geocode.NewNominatimClient(util.NewHTTPClient(cfg.HTTP), cfg.Geocode.BaseURL, cfg.HTTP.UserAgent, cfg.Geocode.Email)
		p.geocoder = geocode.Open(cfg.Geocode, client, logger)
	}
	return p
}

// CheckpointPath is where the raw checkpoint is written
func (p *Pipeline) CheckpointPath() string {
	return filepath.Join(p.cfg.Pipeline.OutputDir, p.cfg.Pipeline.RawCheckpoint)
}

// OutputPath is where the cleaned artifact is written
func (p *Pipeline) OutputPath() string {
	return filepath.Join(p.cfg.Pipeline.OutputDir, p.cfg.Pipeline.CleanedFile)
}

// Geocoder returns the run's geocoder
func (p *Pipeline) Geocoder() *geocode.Geocoder {
	return p.geocoder
}

// RunOptions selects where raw records come from
type RunOptions struct {
	// URLs overrides the registered source pages
	URLs []string
	// FromCheckpoint loads raw records from this file instead of scraping
	FromCheckpoint string
}

// Run executes the full pipeline: raw records are loaded or scraped and
// checkpointed, then cleaned and written to every sink
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	report := newReport(p.now())

	var cp *model.RawCheckpoint
	if opts.FromCheckpoint != "" {
		loaded, err := LoadCheckpoint(opts.FromCheckpoint)
		if err != nil {
			return report, eris.Wrap(err, "pipeline: load checkpoint")
		}
		cp = loaded
		report.CheckpointPath = opts.FromCheckpoint
	} else {
		scraped, err := p.scrape(ctx, opts.URLs, report)
		if err != nil {
			return report, err
		}
		cp = scraped
	}

	if err := p.clean(ctx, cp, report); err != nil {
		return report, err
	}
	report.FinishedAt = p.now()
	return report, nil
}

// Scrape fetches and extracts every source page, then writes the raw checkpoint
func (p *Pipeline) Scrape(ctx context.Context, urls []string) (*model.RawCheckpoint, *Report, error) {
	report := newReport(p.now())
	cp, err := p.scrape(ctx, urls, report)
	report.FinishedAt = p.now()
	return cp, report, err
}

// Clean cleans a loaded checkpoint and writes every sink
func (p *Pipeline) Clean(ctx context.Context, cp *model.RawCheckpoint) (*Report, error) {
	report := newReport(p.now())
	err := p.clean(ctx, cp, report)
	report.FinishedAt = p.now()
	return report, err
}

func (p *Pipeline) scrape(ctx context.Context, urls []string, report *Report) (*model.RawCheckpoint, error) {
	if len(urls) == 0 {
		urls = p.registry.SourceURLs()
	}

	batches := make([]model.SourceBatch, 0, len(urls))
	for _, u := range urls {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		batch := p.scrapeOne(ctx, u)
		batches = append(batches, batch)

		summary := SourceSummary{URL: u, Adapter: batch.Adapter, Records: len(batch.Records)}
		if batch.Err != nil {
			summary.Error = batch.Err.Error()
		}
		report.Sources = append(report.Sources, summary)
	}

	cp := NewCheckpoint(p.now(), batches)
	report.RawRecords = cp.ConflictCount

	path := p.CheckpointPath()
	if err := WriteCheckpoint(path, cp); err != nil {
		return nil, eris.Wrap(err, "pipeline: write checkpoint")
	}
	report.CheckpointPath = path
	p.logger.Info("pipeline: checkpoint written",
		zap.String("path", path),
		zap.Int("sources", cp.SourceCount),
		zap.Int("records", cp.ConflictCount))

	return cp, nil
}

// scrapeOne never fails the run: errors are recorded on the batch
func (p *Pipeline) scrapeOne(ctx context.Context, rawURL string) model.SourceBatch {
	source := p.registry.FindSource(rawURL)
	batch := model.SourceBatch{SourceURL: rawURL, Adapter: source.Name(), Records: []model.RawRecord{}}

	result, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		p.logger.Warn("pipeline: fetch failed", zap.String("url", rawURL), zap.Error(err))
		batch.Err = err
		return batch
	}

	records, err := source.Parse(result.HTML, rawURL)
	if err != nil {
		p.logger.Warn("pipeline: extraction failed", zap.String("url", rawURL), zap.Error(err))
		batch.Err = err
		return batch
	}

	p.logger.Info("pipeline: scraped source",
		zap.String("url", rawURL),
		zap.String("adapter", source.Name()),
		zap.Int("records", len(records)),
		zap.Bool("cached", result.FromCache))
	batch.Records = records
	return batch
}

func (p *Pipeline) clean(ctx context.Context, cp *model.RawCheckpoint, report *Report) error {
	report.RawRecords = len(cp.Conflicts)
	accessed := model.DateOf(cp.ScrapedAt)

	// Parsing is pure, so it fans out; geocoding below stays sequential
	drafts, err := worker.Map(ctx, p.cfg.Pipeline.Workers, cp.Conflicts,
		func(_ context.Context, raw model.RawRecord) model.CleanedRecord {
			return p.cleaner.Draft(raw, accessed)
		})
	if err != nil {
		return err
	}

	cleaned := make([]model.CleanedRecord, 0, len(drafts))
	seen := make(map[string]bool)
	for i := range drafts {
		rec := drafts[i]
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if rec.Slug != "" && seen[rec.Slug] {
			report.Duplicates++
			p.logger.Debug("pipeline: duplicate slug", zap.String("slug", rec.Slug), zap.String("title", rec.Title))
			continue
		}

		p.cleaner.Locate(ctx, &rec, p.geocoder)

		if err := p.cleaner.Finalize(&rec); err != nil {
			reason := dropReason(err)
			report.Dropped[reason]++
			p.logger.Warn("pipeline: dropping record",
				zap.String("title", rec.Title),
				zap.String("source", cp.Conflicts[i].SourceURL),
				zap.String("reason", reason),
				zap.Error(err))
			continue
		}

		seen[rec.Slug] = true
		cleaned = append(cleaned, rec)
		report.ByType[rec.ConflictType]++
	}

	report.Cleaned = len(cleaned)
	report.Geocode = p.geocoder.Stats()
	p.logger.Info("pipeline: cleaning complete",
		zap.Int("raw", report.RawRecords),
		zap.Int("cleaned", report.Cleaned),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("dropped", report.DroppedTotal()))

	return p.write(ctx, cleaned, report)
}

func (p *Pipeline) write(ctx context.Context, records []model.CleanedRecord, report *Report) error {
	path := p.OutputPath()
	if err := store.NewJSONSink(path).Write(ctx, records); err != nil {
		return eris.Wrap(err, "pipeline: write cleaned output")
	}
	report.OutputPath = path

	for _, sink := range p.sinks {
		if err := sink.Write(ctx, records); err != nil {
			return eris.Wrapf(err, "pipeline: write %s", sink.Name())
		}
		p.logger.Info("pipeline: sink written", zap.String("sink", sink.Name()), zap.Int("records", len(records)))
	}
	return nil
}

// Close releases every extra sink
func (p *Pipeline) Close(ctx context.Context) error {
	var first error
	for _, sink := range p.sinks {
		if err := sink.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
