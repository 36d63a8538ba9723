package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"xsearch/internal/analytics"
	"xsearch/internal/config"
	"xsearch/internal/ingest"
	"xsearch/internal/logging"
	"xsearch/internal/metrics"
	"xsearch/internal/model"
	"xsearch/internal/query"
	"xsearch/internal/sink"
)

// ErrConfiguration marks failures detected before any request is sent.
var ErrConfiguration = errors.New("configuration error")

// SearchOptions are the per-run inputs, typically from CLI flags.
type SearchOptions struct {
	Hashtags []string
	Preset   string
	Lang     string
	Since    string
	Until    string
	// Limit <= 0 means no limit
	Limit int
	// Format overrides cfg.Output.Format when set
	Format string
}

// Plan is what a run will do, resolved before retrieval.
type Plan struct {
	Params ingest.Params
	Format sink.Format
	Meta   model.SearchMetadata
}

// Outcome reports a finished run. Path is empty when nothing was written.
type Outcome struct {
	Plan    Plan
	Records []model.Record
	Pages   int
	Stop    ingest.StopReason
	// StopErr is the retrieval error that ended pagination, if any
	StopErr error
	Path    string
}

// Prepare validates options and resolves the query, window, output format and metadata.
func Prepare(cfg config.Config, opts SearchOptions, now time.Time) (Plan, error) {
	var p Plan
	presets := query.NewPresets(cfg.Presets)
	terms, err := query.Terms(presets, opts.Preset, opts.Hashtags)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	window, err := query.NewWindow(opts.Since, opts.Until, now)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	name := opts.Format
	if name == "" {
		name = cfg.Output.Format
	}
	format, err := sink.ParseFormat(name)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	q := query.Build(terms, opts.Lang)
	p.Params = ingest.Params{Query: q, Limit: opts.Limit, Window: window}
	p.Format = format
	p.Meta = model.SearchMetadata{
		RunID:      uuid.NewString(),
		Query:      q,
		Preset:     opts.Preset,
		Hashtags:   terms,
		Lang:       opts.Lang,
		Since:      opts.Since,
		Until:      opts.Until,
		ExecutedAt: now.UTC(),
	}
	return p, nil
}

// RunSearch prepares, collects and saves one search run.
// Retrieval failures never fail the run: they end pagination and are reported in Outcome.
// Only configuration and write failures return an error.
func RunSearch(ctx context.Context, s ingest.Searcher, cfg config.Config, opts SearchOptions, now func() time.Time) (Outcome, error) {
	start := time.Now()
	defer metrics.ObserveRunDuration(start)

	plan, err := Prepare(cfg, opts, now())
	if err != nil {
		return Outcome{}, err
	}
	logging.Debug("search_plan", map[string]any{
		"query":     plan.Params.Query,
		"window":    plan.Params.Window.String(),
		"page_size": ingest.PageSize,
		"limit":     plan.Params.Limit,
		"format":    string(plan.Format),
		"run_id":    plan.Meta.RunID,
	})

	res := ingest.Collect(ctx, s, plan.Params)
	out := Outcome{Plan: plan, Records: res.Records, Pages: res.Pages, Stop: res.Stop, StopErr: res.Err}
	logging.Info("search_collected", map[string]any{
		"records": len(res.Records),
		"pages":   res.Pages,
		"stop":    string(res.Stop),
		"run_id":  plan.Meta.RunID,
	})
	if len(res.Records) == 0 {
		return out, nil
	}
	if logging.Verbose() {
		logging.Debug("search_summary", analytics.Summarize(res.Records, 5).Fields())
	}

	// partial results are still written after an interrupt
	path, err := sink.Save(context.WithoutCancel(ctx), cfg.Output.Dir, cfg.Output.Prefix, plan.Format, now(), res.Records, &plan.Meta)
	if err != nil {
		return out, err
	}
	out.Path = path
	logging.Info("search_saved", map[string]any{"path": path, "records": len(res.Records)})
	return out, nil
}
