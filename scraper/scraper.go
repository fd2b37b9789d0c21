// Package scraper drives page fetches through extraction, validation and
// storage. Runs are sequential: one page is fetched, parsed and stored before
// the next request is made. A failing item is recorded in the run's Tally and
// the run moves on.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/extract"
	"github.com/padraicbc/keibadb/fetch"
	"github.com/padraicbc/keibadb/metrics"
	"github.com/padraicbc/keibadb/storage"
	"github.com/padraicbc/keibadb/validate"
)

// Failure is one item that could not be stored.
type Failure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Tally counts the outcome of every item in a run.
type Tally struct {
	Kind     string    `json:"kind"`
	Total    int       `json:"total"`
	Success  int       `json:"success"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures,omitempty"`
}

func (t *Tally) ok() {
	t.Total++
	t.Success++
	metrics.ScrapeItems.WithLabelValues(t.Kind, metrics.Success).Inc()
}

func (t *Tally) skip() {
	t.Total++
	t.Skipped++
	metrics.ScrapeItems.WithLabelValues(t.Kind, metrics.Skipped).Inc()
}

func (t *Tally) fail(id string, err error) {
	t.Total++
	t.Failed++
	t.Failures = append(t.Failures, Failure{ID: id, Reason: err.Error()})
	metrics.ScrapeItems.WithLabelValues(t.Kind, metrics.Failed).Inc()
}

// Fields summarises the tally for a log line.
func (t *Tally) Fields() []zap.Field {
	return []zap.Field{
		zap.String("kind", t.Kind),
		zap.Int("total", t.Total),
		zap.Int("success", t.Success),
		zap.Int("skipped", t.Skipped),
		zap.Int("failed", t.Failed),
	}
}

// Deps are the collaborators shared by every runner.
type Deps struct {
	Fetcher   fetch.Fetcher
	Store     storage.Store
	Extractor *extract.Extractor
	Policy    validate.Policy
	Log       *zap.Logger
}

// Options tune batch behaviour.
type Options struct {
	// SkipExisting skips detail pages whose record is already stored.
	SkipExisting bool
	// MaxPages bounds list pagination regardless of what the site returns.
	MaxPages int
}

// DefaultMaxPages applies when Options.MaxPages is not set.
const DefaultMaxPages = 50

type runner struct {
	Deps
	opts Options
}

func newRunner(d Deps, opts Options) runner {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Extractor == nil {
		d.Extractor = extract.New(extract.Options{})
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	return runner{Deps: d, opts: opts}
}

// page fetches and parses one document.
func (r *runner) page(ctx context.Context, path string, query url.Values) (dom.Node, error) {
	html, err := r.Fetcher.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(html)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// check logs violations and applies the validation policy.
func (r *runner) check(record, target string, violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	metrics.ValidationViolations.WithLabelValues(record).Add(float64(len(violations)))
	r.Log.Warn("validation",
		zap.String("record", record),
		zap.String("target", target),
		zap.Strings("violations", violations),
	)
	return r.Policy.Check(target, violations)
}

// sectionMissing counts and reports a missing section error.
func sectionMissing(err error) bool {
	var se *extract.SectionError
	if !errors.As(err, &se) {
		return false
	}
	metrics.MissingSections.WithLabelValues(se.Section).Inc()
	return true
}

// stopped reports whether the run should end because ctx is done.
func stopped(ctx context.Context) bool {
	return ctx.Err() != nil
}
