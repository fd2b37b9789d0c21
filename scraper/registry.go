package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/validate"
)

// Kind names a registry list.
type Kind string

const (
	Jockeys  Kind = "jockey"
	Trainers Kind = "trainer"
	Owners   Kind = "owner"
	Breeders Kind = "breeder"
)

// Kinds are the registry lists in the order a full run visits them.
var Kinds = []Kind{Jockeys, Trainers, Owners, Breeders}

// ParseKind accepts the singular or plural list name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if s == string(k) || s == string(k)+"s" {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown registry %q", s)
}

func registryValues(page int) url.Values {
	return url.Values{
		"type":  {""},
		"word":  {""},
		"match": {"p"},
		"range": {"all"},
		"state": {"all"},
		"sort":  {"rank-asc"},
		"limit": {strconv.Itoa(MaxPerPage)},
		"page":  {strconv.Itoa(page)},
	}
}

// RegistryRunner scrapes the jockey, trainer, owner and breeder rankings.
type RegistryRunner struct {
	runner
	// Year keys the yearly snapshot stored with each record.
	Year int
}

func NewRegistryRunner(d Deps, opts Options) *RegistryRunner {
	return &RegistryRunner{runner: newRunner(d, opts), Year: time.Now().Year()}
}

// Run stores up to limit records of kind, one page at a time. It stops on an
// empty or short page, at the limit or at MaxPages. A limit of 0 means no limit.
func (r *RegistryRunner) Run(ctx context.Context, kind Kind, limit int) (Tally, error) {
	t := Tally{Kind: string(kind)}
	path := "/" + string(kind) + "/list.html"
	for page := 1; page <= r.opts.MaxPages && !stopped(ctx); page++ {
		room := MaxPerPage
		if limit > 0 {
			room = min(room, limit-t.Total)
		}
		if room <= 0 {
			break
		}

		doc, err := r.page(ctx, path, registryValues(page))
		if err != nil {
			if page == 1 {
				return t, err
			}
			r.Log.Warn("registry page failed", zap.String("kind", string(kind)), zap.Int("page", page), zap.Error(err))
			break
		}
		rows, err := r.savePage(ctx, &t, kind, doc, room)
		if err != nil {
			if sectionMissing(err) && page > 1 {
				break
			}
			return t, err
		}
		r.Log.Info("registry page", zap.String("kind", string(kind)), zap.Int("page", page), zap.Int("rows", rows))
		if rows < MaxPerPage {
			break
		}
	}
	return t, nil
}

// savePage extracts, validates and upserts one page and returns the number
// of rows the page held.
func (r *RegistryRunner) savePage(ctx context.Context, t *Tally, kind Kind, doc dom.Node, room int) (int, error) {
	switch kind {
	case Jockeys:
		js, err := r.Extractor.Jockeys(doc, r.Year)
		if err != nil {
			return 0, err
		}
		keep, ids := admit(r, t, kind, js[:min(len(js), room)], func(j *models.Jockey) (string, *models.Performance) {
			return j.JockeyID, &j.Performance
		})
		r.tallyUpsert(t, ids, r.Store.UpsertJockeys(ctx, keep))
		return len(js), nil
	case Trainers:
		ts, err := r.Extractor.Trainers(doc, r.Year)
		if err != nil {
			return 0, err
		}
		keep, ids := admit(r, t, kind, ts[:min(len(ts), room)], func(tr *models.Trainer) (string, *models.Performance) {
			return tr.TrainerID, &tr.Performance
		})
		r.tallyUpsert(t, ids, r.Store.UpsertTrainers(ctx, keep))
		return len(ts), nil
	case Owners:
		os, err := r.Extractor.Owners(doc, r.Year)
		if err != nil {
			return 0, err
		}
		keep, ids := admit(r, t, kind, os[:min(len(os), room)], func(o *models.Owner) (string, *models.Performance) {
			return o.OwnerID, &o.Performance
		})
		r.tallyUpsert(t, ids, r.Store.UpsertOwners(ctx, keep))
		return len(os), nil
	case Breeders:
		bs, err := r.Extractor.Breeders(doc, r.Year)
		if err != nil {
			return 0, err
		}
		keep, ids := admit(r, t, kind, bs[:min(len(bs), room)], func(b *models.Breeder) (string, *models.Performance) {
			return b.BreederID, &b.Performance
		})
		r.tallyUpsert(t, ids, r.Store.UpsertBreeders(ctx, keep))
		return len(bs), nil
	}
	return 0, fmt.Errorf("unknown registry %q", kind)
}

// admit validates each record and returns the ones the policy lets through.
func admit[T any](r *RegistryRunner, t *Tally, kind Kind, rows []T, key func(*T) (string, *models.Performance)) ([]T, []string) {
	keep := make([]T, 0, len(rows))
	var ids []string
	for i := range rows {
		id, perf := key(&rows[i])
		if err := r.check(string(kind), string(kind)+" "+id, validate.Person(id, perf)); err != nil {
			t.fail(id, err)
			continue
		}
		keep = append(keep, rows[i])
		ids = append(ids, id)
	}
	return keep, ids
}

func (r *RegistryRunner) tallyUpsert(t *Tally, ids []string, err error) {
	for _, id := range ids {
		if err != nil {
			t.fail(id, err)
			continue
		}
		t.ok()
	}
	if err != nil {
		r.Log.Error("registry upsert", zap.String("kind", t.Kind), zap.Int("rows", len(ids)), zap.Error(err))
	}
}
