package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/padraicbc/keibadb/extract"
	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/relation"
	"github.com/padraicbc/keibadb/validate"
)

// HorseListQuery selects horses from the horse search, newest foals first.
type HorseListQuery struct {
	Grades []string
	// Offset skips this many horses from the start of the listing.
	Offset int
	Limit  int
	// MinBirthYear ends the listing at the first older horse.
	MinBirthYear int
	PerPage      int
}

func (q HorseListQuery) perPage() int {
	if q.PerPage <= 0 || q.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return q.PerPage
}

func (q HorseListQuery) values(page int) url.Values {
	v := url.Values{
		"sort":  {"age-desc"},
		"limit": {strconv.Itoa(q.perPage())},
		"page":  {strconv.Itoa(page)},
	}
	if len(q.Grades) > 0 {
		v["grade[]"] = q.Grades
	}
	return v
}

// HorseRunner scrapes horse profiles and links them into the pedigree graph.
type HorseRunner struct {
	runner
	resolver *relation.Resolver
}

func NewHorseRunner(d Deps, opts Options) *HorseRunner {
	r := newRunner(d, opts)
	return &HorseRunner{runner: r, resolver: relation.NewResolver(r.Store, r.Log)}
}

// ListHorseIDs walks the horse search from q.Offset. It stops at the limit,
// at the first horse born before MinBirthYear, at an empty or short page, or
// at MaxPages.
func (r *HorseRunner) ListHorseIDs(ctx context.Context, q HorseListQuery) ([]string, error) {
	per := q.perPage()
	first := q.Offset/per + 1
	skip := q.Offset % per

	var ids []string
	for page := first; page < first+r.opts.MaxPages && !stopped(ctx); page++ {
		doc, err := r.page(ctx, "/horse/list.html", q.values(page))
		if err != nil {
			if page == first {
				return nil, err
			}
			r.Log.Warn("horse list page failed", zap.Int("page", page), zap.Error(err))
			break
		}
		rows, err := r.Extractor.HorseList(doc)
		if err != nil {
			if sectionMissing(err) && page > first {
				break
			}
			return ids, err
		}
		if len(rows) == 0 {
			break
		}

		for i, row := range rows {
			if page == first && i < skip {
				continue
			}
			if q.MinBirthYear > 0 && row.BirthYear != nil && *row.BirthYear < q.MinBirthYear {
				r.Log.Debug("birth year floor reached", zap.String("horse_id", row.HorseID), zap.Int("birth_year", *row.BirthYear))
				return ids, nil
			}
			ids = append(ids, row.HorseID)
			if q.Limit > 0 && len(ids) >= q.Limit {
				return ids, nil
			}
		}
		if len(rows) < per {
			break
		}
	}
	return ids, nil
}

// RunList scrapes every horse the query lists.
func (r *HorseRunner) RunList(ctx context.Context, q HorseListQuery) (Tally, error) {
	ids, err := r.ListHorseIDs(ctx, q)
	if err != nil {
		return Tally{Kind: "horse"}, fmt.Errorf("listing horses: %w", err)
	}
	r.Log.Info("horses listed", zap.Int("count", len(ids)))
	return r.RunIDs(ctx, ids), nil
}

// RunIDs scrapes the given horses in order.
func (r *HorseRunner) RunIDs(ctx context.Context, ids []string) Tally {
	t := Tally{Kind: "horse"}
	for _, id := range ids {
		if stopped(ctx) {
			break
		}
		log := r.Log.With(zap.String("horse_id", id))
		if r.opts.SkipExisting {
			exists, err := r.Store.HorseExists(ctx, id)
			if err != nil {
				t.fail(id, err)
				log.Error("existence check", zap.Error(err))
				continue
			}
			if exists {
				t.skip()
				log.Debug("horse exists")
				continue
			}
		}
		if err := r.ScrapeHorse(ctx, id); err != nil {
			t.fail(id, err)
			log.Warn("horse failed", zap.Error(err))
			continue
		}
		t.ok()
		log.Info("horse stored")
	}
	return t
}

// ScrapeHorse stores one horse profile and its pedigree edges. When the
// profile page has no pedigree links the five generation page is tried.
func (r *HorseRunner) ScrapeHorse(ctx context.Context, horseID string) error {
	if horseID == "" || models.IsPlaceholderHorseID(horseID) {
		return fmt.Errorf("horse id %q cannot be scraped", horseID)
	}
	doc, err := r.page(ctx, "/horse/"+horseID+"/", nil)
	if err != nil {
		return err
	}
	hp, err := r.Extractor.Horse(doc, horseID)
	if err != nil {
		sectionMissing(err)
		return err
	}

	if hp.Pedigree.Empty() {
		if p, err := r.fiveGen(ctx, horseID); err != nil {
			r.Log.Warn("no pedigree", zap.String("horse_id", horseID), zap.Error(err))
		} else {
			hp.Pedigree = p
			extract.ApplyPedigree(hp.Horse, p)
		}
	}

	if err := r.check("horse", "horse "+horseID, validate.Horse(hp.Horse)); err != nil {
		return err
	}
	return r.resolver.Resolve(ctx, hp.Horse, hp.Pedigree)
}

func (r *HorseRunner) fiveGen(ctx context.Context, horseID string) (models.Pedigree, error) {
	doc, err := r.page(ctx, "/horse/ped/"+horseID+"/", nil)
	if err != nil {
		return models.Pedigree{}, err
	}
	p, err := r.Extractor.FiveGenPedigree(doc, horseID)
	if err != nil {
		sectionMissing(err)
	}
	return p, err
}
