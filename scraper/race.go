package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/validate"
)

// MaxPerPage is the largest page size the list pages accept.
const MaxPerPage = 100

// Grade codes used by the list searches' grade[] parameter.
const (
	ListG1 = "1"
	ListG2 = "2"
	ListG3 = "3"
	// HorseListG1Winners selects horses with a G1 win on the horse search.
	HorseListG1Winners = "4"
)

// ListQuery selects races from the race search.
type ListQuery struct {
	StartYear int
	EndYear   int
	Grades    []string
	// Tracks are venue codes, all JRA courses when empty.
	Tracks  []string
	PerPage int
	// Limit stops the listing after this many race ids, 0 for no limit.
	Limit int
}

func (q ListQuery) perPage() int {
	if q.PerPage <= 0 || q.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return q.PerPage
}

func (q ListQuery) values(page int) url.Values {
	v := url.Values{
		"pid":       {"race_list"},
		"word":      {""},
		"start_mon": {"none"},
		"end_mon":   {"none"},
		"sort":      {"date"},
		"list":      {strconv.Itoa(q.perPage())},
		"page":      {strconv.Itoa(page)},
	}
	if q.StartYear > 0 {
		v.Set("start_year", strconv.Itoa(q.StartYear))
	}
	if q.EndYear > 0 {
		v.Set("end_year", strconv.Itoa(q.EndYear))
	}
	tracks := q.Tracks
	if len(tracks) == 0 {
		for _, t := range models.JRATracks {
			tracks = append(tracks, t.Code)
		}
	}
	v["jyo[]"] = tracks
	if len(q.Grades) > 0 {
		v["grade[]"] = q.Grades
	}
	return v
}

// RaceRunner scrapes race detail pages.
type RaceRunner struct {
	runner
}

func NewRaceRunner(d Deps, opts Options) *RaceRunner {
	return &RaceRunner{runner: newRunner(d, opts)}
}

// ListRaceIDs pages through the race search until a page adds no new race
// id, a page comes back short, the limit is reached or MaxPages is hit.
func (r *RaceRunner) ListRaceIDs(ctx context.Context, q ListQuery) ([]string, error) {
	seen := map[string]bool{}
	var ids []string
	for page := 1; page <= r.opts.MaxPages && !stopped(ctx); page++ {
		doc, err := r.page(ctx, "/", q.values(page))
		if err != nil {
			if page == 1 {
				return nil, err
			}
			r.Log.Warn("race list page failed", zap.Int("page", page), zap.Error(err))
			break
		}
		rows, err := r.Extractor.RaceList(doc)
		if err != nil {
			if sectionMissing(err) && page > 1 {
				break
			}
			return ids, err
		}

		fresh := 0
		for _, row := range rows {
			if seen[row.RaceID] {
				continue
			}
			seen[row.RaceID] = true
			ids = append(ids, row.RaceID)
			fresh++
			if q.Limit > 0 && len(ids) >= q.Limit {
				return ids, nil
			}
		}
		r.Log.Debug("race list page", zap.Int("page", page), zap.Int("rows", len(rows)), zap.Int("new", fresh))
		if fresh == 0 || len(rows) < q.perPage() {
			break
		}
	}
	return ids, nil
}

// RunList scrapes every race the query lists.
func (r *RaceRunner) RunList(ctx context.Context, q ListQuery) (Tally, error) {
	ids, err := r.ListRaceIDs(ctx, q)
	if err != nil {
		return Tally{Kind: "race"}, fmt.Errorf("listing races: %w", err)
	}
	r.Log.Info("races listed", zap.Int("count", len(ids)))
	return r.RunIDs(ctx, ids), nil
}

// RunIDs scrapes the given races in order.
func (r *RaceRunner) RunIDs(ctx context.Context, ids []string) Tally {
	t := Tally{Kind: "race"}
	for _, id := range ids {
		if stopped(ctx) {
			break
		}
		log := r.Log.With(zap.String("race_id", id))
		if r.opts.SkipExisting {
			exists, err := r.Store.RaceExists(ctx, id)
			if err != nil {
				t.fail(id, err)
				log.Error("existence check", zap.Error(err))
				continue
			}
			if exists {
				t.skip()
				log.Debug("race exists")
				continue
			}
		}
		if err := r.ScrapeRace(ctx, id); err != nil {
			t.fail(id, err)
			log.Warn("race failed", zap.Error(err))
			continue
		}
		t.ok()
		log.Info("race stored")
	}
	return t
}

// ScrapeRace fetches one race page and stores the race, its results and its
// payouts. A page without a payout table is still stored.
func (r *RaceRunner) ScrapeRace(ctx context.Context, raceID string) error {
	if len(raceID) != models.RaceIDLength {
		return fmt.Errorf("race id %q must be %d characters", raceID, models.RaceIDLength)
	}
	doc, err := r.page(ctx, "/race/"+raceID+"/", nil)
	if err != nil {
		return err
	}

	race, err := r.Extractor.RaceDetail(doc, raceID)
	if err != nil {
		sectionMissing(err)
		return err
	}
	results, err := r.Extractor.Results(doc, raceID)
	if err != nil {
		sectionMissing(err)
		return err
	}
	payouts, err := r.Extractor.Payouts(doc, raceID)
	if err != nil {
		if !sectionMissing(err) {
			return err
		}
		r.Log.Warn("no payouts", zap.String("race_id", raceID), zap.Error(err))
	}

	target := "race " + raceID
	if err := r.check("race", target, r.Policy.Race(race)); err != nil {
		return err
	}
	for i := range results {
		if err := r.check("race_result", target, validate.RaceResult(&results[i])); err != nil {
			return err
		}
	}
	if err := r.check("race_payout", target, validate.PayoutSet(payouts)); err != nil {
		return err
	}

	if err := r.Store.SaveRace(ctx, race, results, payouts); err != nil {
		return fmt.Errorf("saving race %s: %w", raceID, err)
	}
	return nil
}
