package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/keibadb/models"
)

// RaceFilter narrows Races. Zero values match everything.
type RaceFilter struct {
	From  string // inclusive ISO date
	To    string // inclusive ISO date
	Grade *models.Grade
	Limit int
}

// DefaultRaceLimit caps Races when the filter leaves Limit unset.
const DefaultRaceLimit = 100

// Races lists races newest first.
func (s *DB) Races(ctx context.Context, f RaceFilter) ([]models.Race, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultRaceLimit
	}
	races := []models.Race{}
	q := s.db.NewSelect().Model(&races).
		OrderExpr("rc.race_date DESC, rc.race_id DESC").
		Limit(f.Limit)
	if f.From != "" {
		q = q.Where("rc.race_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("rc.race_date <= ?", f.To)
	}
	if f.Grade != nil {
		q = q.Where("rc.grade = ?", *f.Grade)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("listing races: %w", err)
	}
	return races, nil
}

// RaceCard is a race with everything stored for it.
type RaceCard struct {
	*models.Race
	Results []models.RaceResult `json:"results"`
	Payouts []models.RacePayout `json:"payouts"`
}

// Race returns one race with its results in finishing order and its payouts.
func (s *DB) Race(ctx context.Context, raceID string) (*RaceCard, error) {
	card := &RaceCard{
		Race:    new(models.Race),
		Results: []models.RaceResult{},
		Payouts: []models.RacePayout{},
	}
	err := s.db.NewSelect().Model(card.Race).Where("race_id = ?", raceID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading race %s: %w", raceID, err)
	}

	if err := s.db.NewSelect().Model(&card.Results).
		Where("race_id = ?", raceID).
		OrderExpr("finish_position IS NULL, finish_position, horse_number").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("loading results of %s: %w", raceID, err)
	}
	if err := s.db.NewSelect().Model(&card.Payouts).
		Where("race_id = ?", raceID).
		OrderExpr("bet_type, combination").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("loading payouts of %s: %w", raceID, err)
	}
	return card, nil
}

// HistoryEntry is a result row with the race it belongs to.
type HistoryEntry struct {
	models.RaceResult `bun:",extend"`

	RaceDate  string           `bun:"race_date" json:"raceDate"`
	RaceName  string           `bun:"race_name" json:"raceName"`
	TrackName string           `bun:"track_name" json:"trackName"`
	Distance  int              `bun:"distance" json:"distance"`
	TrackType models.TrackType `bun:"track_type" json:"trackType,omitempty"`
	Grade     *models.Grade    `bun:"grade" json:"grade,omitempty"`
}

// HorseHistory returns a horse's results, most recent race first.
func (s *DB) HorseHistory(ctx context.Context, horseID string) ([]HistoryEntry, error) {
	rows := []HistoryEntry{}
	err := s.db.NewSelect().Model(&rows).
		ColumnExpr("rr.*").
		ColumnExpr("rc.race_date, rc.race_name, rc.track_name, rc.distance, rc.track_type, rc.grade").
		Join("JOIN races AS rc ON rc.race_id = rr.race_id").
		Where("rr.horse_id = ?", horseID).
		OrderExpr("rc.race_date DESC, rr.race_id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading history of %s: %w", horseID, err)
	}
	return rows, nil
}

// Relations returns every edge touching horseID.
func (s *DB) Relations(ctx context.Context, horseID string) ([]models.HorseRelation, error) {
	rels := []models.HorseRelation{}
	err := s.db.NewSelect().Model(&rels).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("horse_a_id = ?", horseID).WhereOr("horse_b_id = ?", horseID)
		}).
		OrderExpr("relation_type, id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading relations of %s: %w", horseID, err)
	}
	return rels, nil
}

// Stats summarises what has been scraped so far.
type Stats struct {
	Tables         map[string]int `json:"tables"`
	LatestRaceDate string         `json:"latestRaceDate,omitempty"`
	G1Races        int            `json:"g1Races"`
}

var statTables = []struct {
	name  string
	model any
}{
	{"races", (*models.Race)(nil)},
	{"race_results", (*models.RaceResult)(nil)},
	{"race_payouts", (*models.RacePayout)(nil)},
	{"horses", (*models.Horse)(nil)},
	{"horse_relations", (*models.HorseRelation)(nil)},
	{"jockeys", (*models.Jockey)(nil)},
	{"trainers", (*models.Trainer)(nil)},
	{"owners", (*models.Owner)(nil)},
	{"breeders", (*models.Breeder)(nil)},
}

func (s *DB) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Tables: make(map[string]int, len(statTables))}
	for _, t := range statTables {
		n, err := s.db.NewSelect().Model(t.model).Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", t.name, err)
		}
		st.Tables[t.name] = n
	}

	var latest sql.NullString
	if err := s.db.NewSelect().Model((*models.Race)(nil)).
		ColumnExpr("MAX(race_date)").
		Scan(ctx, &latest); err != nil {
		return nil, fmt.Errorf("latest race date: %w", err)
	}
	st.LatestRaceDate = latest.String

	g1, err := s.db.NewSelect().Model((*models.Race)(nil)).Where("grade = ?", models.GradeG1).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting G1 races: %w", err)
	}
	st.G1Races = g1
	return st, nil
}

// DeleteRace removes a race with its payouts and results.
func (s *DB) DeleteRace(ctx context.Context, raceID string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{(*models.RacePayout)(nil), (*models.RaceResult)(nil)} {
			if _, err := tx.NewDelete().Model(model).Where("race_id = ?", raceID).Exec(ctx); err != nil {
				return fmt.Errorf("deleting %T of %s: %w", model, raceID, err)
			}
		}
		res, err := tx.NewDelete().Model((*models.Race)(nil)).Where("race_id = ?", raceID).Exec(ctx)
		if err != nil {
			return fmt.Errorf("deleting race %s: %w", raceID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
