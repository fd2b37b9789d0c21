package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"

	"github.com/padraicbc/keibadb/models"
)

// DB is the bun backed Store. It runs on PostgreSQL in production and on
// SQLite in tests.
type DB struct {
	db *bun.DB

	// mating serialises MergeMating within the process. On PostgreSQL an
	// advisory lock keyed by the horse pair covers other processes.
	mating sync.Mutex
}

var _ Store = (*DB)(nil)

// New wraps an open bun database.
func New(db *bun.DB) *DB {
	return &DB{db: db}
}

// Bun returns the underlying database.
func (s *DB) Bun() *bun.DB { return s.db }

func table(idb bun.IDB, model any) *schema.Table {
	typ := reflect.TypeOf(model)
	for typ.Kind() == reflect.Pointer || typ.Kind() == reflect.Slice {
		typ = typ.Elem()
	}
	return idb.Dialect().Tables().Get(typ)
}

// upsert inserts model, replacing every non key column when a row with the
// same conflict columns already exists.
func upsert(ctx context.Context, idb bun.IDB, model any, conflict string) error {
	q := idb.NewInsert().Model(model).On("CONFLICT (" + conflict + ") DO UPDATE")
	for _, f := range table(idb, model).DataFields {
		q = q.Set("? = EXCLUDED.?", bun.Ident(f.Name), bun.Ident(f.Name))
	}
	_, err := q.Exec(ctx)
	return err
}

func (s *DB) RaceExists(ctx context.Context, raceID string) (bool, error) {
	return s.db.NewSelect().Model((*models.Race)(nil)).Where("race_id = ?", raceID).Exists(ctx)
}

func (s *DB) HorseExists(ctx context.Context, horseID string) (bool, error) {
	return s.db.NewSelect().Model((*models.Horse)(nil)).Where("horse_id = ?", horseID).Exists(ctx)
}

// SaveRace upserts the race, makes sure every starter has a horse row, then
// upserts results and payouts, all in one transaction.
func (s *DB) SaveRace(ctx context.Context, race *models.Race, results []models.RaceResult, payouts []models.RacePayout) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := upsert(ctx, tx, race, "race_id"); err != nil {
			return fmt.Errorf("upserting race %s: %w", race.RaceID, err)
		}
		if hs := placeholderHorses(results); len(hs) > 0 {
			if _, err := tx.NewInsert().Model(&hs).On("CONFLICT (horse_id) DO NOTHING").Exec(ctx); err != nil {
				return fmt.Errorf("inserting horses of %s: %w", race.RaceID, err)
			}
		}
		if len(results) > 0 {
			if err := upsert(ctx, tx, &results, "race_id, horse_id"); err != nil {
				return fmt.Errorf("upserting results of %s: %w", race.RaceID, err)
			}
		}
		if len(payouts) > 0 {
			if err := upsert(ctx, tx, &payouts, "race_id, bet_type, combination"); err != nil {
				return fmt.Errorf("upserting payouts of %s: %w", race.RaceID, err)
			}
		}
		return nil
	})
}

func (s *DB) UpsertHorse(ctx context.Context, h *models.Horse) error {
	if err := upsert(ctx, s.db, h, "horse_id"); err != nil {
		return fmt.Errorf("upserting horse %s: %w", h.HorseID, err)
	}
	return nil
}

// UpsertRelations stores direct pedigree edges. Mating edges go through MergeMating.
func (s *DB) UpsertRelations(ctx context.Context, rels []models.HorseRelation) error {
	if len(rels) == 0 {
		return nil
	}
	if err := upsert(ctx, s.db, &rels, "horse_a_id, horse_b_id, relation_type"); err != nil {
		return fmt.Errorf("upserting %d relations: %w", len(rels), err)
	}
	return nil
}

func findMating(ctx context.Context, idb bun.IDB, a, b string) (*models.HorseRelation, error) {
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		m := new(models.HorseRelation)
		err := idb.NewSelect().Model(m).
			Where("relation_type = ?", models.Mating).
			Where("horse_a_id = ?", pair[0]).
			Where("horse_b_id = ?", pair[1]).
			Limit(1).
			Scan(ctx)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

// FindMating returns the mating edge between a and b in either order.
func (s *DB) FindMating(ctx context.Context, a, b string) (*models.HorseRelation, error) {
	return findMating(ctx, s.db, a, b)
}

func (s *DB) MergeMating(ctx context.Context, sireID, damID, childID string) (*models.HorseRelation, error) {
	s.mating.Lock()
	defer s.mating.Unlock()

	var out *models.HorseRelation
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m, err := mergeMating(ctx, tx, sireID, damID, childID)
		out = m
		return err
	})
	return out, err
}

// mergeMating does the MergeMating work inside tx. Callers hold s.mating.
func mergeMating(ctx context.Context, tx bun.Tx, sireID, damID, childID string) (*models.HorseRelation, error) {
	if tx.Dialect().Name() == dialect.PG {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext(?))", pairKey(sireID, damID)); err != nil {
			return nil, fmt.Errorf("locking mating %s: %w", pairKey(sireID, damID), err)
		}
	}

	m, err := findMating(ctx, tx, sireID, damID)
	switch {
	case errors.Is(err, ErrNotFound):
		m = &models.HorseRelation{
			HorseAID:     sireID,
			HorseBID:     damID,
			RelationType: models.Mating,
			ChildrenIDs:  []string{childID},
		}
		if _, err := tx.NewInsert().Model(m).Exec(ctx); err != nil {
			return nil, fmt.Errorf("inserting mating: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("finding mating: %w", err)
	case m.AddChild(childID):
		if _, err := tx.NewUpdate().Model(m).Column("children_ids").WherePK().Exec(ctx); err != nil {
			return nil, fmt.Errorf("updating mating %d: %w", m.ID, err)
		}
	}
	return m, nil
}

// SaveHorse writes the horse row, its direct edges and its mating membership
// in one transaction.
func (s *DB) SaveHorse(ctx context.Context, h *models.Horse, rels []models.HorseRelation) error {
	sire, dam := parents(h.HorseID, rels)
	if sire != "" && dam != "" {
		s.mating.Lock()
		defer s.mating.Unlock()
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := upsert(ctx, tx, h, "horse_id"); err != nil {
			return fmt.Errorf("upserting horse %s: %w", h.HorseID, err)
		}
		if len(rels) > 0 {
			if err := upsert(ctx, tx, &rels, "horse_a_id, horse_b_id, relation_type"); err != nil {
				return fmt.Errorf("upserting relations of %s: %w", h.HorseID, err)
			}
		}
		if sire == "" || dam == "" {
			return nil
		}
		if _, err := mergeMating(ctx, tx, sire, dam, h.HorseID); err != nil {
			return fmt.Errorf("merging mating %s x %s: %w", sire, dam, err)
		}
		return nil
	})
}

func (s *DB) UpsertJockeys(ctx context.Context, js []models.Jockey) error {
	if len(js) == 0 {
		return nil
	}
	return upsert(ctx, s.db, &js, "jockey_id")
}

func (s *DB) UpsertTrainers(ctx context.Context, ts []models.Trainer) error {
	if len(ts) == 0 {
		return nil
	}
	return upsert(ctx, s.db, &ts, "trainer_id")
}

func (s *DB) UpsertOwners(ctx context.Context, os []models.Owner) error {
	if len(os) == 0 {
		return nil
	}
	return upsert(ctx, s.db, &os, "owner_id")
}

func (s *DB) UpsertBreeders(ctx context.Context, bs []models.Breeder) error {
	if len(bs) == 0 {
		return nil
	}
	return upsert(ctx, s.db, &bs, "breeder_id")
}
