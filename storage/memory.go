package storage

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/padraicbc/keibadb/models"
)

type relKey struct {
	a, b string
	typ  models.RelationType
}

// Memory is an in-process Store for dry runs and tests.
type Memory struct {
	mu sync.Mutex

	races     map[string]models.Race
	results   map[string]map[string]models.RaceResult
	payouts   map[string]map[[2]string]models.RacePayout
	horses    map[string]models.Horse
	relations map[relKey]models.HorseRelation
	nextRel   int64
	jockeys   map[string]models.Jockey
	trainers  map[string]models.Trainer
	owners    map[string]models.Owner
	breeders  map[string]models.Breeder
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		races:     map[string]models.Race{},
		results:   map[string]map[string]models.RaceResult{},
		payouts:   map[string]map[[2]string]models.RacePayout{},
		horses:    map[string]models.Horse{},
		relations: map[relKey]models.HorseRelation{},
		jockeys:   map[string]models.Jockey{},
		trainers:  map[string]models.Trainer{},
		owners:    map[string]models.Owner{},
		breeders:  map[string]models.Breeder{},
	}
}

func (m *Memory) RaceExists(_ context.Context, raceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.races[raceID]
	return ok, nil
}

func (m *Memory) HorseExists(_ context.Context, horseID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.horses[horseID]
	return ok, nil
}

func (m *Memory) SaveRace(_ context.Context, race *models.Race, results []models.RaceResult, payouts []models.RacePayout) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.races[race.RaceID] = *race
	for _, h := range placeholderHorses(results) {
		if _, ok := m.horses[h.HorseID]; !ok {
			m.horses[h.HorseID] = h
		}
	}
	if m.results[race.RaceID] == nil {
		m.results[race.RaceID] = map[string]models.RaceResult{}
	}
	for _, r := range results {
		m.results[race.RaceID][r.HorseID] = r
	}
	if m.payouts[race.RaceID] == nil {
		m.payouts[race.RaceID] = map[[2]string]models.RacePayout{}
	}
	for _, p := range payouts {
		m.payouts[race.RaceID][[2]string{string(p.BetType), p.Combination}] = p
	}
	return nil
}

func (m *Memory) UpsertHorse(_ context.Context, h *models.Horse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.horses[h.HorseID] = *h
	return nil
}

func (m *Memory) SaveHorse(_ context.Context, h *models.Horse, rels []models.HorseRelation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.horses[h.HorseID] = *h
	m.upsertRelations(rels)
	if sire, dam := parents(h.HorseID, rels); sire != "" && dam != "" {
		m.mergeMating(sire, dam, h.HorseID)
	}
	return nil
}

func (m *Memory) UpsertRelations(_ context.Context, rels []models.HorseRelation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertRelations(rels)
	return nil
}

func (m *Memory) upsertRelations(rels []models.HorseRelation) {
	for _, r := range rels {
		k := relKey{r.HorseAID, r.HorseBID, r.RelationType}
		if old, ok := m.relations[k]; ok {
			r.ID = old.ID
		} else {
			m.nextRel++
			r.ID = m.nextRel
		}
		r.ChildrenIDs = slices.Clone(r.ChildrenIDs)
		m.relations[k] = r
	}
}

func (m *Memory) findMating(a, b string) (models.HorseRelation, bool) {
	if r, ok := m.relations[relKey{a, b, models.Mating}]; ok {
		return r, true
	}
	r, ok := m.relations[relKey{b, a, models.Mating}]
	return r, ok
}

func (m *Memory) FindMating(_ context.Context, a, b string) (*models.HorseRelation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.findMating(a, b)
	if !ok {
		return nil, ErrNotFound
	}
	r.ChildrenIDs = slices.Clone(r.ChildrenIDs)
	return &r, nil
}

func (m *Memory) MergeMating(_ context.Context, sireID, damID, childID string) (*models.HorseRelation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mergeMating(sireID, damID, childID), nil
}

func (m *Memory) mergeMating(sireID, damID, childID string) *models.HorseRelation {
	r, ok := m.findMating(sireID, damID)
	if !ok {
		m.nextRel++
		r = models.HorseRelation{
			ID:           m.nextRel,
			HorseAID:     sireID,
			HorseBID:     damID,
			RelationType: models.Mating,
			ChildrenIDs:  []string{childID},
		}
	} else {
		r.ChildrenIDs = slices.Clone(r.ChildrenIDs)
		r.AddChild(childID)
	}
	m.relations[relKey{r.HorseAID, r.HorseBID, models.Mating}] = r
	out := r
	out.ChildrenIDs = slices.Clone(r.ChildrenIDs)
	return &out
}

func (m *Memory) UpsertJockeys(_ context.Context, js []models.Jockey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range js {
		m.jockeys[j.JockeyID] = j
	}
	return nil
}

func (m *Memory) UpsertTrainers(_ context.Context, ts []models.Trainer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range ts {
		m.trainers[t.TrainerID] = t
	}
	return nil
}

func (m *Memory) UpsertOwners(_ context.Context, os []models.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range os {
		m.owners[o.OwnerID] = o
	}
	return nil
}

func (m *Memory) UpsertBreeders(_ context.Context, bs []models.Breeder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range bs {
		m.breeders[b.BreederID] = b
	}
	return nil
}

// Race returns a stored race with its results ordered by horse number.
func (m *Memory) Race(raceID string) (models.Race, []models.RaceResult, []models.RacePayout, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.races[raceID]
	if !ok {
		return r, nil, nil, false
	}
	var results []models.RaceResult
	for _, rr := range m.results[raceID] {
		results = append(results, rr)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].HorseNumber < results[j].HorseNumber })
	var payouts []models.RacePayout
	for _, p := range m.payouts[raceID] {
		payouts = append(payouts, p)
	}
	sort.Slice(payouts, func(i, j int) bool {
		if payouts[i].BetType != payouts[j].BetType {
			return payouts[i].BetType < payouts[j].BetType
		}
		return payouts[i].Combination < payouts[j].Combination
	})
	return r, results, payouts, true
}

// Horse returns a stored horse.
func (m *Memory) Horse(horseID string) (models.Horse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.horses[horseID]
	return h, ok
}

// Relations returns every stored edge ordered by id.
func (m *Memory) Relations() []models.HorseRelation {
	m.mu.Lock()
	defer m.mu.Unlock()
	rels := make([]models.HorseRelation, 0, len(m.relations))
	for _, r := range m.relations {
		r.ChildrenIDs = slices.Clone(r.ChildrenIDs)
		rels = append(rels, r)
	}
	sort.Slice(rels, func(i, j int) bool { return rels[i].ID < rels[j].ID })
	return rels
}

// Counts returns the number of stored rows per table name.
func (m *Memory) Counts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, rs := range m.results {
		n += len(rs)
	}
	p := 0
	for _, ps := range m.payouts {
		p += len(ps)
	}
	return map[string]int{
		"races":           len(m.races),
		"race_results":    n,
		"race_payouts":    p,
		"horses":          len(m.horses),
		"horse_relations": len(m.relations),
		"jockeys":         len(m.jockeys),
		"trainers":        len(m.trainers),
		"owners":          len(m.owners),
		"breeders":        len(m.breeders),
	}
}
