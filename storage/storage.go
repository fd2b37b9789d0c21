// Package storage persists scraped records. Every write is an upsert keyed by
// the record's natural identity so repeated scrapes converge.
package storage

import (
	"context"
	"errors"

	"github.com/padraicbc/keibadb/models"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("storage: not found")

// Store is the write side used by the scrapers and the relation resolver.
type Store interface {
	RaceExists(ctx context.Context, raceID string) (bool, error)
	HorseExists(ctx context.Context, horseID string) (bool, error)

	// SaveRace stores a race with its results and payouts as one unit.
	SaveRace(ctx context.Context, race *models.Race, results []models.RaceResult, payouts []models.RacePayout) error
	UpsertHorse(ctx context.Context, h *models.Horse) error
	// SaveHorse stores a horse with the direct edges pointing at it as one
	// unit. When the edges name both parents the horse also joins their
	// mating edge.
	SaveHorse(ctx context.Context, h *models.Horse, rels []models.HorseRelation) error

	UpsertRelations(ctx context.Context, rels []models.HorseRelation) error
	FindMating(ctx context.Context, a, b string) (*models.HorseRelation, error)
	// MergeMating adds childID to the sire/dam mating edge, creating the
	// edge when neither ordering exists yet.
	MergeMating(ctx context.Context, sireID, damID, childID string) (*models.HorseRelation, error)

	UpsertJockeys(ctx context.Context, js []models.Jockey) error
	UpsertTrainers(ctx context.Context, ts []models.Trainer) error
	UpsertOwners(ctx context.Context, os []models.Owner) error
	UpsertBreeders(ctx context.Context, bs []models.Breeder) error
}

// pairKey names an unordered horse pair.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// parents picks the sire and dam of child out of its direct edges.
func parents(child string, rels []models.HorseRelation) (sire, dam string) {
	for _, r := range rels {
		if r.HorseBID != child {
			continue
		}
		switch r.RelationType {
		case models.SireOf:
			sire = r.HorseAID
		case models.DamOf:
			dam = r.HorseAID
		}
	}
	return sire, dam
}

// placeholderHorses returns minimal horse rows for the starters of a race so
// results never point at an unknown horse id.
func placeholderHorses(results []models.RaceResult) []models.Horse {
	seen := map[string]bool{}
	var hs []models.Horse
	for _, r := range results {
		if r.HorseID == "" || seen[r.HorseID] {
			continue
		}
		seen[r.HorseID] = true
		hs = append(hs, models.Horse{HorseID: r.HorseID, NameJa: r.HorseName})
	}
	return hs
}
