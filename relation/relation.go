// Package relation turns the pedigree ids read from a horse page into edges of
// the horse_relations graph.
package relation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/padraicbc/keibadb/models"
)

// Store is the part of the storage layer the resolver writes to. SaveHorse
// must write the horse, its edges and the mating merge all or nothing.
type Store interface {
	SaveHorse(ctx context.Context, h *models.Horse, rels []models.HorseRelation) error
}

// Edges returns the direct ancestor edges for child. Missing ancestors are skipped.
func Edges(childID string, p models.Pedigree) []models.HorseRelation {
	var rels []models.HorseRelation
	for _, e := range []struct {
		id  *string
		typ models.RelationType
	}{
		{p.SireID, models.SireOf},
		{p.DamID, models.DamOf},
		{p.MaternalGrandsireID, models.BMSOf},
	} {
		if e.id == nil || *e.id == "" || *e.id == childID {
			continue
		}
		rels = append(rels, models.HorseRelation{
			HorseAID:     *e.id,
			HorseBID:     childID,
			RelationType: e.typ,
		})
	}
	return rels
}

// Resolver writes pedigree edges and accumulates mating children.
type Resolver struct {
	store Store
	log   *zap.Logger
}

// NewResolver returns a Resolver writing to store. A nil logger disables logging.
func NewResolver(store Store, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, log: log}
}

// Resolve stores h together with the direct edges for its pedigree. When both
// parents are known the store also merges h into the sire/dam mating edge.
func (r *Resolver) Resolve(ctx context.Context, h *models.Horse, p models.Pedigree) error {
	rels := Edges(h.HorseID, p)
	if err := r.store.SaveHorse(ctx, h, rels); err != nil {
		return fmt.Errorf("saving horse %s with %d relations: %w", h.HorseID, len(rels), err)
	}
	r.log.Debug("horse saved",
		zap.String("horse_id", h.HorseID),
		zap.Int("relations", len(rels)),
		zap.Bool("mating", p.SireID != nil && p.DamID != nil && *p.SireID != "" && *p.DamID != ""),
	)
	return nil
}
