package models

import (
	"slices"

	"github.com/uptrace/bun"
)

// RelationType names a pedigree edge.
type RelationType string

const (
	SireOf RelationType = "sire_of"
	DamOf  RelationType = "dam_of"
	BMSOf  RelationType = "bms_of"
	Mating RelationType = "mating"
)

// HorseRelation is one edge of the pedigree graph.
//
// Direct edges (sire_of, dam_of, bms_of) point from ancestor (HorseAID) to
// child (HorseBID). Mating edges join a sire (HorseAID) and a dam (HorseBID)
// and accumulate the offspring of that pairing in ChildrenIDs.
type HorseRelation struct {
	bun.BaseModel `bun:"table:horse_relations,alias:hr"`

	ID           int64        `bun:"id,pk,autoincrement" json:"id"`
	HorseAID     string       `bun:"horse_a_id,notnull,unique:horse_relations_no_dupes" json:"horseAID"`
	HorseBID     string       `bun:"horse_b_id,notnull,unique:horse_relations_no_dupes" json:"horseBID"`
	RelationType RelationType `bun:"relation_type,notnull,unique:horse_relations_no_dupes" json:"relationType"`
	ChildrenIDs  []string     `bun:"children_ids,type:jsonb,nullzero" json:"childrenIDs,omitempty"`
}

// HasChild reports whether id is already recorded as offspring.
func (r *HorseRelation) HasChild(id string) bool {
	return slices.Contains(r.ChildrenIDs, id)
}

// AddChild unions id into ChildrenIDs and reports whether the set changed.
func (r *HorseRelation) AddChild(id string) bool {
	if id == "" || r.HasChild(id) {
		return false
	}
	r.ChildrenIDs = append(r.ChildrenIDs, id)
	return true
}

// Joins reports whether the edge connects a and b in either direction.
func (r *HorseRelation) Joins(a, b string) bool {
	return (r.HorseAID == a && r.HorseBID == b) || (r.HorseAID == b && r.HorseBID == a)
}
