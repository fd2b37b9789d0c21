package models

import "github.com/uptrace/bun"

// Trainer is a stable trainer with aggregate career statistics.
type Trainer struct {
	bun.BaseModel `bun:"table:trainers,alias:t"`

	TrainerID           string  `bun:"trainer_id,pk" json:"trainerID"`
	Name                string  `bun:"name,notnull" json:"name"`
	Region              *Region `bun:"region" json:"region,omitempty"`
	BirthDate           *string `bun:"birth_date" json:"birthDate,omitempty"`
	RepresentativeHorse *string `bun:"representative_horse" json:"representativeHorse,omitempty"`

	Performance
}

// Jockey is a rider with aggregate career statistics.
type Jockey struct {
	bun.BaseModel `bun:"table:jockeys,alias:jk"`

	JockeyID            string  `bun:"jockey_id,pk" json:"jockeyID"`
	Name                string  `bun:"name,notnull" json:"name"`
	Region              *Region `bun:"region" json:"region,omitempty"`
	AffiliationID       *string `bun:"affiliation_id" json:"affiliationID,omitempty"`
	Affiliation         *string `bun:"affiliation" json:"affiliation,omitempty"`
	Freelance           bool    `bun:"freelance,notnull" json:"freelance"`
	BirthDate           *string `bun:"birth_date" json:"birthDate,omitempty"`
	RepresentativeHorse *string `bun:"representative_horse" json:"representativeHorse,omitempty"`

	Performance
}

// Owner is a horse owner with aggregate statistics.
type Owner struct {
	bun.BaseModel `bun:"table:owners,alias:ow"`

	OwnerID             string  `bun:"owner_id,pk" json:"ownerID"`
	Name                string  `bun:"name,notnull" json:"name"`
	RepresentativeHorse *string `bun:"representative_horse" json:"representativeHorse,omitempty"`

	Performance
}

// Estimate is a value derived by rule of thumb rather than read from the source.
type Estimate struct {
	Value      any    `json:"value"`
	Method     string `json:"method"`
	Provenance string `json:"provenance"`
}

// ProvenanceHeuristic tags estimates computed from list aggregates.
const ProvenanceHeuristic = "heuristic"

// Breeder is a stud farm or individual breeder. Estimates holds derived
// figures that the list page does not publish.
type Breeder struct {
	bun.BaseModel `bun:"table:breeders,alias:br"`

	BreederID           string              `bun:"breeder_id,pk" json:"breederID"`
	Name                string              `bun:"name,notnull" json:"name"`
	RepresentativeHorse *string             `bun:"representative_horse" json:"representativeHorse,omitempty"`
	Estimates           map[string]Estimate `bun:"estimates,type:jsonb,nullzero" json:"estimates,omitempty"`

	Performance
}
