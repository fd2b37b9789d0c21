package models

import "github.com/uptrace/bun"

// Career is a horse's overall record, "10戦8勝 [8-2-0-0]".
type Career struct {
	Starts  int     `json:"starts"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"`
	First   *int    `json:"first,omitempty"`
	Second  *int    `json:"second,omitempty"`
	Third   *int    `json:"third,omitempty"`
	Others  *int    `json:"others,omitempty"`
}

// Victory is a notable race won by a horse.
type Victory struct {
	RaceID string `json:"raceID,omitempty"`
	Name   string `json:"name"`
	Grade  *Grade `json:"grade,omitempty"`
}

// Offering is the syndicate share offer for club horses.
type Offering struct {
	PricePerShare int `json:"pricePerShare"` // man-yen
	Shares        int `json:"shares"`
	Total         int `json:"total"` // man-yen
}

// Horse is a racehorse profile. Pedigree ids are weak references into the
// same table and may point at horses that were never scraped.
type Horse struct {
	bun.BaseModel `bun:"table:horses,alias:h"`

	HorseID             string            `bun:"horse_id,pk" json:"horseID"`
	NameJa              string            `bun:"name_ja,notnull" json:"nameJa"`
	NameEn              *string           `bun:"name_en" json:"nameEn,omitempty"`
	BirthDate           *string           `bun:"birth_date" json:"birthDate,omitempty"`
	Sex                 *Sex              `bun:"sex" json:"sex,omitempty"`
	SireID              *string           `bun:"sire_id" json:"sireID,omitempty"`
	DamID               *string           `bun:"dam_id" json:"damID,omitempty"`
	MaternalGrandsireID *string           `bun:"maternal_grandsire_id" json:"maternalGrandsireID,omitempty"`
	TrainerID           *string           `bun:"trainer_id" json:"trainerID,omitempty"`
	OwnerID             *string           `bun:"owner_id" json:"ownerID,omitempty"`
	BreederID           *string           `bun:"breeder_id" json:"breederID,omitempty"`
	Birthplace          *string           `bun:"birthplace" json:"birthplace,omitempty"`
	TotalPrizeCentral   *int64            `bun:"total_prize_central" json:"totalPrizeCentral,omitempty"`
	TotalPrizeLocal     *int64            `bun:"total_prize_local" json:"totalPrizeLocal,omitempty"`
	Career              *Career           `bun:"career,type:jsonb" json:"career,omitempty"`
	MainVictories       []Victory         `bun:"main_victories,type:jsonb,nullzero" json:"mainVictories,omitempty"`
	Offering            *Offering         `bun:"offering,type:jsonb" json:"offering,omitempty"`
	Profile             map[string]string `bun:"profile,type:jsonb,nullzero" json:"profile,omitempty"`
}

// HorseSummary is one row of the horse search list.
type HorseSummary struct {
	HorseID   string `json:"horseID"`
	Name      string `json:"name"`
	Sex       *Sex   `json:"sex,omitempty"`
	BirthYear *int   `json:"birthYear,omitempty"`
	Sire      *Ref   `json:"sire,omitempty"`
	Dam       *Ref   `json:"dam,omitempty"`
	Trainer   *Ref   `json:"trainer,omitempty"`
}

// Pedigree holds the ancestor ids read from a horse's pedigree tables.
type Pedigree struct {
	SireID              *string
	DamID               *string
	MaternalGrandsireID *string
}

// Empty reports whether no ancestor was found.
func (p Pedigree) Empty() bool {
	return p.SireID == nil && p.DamID == nil && p.MaternalGrandsireID == nil
}
