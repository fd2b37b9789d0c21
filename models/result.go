package models

import (
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// Sex of a horse.
type Sex string

const (
	Male    Sex = "male"
	Female  Sex = "female"
	Gelding Sex = "gelding"
)

// Region is the training centre a trainer or jockey belongs to.
type Region string

const (
	East  Region = "east"
	West  Region = "west"
	Local Region = "local"
)

// UnknownHorsePrefix marks placeholder horse ids for result rows without a horse link.
const UnknownHorsePrefix = "UNKNOWN_"

// PlaceholderHorseID builds the synthetic id used when a result row has no horse link.
func PlaceholderHorseID(raceID string, horseNumber int) string {
	return fmt.Sprintf("%s%s_%d", UnknownHorsePrefix, raceID, horseNumber)
}

// IsPlaceholderHorseID reports whether id was made by PlaceholderHorseID.
func IsPlaceholderHorseID(id string) bool {
	return strings.HasPrefix(id, UnknownHorsePrefix)
}

// RaceResult holds one starter's outcome in a race.
type RaceResult struct {
	bun.BaseModel `bun:"table:race_results,alias:rr"`

	RaceID         string   `bun:"race_id,pk" json:"raceID"`
	HorseID        string   `bun:"horse_id,pk" json:"horseID"`
	FinishPosition *int     `bun:"finish_position" json:"finishPosition,omitempty"`
	FinishStatus   *string  `bun:"finish_status" json:"finishStatus,omitempty"`
	BracketNumber  *int     `bun:"bracket_number" json:"bracketNumber,omitempty"`
	HorseNumber    int      `bun:"horse_number,notnull" json:"horseNumber"`
	HorseName      string   `bun:"horse_name,notnull" json:"horseName"`
	Sex            *Sex     `bun:"sex" json:"sex,omitempty"`
	Age            *int     `bun:"age" json:"age,omitempty"`
	JockeyWeight   *float64 `bun:"jockey_weight" json:"jockeyWeight,omitempty"`
	JockeyID       *string  `bun:"jockey_id" json:"jockeyID,omitempty"`
	JockeyName     *string  `bun:"jockey_name" json:"jockeyName,omitempty"`
	Time           *string  `bun:"time" json:"time,omitempty"`
	TimeDiff       *string  `bun:"time_diff" json:"timeDiff,omitempty"`
	PassingOrder   *string  `bun:"passing_order" json:"passingOrder,omitempty"`
	Last3F         *float64 `bun:"last_3f" json:"last3F,omitempty"`
	Odds           *float64 `bun:"odds" json:"odds,omitempty"`
	Popularity     *int     `bun:"popularity" json:"popularity,omitempty"`
	BodyWeight     *int     `bun:"body_weight" json:"bodyWeight,omitempty"`
	WeightChange   *int     `bun:"weight_change" json:"weightChange,omitempty"`
	TrainerID      *string  `bun:"trainer_id" json:"trainerID,omitempty"`
	TrainerName    *string  `bun:"trainer_name" json:"trainerName,omitempty"`
	TrainerRegion  *Region  `bun:"trainer_region" json:"trainerRegion,omitempty"`
	OwnerID        *string  `bun:"owner_id" json:"ownerID,omitempty"`
	OwnerName      *string  `bun:"owner_name" json:"ownerName,omitempty"`
	PrizeMoney     *float64 `bun:"prize_money" json:"prizeMoney,omitempty"`
}
