package models

import "github.com/uptrace/bun"

// BetType is one of the nine JRA wagering categories, stored by its label.
type BetType string

const (
	BetWin             BetType = "単勝"
	BetPlace           BetType = "複勝"
	BetBracketQuinella BetType = "枠連"
	BetBracketExacta   BetType = "枠単"
	BetQuinella        BetType = "馬連"
	BetQuinellaPlace   BetType = "ワイド"
	BetExacta          BetType = "馬単"
	BetTrio            BetType = "三連複"
	BetTrifecta        BetType = "三連単"
)

// BetTypes lists the canonical bet types in the order the source prints them.
var BetTypes = []BetType{
	BetWin,
	BetPlace,
	BetBracketQuinella,
	BetBracketExacta,
	BetQuinella,
	BetQuinellaPlace,
	BetExacta,
	BetTrio,
	BetTrifecta,
}

// Valid reports whether b is one of the canonical labels.
func (b BetType) Valid() bool {
	for _, t := range BetTypes {
		if b == t {
			return true
		}
	}
	return false
}

// Arity is the number of horse or bracket numbers in a combination.
func (b BetType) Arity() int {
	switch b {
	case BetWin, BetPlace:
		return 1
	case BetTrio, BetTrifecta:
		return 3
	case BetBracketQuinella, BetBracketExacta, BetQuinella, BetQuinellaPlace, BetExacta:
		return 2
	}
	return 0
}

// Ordered reports whether the combination is order sensitive and written with arrows.
func (b BetType) Ordered() bool {
	return b == BetBracketExacta || b == BetExacta || b == BetTrifecta
}

// Separator is the glyph placed between numbers of a combination.
func (b BetType) Separator() string {
	if b.Ordered() {
		return " → "
	}
	return " - "
}

// Payout sanity bounds. Amounts are in yen.
const (
	MaxPayoutAmount = 999_999_999.99
	MaxPopularity   = 99_999
	MaxHorseNumber  = 18
)

// RacePayout is a single winning combination and its return per 100 yen.
type RacePayout struct {
	bun.BaseModel `bun:"table:race_payouts,alias:rp"`

	RaceID       string  `bun:"race_id,pk" json:"raceID"`
	BetType      BetType `bun:"bet_type,pk" json:"betType"`
	Combination  string  `bun:"combination,pk" json:"combination"`
	PayoutAmount int64   `bun:"payout_amount,notnull" json:"payoutAmount"`
	Popularity   *int    `bun:"popularity" json:"popularity,omitempty"`
}
