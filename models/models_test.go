package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRates(t *testing.T) {
	p := Performance{Wins: 3, Seconds: 2, Thirds: 1, Unplaced: 4}
	p.ComputeRates()

	assert.Equal(t, 10, p.TotalRaces)
	assert.Equal(t, 30.0, p.WinRate)
	assert.Equal(t, 50.0, p.SecondRate)
	assert.Equal(t, 60.0, p.ShowRate)
}

func TestComputeRatesZeroTotal(t *testing.T) {
	p := Performance{}
	p.ComputeRates()

	assert.Zero(t, p.WinRate)
	assert.Zero(t, p.SecondRate)
	assert.Zero(t, p.ShowRate)
}

func TestRateOrdering(t *testing.T) {
	for wins := 0; wins <= 7; wins++ {
		for seconds := 0; seconds <= 7; seconds++ {
			for thirds := 0; thirds <= 7; thirds++ {
				p := Performance{Wins: wins, Seconds: seconds, Thirds: thirds, Unplaced: 5}
				p.ComputeRates()
				require.GreaterOrEqual(t, p.ShowRate, p.SecondRate)
				require.GreaterOrEqual(t, p.SecondRate, p.WinRate)
				require.Equal(t, Rate(wins, p.TotalRaces), p.WinRate)
			}
		}
	}
}

func TestRateRounding(t *testing.T) {
	assert.Equal(t, 33.33, Rate(1, 3))
	assert.Equal(t, 66.67, Rate(2, 3))
	assert.Equal(t, 0.0, Rate(5, 0))
}

func TestAddChild(t *testing.T) {
	rel := &HorseRelation{HorseAID: "A", HorseBID: "B", RelationType: Mating, ChildrenIDs: []string{"X"}}

	assert.True(t, rel.AddChild("Y"))
	assert.False(t, rel.AddChild("Y"))
	assert.False(t, rel.AddChild("X"))
	assert.False(t, rel.AddChild(""))
	assert.Equal(t, []string{"X", "Y"}, rel.ChildrenIDs)
	assert.True(t, rel.Joins("B", "A"))
	assert.False(t, rel.Joins("A", "C"))
}

func TestBetTypeGrammar(t *testing.T) {
	testCases := []struct {
		bet     BetType
		arity   int
		ordered bool
	}{
		{BetWin, 1, false},
		{BetPlace, 1, false},
		{BetBracketQuinella, 2, false},
		{BetBracketExacta, 2, true},
		{BetQuinella, 2, false},
		{BetQuinellaPlace, 2, false},
		{BetExacta, 2, true},
		{BetTrio, 3, false},
		{BetTrifecta, 3, true},
	}
	for _, tc := range testCases {
		t.Run(string(tc.bet), func(t *testing.T) {
			assert.True(t, tc.bet.Valid())
			assert.Equal(t, tc.arity, tc.bet.Arity())
			assert.Equal(t, tc.ordered, tc.bet.Ordered())
		})
	}
	assert.False(t, BetType("WIN5").Valid())
	assert.Len(t, BetTypes, 9)
}

func TestTrackLookups(t *testing.T) {
	code, ok := TrackCode("東京")
	require.True(t, ok)
	assert.Equal(t, "05", code)

	name, ok := TrackFromRaceID("202405021211")
	require.True(t, ok)
	assert.Equal(t, "東京", name)

	_, ok = TrackFromRaceID("2024")
	assert.False(t, ok)

	assert.Equal(t, "UNKNOWN_202405021211_7", PlaceholderHorseID("202405021211", 7))
	assert.True(t, IsPlaceholderHorseID("UNKNOWN_202405021211_7"))
}
