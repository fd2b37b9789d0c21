package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/keibadb/models"
)

func seedRaces(t *testing.T, s *DB) {
	t.Helper()
	ctx := context.Background()
	race, results, payouts := sampleRace()
	require.NoError(t, s.SaveRace(ctx, race, results, payouts))

	older := &models.Race{
		RaceID:     "202305021211",
		RaceDate:   "2023-05-28",
		TrackName:  "東京",
		RaceNumber: 11,
		RaceName:   "東京優駿",
		Grade:      ptr(models.GradeG1),
		Distance:   2400,
	}
	require.NoError(t, s.SaveRace(ctx, older, []models.RaceResult{
		{RaceID: older.RaceID, HorseID: "2021105872", HorseName: "ダノンデサイル", HorseNumber: 3, FinishPosition: ptr(4)},
	}, nil))

	minor := &models.Race{RaceID: "202405021210", RaceDate: "2024-05-26", TrackName: "東京", RaceNumber: 10, RaceName: "むらさき賞"}
	require.NoError(t, s.SaveRace(ctx, minor, nil, nil))
}

func TestRaces(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)
	seedRaces(t, s)

	all, err := s.Races(ctx, RaceFilter{})
	require.NoError(t, err)
	var ids []string
	for _, r := range all {
		ids = append(ids, r.RaceID)
	}
	assert.Equal(t, []string{"202405021211", "202405021210", "202305021211"}, ids)

	g1, err := s.Races(ctx, RaceFilter{Grade: ptr(models.GradeG1), From: "2024-01-01"})
	require.NoError(t, err)
	require.Len(t, g1, 1)
	assert.Equal(t, "3,6", g1[0].CornerPositions["1コーナー"])

	limited, err := s.Races(ctx, RaceFilter{To: "2024-05-26", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := s.Races(ctx, RaceFilter{From: "2025-01-01"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRaceCard(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)
	seedRaces(t, s)

	card, err := s.Race(ctx, raceID)
	require.NoError(t, err)
	assert.Equal(t, "東京優駿", card.RaceName)
	require.Len(t, card.Results, 2)
	assert.Equal(t, 1, *card.Results[0].FinishPosition)
	assert.Nil(t, card.Results[1].FinishPosition, "unplaced starters sort last")
	require.Len(t, card.Payouts, 2)

	_, err = s.Race(ctx, "209912319912")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHorseHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)
	seedRaces(t, s)

	hist, err := s.HorseHistory(ctx, "2021105872")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "2024-05-26", hist[0].RaceDate)
	assert.Equal(t, 1, *hist[0].FinishPosition)
	assert.Equal(t, 2400, hist[0].Distance)
	assert.Equal(t, models.GradeG1, *hist[0].Grade)
	assert.Equal(t, "2023-05-28", hist[1].RaceDate)
	assert.Equal(t, 3, hist[1].HorseNumber)
}

func TestRelationsQuery(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)
	require.NoError(t, s.UpsertRelations(ctx, []models.HorseRelation{
		{HorseAID: "sire", HorseBID: "child", RelationType: models.SireOf},
		{HorseAID: "dam", HorseBID: "child", RelationType: models.DamOf},
	}))
	_, err := s.MergeMating(ctx, "sire", "dam", "child")
	require.NoError(t, err)

	rels, err := s.Relations(ctx, "sire")
	require.NoError(t, err)
	require.Len(t, rels, 2)
	assert.Equal(t, models.Mating, rels[0].RelationType)
	assert.Equal(t, []string{"child"}, rels[0].ChildrenIDs)
	assert.Equal(t, models.SireOf, rels[1].RelationType)

	rels, err = s.Relations(ctx, "child")
	require.NoError(t, err)
	assert.Len(t, rels, 2)
}

func TestStatsAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Tables["races"])
	assert.Empty(t, st.LatestRaceDate)

	seedRaces(t, s)
	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Tables["races"])
	assert.Equal(t, 3, st.Tables["race_results"])
	assert.Equal(t, "2024-05-26", st.LatestRaceDate)
	assert.Equal(t, 2, st.G1Races)

	require.NoError(t, s.DeleteRace(ctx, raceID))
	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Tables["races"])
	assert.Equal(t, 1, st.Tables["race_results"])
	assert.Equal(t, 0, st.Tables["race_payouts"])
	assert.Equal(t, 2, st.Tables["horses"], "horses are kept")

	assert.True(t, errors.Is(s.DeleteRace(ctx, raceID), ErrNotFound))
}
