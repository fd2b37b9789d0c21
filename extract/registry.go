package extract

import (
	"strconv"
	"strings"

	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/parse"
)

// Registry list pages print the same block of aggregate columns for every
// kind of person. Jockey and trainer rows start the block at column 3, owner
// and breeder rows at column 1. Offsets below are relative to that start.
const (
	offResults = 0  // 1st, 2nd, 3rd, unplaced
	offRace    = 4  // grade, special, normal: entries then wins
	offTrack   = 10 // turf, dirt: entries then wins
	offPrize   = 17
	offRep     = 18

	personResultsAt = 3
	ownerResultsAt  = 1
)

func (x *Extractor) registryRows(doc dom.Node, kind string, minCells int) ([][]dom.Node, error) {
	table, _, ok := dom.First(doc, registryTableLocs)
	if !ok {
		return nil, missing("registry table", kind+" list", registryTableLocs)
	}
	var out [][]dom.Node
	for i, tr := range table.FindAll("tr") {
		if i < registryHeaders {
			continue
		}
		if cells := dom.DataCells(tr); len(cells) >= minCells {
			out = append(out, cells)
		}
	}
	return out, nil
}

func count(cells []dom.Node, i int) int {
	n, _ := parse.Int(cellText(cells, i))
	return n
}

// performance reads the aggregate block starting at column at. The yearly
// snapshot is keyed by the year the list was scraped.
func performance(cells []dom.Node, at, year int) models.Performance {
	p := models.Performance{
		Wins:     count(cells, at+offResults),
		Seconds:  count(cells, at+offResults+1),
		Thirds:   count(cells, at+offResults+2),
		Unplaced: count(cells, at+offResults+3),
	}
	p.ComputeRates()

	entry := func(i int) models.EntryStats {
		return models.EntryStats{Entries: count(cells, at+i), Wins: count(cells, at+i+1)}
	}
	p.RaceStats = map[string]models.EntryStats{
		"grade":   entry(offRace),
		"special": entry(offRace + 2),
		"normal":  entry(offRace + 4),
	}
	p.TrackStats = map[string]models.EntryStats{
		"turf": entry(offTrack),
		"dirt": entry(offTrack + 2),
	}
	if f, ok := parse.Float(cellText(cells, at+offPrize)); ok {
		p.TotalPrize = f
	}
	p.YearlyStats = map[string]models.YearStats{
		strconv.Itoa(year): {
			Races:   p.TotalRaces,
			Wins:    p.Wins,
			Seconds: p.Seconds,
			Thirds:  p.Thirds,
			WinRate: p.WinRate,
			Prize:   p.TotalPrize,
		},
	}
	return p
}

func representative(cells []dom.Node, at int) *string {
	return parse.Ptr(cellText(cells, at+offRep))
}

// Jockeys reads a jockey list page. Rows without a jockey link are skipped.
func (x *Extractor) Jockeys(doc dom.Node, year int) ([]models.Jockey, error) {
	rows, err := x.registryRows(doc, "jockey", minJockeyCells)
	if err != nil {
		return nil, err
	}
	var out []models.Jockey
	for _, cells := range rows {
		ref, ok := parse.Link(parse.JockeyEntity, cells[0])
		if !ok {
			continue
		}
		j := models.Jockey{
			JockeyID:            ref.ID,
			Name:                ref.Name,
			Performance:         performance(cells, personResultsAt, year),
			RepresentativeHorse: representative(cells, personResultsAt),
		}
		aff := cells[1]
		if r, ok := parse.Region(aff.Text()); ok {
			j.Region = &r
		}
		if t, ok := parse.Link(parse.TrainerEntity, aff); ok {
			j.AffiliationID, j.Affiliation = &t.ID, parse.Ptr(t.Name)
		}
		j.Freelance = strings.Contains(aff.Text(), "フリー")
		if d, ok := parse.Date(cellText(cells, 2)); ok {
			j.BirthDate = &d
		}
		out = append(out, j)
	}
	return out, nil
}

// Trainers reads a trainer list page.
func (x *Extractor) Trainers(doc dom.Node, year int) ([]models.Trainer, error) {
	rows, err := x.registryRows(doc, "trainer", minJockeyCells)
	if err != nil {
		return nil, err
	}
	var out []models.Trainer
	for _, cells := range rows {
		ref, ok := parse.Link(parse.TrainerEntity, cells[0])
		if !ok {
			continue
		}
		t := models.Trainer{
			TrainerID:           ref.ID,
			Name:                ref.Name,
			Performance:         performance(cells, personResultsAt, year),
			RepresentativeHorse: representative(cells, personResultsAt),
		}
		if r, ok := parse.Region(cellText(cells, 1)); ok {
			t.Region = &r
		}
		if d, ok := parse.Date(cellText(cells, 2)); ok {
			t.BirthDate = &d
		}
		out = append(out, t)
	}
	return out, nil
}

// Owners reads an owner list page.
func (x *Extractor) Owners(doc dom.Node, year int) ([]models.Owner, error) {
	rows, err := x.registryRows(doc, "owner", minOwnerCells)
	if err != nil {
		return nil, err
	}
	var out []models.Owner
	for _, cells := range rows {
		ref, ok := parse.Link(parse.OwnerEntity, cells[0])
		if !ok {
			continue
		}
		out = append(out, models.Owner{
			OwnerID:             ref.ID,
			Name:                ref.Name,
			Performance:         performance(cells, ownerResultsAt, year),
			RepresentativeHorse: representative(cells, ownerResultsAt),
		})
	}
	return out, nil
}

// Breeders reads a breeder list page and attaches heuristic estimates.
func (x *Extractor) Breeders(doc dom.Node, year int) ([]models.Breeder, error) {
	rows, err := x.registryRows(doc, "breeder", minOwnerCells)
	if err != nil {
		return nil, err
	}
	var out []models.Breeder
	for _, cells := range rows {
		ref, ok := parse.Link(parse.BreederEntity, cells[0])
		if !ok {
			continue
		}
		b := models.Breeder{
			BreederID:           ref.ID,
			Name:                ref.Name,
			Performance:         performance(cells, ownerResultsAt, year),
			RepresentativeHorse: representative(cells, ownerResultsAt),
		}
		b.Estimates = BreederEstimates(b.Name, b.Performance)
		out = append(out, b)
	}
	return out, nil
}

func estimate(v any, method string) models.Estimate {
	return models.Estimate{Value: v, Method: method, Provenance: models.ProvenanceHeuristic}
}

// BreederEstimates derives the figures the breeder list does not publish
// from its race counts and the breeder's name.
func BreederEstimates(name string, p models.Performance) map[string]models.Estimate {
	atLeastOne := func(n int) int { return max(1, n) }
	t := p.TotalRaces
	out := map[string]models.Estimate{
		"produced_horses": estimate(atLeastOne(t/6), "total_races/6"),
		"debut_horses":    estimate(atLeastOne(t/8), "total_races/8"),
		"active_horses":   estimate(atLeastOne(t/10), "total_races/10"),
		"stakes_wins":     estimate(p.RaceStats["grade"].Wins+p.RaceStats["special"].Wins, "grade_wins+special_wins"),
		"breeder_type":    estimate(breederType(name), "name_keyword"),
	}
	if containsAny(name, hokkaidoKeywords) {
		out["location"] = estimate("北海道", "name_keyword")
	}
	return out
}

func breederType(name string) string {
	switch {
	case containsAny(name, farmKeywords):
		return "farm"
	case containsAny(name, corporationKeywords):
		return "corporation"
	}
	return "individual"
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
