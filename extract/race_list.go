package extract

import (
	"regexp"
	"strconv"

	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/parse"
)

var (
	venueRe  = regexp.MustCompile(`(\d+)([^\d]+)(\d+)`)
	courseRe = regexp.MustCompile(`(芝|ダ|障)(右|左|直線)?\D*?(\d+)`)
)

// RaceList reads the race search result table. Rows without a race link are
// skipped.
func (x *Extractor) RaceList(doc dom.Node) ([]models.RaceSummary, error) {
	table, _, ok := dom.First(doc, x.locators(raceListTableLocs))
	if !ok {
		return nil, missing("race list table", "race list", x.locators(raceListTableLocs))
	}
	var out []models.RaceSummary
	for _, cells := range dataRows(table) {
		if s, ok := raceListRow(cells); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func raceListRow(cells []dom.Node) (models.RaceSummary, bool) {
	if len(cells) < minRaceListCells {
		return models.RaceSummary{}, false
	}
	link, ok := parse.Link(parse.RaceEntity, cells[4])
	if !ok {
		return models.RaceSummary{}, false
	}
	s := models.RaceSummary{RaceID: link.ID, RaceName: link.Name}
	if s.RaceName == "" {
		s.RaceName = cellText(cells, 4)
	}
	if g, ok := matchGrade(cellText(cells, 4), listGrades); ok {
		grade := g.grade
		s.Grade = &grade
		if g.class != "" {
			class := g.class
			s.RaceClass = &class
		}
	}

	s.RaceDate, _ = parse.Date(cellText(cells, 0))
	if m := venueRe.FindStringSubmatch(parse.Normalize(cellText(cells, 1))); m != nil {
		n, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[3])
		s.MeetingNumber, s.MeetingDay = &n, &d
		s.TrackName = m[2]
	} else if name, ok := models.TrackFromRaceID(s.RaceID); ok {
		s.TrackName = name
	}
	s.Weather = parse.Ptr(cellText(cells, 2))
	s.RaceNumber, _ = parse.Int(cellText(cells, 3))

	if m := courseRe.FindStringSubmatch(parse.Normalize(cellText(cells, 6))); m != nil {
		switch m[1] {
		case "芝":
			s.TrackType = models.Turf
		case "ダ":
			s.TrackType = models.Dirt
		}
		if d, ok := directions[m[2]]; ok {
			s.TrackDirection = &d
		}
		s.Distance, _ = strconv.Atoi(m[3])
	}
	s.TotalHorses, _ = parse.Int(cellText(cells, 7))
	s.TrackCondition = parse.Ptr(cellText(cells, 8))
	s.WinningTime = parse.Ptr(cellText(cells, 9))
	s.Pace = parse.Ptr(cellText(cells, 10))

	if len(cells) > 11 {
		if ref, ok := parse.Link(parse.HorseEntity, cells[11]); ok {
			s.Winner = &ref
		}
	}
	if len(cells) > 12 {
		if ref, ok := parse.Link(parse.JockeyEntity, cells[12]); ok {
			s.Jockey = &ref
		}
	}
	if len(cells) > 13 {
		if ref, ok := parse.Link(parse.TrainerEntity, cells[13]); ok {
			s.Trainer = &ref
		}
		if r, ok := parse.Region(cells[13].Text()); ok {
			s.TrainerRegion = &r
		}
	}
	return s, true
}
