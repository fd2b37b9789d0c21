package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/parse"
)

var (
	raceNumberRe   = regexp.MustCompile(`(\d+)\s*R`)
	surfaceRe      = regexp.MustCompile(`(芝|ダート|ダ)\s*(左|右|直線)?[^\d]{0,8}?(\d{3,4})\s*m`)
	weatherRe      = regexp.MustCompile(`天候\s*[:：]\s*([^\s/&]+)`)
	goingRe        = regexp.MustCompile(`(芝|ダート|ダ)\s*[:：]\s*([^\s/&]+)`)
	startTimeRe    = regexp.MustCompile(`発走\s*[:：]\s*(\d{1,2}):(\d{2})`)
	meetingRe      = regexp.MustCompile(`(\d+)回\s*([^\d\s]+?)\s*(\d+)日目`)
	paceRe         = regexp.MustCompile(`\(\s*([\d.]+\s*-\s*[\d.]+)\s*\)`)
	leadingDigitRe = regexp.MustCompile(`^\d`)
)

var directions = map[string]models.Direction{
	"左":  models.Left,
	"右":  models.Right,
	"直線": models.Straight,
}

func surface(s string) models.TrackType {
	if s == "芝" {
		return models.Turf
	}
	return models.Dirt
}

// RaceDetail reads the race header, condition line, caption and auxiliary
// tables of a race detail page. Results and payouts are read separately.
func (x *Extractor) RaceDetail(doc dom.Node, raceID string) (*models.Race, error) {
	target := "race " + raceID

	name, _, ok := dom.First(doc, x.locators(raceNameLocs))
	if !ok {
		return nil, missing("race name", target, x.locators(raceNameLocs))
	}
	table, _, ok := dom.First(doc, x.locators(resultTableLocs))
	if !ok {
		return nil, missing("result table", target, x.locators(resultTableLocs))
	}

	r := &models.Race{RaceID: raceID, RaceName: name.Text()}
	if g, ok := matchGrade(r.RaceName, detailGrades); ok {
		grade := g.grade
		r.Grade = &grade
	}

	r.RaceNumber = raceNumber(dom.FirstText(doc, raceNumberLocs), raceID)
	conditionLine(r, parse.Normalize(dom.FirstText(doc, raceConditionLocs)))
	caption(r, dom.FirstText(doc, raceCaptionLocs))
	if r.TrackName == "" {
		r.TrackName, _ = models.TrackFromRaceID(raceID)
	}

	rows := dataRows(table)
	r.TotalHorses = len(rows)
	if len(rows) > 0 {
		r.WinningTime = parse.Ptr(cellText(rows[0], 7))
	}

	if t, _, ok := dom.First(doc, cornerTableLocs); ok {
		r.CornerPositions = rowMap(t)
	}
	if t, _, ok := dom.First(doc, lapTableLocs); ok {
		r.LapData = rowMap(t)
		r.Pace = pace(r.LapData)
	}
	return r, nil
}

// raceNumber reads "11 R", falling back to the last two digits of the id.
func raceNumber(s, raceID string) int {
	if m := raceNumberRe.FindStringSubmatch(parse.Normalize(s)); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	if len(raceID) == models.RaceIDLength {
		n, _ := strconv.Atoi(raceID[10:12])
		return n
	}
	return 0
}

// conditionLine reads "芝左2400m / 天候 : 晴 / 芝 : 良 / 発走 : 15:40".
func conditionLine(r *models.Race, s string) {
	if m := surfaceRe.FindStringSubmatch(s); m != nil {
		r.TrackType = surface(m[1])
		if d, ok := directions[m[2]]; ok {
			r.TrackDirection = &d
		}
		r.Distance, _ = strconv.Atoi(m[3])
	}
	if m := weatherRe.FindStringSubmatch(s); m != nil {
		r.Weather = parse.Ptr(m[1])
	}
	if m := goingRe.FindStringSubmatch(s); m != nil {
		r.TrackCondition = parse.Ptr(m[2])
	}
	if m := startTimeRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		t := fmt.Sprintf("%02d:%s", h, m[2])
		r.StartTime = &t
	}
}

// caption reads "2024年5月26日 2回東京12日目 3歳オープン (国際)(指定) 定量".
func caption(r *models.Race, s string) {
	s = parse.Normalize(s)
	if d, ok := parse.Date(s); ok {
		r.RaceDate = d
	}
	m := meetingRe.FindStringSubmatchIndex(s)
	if m == nil {
		return
	}
	n, _ := strconv.Atoi(s[m[2]:m[3]])
	d, _ := strconv.Atoi(s[m[6]:m[7]])
	r.MeetingNumber, r.MeetingDay = &n, &d
	r.TrackName = s[m[4]:m[5]]
	r.Conditions = parse.Ptr(s[m[1]:])
}

// rowMap maps each row's header cell to the text of its data cell.
func rowMap(table dom.Node) map[string]string {
	out := map[string]string{}
	for _, tr := range table.FindAll("tr") {
		cells := dom.Cells(tr)
		if len(cells) < 2 {
			continue
		}
		label := cells[0].Text()
		if label == "" {
			continue
		}
		out[label] = cells[len(cells)-1].Text()
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func pace(laps map[string]string) *string {
	for label, v := range laps {
		if !strings.Contains(label, "ペース") {
			continue
		}
		if m := paceRe.FindStringSubmatch(parse.Normalize(v)); m != nil {
			p := strings.Join(strings.Fields(m[1]), "")
			return &p
		}
	}
	return nil
}

// Results reads every starter row of the result table. Rows the result row
// contract rejects are skipped.
func (x *Extractor) Results(doc dom.Node, raceID string) ([]models.RaceResult, error) {
	table, _, ok := dom.First(doc, x.locators(resultTableLocs))
	if !ok {
		return nil, missing("result table", "race "+raceID, x.locators(resultTableLocs))
	}
	var out []models.RaceResult
	for _, cells := range dataRows(table) {
		if rr, ok := ResultRow(cells, raceID); ok {
			out = append(out, rr)
		}
	}
	return out, nil
}

// ResultRow maps one result table row onto a RaceResult. Rows with fewer
// than 15 cells, or without a horse number, yield ok=false.
func ResultRow(cells []dom.Node, raceID string) (models.RaceResult, bool) {
	if len(cells) < minResultCells {
		return models.RaceResult{}, false
	}
	num, ok := parse.Int(cellText(cells, 2))
	if !ok {
		return models.RaceResult{}, false
	}
	rr := models.RaceResult{RaceID: raceID, HorseNumber: num}

	// "1", "3(降)" and "中止" all occur; anything but a bare number keeps its text.
	pos := parse.Normalize(cellText(cells, 0))
	if leadingDigitRe.MatchString(pos) {
		rr.FinishPosition = parse.IntPtr(pos)
	}
	if rr.FinishPosition == nil || pos != strconv.Itoa(*rr.FinishPosition) {
		rr.FinishStatus = parse.Ptr(pos)
	}
	rr.BracketNumber = parse.IntPtr(cellText(cells, 1))

	if ref, ok := parse.Link(parse.HorseEntity, cells[3]); ok {
		rr.HorseID, rr.HorseName = ref.ID, ref.Name
	} else {
		rr.HorseID = models.PlaceholderHorseID(raceID, num)
		rr.HorseName = cellText(cells, 3)
	}

	if sex, age, ok := parse.SexAge(cellText(cells, 4)); ok {
		rr.Sex, rr.Age = &sex, age
	}
	rr.JockeyWeight = parse.FloatPtr(cellText(cells, 5))
	if ref, ok := parse.Link(parse.JockeyEntity, cells[6]); ok {
		rr.JockeyID, rr.JockeyName = &ref.ID, parse.Ptr(ref.Name)
	} else {
		rr.JockeyName = parse.Ptr(cellText(cells, 6))
	}
	rr.Time = parse.Ptr(cellText(cells, 7))
	rr.TimeDiff = parse.Ptr(cellText(cells, 8))
	rr.PassingOrder = parse.Ptr(cellText(cells, 10))
	rr.Last3F = parse.FloatPtr(cellText(cells, 11))
	rr.Odds = parse.FloatPtr(cellText(cells, 12))
	rr.Popularity = parse.IntPtr(cellText(cells, 13))
	if w, c, ok := parse.BodyWeight(cellText(cells, 14)); ok {
		rr.BodyWeight, rr.WeightChange = &w, &c
	}

	if len(cells) > 18 {
		trainer := cells[18]
		if ref, ok := parse.Link(parse.TrainerEntity, trainer); ok {
			rr.TrainerID, rr.TrainerName = &ref.ID, parse.Ptr(ref.Name)
		} else {
			rr.TrainerName = parse.Ptr(parse.StripRegion(trainer.Text()))
		}
		if region, ok := parse.Region(trainer.Text()); ok {
			rr.TrainerRegion = &region
		}
	}
	if len(cells) > 19 {
		if ref, ok := parse.Link(parse.OwnerEntity, cells[19]); ok {
			rr.OwnerID, rr.OwnerName = &ref.ID, parse.Ptr(ref.Name)
		} else {
			rr.OwnerName = parse.Ptr(cellText(cells, 19))
		}
	}
	rr.PrizeMoney = parse.FloatPtr(cellText(cells, 20))
	return rr, true
}
