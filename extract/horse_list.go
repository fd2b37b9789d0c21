package extract

import (
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/parse"
)

var birthYearRe = regexp.MustCompile(`^(19|20)\d{2}$`)

// HorseList reads the horse search result table. The first horse link in a
// row names the horse itself and the next two its sire and dam.
func (x *Extractor) HorseList(doc dom.Node) ([]models.HorseSummary, error) {
	table, _, ok := dom.First(doc, x.locators(horseListTableLocs))
	if !ok {
		return nil, missing("horse list table", "horse list", x.locators(horseListTableLocs))
	}
	var out []models.HorseSummary
	for _, cells := range dataRows(table) {
		if s, ok := horseListRow(cells); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func horseListRow(cells []dom.Node) (models.HorseSummary, bool) {
	var (
		s     models.HorseSummary
		found bool
	)
	for _, c := range cells {
		text := parse.Normalize(c.Text())
		if ref, ok := parse.Link(parse.HorseEntity, c); ok {
			switch {
			case !found:
				s.HorseID, s.Name, found = ref.ID, ref.Name, true
			case s.Sire == nil:
				s.Sire = &ref
			case s.Dam == nil:
				s.Dam = &ref
			}
			continue
		}
		if !found {
			continue
		}
		if s.BirthYear == nil && birthYearRe.MatchString(text) {
			y, _ := strconv.Atoi(text)
			s.BirthYear = &y
			continue
		}
		if s.Sex == nil && utf8.RuneCountInString(text) <= 2 {
			if sex, _, ok := parse.SexAge(text); ok {
				s.Sex = &sex
			}
		}
		if s.Trainer == nil {
			if ref, ok := parse.Link(parse.TrainerEntity, c); ok {
				s.Trainer = &ref
			}
		}
	}
	return s, found
}
