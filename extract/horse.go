package extract

import (
	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/parse"
)

// HorsePage is everything read from a horse detail page.
type HorsePage struct {
	Horse    *models.Horse
	Pedigree models.Pedigree
}

// Horse reads basic info, career and the inline pedigree of a horse detail
// page. The pedigree ids are also copied onto the horse.
func (x *Extractor) Horse(doc dom.Node, horseID string) (*HorsePage, error) {
	h, err := x.HorseBasic(doc, horseID)
	if err != nil {
		return nil, err
	}
	x.HorseCareer(doc, h)
	ped := x.Pedigree(doc)
	ApplyPedigree(h, ped)
	return &HorsePage{Horse: h, Pedigree: ped}, nil
}

// ApplyPedigree copies known ancestor ids onto h, leaving the others as they were.
func ApplyPedigree(h *models.Horse, p models.Pedigree) {
	if p.SireID != nil {
		h.SireID = p.SireID
	}
	if p.DamID != nil {
		h.DamID = p.DamID
	}
	if p.MaternalGrandsireID != nil {
		h.MaternalGrandsireID = p.MaternalGrandsireID
	}
}

// profile returns the recognised profile rows keyed by field name.
func (x *Extractor) profile(doc dom.Node) map[string]dom.Node {
	table, _, ok := dom.First(doc, profileTableLocs)
	if !ok {
		return nil
	}
	out := map[string]dom.Node{}
	for label, td := range labelled(table) {
		if f, ok := profileField(label); ok {
			if _, seen := out[f]; !seen {
				out[f] = td
			}
		}
	}
	return out
}

// HorseBasic reads name, sex, English name and the profile table. Only the
// name is required.
func (x *Extractor) HorseBasic(doc dom.Node, horseID string) (*models.Horse, error) {
	name, _, ok := dom.First(doc, x.locators(horseNameLocs))
	if !ok || name.Text() == "" {
		return nil, missing("horse name", "horse "+horseID, x.locators(horseNameLocs))
	}
	h := &models.Horse{HorseID: horseID, NameJa: name.Text()}
	if sex, ok := parse.Sex(dom.FirstText(doc, horseSexLocs)); ok {
		h.Sex = &sex
	}
	h.NameEn = parse.Ptr(dom.FirstText(doc, horseEnglishLocs))

	prof := x.profile(doc)
	if len(prof) == 0 {
		return h, nil
	}
	h.Profile = make(map[string]string, len(prof))
	for f, td := range prof {
		if v, ok := parse.CleanText(td.Text()); ok {
			h.Profile[f] = v
		}
	}

	if td, ok := prof["birth_date"]; ok {
		if d, ok := parse.Date(td.Text()); ok {
			h.BirthDate = &d
		}
	}
	h.TrainerID = linkID(parse.TrainerEntity, prof["trainer"])
	h.OwnerID = linkID(parse.OwnerEntity, prof["owner"])
	h.BreederID = linkID(parse.BreederEntity, prof["breeder"])
	if td, ok := prof["birthplace"]; ok {
		h.Birthplace = parse.Ptr(td.Text())
	}
	h.TotalPrizeCentral = prize(prof["total_prize_central"])
	h.TotalPrizeLocal = prize(prof["total_prize_local"])
	if td, ok := prof["offering_info"]; ok {
		if o, ok := parse.Offering(td.Text()); ok {
			h.Offering = &o
		}
	}
	return h, nil
}

func linkID(e parse.Entity, n dom.Node) *string {
	if n == nil {
		return nil
	}
	if ref, ok := parse.Link(e, n); ok {
		return &ref.ID
	}
	return nil
}

func prize(n dom.Node) *int64 {
	if n == nil {
		return nil
	}
	if _, ok := parse.CleanText(n.Text()); !ok {
		return nil
	}
	v := parse.Currency(n.Text())
	return &v
}

// Grades recognised on a victory line.
var victoryGrades = append(append([]gradeToken{}, detailGrades...),
	gradeToken{grade: models.GradeListed, tokens: []string{"(L)"}},
	gradeToken{grade: models.GradeOP, tokens: []string{"(OP)"}},
)

// HorseCareer fills the career record and main victories of h.
func (x *Extractor) HorseCareer(doc dom.Node, h *models.Horse) {
	prof := x.profile(doc)

	if td, ok := prof["career_record"]; ok {
		if c, ok := parse.CareerRecord(td.Text()); ok {
			h.Career = &c
		}
	}
	if h.Career == nil {
		if t, _, ok := dom.First(doc, careerTableLocs); ok {
			if c, ok := parse.CareerRecord(t.Text()); ok {
				h.Career = &c
			}
		}
	}

	if td, ok := prof["main_victories"]; ok {
		h.MainVictories = victories(td, false)
	}
	if len(h.MainVictories) == 0 {
		if block, _, ok := dom.First(doc, victoryBlockLocs); ok {
			h.MainVictories = victories(block, true)
		}
	}
}

// victories reads race links under n. The results block links every race,
// so there only graded wins are kept.
func victories(n dom.Node, gradedOnly bool) []models.Victory {
	var out []models.Victory
	for _, a := range n.FindAll("a") {
		href, ok := a.Attr("href")
		if !ok {
			continue
		}
		id, ok := parse.LinkID(parse.RaceEntity, href)
		if !ok {
			continue
		}
		v := models.Victory{RaceID: id, Name: a.Text()}
		if g, ok := matchGrade(v.Name, victoryGrades); ok {
			grade := g.grade
			v.Grade = &grade
		} else if gradedOnly {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Pedigree reads the four row blood table of a horse detail page and falls
// back to the profile's sire and dam rows for anything it did not find.
func (x *Extractor) Pedigree(doc dom.Node) models.Pedigree {
	var p models.Pedigree
	if table, _, ok := dom.First(doc, bloodTableLocs); ok {
		rows := table.FindAll("tr")
		if len(rows) >= 4 {
			p.SireID = linkID(parse.HorseEntity, rows[0])
			p.DamID = linkID(parse.HorseEntity, rows[2])
			p.MaternalGrandsireID = linkID(parse.HorseEntity, rows[3])
		}
	}

	prof := x.profile(doc)
	if p.SireID == nil {
		p.SireID = linkID(parse.HorseEntity, prof["sire"])
	}
	if p.DamID == nil {
		p.DamID = linkID(parse.HorseEntity, prof["dam"])
	}
	if p.MaternalGrandsireID == nil {
		p.MaternalGrandsireID = linkID(parse.HorseEntity, prof["maternal_grandsire"])
	}
	return p
}

// FiveGenPedigree reads the first two generations of the five generation
// pedigree page. The sire and dam cells span 16 rows and the broodmare sire
// cell spans 8 rows starting at row 16.
func (x *Extractor) FiveGenPedigree(doc dom.Node, horseID string) (models.Pedigree, error) {
	table, _, ok := dom.First(doc, fiveGenTableLocs)
	if !ok {
		return models.Pedigree{}, missing("pedigree table", "horse "+horseID, fiveGenTableLocs)
	}
	var p models.Pedigree
	for i, tr := range table.FindAll("tr") {
		for _, td := range dom.DataCells(tr) {
			span, _ := td.Attr("rowspan")
			if span != "16" && span != "8" {
				continue
			}
			id := linkID(parse.HorseEntity, td)
			if id == nil {
				continue
			}
			switch {
			case span == "16" && i == 0 && p.SireID == nil:
				p.SireID = id
			case span == "16" && i >= 16 && p.DamID == nil:
				p.DamID = id
			case span == "8" && i == 16 && p.MaternalGrandsireID == nil:
				p.MaternalGrandsireID = id
			}
		}
	}
	return p, nil
}
