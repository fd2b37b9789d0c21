package extract

import (
	"strings"

	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/parse"
)

// Race detail page.
var (
	raceNameLocs = []dom.Locator{
		dom.Class("dl", "racedata").In(dom.Tag("h1", 0)),
		dom.Class("div", "race_head").In(dom.Tag("h1", 0)),
		dom.Tag("h1", 0),
	}
	raceNumberLocs = []dom.Locator{
		dom.Class("dl", "racedata").In(dom.Tag("dt", 0)),
		dom.Class("div", "race_num"),
	}
	raceConditionLocs = []dom.Locator{
		dom.Class("dl", "racedata").In(dom.Tag("span", 0)),
		dom.Tag("diary_snap_cut", 0).In(dom.Tag("span", 0)),
		dom.Class("dl", "racedata").In(dom.Tag("p", 0)),
		dom.Class("div", "race_otherdata").In(dom.Tag("p", 0)),
	}
	raceCaptionLocs = []dom.Locator{
		dom.Class("p", "smalltxt"),
		dom.Class("div", "data_intro").In(dom.Tag("p", 1)),
		dom.Class("div", "race_otherdata").In(dom.Tag("p", 0)),
	}
	resultTableLocs = []dom.Locator{
		dom.Attr("table", "summary", "レース結果"),
		dom.Class("table", "race_table_01"),
		dom.Tag("table", 0),
	}
	cornerTableLocs = []dom.Locator{
		dom.Caption("table", "コーナー通過順位"),
		dom.Attr("table", "summary", "コーナー通過順位"),
	}
	lapTableLocs = []dom.Locator{
		dom.Caption("table", "ラップタイム"),
		dom.Attr("table", "summary", "ラップタイム"),
	}
	payoutTableLocs = []dom.Locator{
		dom.Attr("table", "summary", "払い戻し"),
		dom.Class("table", "pay_table_01"),
		dom.Class("table", "Payout_Detail_Table"),
	}
)

// Race search list page.
var raceListTableLocs = []dom.Locator{
	dom.Attr("table", "summary", "レース検索結果"),
	dom.Class("table", "race_table_01"),
	dom.Class("table", "nk_tb_common"),
}

// Horse pages.
var (
	horseNameLocs = []dom.Locator{
		dom.Class("div", "horse_title").In(dom.Tag("h1", 0)),
		dom.Tag("h1", 0),
		dom.Class("div", "horse_name").In(dom.Tag("h1", 0)),
	}
	horseSexLocs = []dom.Locator{
		dom.Class("div", "horse_title").In(dom.Class("p", "txt_01")),
		dom.Class("div", "horse_title").In(dom.Tag("p", 0)),
	}
	horseEnglishLocs = []dom.Locator{
		dom.Class("p", "eng_name").In(dom.Tag("a", 0)),
		dom.Class("p", "eng_name"),
	}
	profileTableLocs = []dom.Locator{
		dom.Attr("table", "summary", "のプロフィール"),
		dom.Attr("table", "summary", "プロフィール"),
		dom.Class("table", "db_prof_table"),
		dom.Class("table", "horse_info"),
		dom.Class("table", "prof_table"),
		dom.Class("table", "horse_prof"),
	}
	bloodTableLocs = []dom.Locator{
		dom.Attr("table", "summary", "血統"),
		dom.Class("table", "blood_table"),
	}
	fiveGenTableLocs = []dom.Locator{
		dom.Class("table", "blood_table_detail"),
		dom.Attr("table", "summary", "5代血統表"),
		dom.Class("table", "blood_table"),
	}
	careerTableLocs = []dom.Locator{
		dom.Attr("table", "summary", "競走成績"),
		dom.Class("table", "db_h_race_results"),
	}
	victoryBlockLocs = []dom.Locator{
		dom.Class("div", "horse_result"),
		dom.Class("div", "db_main_race"),
	}
	horseListTableLocs = []dom.Locator{
		dom.Attr("table", "summary", "競走馬検索結果"),
		dom.Class("table", "nk_tb_common"),
		dom.Class("table", "race_table_01"),
	}
)

// Registry list pages.
var registryTableLocs = []dom.Locator{
	dom.Class("table", "nk_tb_common race_table_01"),
	dom.Class("table", "race_table_01"),
	dom.Class("table", "nk_tb_common"),
}

// Profile fields keyed by the label printed in the profile table, with
// spaces removed.
var profileFields = map[string]string{
	"馬名":       "name_ja",
	"英字名":      "name_en",
	"生年月日":     "birth_date",
	"調教師":      "trainer",
	"馬主":       "owner",
	"募集情報":     "offering_info",
	"生産者":      "breeder",
	"産地":       "birthplace",
	"セリ取引価格":   "auction_price",
	"獲得賞金":     "total_prize_central",
	"獲得賞金(中央)": "total_prize_central",
	"獲得賞金(地方)": "total_prize_local",
	"通算成績":     "career_record",
	"主な勝ち鞍":    "main_victories",
	"重賞勝利":     "graded_wins",
	"近親馬":      "related_horses",
	"父":        "sire",
	"母":        "dam",
	"母父":       "maternal_grandsire",
	"馬体重":      "weight",
	"体高":       "height",
}

func profileField(label string) (string, bool) {
	key := strings.ReplaceAll(parse.Normalize(label), " ", "")
	f, ok := profileFields[key]
	return f, ok
}

type gradeToken struct {
	grade  models.Grade
	class  string
	tokens []string
}

// Grades printed in brackets after a race name, highest first.
var detailGrades = []gradeToken{
	{grade: models.GradeG1, tokens: []string{"(GI)", "(G1)"}},
	{grade: models.GradeG2, tokens: []string{"(GII)", "(G2)"}},
	{grade: models.GradeG3, tokens: []string{"(GIII)", "(G3)"}},
	{grade: models.GradeJpn1, tokens: []string{"(JpnI)", "(Jpn1)"}},
	{grade: models.GradeJpn2, tokens: []string{"(JpnII)", "(Jpn2)"}},
	{grade: models.GradeJpn3, tokens: []string{"(JpnIII)", "(Jpn3)"}},
}

// Race list names also carry listed, open, purse tier and maiden markers.
var listGrades = append(append([]gradeToken{}, detailGrades...),
	gradeToken{grade: models.GradeListed, tokens: []string{"(L)", "Listed", "リステッド"}},
	gradeToken{grade: models.GradeOP, tokens: []string{"(OP)", "OP", "オープン"}},
	gradeToken{grade: models.GradeOther, class: "1600万", tokens: []string{"1600万"}},
	gradeToken{grade: models.GradeOther, class: "1500万", tokens: []string{"1500万"}},
	gradeToken{grade: models.GradeOther, class: "1000万", tokens: []string{"1000万"}},
	gradeToken{grade: models.GradeOther, class: "500万", tokens: []string{"500万"}},
	gradeToken{grade: models.GradeOther, class: "3勝クラス", tokens: []string{"3勝クラス"}},
	gradeToken{grade: models.GradeOther, class: "2勝クラス", tokens: []string{"2勝クラス"}},
	gradeToken{grade: models.GradeOther, class: "1勝クラス", tokens: []string{"1勝クラス"}},
	gradeToken{grade: models.GradeOther, class: "新馬", tokens: []string{"新馬"}},
	gradeToken{grade: models.GradeOther, class: "未勝利", tokens: []string{"未勝利"}},
)

var romanGrades = strings.NewReplacer("Ⅲ", "III", "Ⅱ", "II", "Ⅰ", "I")

// matchGrade returns the first token set found in name.
func matchGrade(name string, table []gradeToken) (gradeToken, bool) {
	name = romanGrades.Replace(parse.Normalize(name))
	for _, g := range table {
		for _, t := range g.tokens {
			if strings.Contains(name, t) {
				return g, true
			}
		}
	}
	return gradeToken{}, false
}

// Payout header classes used when the label text is not one of the canonical
// bet types. "waku" covers both bracket bets.
var payoutClasses = map[string]models.BetType{
	"tan":     models.BetWin,
	"fuku":    models.BetPlace,
	"uren":    models.BetQuinella,
	"wide":    models.BetQuinellaPlace,
	"utan":    models.BetExacta,
	"sanfuku": models.BetTrio,
	"santan":  models.BetTrifecta,
}

const ambiguousBracketClass = "waku"

// Breeder name keywords.
var (
	farmKeywords        = []string{"ファーム", "牧場", "スタッド", "Farm", "Stud"}
	corporationKeywords = []string{"株式会社", "(株)", "有限会社", "(有)"}
	hokkaidoKeywords    = []string{"日高", "新冠", "浦河", "静内", "早来", "安平", "白老", "千歳", "門別", "三石", "平取", "鵡川"}
)

// Minimum cell counts before a row is read at all.
const (
	minResultCells   = 15
	minRaceListCells = 10
	minJockeyCells   = 21
	minOwnerCells    = 19
	registryHeaders  = 2
)
