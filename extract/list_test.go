package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/keibadb/models"
)

var raceListPage = `<html><body>
<table class="nk_tb_common race_table_01" summary="レース検索結果">
<tr><th>開催日</th><th>開催</th><th>天気</th><th>R</th><th>レース名</th></tr>
` + tr(`<a href="/race/list/20240526/">2024/05/26</a>`, `<a href="/race/sum/05/20240526/">2東京12</a>`, "晴", "11",
	`<a href="/race/202405021211/">東京優駿(G1)</a>`, "", "芝2400", "17", "良", "2:24.3", "35.4-35.0",
	`<a href="/horse/2021105872/">ダノンデサイル</a>`, `<a href="/jockey/result/recent/00660/">横山典弘</a>`,
	`[西] <a href="/trainer/result/recent/01166/">安田翔伍</a>`) + `
` + tr("2024/05/26", "2東京12", "晴", "10", `<a href="/race/202405021210/">むらさき賞(3勝クラス)</a>`, "", "ダ右1600", "16", "良", "1:35.0") + `
` + tr("2024/05/26", "2東京12", "晴", "9", "リンクなし", "", "芝1800", "12", "良", "1:46.0") + `
` + tr("2024/05/26", "2東京12") + `
</table></body></html>`

func TestRaceList(t *testing.T) {
	rs, err := New(Options{}).RaceList(mustParse(t, raceListPage))
	require.NoError(t, err)
	require.Len(t, rs, 2)

	d := rs[0]
	assert.Equal(t, "202405021211", d.RaceID)
	assert.Equal(t, "東京優駿(G1)", d.RaceName)
	assert.Equal(t, "2024-05-26", d.RaceDate)
	assert.Equal(t, "東京", d.TrackName)
	assert.Equal(t, 2, *d.MeetingNumber)
	assert.Equal(t, 12, *d.MeetingDay)
	assert.Equal(t, "晴", *d.Weather)
	assert.Equal(t, 11, d.RaceNumber)
	assert.Equal(t, models.GradeG1, *d.Grade)
	assert.Nil(t, d.RaceClass)
	assert.Equal(t, models.Turf, d.TrackType)
	assert.Nil(t, d.TrackDirection)
	assert.Equal(t, 2400, d.Distance)
	assert.Equal(t, 17, d.TotalHorses)
	assert.Equal(t, "35.4-35.0", *d.Pace)
	assert.Equal(t, models.Ref{ID: "2021105872", Name: "ダノンデサイル"}, *d.Winner)
	assert.Equal(t, "00660", d.Jockey.ID)
	assert.Equal(t, "01166", d.Trainer.ID)
	assert.Equal(t, models.West, *d.TrainerRegion)

	c := rs[1]
	assert.Equal(t, models.GradeOther, *c.Grade)
	assert.Equal(t, "3勝クラス", *c.RaceClass)
	assert.Equal(t, models.Dirt, c.TrackType)
	assert.Equal(t, models.Right, *c.TrackDirection)
	assert.Equal(t, 1600, c.Distance)
	assert.Nil(t, c.Winner)
}

func TestRaceListGrades(t *testing.T) {
	testCases := []struct {
		name  string
		grade models.Grade
		class string
	}{
		{"宝塚記念(GI)", models.GradeG1, ""},
		{"京都新聞杯(GII)", models.GradeG2, ""},
		{"エプソムC(GIII)", models.GradeG3, ""},
		{"スイートピーS(L)", models.GradeListed, ""},
		{"メイS(OP)", models.GradeOP, ""},
		{"日本海S(1600万下)", models.GradeOther, "1600万"},
		{"稲村ヶ崎特別(1000万下)", models.GradeOther, "1000万"},
		{"HTB杯(1500万下)", models.GradeOther, "1500万"},
		{"3歳500万下", models.GradeOther, "500万"},
		{"3歳未勝利", models.GradeOther, "未勝利"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, ok := matchGrade(tc.name, listGrades)
			require.True(t, ok)
			assert.Equal(t, tc.grade, g.grade)
			assert.Equal(t, tc.class, g.class)
		})
	}

	_, ok := matchGrade("日本ダービー", listGrades)
	assert.False(t, ok)
}

func TestHorseList(t *testing.T) {
	page := `<table class="nk_tb_common race_table_01" summary="競走馬検索結果">
<tr><th></th><th>馬名</th><th>性</th><th>生年</th><th>厩舎</th><th>父</th><th>母</th></tr>
` + tr(`<input type="checkbox" name="i-horse_2019105219" value="2019105219">`,
		`<a href="/horse/2019105219/">ドウデュース</a>`, "牡", "2019",
		`<a href="/trainer/01061/">友道康夫</a>`,
		`<a href="/horse/000a010fd4/">ハーツクライ</a>`,
		`<a href="/horse/2008102764/">ダストアンドダイヤモンズ</a>`) + `
` + tr("", "名無し", "牝", "2020") + `
</table>`

	hs, err := New(Options{}).HorseList(mustParse(t, page))
	require.NoError(t, err)
	require.Len(t, hs, 1)

	h := hs[0]
	assert.Equal(t, "2019105219", h.HorseID)
	assert.Equal(t, "ドウデュース", h.Name)
	assert.Equal(t, models.Male, *h.Sex)
	assert.Equal(t, 2019, *h.BirthYear)
	assert.Equal(t, "01061", h.Trainer.ID)
	assert.Equal(t, "000a010fd4", h.Sire.ID)
	assert.Equal(t, "ダストアンドダイヤモンズ", h.Dam.Name)
}
