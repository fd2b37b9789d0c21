package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/models"
)

func TestDate(t *testing.T) {
	testCases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024年5月26日", "2024-05-26", true},
		{"2024年 12月 1日 2回東京12日目", "2024-12-01", true},
		{"2025/05/25", "2025-05-25", true},
		{"２０２３年１０月２９日", "2023-10-29", true},
		{"2019-03-23", "2019-03-23", true},
		{"2024年13月1日", "", false},
		{"unknown", "", false},
		{"", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Date(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, int64(175655), Currency("17億5,655万円"))
	assert.Equal(t, int64(0), Currency("0万円"))
	assert.Equal(t, int64(500), Currency("500万円"))
	assert.Equal(t, int64(10000), Currency("1億円"))
	assert.Equal(t, int64(1235), Currency("1,234.5万円"))
	assert.Equal(t, int64(300), Currency("３００万円"))
	assert.Equal(t, int64(0), Currency("-"))
}

func TestCareerRecord(t *testing.T) {
	c, ok := CareerRecord("10戦8勝 [8-2-0-0]")
	require.True(t, ok)

	intp := func(n int) *int { return &n }
	assert.Equal(t, models.Career{
		Starts: 10, Wins: 8, WinRate: 80.0,
		First: intp(8), Second: intp(2), Third: intp(0), Others: intp(0),
	}, c)

	c, ok = CareerRecord("3戦1勝")
	require.True(t, ok)
	assert.Equal(t, 33.3, c.WinRate)
	assert.Nil(t, c.First)

	c, ok = CareerRecord("0戦0勝")
	require.True(t, ok)
	assert.Zero(t, c.WinRate)

	_, ok = CareerRecord("未出走")
	assert.False(t, ok)
}

func TestSexAge(t *testing.T) {
	testCases := []struct {
		in  string
		sex models.Sex
		age int
	}{
		{"牝3", models.Female, 3},
		{"牡5", models.Male, 5},
		{"セ7", models.Gelding, 7},
		{"female3", models.Female, 3},
		{"male4", models.Male, 4},
		{"牡１０", models.Male, 10},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			sex, age, ok := SexAge(tc.in)
			require.True(t, ok)
			assert.Equal(t, tc.sex, sex)
			require.NotNil(t, age)
			assert.Equal(t, tc.age, *age)
		})
	}

	_, _, ok := SexAge("3")
	assert.False(t, ok)
}

func TestSexInHeader(t *testing.T) {
	sex, ok := Sex("現役　牡5　鹿毛")
	require.True(t, ok)
	assert.Equal(t, models.Male, sex)

	sex, ok = Sex("抹消　せん6　栗毛")
	require.True(t, ok)
	assert.Equal(t, models.Gelding, sex)
}

func TestBodyWeight(t *testing.T) {
	testCases := []struct {
		in     string
		weight int
		change int
		ok     bool
	}{
		{"474(+4)", 474, 4, true},
		{"450(-2)", 450, -2, true},
		{"502(0)", 502, 0, true},
		{"498(±0)", 498, 0, true},
		{"４６０（＋１２）", 460, 12, true},
		{"480", 480, 0, true},
		{"計不", 0, 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			w, c, ok := BodyWeight(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.weight, w)
			assert.Equal(t, tc.change, c)
		})
	}
}

func TestNumbers(t *testing.T) {
	n, ok := Int("1,234")
	require.True(t, ok)
	assert.Equal(t, 1234, n)

	n, ok = Int("１２")
	require.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = Int("中止")
	assert.False(t, ok)

	f, ok := Float("57.5")
	require.True(t, ok)
	assert.Equal(t, 57.5, f)

	assert.Nil(t, FloatPtr("---"))
	assert.Nil(t, Ptr(" - "))
	assert.Equal(t, "晴", *Ptr(" 晴 "))
}

func TestOffering(t *testing.T) {
	o, ok := Offering("1口:10万円/400口")
	require.True(t, ok)
	assert.Equal(t, models.Offering{PricePerShare: 10, Shares: 400, Total: 4000}, o)

	_, ok = Offering("募集なし")
	assert.False(t, ok)
}

func TestRegion(t *testing.T) {
	r, ok := Region("[東] 木村哲也")
	require.True(t, ok)
	assert.Equal(t, models.East, r)

	r, ok = Region("［西］")
	require.True(t, ok)
	assert.Equal(t, models.West, r)

	_, ok = Region("木村哲也")
	assert.False(t, ok)

	assert.Equal(t, "木村哲也", StripRegion("[東] 木村哲也"))
}

func TestCombination(t *testing.T) {
	assert.Equal(t, "1 → 2 → 3", Combination("1→2→3"))
	assert.Equal(t, "3 - 7", Combination(" 3-7 "))
	assert.Equal(t, "7", Combination("7"))
	assert.Equal(t, []string{"3 - 7", "3 - 12", "7 - 12"}, Combinations("3 - 7 3 - 12 7 - 12", 2))
	assert.Equal(t, []string{"3", "7", "12"}, Combinations("3 7 12", 1))
	assert.Nil(t, Combinations("1", 4))
}

func TestLinkID(t *testing.T) {
	testCases := []struct {
		entity Entity
		href   string
		want   string
		ok     bool
	}{
		{HorseEntity, "/horse/2019105219/", "2019105219", true},
		{HorseEntity, "https://db.netkeiba.com/horse/ped/000a011155/", "000a011155", true},
		{HorseEntity, "/horse/sire/2019105219/", "", false},
		{JockeyEntity, "/jockey/result/recent/05339/", "05339", true},
		{JockeyEntity, "/jockey/01126/", "01126", true},
		{TrainerEntity, "/trainer/result/recent/01126/", "01126", true},
		{OwnerEntity, "/owner/result/recent/226800/", "226800", true},
		{BreederEntity, "/breeder/373126/", "373126", true},
		{RaceEntity, "/race/202405021211/", "202405021211", true},
		{RaceEntity, "/race/list/20240526/", "", false},
		{HorseEntity, "/jockey/05339/", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.href, func(t *testing.T) {
			got, ok := LinkID(tc.entity, tc.href)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLink(t *testing.T) {
	doc, err := dom.Parse(`<table><tr><td><span>[東]</span> <a href="/horse/list/">一覧</a> <a href="/trainer/01126/">木村哲也</a></td></tr></table>`)
	require.NoError(t, err)
	cell, ok := doc.Find(dom.Tag("td", 0))
	require.True(t, ok)

	ref, ok := Link(TrainerEntity, cell)
	require.True(t, ok)
	assert.Equal(t, models.Ref{ID: "01126", Name: "木村哲也"}, ref)

	_, ok = Link(HorseEntity, cell)
	assert.False(t, ok)
	assert.Len(t, Links(TrainerEntity, cell), 1)
}
