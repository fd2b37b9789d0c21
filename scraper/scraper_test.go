package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/keibadb/extract"
	"github.com/padraicbc/keibadb/fetch"
	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/storage"
	"github.com/padraicbc/keibadb/validate"
)

// fakeSite serves canned pages keyed by path, plus "?page=N" for list pages.
type fakeSite struct {
	pages map[string]string
	calls []string
	query []url.Values
}

func (f *fakeSite) Get(_ context.Context, path string, q url.Values) (string, error) {
	key := path
	if p := q.Get("page"); p != "" {
		key += "?page=" + p
	}
	f.calls = append(f.calls, key)
	f.query = append(f.query, q)
	html, ok := f.pages[key]
	if !ok {
		return "", &fetch.StatusError{URL: key, Code: 404}
	}
	return html, nil
}

func tr(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

const raceID = "202405021211"

func racePage(name string, caption, payouts bool) string {
	var b strings.Builder
	b.WriteString(`<html><body><dl class="racedata fc"><dt>11 R</dt><dd><h1>` + name + `</h1>`)
	b.WriteString(`<p><diary_snap_cut><span>芝左2400m / 天候 : 晴 / 芝 : 良 / 発走 : 15:40</span></diary_snap_cut></p></dd></dl>`)
	if caption {
		b.WriteString(`<p class="smalltxt">2024年5月26日 2回東京12日目 3歳オープン</p>`)
	}
	b.WriteString(`<table class="race_table_01 nk_tb_common" summary="レース結果"><tr><th>着順</th></tr>`)
	b.WriteString(tr("1", "5", "10", `<a href="/horse/2021105872/">ダノンデサイル</a>`, "牡3", "57",
		`<a href="/jockey/result/recent/00660/">横山典弘</a>`, "2:24.3", "", "**", "3-3-3-3", "34.2", "46.6", "9", "478(+2)"))
	b.WriteString(tr("2", "1", "1", "名無し", "牡3", "57",
		`<a href="/jockey/result/recent/01170/">戸崎圭太</a>`, "2:24.5", "1.1/4", "**", "4-4-4-4", "34.3", "2.2", "1", "490(0)"))
	b.WriteString(`</table>`)
	if payouts {
		b.WriteString(`<table class="pay_table_01" summary="払い戻し">`)
		b.WriteString(`<tr><th class="tan">単勝</th><td>10</td><td>4,660</td><td>9</td></tr>`)
		b.WriteString(`<tr><th class="fuku">複勝</th><td>10<br>1</td><td>830<br>150</td><td>9<br>1</td></tr>`)
		b.WriteString(`</table>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func raceListPage(ids ...string) string {
	var b strings.Builder
	b.WriteString(`<table class="nk_tb_common race_table_01" summary="レース検索結果"><tr><th>開催日</th></tr>`)
	for _, id := range ids {
		b.WriteString(tr("2024/05/26", "2東京12", "晴", "11", `<a href="/race/`+id+`/">レース</a>`, "", "芝2400", "17", "良", "2:24.3"))
	}
	b.WriteString(`</table>`)
	return b.String()
}

func deps(site *fakeSite, store storage.Store) Deps {
	return Deps{Fetcher: site, Store: store, Extractor: extract.New(extract.Options{})}
}

func TestScrapeRace(t *testing.T) {
	site := &fakeSite{pages: map[string]string{"/race/" + raceID + "/": racePage("東京優駿(GI)", true, true)}}
	mem := storage.NewMemory()
	r := NewRaceRunner(deps(site, mem), Options{})

	require.NoError(t, r.ScrapeRace(context.Background(), raceID))

	race, results, payouts, ok := mem.Race(raceID)
	require.True(t, ok)
	assert.Equal(t, "2024-05-26", race.RaceDate)
	assert.Equal(t, models.GradeG1, *race.Grade)
	require.Len(t, results, 2)
	assert.Equal(t, models.PlaceholderHorseID(raceID, 1), results[0].HorseID)
	assert.Len(t, payouts, 3)

	_, ok = mem.Horse(models.PlaceholderHorseID(raceID, 1))
	assert.True(t, ok, "placeholder horse row")
}

func TestScrapeRaceWithoutPayouts(t *testing.T) {
	site := &fakeSite{pages: map[string]string{"/race/" + raceID + "/": racePage("東京優駿(GI)", true, false)}}
	mem := storage.NewMemory()

	require.NoError(t, NewRaceRunner(deps(site, mem), Options{}).ScrapeRace(context.Background(), raceID))
	_, _, payouts, ok := mem.Race(raceID)
	assert.True(t, ok)
	assert.Empty(t, payouts)
}

func TestScrapeRaceStrictValidation(t *testing.T) {
	site := &fakeSite{pages: map[string]string{"/race/" + raceID + "/": racePage("東京優駿(GI)", false, true)}}

	lenient := storage.NewMemory()
	require.NoError(t, NewRaceRunner(deps(site, lenient), Options{}).ScrapeRace(context.Background(), raceID))
	_, _, _, ok := lenient.Race(raceID)
	assert.True(t, ok, "violations only warn by default")

	strict := storage.NewMemory()
	d := deps(site, strict)
	d.Policy = validate.Policy{Strict: true}
	err := NewRaceRunner(d, Options{}).ScrapeRace(context.Background(), raceID)
	var ve *validate.Error
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Violations, "race_date is missing")
	_, _, _, ok = strict.Race(raceID)
	assert.False(t, ok)
}

func TestScrapeRaceMissingSection(t *testing.T) {
	site := &fakeSite{pages: map[string]string{"/race/" + raceID + "/": `<html><body><p>メンテナンス中</p></body></html>`}}
	err := NewRaceRunner(deps(site, storage.NewMemory()), Options{}).ScrapeRace(context.Background(), raceID)
	assert.True(t, errors.Is(err, extract.ErrMissingSection))

	err = NewRaceRunner(deps(site, storage.NewMemory()), Options{}).ScrapeRace(context.Background(), "2024")
	assert.Error(t, err)
	assert.Len(t, site.calls, 1, "bad ids are rejected before fetching")
}

func TestRaceRunList(t *testing.T) {
	const a, b, c = "202405021201", "202405021202", "202405021203"
	site := &fakeSite{pages: map[string]string{
		"/?page=1":        raceListPage(a, b),
		"/?page=2":        raceListPage(b, c),
		"/?page=3":        raceListPage(c),
		"/race/" + c + "/": racePage("レースC", true, true),
	}}
	mem := storage.NewMemory()
	require.NoError(t, mem.SaveRace(context.Background(), &models.Race{RaceID: a}, nil, nil))

	r := NewRaceRunner(deps(site, mem), Options{SkipExisting: true})
	tally, err := r.RunList(context.Background(), ListQuery{StartYear: 2024, EndYear: 2024, Grades: []string{ListG1}, PerPage: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, tally.Total)
	assert.Equal(t, 1, tally.Skipped)
	assert.Equal(t, 1, tally.Failed)
	assert.Equal(t, 1, tally.Success)
	require.Len(t, tally.Failures, 1)
	assert.Equal(t, b, tally.Failures[0].ID)

	assert.Equal(t, []string{"/?page=1", "/?page=2", "/?page=3", "/race/" + b + "/", "/race/" + c + "/"}, site.calls)
	q := site.query[0]
	assert.Equal(t, "race_list", q.Get("pid"))
	assert.Equal(t, "2", q.Get("list"))
	assert.Equal(t, []string{ListG1}, q["grade[]"])
	assert.Len(t, q["jyo[]"], len(models.JRATracks))
}

func TestListRaceIDsLimit(t *testing.T) {
	site := &fakeSite{pages: map[string]string{"/?page=1": raceListPage("202405021201", "202405021202")}}
	ids, err := NewRaceRunner(deps(site, storage.NewMemory()), Options{}).ListRaceIDs(context.Background(), ListQuery{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"202405021201"}, ids)

	_, err = NewRaceRunner(deps(&fakeSite{}, storage.NewMemory()), Options{}).ListRaceIDs(context.Background(), ListQuery{})
	var se *fetch.StatusError
	assert.True(t, errors.As(err, &se))
}

func TestListRaceIDsMaxPages(t *testing.T) {
	site := &fakeSite{pages: map[string]string{}}
	for p := 1; p <= 5; p++ {
		site.pages[fmt.Sprintf("/?page=%d", p)] = raceListPage(fmt.Sprintf("2024050212%02d", 2*p-1), fmt.Sprintf("2024050212%02d", 2*p))
	}
	ids, err := NewRaceRunner(deps(site, storage.NewMemory()), Options{MaxPages: 3}).ListRaceIDs(context.Background(), ListQuery{PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, ids, 6)
	assert.Len(t, site.calls, 3)
}

func TestRunIDsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	site := &fakeSite{}
	tally := NewRaceRunner(deps(site, storage.NewMemory()), Options{}).RunIDs(ctx, []string{raceID})
	assert.Equal(t, 0, tally.Total)
	assert.Empty(t, site.calls)
}
