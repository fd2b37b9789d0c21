package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNode is a synthetic tree that answers Find from a lookup table keyed by
// the locator's String form.
type fakeNode struct {
	tag   string
	text  string
	found map[string]*fakeNode
}

func (f *fakeNode) Find(l Locator) (Node, bool) {
	if m, ok := f.found[l.String()]; ok {
		return m, true
	}
	return nil, false
}
func (f *fakeNode) FindAll(string) []Node      { return nil }
func (f *fakeNode) Text() string               { return f.text }
func (f *fakeNode) Lines() []string            { return []string{f.text} }
func (f *fakeNode) Attr(string) (string, bool) { return "", false }
func (f *fakeNode) Tag() string                { return f.tag }

func TestFirstPrefersEarlierLocators(t *testing.T) {
	locs := []Locator{
		Attr("table", "summary", "のプロフィール"),
		Class("table", "db_prof_table"),
		Tag("table", 0),
	}

	legacy := &fakeNode{tag: "table", text: "legacy"}
	modern := &fakeNode{tag: "table", text: "modern"}

	root := &fakeNode{found: map[string]*fakeNode{
		locs[1].String(): legacy,
		locs[2].String(): modern,
	}}
	n, idx, ok := First(root, locs)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "legacy", n.Text())

	root.found[locs[0].String()] = modern
	_, idx, ok = First(root, locs)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	_, idx, ok = First(&fakeNode{}, locs)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)

	_, _, ok = First(nil, locs)
	assert.False(t, ok)
}

const fixture = `<html><body>
<div class="data_intro">
  <dl class="racedata fc"><dt>11 R</dt><dd><h1>日本ダービー(GI)</h1></dd></dl>
</div>
<table class="nk_tb_common race_table_01"><tr><th>a</th></tr></table>
<table class="result_table_02" summary="ラップタイム">
  <caption class="result_table_02_caption">ラップタイム</caption>
  <tr><th>ラップ</th><td>12.5 - 10.9</td></tr>
</table>
<table class="pay_table_01"><tr><th class="fuku">複勝</th><td>7<br>3<br />12</td><td>150<br>120<br>450</td></tr></table>
<p class="smalltxt">2024年5月26日&nbsp;2回東京12日目　3歳オープン</p>
</body></html>`

func TestGoqueryLocators(t *testing.T) {
	doc, err := Parse(fixture)
	require.NoError(t, err)

	h1, ok := doc.Find(Class("dl", "racedata").In(Tag("h1", 0)))
	require.True(t, ok)
	assert.Equal(t, "日本ダービー(GI)", h1.Text())
	assert.Equal(t, "h1", h1.Tag())

	_, ok = doc.Find(Class("table", "nk_tb_common race_table_01"))
	assert.True(t, ok)
	_, ok = doc.Find(Class("table", "race_table_01 nk_tb_common"))
	assert.False(t, ok, "multi-class value must equal the whole attribute")
	_, ok = doc.Find(Class("table", "race_table_01"))
	assert.True(t, ok)

	lap, ok := doc.Find(Caption("table", "ラップタイム"))
	require.True(t, ok)
	cells := Cells(lap.FindAll("tr")[0])
	require.Len(t, cells, 2)
	assert.Equal(t, "12.5 - 10.9", cells[1].Text())

	_, ok = doc.Find(Attr("table", "summary", "ラップタイム"))
	assert.True(t, ok)
	_, ok = doc.Find(Tag("table", 5))
	assert.False(t, ok)

	caption, ok := doc.Find(Class("p", "smalltxt"))
	require.True(t, ok)
	assert.Equal(t, "2024年5月26日 2回東京12日目 3歳オープン", caption.Text())
}

func TestLines(t *testing.T) {
	doc, err := Parse(fixture)
	require.NoError(t, err)

	row, ok := doc.Find(Class("table", "pay_table_01").In(Tag("tr", 0)))
	require.True(t, ok)
	tds := DataCells(row)
	require.Len(t, tds, 2)
	assert.Equal(t, []string{"7", "3", "12"}, tds[0].Lines())
	assert.Equal(t, []string{"150", "120", "450"}, tds[1].Lines())
}

func TestTextSeparatesBreaks(t *testing.T) {
	doc, err := Parse(`<table><tr><td>10<br>1</td><td><b>5</b><br/><b>7</b></td></tr></table>`)
	require.NoError(t, err)

	tds := doc.FindAll("td")
	require.Len(t, tds, 2)
	assert.Equal(t, "10 1", tds[0].Text())
	assert.Equal(t, []string{"10", "1"}, tds[0].Lines())
	assert.Equal(t, "5 7", tds[1].Text())
}

func TestLocatorIn(t *testing.T) {
	l := Class("div", "a").In(Class("dl", "b")).In(Tag("h1", 0))
	assert.Equal(t, "div.a dl.b h1:eq(0)", l.String())
	assert.Nil(t, Class("div", "a").Then)
}

func TestHref(t *testing.T) {
	doc, err := Parse(`<div><span>x</span><a href="/horse/1/">h</a></div>`)
	require.NoError(t, err)
	div, ok := doc.Find(Tag("div", 0))
	require.True(t, ok)
	h, ok := Href(div)
	require.True(t, ok)
	assert.Equal(t, "/horse/1/", h)
}

func TestEvery(t *testing.T) {
	doc, err := Parse(`<table class="pay_table_01" id="a"></table><table class="x"></table><table class="pay_table_01" id="b"></table>`)
	require.NoError(t, err)

	tables, idx := Every(doc, []Locator{
		Attr("table", "summary", "払い戻し"),
		Class("table", "pay_table_01"),
	})
	assert.Equal(t, 1, idx)
	require.Len(t, tables, 2)
	id, _ := tables[1].Attr("id")
	assert.Equal(t, "b", id)

	tables, idx = Every(doc, []Locator{Attr("table", "summary", "none")})
	assert.Nil(t, tables)
	assert.Equal(t, -1, idx)
}
