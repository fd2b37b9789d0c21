package scraper

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/keibadb/storage"
)

func jockeyPage(from, n int) string {
	var b strings.Builder
	b.WriteString(`<table class="nk_tb_common race_table_01">`)
	b.WriteString(`<tr><th rowspan="2">騎手名</th><th colspan="4">成績</th></tr><tr><th>1着</th><th>2着</th></tr>`)
	for i := from; i < from+n; i++ {
		cells := []string{
			fmt.Sprintf(`<a href="/jockey/result/recent/%05d/">騎手%d</a>`, i, i),
			"[東] フリー",
			"1980/01/01",
			"1", "1", "1", "1",
			"0", "0", "0", "0", "4", "1",
			"4", "1", "0", "0",
			".250", ".500", ".750",
			"1,234.5",
		}
		b.WriteString(tr(cells...))
	}
	b.WriteString(`</table>`)
	return b.String()
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"jockey": Jockeys, "trainers": Trainers, "owner": Owners, "breeders": Breeders} {
		k, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, k)
	}
	_, err := ParseKind("horses")
	assert.EqualError(t, err, `unknown registry "horses"`)
}

func TestRegistryRun(t *testing.T) {
	site := &fakeSite{pages: map[string]string{
		"/jockey/list.html?page=1": jockeyPage(1, MaxPerPage),
		"/jockey/list.html?page=2": jockeyPage(MaxPerPage+1, 1),
	}}
	mem := storage.NewMemory()
	r := NewRegistryRunner(deps(site, mem), Options{})
	r.Year = 2024

	tally, err := r.Run(context.Background(), Jockeys, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxPerPage+1, tally.Success)
	assert.Equal(t, MaxPerPage+1, mem.Counts()["jockeys"])
	assert.Len(t, site.calls, 2)
	assert.Equal(t, "rank-asc", site.query[0].Get("sort"))
}

func TestRegistryRunLimit(t *testing.T) {
	site := &fakeSite{pages: map[string]string{"/jockey/list.html?page=1": jockeyPage(1, MaxPerPage)}}
	mem := storage.NewMemory()

	tally, err := NewRegistryRunner(deps(site, mem), Options{}).Run(context.Background(), Jockeys, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, tally.Total)
	assert.Equal(t, 50, mem.Counts()["jockeys"])
	assert.Len(t, site.calls, 1)
}

func TestRegistryRunMissingTable(t *testing.T) {
	site := &fakeSite{pages: map[string]string{"/trainer/list.html?page=1": `<html><body><p>empty</p></body></html>`}}
	_, err := NewRegistryRunner(deps(site, storage.NewMemory()), Options{}).Run(context.Background(), Trainers, 0)
	assert.Error(t, err)

	_, err = NewRegistryRunner(deps(&fakeSite{}, storage.NewMemory()), Options{}).Run(context.Background(), Owners, 0)
	assert.Error(t, err, "a failing first page fails the run")
}
