package extract

import (
	"strings"

	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/models"
	"github.com/padraicbc/keibadb/parse"
)

// Payouts reads every payout table on a race page. The page splits bet types
// over two or more tables, so all tables matched by the first successful
// locator are read. A (bet type, combination) pair is kept once.
func (x *Extractor) Payouts(doc dom.Node, raceID string) ([]models.RacePayout, error) {
	tables, _ := dom.Every(doc, payoutTableLocs)
	if len(tables) == 0 {
		return nil, missing("payout table", "race "+raceID, payoutTableLocs)
	}

	type key struct {
		bet   models.BetType
		combo string
	}
	seen := map[key]bool{}
	var out []models.RacePayout
	for _, t := range tables {
		for _, tr := range t.FindAll("tr") {
			for _, p := range payoutRow(tr, raceID) {
				k := key{p.BetType, p.Combination}
				if seen[k] {
					continue
				}
				seen[k] = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func payoutRow(tr dom.Node, raceID string) []models.RacePayout {
	th, ok := tr.Find(dom.Tag("th", 0))
	if !ok {
		return nil
	}
	bet, ok := betType(th, tr)
	if !ok {
		return nil
	}
	tds := dom.DataCells(tr)
	if len(tds) < 2 {
		return nil
	}

	combos := tds[0].Lines()
	amounts := fields(tds[1].Lines())
	var pops []string
	if len(tds) > 2 {
		pops = fields(tds[2].Lines())
	}
	if len(combos) < len(amounts) {
		combos = parse.Combinations(strings.Join(tds[0].Lines(), " "), bet.Arity())
	}

	var out []models.RacePayout
	for i, a := range amounts {
		if i >= len(combos) {
			break
		}
		amount, ok := parse.Int(a)
		if !ok {
			continue
		}
		p := models.RacePayout{
			RaceID:       raceID,
			BetType:      bet,
			Combination:  parse.Combination(combos[i]),
			PayoutAmount: int64(amount),
		}
		if i < len(pops) {
			p.Popularity = parse.IntPtr(pops[i])
		}
		out = append(out, p)
	}
	return out
}

// betType trusts the header label first and only then the header class.
func betType(th, row dom.Node) (models.BetType, bool) {
	label := models.BetType(strings.ReplaceAll(parse.Normalize(th.Text()), " ", ""))
	if label.Valid() {
		return label, true
	}
	class, _ := th.Attr("class")
	for _, c := range strings.Fields(class) {
		if c == ambiguousBracketClass {
			if strings.Contains(row.Text(), "→") {
				return models.BetBracketExacta, true
			}
			return models.BetBracketQuinella, true
		}
		if b, ok := payoutClasses[c]; ok {
			return b, true
		}
	}
	return "", false
}

// fields splits each line further on whitespace.
func fields(lines []string) []string {
	var out []string
	for _, l := range lines {
		out = append(out, strings.Fields(l)...)
	}
	return out
}
