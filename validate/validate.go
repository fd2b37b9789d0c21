// Package validate checks extracted records before they are stored. Checks
// return human readable violations; Policy decides whether they only warn or
// fail the item.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/padraicbc/keibadb/models"
)

// Policy selects how violations are treated.
type Policy struct {
	// Strict turns any violation into an item failure.
	Strict bool
	// RequireDistance adds the distance > 0 rule to Race.
	RequireDistance bool
}

// Error carries the violations of one record under a strict policy.
type Error struct {
	Target     string
	Violations []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Target, strings.Join(e.Violations, "; "))
}

// Check returns an *Error when the policy is strict and there are violations.
func (p Policy) Check(target string, violations []string) error {
	if !p.Strict || len(violations) == 0 {
		return nil
	}
	return &Error{Target: target, Violations: violations}
}

func raceID(id string) []string {
	if len(id) != models.RaceIDLength {
		return []string{fmt.Sprintf("race_id %q must be %d characters", id, models.RaceIDLength)}
	}
	return nil
}

// Race checks a race record.
func (p Policy) Race(r *models.Race) []string {
	v := raceID(r.RaceID)
	if strings.TrimSpace(r.RaceName) == "" {
		v = append(v, "race_name is empty")
	}
	if r.RaceDate == "" {
		v = append(v, "race_date is missing")
	}
	if p.RequireDistance && r.Distance <= 0 {
		v = append(v, fmt.Sprintf("distance %d must be positive", r.Distance))
	}
	if r.Grade != nil && !validGrade(*r.Grade) {
		v = append(v, fmt.Sprintf("grade %q is not recognised", *r.Grade))
	}
	return v
}

func validGrade(g models.Grade) bool {
	switch g {
	case models.GradeG1, models.GradeG2, models.GradeG3,
		models.GradeJpn1, models.GradeJpn2, models.GradeJpn3,
		models.GradeListed, models.GradeOP, models.GradeOther:
		return true
	}
	return false
}

// RaceResult checks one result row.
func RaceResult(rr *models.RaceResult) []string {
	v := raceID(rr.RaceID)
	if rr.HorseID == "" {
		v = append(v, "horse_id is empty")
	}
	return v
}

var comboGrammar = map[models.BetType]*regexp.Regexp{}

func init() {
	for _, b := range models.BetTypes {
		n := `(\d{1,2})`
		parts := make([]string, b.Arity())
		for i := range parts {
			parts[i] = n
		}
		comboGrammar[b] = regexp.MustCompile("^" + strings.Join(parts, regexp.QuoteMeta(b.Separator())) + "$")
	}
}

// Payout checks a single payout against its bet type's combination grammar
// and the amount and popularity bounds.
func Payout(p *models.RacePayout) []string {
	v := raceID(p.RaceID)
	if !p.BetType.Valid() {
		return append(v, fmt.Sprintf("bet_type %q is not one of the canonical labels", p.BetType))
	}
	switch m := comboGrammar[p.BetType].FindStringSubmatch(p.Combination); {
	case p.Combination == "":
		v = append(v, "combination is empty")
	case m == nil:
		v = append(v, fmt.Sprintf("combination %q does not match %s", p.Combination, p.BetType))
	default:
		for _, s := range m[1:] {
			if n, _ := strconv.Atoi(s); n < 1 || n > models.MaxHorseNumber {
				v = append(v, fmt.Sprintf("combination %q: number %d out of range 1-%d", p.Combination, n, models.MaxHorseNumber))
			}
		}
	}
	if p.PayoutAmount <= 0 || float64(p.PayoutAmount) >= models.MaxPayoutAmount {
		v = append(v, fmt.Sprintf("payout_amount %d out of range", p.PayoutAmount))
	}
	if p.Popularity != nil && (*p.Popularity < 1 || *p.Popularity > models.MaxPopularity) {
		v = append(v, fmt.Sprintf("popularity %d out of range 1-%d", *p.Popularity, models.MaxPopularity))
	}
	return v
}

// PayoutSet checks the payouts of one race as a whole. Each payout is also
// checked individually.
func PayoutSet(ps []models.RacePayout) []string {
	var v []string
	if len(ps) == 0 {
		return v
	}
	type key struct {
		bet   models.BetType
		combo string
	}
	seen := map[key]bool{}
	bets := map[models.BetType]bool{}
	for i := range ps {
		p := &ps[i]
		if p.RaceID != ps[0].RaceID {
			v = append(v, fmt.Sprintf("payout %d has race_id %s, expected %s", i, p.RaceID, ps[0].RaceID))
		}
		k := key{p.BetType, p.Combination}
		if seen[k] {
			v = append(v, fmt.Sprintf("duplicate payout %s %s", p.BetType, p.Combination))
		}
		seen[k] = true
		bets[p.BetType] = true
		v = append(v, Payout(p)...)
	}
	for _, b := range []models.BetType{models.BetWin, models.BetPlace} {
		if !bets[b] {
			v = append(v, fmt.Sprintf("no %s payout", b))
		}
	}
	return v
}

// Horse checks a horse record.
func Horse(h *models.Horse) []string {
	var v []string
	if h.HorseID == "" {
		return append(v, "horse_id is empty")
	}
	if strings.TrimSpace(h.NameJa) == "" {
		v = append(v, "name_ja is empty")
	}
	parents := []struct {
		name string
		id   *string
	}{
		{"sire_id", h.SireID},
		{"dam_id", h.DamID},
		{"maternal_grandsire_id", h.MaternalGrandsireID},
	}
	for _, p := range parents {
		if p.id != nil && *p.id == h.HorseID {
			v = append(v, fmt.Sprintf("%s points at the horse itself", p.name))
		}
	}
	if h.SireID != nil && h.DamID != nil && *h.SireID == *h.DamID {
		v = append(v, "sire_id and dam_id are the same horse")
	}
	return v
}

var rateNames = []string{"win_rate", "second_rate", "show_rate"}

// Person checks the aggregate record of a jockey, trainer, owner or breeder.
func Person(id string, p *models.Performance) []string {
	var v []string
	if id == "" {
		v = append(v, "id is empty")
	}
	if sum := p.Wins + p.Seconds + p.Thirds + p.Unplaced; sum != p.TotalRaces {
		v = append(v, fmt.Sprintf("total_races %d != placings %d", p.TotalRaces, sum))
	}
	for i, r := range []float64{p.WinRate, p.SecondRate, p.ShowRate} {
		if r < 0 || r > 100 {
			v = append(v, fmt.Sprintf("%s %.2f out of range 0-100", rateNames[i], r))
		}
	}
	if p.WinRate > p.SecondRate || p.SecondRate > p.ShowRate {
		v = append(v, fmt.Sprintf("rates not ordered: win %.2f, second %.2f, show %.2f", p.WinRate, p.SecondRate, p.ShowRate))
	}
	return v
}
