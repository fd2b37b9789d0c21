// Package parse converts raw text fragments from netkeiba pages into typed
// values. Every parser reports absence with ok=false instead of an error; the
// caller decides whether a missing value matters.
package parse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"github.com/padraicbc/keibadb/models"
)

// Normalize folds full-width digits, letters and punctuation to ASCII and trims space.
func Normalize(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}

// CleanText trims s and treats "" and "-" as absent.
func CleanText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "−" || s == "－" {
		return "", false
	}
	return s, true
}

// Ptr returns a pointer to the cleaned text, or nil when absent.
func Ptr(s string) *string {
	if v, ok := CleanText(s); ok {
		return &v
	}
	return nil
}

var (
	digitsRe = regexp.MustCompile(`[+-]?\d+`)
	floatRe  = regexp.MustCompile(`[+-]?\d+(?:\.\d+)?`)
)

// Int reads the first integer in s, tolerating full-width digits and thousands separators.
func Int(s string) (int, bool) {
	s = strings.ReplaceAll(Normalize(s), ",", "")
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float reads the first decimal number in s.
func Float(s string) (float64, bool) {
	s = strings.ReplaceAll(Normalize(s), ",", "")
	m := floatRe.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IntPtr is Int returning nil when absent.
func IntPtr(s string) *int {
	if n, ok := Int(s); ok {
		return &n
	}
	return nil
}

// FloatPtr is Float returning nil when absent.
func FloatPtr(s string) *float64 {
	if f, ok := Float(s); ok {
		return &f
	}
	return nil
}

var (
	jaDateRe    = regexp.MustCompile(`(\d{4})年\s*(\d{1,2})月\s*(\d{1,2})日`)
	slashDateRe = regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`)
)

// Date accepts "YYYY年M月D日" or "YYYY/MM/DD" anywhere in s and returns "YYYY-MM-DD".
func Date(s string) (string, bool) {
	s = Normalize(s)
	m := jaDateRe.FindStringSubmatch(s)
	if m == nil {
		m = slashDateRe.FindStringSubmatch(s)
	}
	if m == nil {
		return "", false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, mo, d), true
}

var (
	okuRe = regexp.MustCompile(`(\d+)億`)
	manRe = regexp.MustCompile(`(\d+(?:\.\d+)?)万`)
)

// Currency converts an oku/man amount such as "17億5,655万円" to man-yen (175655).
// Text without either unit yields 0.
func Currency(s string) int64 {
	s = strings.ReplaceAll(Normalize(s), ",", "")
	var total int64
	if m := okuRe.FindStringSubmatch(s); m != nil {
		oku, _ := strconv.ParseInt(m[1], 10, 64)
		total += oku * 10000
	}
	if m := manRe.FindStringSubmatch(s); m != nil {
		man, _ := strconv.ParseFloat(m[1], 64)
		total += int64(math.Round(man))
	}
	return total
}

var (
	careerRe      = regexp.MustCompile(`(\d+)戦(\d+)勝`)
	careerSplitRe = regexp.MustCompile(`\[\s*(\d+)-(\d+)-(\d+)-(\d+)\s*\]`)
)

// CareerRecord parses "10戦8勝 [8-2-0-0]". The bracketed split is optional.
func CareerRecord(s string) (models.Career, bool) {
	s = Normalize(s)
	m := careerRe.FindStringSubmatch(s)
	if m == nil {
		return models.Career{}, false
	}
	starts, _ := strconv.Atoi(m[1])
	wins, _ := strconv.Atoi(m[2])
	c := models.Career{Starts: starts, Wins: wins}
	if starts > 0 {
		c.WinRate = math.Round(float64(wins)/float64(starts)*100*10) / 10
	}
	if sm := careerSplitRe.FindStringSubmatch(s); sm != nil {
		counts := make([]int, 4)
		for i := range counts {
			counts[i], _ = strconv.Atoi(sm[i+1])
		}
		c.First, c.Second, c.Third, c.Others = &counts[0], &counts[1], &counts[2], &counts[3]
	}
	return c, true
}

var sexCodes = []struct {
	prefix string
	sex    models.Sex
}{
	{"せん", models.Gelding},
	{"セ", models.Gelding},
	{"騸", models.Gelding},
	{"牡", models.Male},
	{"牝", models.Female},
	{"gelding", models.Gelding},
	{"female", models.Female},
	{"male", models.Male},
}

// SexAge splits "牝3" into (female, 3). The age is absent when no digits follow.
func SexAge(s string) (models.Sex, *int, bool) {
	s = Normalize(s)
	for _, c := range sexCodes {
		if strings.HasPrefix(s, c.prefix) {
			return c.sex, IntPtr(s[len(c.prefix):]), true
		}
	}
	return "", nil, false
}

// Sex finds a sex marker anywhere in s, as used in horse profile headers.
func Sex(s string) (models.Sex, bool) {
	for _, c := range sexCodes {
		if strings.Contains(s, c.prefix) {
			return c.sex, true
		}
	}
	return "", false
}

var bodyWeightRe = regexp.MustCompile(`^(\d+)\s*(?:\(\s*([+-]?)\s*(\d+)\s*\))?`)

// BodyWeight parses "474(+4)" into (474, 4). A weight without a change reports change 0.
func BodyWeight(s string) (weight int, change int, ok bool) {
	s = strings.ReplaceAll(Normalize(s), "±", "")
	m := bodyWeightRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	weight, _ = strconv.Atoi(m[1])
	if m[3] != "" {
		change, _ = strconv.Atoi(m[3])
		if m[2] == "-" {
			change = -change
		}
	}
	return weight, change, true
}

var offeringRe = regexp.MustCompile(`1口\s*[:：]?\s*([\d.]+)万円\s*/\s*(\d+)口`)

// Offering parses club share text "1口:10万円/400口".
func Offering(s string) (models.Offering, bool) {
	m := offeringRe.FindStringSubmatch(strings.ReplaceAll(Normalize(s), ",", ""))
	if m == nil {
		return models.Offering{}, false
	}
	price, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return models.Offering{}, false
	}
	shares, _ := strconv.Atoi(m[2])
	p := int(math.Round(price))
	return models.Offering{PricePerShare: p, Shares: shares, Total: p * shares}, true
}

var (
	regionRe = regexp.MustCompile(`\[\s*(東|西|地方|外)\s*\]`)
	regions  = map[string]models.Region{"東": models.East, "西": models.West, "地方": models.Local}
)

// Region reads a "[東]" or "[西]" marker embedded in free text.
func Region(s string) (models.Region, bool) {
	m := regionRe.FindStringSubmatch(Normalize(s))
	if m == nil {
		return "", false
	}
	r, ok := regions[m[1]]
	return r, ok
}

// StripRegion removes any region marker and surrounding space.
func StripRegion(s string) string {
	return strings.TrimSpace(regionRe.ReplaceAllString(Normalize(s), ""))
}
