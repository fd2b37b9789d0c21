package parse

import (
	"regexp"
	"strings"
)

var comboSepRe = regexp.MustCompile(`\s*(-|→)\s*`)

// Combination normalises payout combination spacing: "1→2→3" becomes "1 → 2 → 3".
func Combination(s string) string {
	s = comboSepRe.ReplaceAllString(Normalize(s), " $1 ")
	return strings.Join(strings.Fields(s), " ")
}

var comboRes = map[int]*regexp.Regexp{
	1: regexp.MustCompile(`\d+`),
	2: regexp.MustCompile(`\d+\s*[-→]\s*\d+`),
	3: regexp.MustCompile(`\d+\s*[-→]\s*\d+\s*[-→]\s*\d+`),
}

// Combinations finds every combination of the given arity in flattened text,
// for payout cells whose line breaks were lost.
func Combinations(s string, arity int) []string {
	re, ok := comboRes[arity]
	if !ok {
		return nil
	}
	matches := re.FindAllString(Normalize(s), -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, Combination(m))
	}
	return out
}
