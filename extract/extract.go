// Package extract turns parsed netkeiba pages into model records.
//
// Every section lookup goes through an ordered list of locators (see
// tables.go). Earlier locators describe the current page templates and later
// ones older templates, so order matters. A missing defining section (race
// name, result table, horse name) is reported as a *SectionError; any single
// field that fails to parse is simply left empty.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/padraicbc/keibadb/dom"
)

// ErrMissingSection is wrapped by every SectionError.
var ErrMissingSection = errors.New("section not found")

// SectionError reports a required section that none of the locators found.
type SectionError struct {
	Section string
	Target  string
	Tried   []string
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("%s: %s %s (tried %s)", e.Target, e.Section, ErrMissingSection, strings.Join(e.Tried, ", "))
}

func (e *SectionError) Unwrap() error { return ErrMissingSection }

func missing(section, target string, locs []dom.Locator) error {
	tried := make([]string, len(locs))
	for i, l := range locs {
		tried[i] = l.String()
	}
	return &SectionError{Section: section, Target: target, Tried: tried}
}

// Options tunes extraction strictness.
type Options struct {
	// StrictTables drops positional "first table on the page" fallbacks so
	// that only class or attribute matches are accepted.
	StrictTables bool
}

// Extractor holds Options shared by all page extractors.
type Extractor struct {
	opts Options
}

// New returns an Extractor.
func New(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

func (x *Extractor) locators(locs []dom.Locator) []dom.Locator {
	if !x.opts.StrictTables {
		return locs
	}
	out := make([]dom.Locator, 0, len(locs))
	for _, l := range locs {
		if l.Kind != dom.ByTag {
			out = append(out, l)
		}
	}
	return out
}

// dataRows returns rows that hold at least one td, skipping header rows.
func dataRows(table dom.Node) [][]dom.Node {
	var out [][]dom.Node
	for _, tr := range table.FindAll("tr") {
		cells := dom.DataCells(tr)
		if len(cells) > 0 {
			out = append(out, cells)
		}
	}
	return out
}

// cellText returns the text of cells[i], or "" past the end.
func cellText(cells []dom.Node, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i].Text()
}

// labelled reads a two column label/value table into label → value cell.
// The first occurrence of a label wins.
func labelled(table dom.Node) map[string]dom.Node {
	out := map[string]dom.Node{}
	for _, tr := range table.FindAll("tr") {
		cells := dom.Cells(tr)
		if len(cells) < 2 {
			continue
		}
		label := cells[0].Text()
		if _, seen := out[label]; !seen && label != "" {
			out[label] = cells[1]
		}
	}
	return out
}
