// Package dom is a small read-only view over parsed HTML.
//
// Extractors search documents through Node with Locator values, so every
// "try the new template, then the old one" rule is an ordered slice of data
// rather than a chain of branches.
package dom

import (
	"fmt"
	"strings"
)

// Kind selects how a Locator matches elements.
type Kind int

const (
	// ByAttr matches Tag elements whose Key attribute equals Value.
	ByAttr Kind = iota
	// ByClass matches Tag elements carrying class Value. A Value with spaces
	// must equal the whole class attribute.
	ByClass
	// ByCaption matches Tag elements whose <caption> text equals Value.
	ByCaption
	// ByTag matches the Index-th Tag element.
	ByTag
)

func (k Kind) String() string {
	switch k {
	case ByAttr:
		return "attr"
	case ByClass:
		return "class"
	case ByCaption:
		return "caption"
	case ByTag:
		return "tag"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Locator describes one structural search. Then, when set, is searched for
// inside each match and the first match that contains it wins.
type Locator struct {
	Kind  Kind
	Tag   string
	Key   string
	Value string
	Index int
	Then  *Locator
}

// Attr locates tag[key=value].
func Attr(tag, key, value string) Locator {
	return Locator{Kind: ByAttr, Tag: tag, Key: key, Value: value}
}

// Class locates tag.class.
func Class(tag, class string) Locator {
	return Locator{Kind: ByClass, Tag: tag, Value: class}
}

// Caption locates a tag whose caption text is text.
func Caption(tag, text string) Locator {
	return Locator{Kind: ByCaption, Tag: tag, Value: text}
}

// Tag locates the index-th tag element in document order.
func Tag(tag string, index int) Locator {
	return Locator{Kind: ByTag, Tag: tag, Index: index}
}

// In returns a copy of l that continues the search with next inside each match.
func (l Locator) In(next Locator) Locator {
	if l.Then == nil {
		l.Then = &next
		return l
	}
	inner := l.Then.In(next)
	l.Then = &inner
	return l
}

func (l Locator) String() string {
	var s string
	switch l.Kind {
	case ByAttr:
		s = fmt.Sprintf("%s[%s=%q]", l.Tag, l.Key, l.Value)
	case ByClass:
		s = fmt.Sprintf("%s.%s", l.Tag, strings.ReplaceAll(l.Value, " ", "."))
	case ByCaption:
		s = fmt.Sprintf("%s(caption=%q)", l.Tag, l.Value)
	case ByTag:
		s = fmt.Sprintf("%s:eq(%d)", l.Tag, l.Index)
	default:
		s = l.Kind.String()
	}
	if l.Then != nil {
		s += " " + l.Then.String()
	}
	return s
}

// Node is an element (or the document root) of a parsed page.
type Node interface {
	// Find returns the first descendant matching loc.
	Find(loc Locator) (Node, bool)
	// FindAll returns descendants whose tag is one of the comma separated tags, in document order.
	FindAll(tags string) []Node
	// Text is the element's text with whitespace runs collapsed.
	Text() string
	// Lines is the element's text split at <br> and newlines, blank lines dropped.
	Lines() []string
	Attr(name string) (string, bool)
	Tag() string
}

// First tries locs in order and returns the first match together with the
// index of the locator that produced it.
func First(n Node, locs []Locator) (Node, int, bool) {
	if n == nil {
		return nil, -1, false
	}
	for i, l := range locs {
		if m, ok := n.Find(l); ok {
			return m, i, true
		}
	}
	return nil, -1, false
}

// FirstText is First followed by Text, returning "" when nothing matched.
func FirstText(n Node, locs []Locator) string {
	m, _, ok := First(n, locs)
	if !ok {
		return ""
	}
	return m.Text()
}

// Cells returns a row's th and td elements in order.
func Cells(row Node) []Node {
	return row.FindAll("th,td")
}

// DataCells returns a row's td elements in order.
func DataCells(row Node) []Node {
	return row.FindAll("td")
}

// Href returns the href of n when n is an anchor, otherwise of its first anchor.
func Href(n Node) (string, bool) {
	if n.Tag() == "a" {
		return n.Attr("href")
	}
	for _, a := range n.FindAll("a") {
		if h, ok := a.Attr("href"); ok {
			return h, true
		}
	}
	return "", false
}

var spaceReplacer = strings.NewReplacer("\u00a0", " ", "\u3000", " ", "\t", " ", "\r", " ")

// CollapseSpace folds no-break and ideographic spaces to ASCII and squeezes runs of spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(spaceReplacer.Replace(s)), " ")
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if l := CollapseSpace(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Matches reports whether n itself satisfies l, ignoring Index and Then.
func Matches(n Node, l Locator) bool {
	if l.Tag != "" && l.Tag != "*" && n.Tag() != l.Tag {
		return false
	}
	switch l.Kind {
	case ByAttr:
		v, ok := n.Attr(l.Key)
		return ok && strings.TrimSpace(v) == l.Value
	case ByClass:
		v, _ := n.Attr("class")
		if strings.Contains(l.Value, " ") {
			return strings.Join(strings.Fields(v), " ") == strings.Join(strings.Fields(l.Value), " ")
		}
		for _, c := range strings.Fields(v) {
			if c == l.Value {
				return true
			}
		}
		return false
	case ByCaption:
		c, ok := n.Find(Tag("caption", 0))
		return ok && c.Text() == l.Value
	case ByTag:
		return true
	}
	return false
}

// Every returns all elements matching the first locator in locs that matches
// anything, for sections the page splits across several sibling tables.
func Every(n Node, locs []Locator) ([]Node, int) {
	for i, l := range locs {
		if l.Kind == ByTag {
			if m, ok := n.Find(l); ok {
				return []Node{m}, i
			}
			continue
		}
		var out []Node
		for _, c := range n.FindAll(tagOrAny(l.Tag)) {
			if Matches(c, l) {
				out = append(out, c)
			}
		}
		if len(out) > 0 {
			return out, i
		}
	}
	return nil, -1
}

func tagOrAny(tag string) string {
	if tag == "" {
		return "*"
	}
	return tag
}
