package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type selection struct {
	s *goquery.Selection
}

// Parse builds a Node from an HTML document.
func Parse(doc string) (Node, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return selection{d.Selection}, nil
}

// FromSelection wraps an existing goquery selection.
func FromSelection(s *goquery.Selection) Node {
	return selection{s}
}

func (n selection) candidates(l Locator) *goquery.Selection {
	tag := l.Tag
	if tag == "" {
		tag = "*"
	}
	all := n.s.Find(tag)

	switch l.Kind {
	case ByAttr:
		return all.FilterFunction(func(_ int, s *goquery.Selection) bool {
			v, ok := s.Attr(l.Key)
			return ok && strings.TrimSpace(v) == l.Value
		})
	case ByClass:
		return all.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return hasClass(s, l.Value)
		})
	case ByCaption:
		return all.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return CollapseSpace(s.ChildrenFiltered("caption").First().Text()) == l.Value
		})
	case ByTag:
		return all.Eq(l.Index)
	}
	return all.Slice(0, 0)
}

func hasClass(s *goquery.Selection, class string) bool {
	if !strings.Contains(class, " ") {
		return s.HasClass(class)
	}
	v, ok := s.Attr("class")
	return ok && strings.Join(strings.Fields(v), " ") == strings.Join(strings.Fields(class), " ")
}

func (n selection) Find(l Locator) (Node, bool) {
	var found Node
	n.candidates(l).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if l.Then == nil {
			found = selection{s}
			return false
		}
		if m, ok := (selection{s}).Find(*l.Then); ok {
			found = m
			return false
		}
		return true
	})
	return found, found != nil
}

func (n selection) FindAll(tags string) []Node {
	sel := n.s.Find(tags)
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, selection{s})
	})
	return out
}

// Text is the collapsed text content, with a space wherever a <br> splits it.
func (n selection) Text() string {
	var b strings.Builder
	for _, node := range n.s.Nodes {
		writeText(&b, node)
	}
	return CollapseSpace(b.String())
}

func writeText(b *strings.Builder, node *html.Node) {
	switch {
	case node.Type == html.TextNode:
		b.WriteString(node.Data)
		return
	case node.Type == html.ElementNode && node.Data == "br":
		b.WriteByte(' ')
		return
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

func (n selection) Lines() []string {
	var b strings.Builder
	for _, node := range n.s.Nodes {
		writeLines(&b, node)
	}
	return splitLines(b.String())
}

func writeLines(b *strings.Builder, node *html.Node) {
	switch {
	case node.Type == html.TextNode:
		b.WriteString(node.Data)
		return
	case node.Type == html.ElementNode && node.Data == "br":
		b.WriteByte('\n')
		return
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		writeLines(b, c)
	}
	if node.Type == html.ElementNode && (node.Data == "p" || node.Data == "div" || node.Data == "li") {
		b.WriteByte('\n')
	}
}

func (n selection) Attr(name string) (string, bool) {
	return n.s.Attr(name)
}

func (n selection) Tag() string {
	if len(n.s.Nodes) == 0 {
		return ""
	}
	return goquery.NodeName(n.s)
}
