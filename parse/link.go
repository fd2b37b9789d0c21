package parse

import (
	"regexp"
	"strings"

	"github.com/padraicbc/keibadb/dom"
	"github.com/padraicbc/keibadb/models"
)

// Entity is a kind of linked record on the source site.
type Entity string

const (
	HorseEntity   Entity = "horse"
	JockeyEntity  Entity = "jockey"
	TrainerEntity Entity = "trainer"
	OwnerEntity   Entity = "owner"
	BreederEntity Entity = "breeder"
	RaceEntity    Entity = "race"
)

// Path segments that sit where an id would but name a listing instead.
var reservedSegments = map[string]bool{
	"ped": true, "list": true, "result": true, "recent": true, "search": true,
	"top": true, "sire": true, "mare": true, "bms": true, "movie": true,
}

var linkPatterns = map[Entity]*regexp.Regexp{
	HorseEntity:   regexp.MustCompile(`/horse/(?:ped/)?([0-9A-Za-z]+)(?:/|$|\?)`),
	JockeyEntity:  regexp.MustCompile(`/jockey/(?:result/recent/|profile/)?([0-9A-Za-z]+)(?:/|$|\?)`),
	TrainerEntity: regexp.MustCompile(`/trainer/(?:result/recent/|profile/)?([0-9A-Za-z]+)(?:/|$|\?)`),
	OwnerEntity:   regexp.MustCompile(`/owner/(?:result/recent/|profile/)?([0-9A-Za-z]+)(?:/|$|\?)`),
	BreederEntity: regexp.MustCompile(`/breeder/(?:result/recent/|profile/)?([0-9A-Za-z]+)(?:/|$|\?)`),
	RaceEntity:    regexp.MustCompile(`/race/([0-9A-Za-z]{12})(?:/|$|\?)`),
}

// LinkID extracts the entity id from an href.
func LinkID(e Entity, href string) (string, bool) {
	re, ok := linkPatterns[e]
	if !ok {
		return "", false
	}
	for _, m := range re.FindAllStringSubmatch(href, -1) {
		if !reservedSegments[strings.ToLower(m[1])] {
			return m[1], true
		}
	}
	return "", false
}

// Link returns the id and display text of the first anchor in n (or n
// itself) whose href points at an entity of kind e.
func Link(e Entity, n dom.Node) (models.Ref, bool) {
	if n == nil {
		return models.Ref{}, false
	}
	anchors := n.FindAll("a")
	if n.Tag() == "a" {
		anchors = append([]dom.Node{n}, anchors...)
	}
	for _, a := range anchors {
		href, ok := a.Attr("href")
		if !ok {
			continue
		}
		if id, ok := LinkID(e, href); ok {
			return models.Ref{ID: id, Name: a.Text()}, true
		}
	}
	return models.Ref{}, false
}

// Links returns every entity link of kind e under n, in document order.
func Links(e Entity, n dom.Node) []models.Ref {
	var out []models.Ref
	for _, a := range n.FindAll("a") {
		href, ok := a.Attr("href")
		if !ok {
			continue
		}
		if id, ok := LinkID(e, href); ok {
			out = append(out, models.Ref{ID: id, Name: a.Text()})
		}
	}
	return out
}
