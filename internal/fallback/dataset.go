// Package fallback holds the curated beers served when no live or cached data is available.
package fallback

import (
	"math/rand"
	"strings"

	"hops-cache/pkg/models"
)

// synonyms expands a normalized term into the other spellings it should match
var synonyms = map[string][]string{
	"ipa":        {"india pale ale", "pale ale"},
	"india pale": {"ipa"},
	"apa":        {"american pale ale", "pale ale"},
	"stout":      {"porter"},
	"porter":     {"stout"},
	"lager":      {"pilsner", "helles"},
	"pils":       {"pilsner"},
	"pilsner":    {"lager"},
	"wheat":      {"weiss", "weizen", "witbier", "hefeweizen"},
	"hefe":       {"hefeweizen"},
	"sour":       {"gose", "berliner", "lambic"},
	"bitter":     {"esb", "extra special"},
	"dark":       {"stout", "porter", "schwarz"},
	"amber":      {"red ale"},
	"belgian":    {"tripel", "dubbel", "saison"},
}

// RandomTerms are the style terms a random pick draws from
var RandomTerms = []string{"ipa", "stout", "lager", "pilsner", "porter", "wheat", "sour", "pale ale", "amber"}

// Dataset is an immutable set of beers
type Dataset struct {
	beers []models.Beer
}

// New creates a Dataset over beers
func New(beers []models.Beer) *Dataset {
	return &Dataset{beers: beers}
}

// Default returns the bundled curated dataset
func Default() *Dataset {
	return New(curated)
}

// Len returns the number of beers
func (d *Dataset) Len() int {
	return len(d.beers)
}

// All returns a copy of every beer
func (d *Dataset) All() []models.Beer {
	out := make([]models.Beer, len(d.beers))
	copy(out, d.beers)
	return out
}

// Match returns the beers whose name or tagline contains the term or one of its
// synonyms, case-insensitively. An empty term matches nothing.
func (d *Dataset) Match(term string) []models.Beer {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []models.Beer{}
	}

	needles := append([]string{term}, synonyms[term]...)

	out := []models.Beer{}
	for _, beer := range d.beers {
		name := strings.ToLower(beer.Name)
		tagline := strings.ToLower(beer.Tagline)
		for _, n := range needles {
			if strings.Contains(name, n) || strings.Contains(tagline, n) {
				out = append(out, beer)
				break
			}
		}
	}
	return out
}

// Random picks one beer uniformly, or nil when the dataset is empty
func (d *Dataset) Random(rng *rand.Rand) *models.Beer {
	if len(d.beers) == 0 {
		return nil
	}
	beer := d.beers[rng.Intn(len(d.beers))]
	return &beer
}

// ByID finds a beer by identifier
func (d *Dataset) ByID(id string) *models.Beer {
	for _, beer := range d.beers {
		if beer.ID == id {
			b := beer
			return &b
		}
	}
	return nil
}
