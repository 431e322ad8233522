// Package catalog holds the immutable reference list of airfields and the
// read-only queries the app runs over it: lookup, free-text search, region
// grouping and list modes.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/runways/pkg/core"
)

//go:embed airfields.yaml
var seed []byte

// Catalog is an immutable, validated list of airfields.
type Catalog struct {
	airfields []core.Airfield
	byID      map[string]int
}

// Default returns the catalog shipped with the app.
func Default() (*Catalog, error) {
	return Parse(seed)
}

// MustDefault is Default for callers that treat the embedded data as a build
// invariant.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a YAML list of airfields and validates it.
func Parse(data []byte) (*Catalog, error) {
	var list []core.Airfield
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: invalid yaml: %v", core.ErrInvalidCatalog, err)
	}
	return New(list)
}

// New validates the airfields and builds a catalog. The input slice is copied.
func New(list []core.Airfield) (*Catalog, error) {
	c := &Catalog{
		airfields: make([]core.Airfield, 0, len(list)),
		byID:      make(map[string]int, len(list)),
	}
	for _, a := range list {
		if err := ValidateAirfield(a); err != nil {
			return nil, err
		}
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate airfield %s", core.ErrInvalidCatalog, a.ID)
		}
		c.byID[a.ID] = len(c.airfields)
		c.airfields = append(c.airfields, clone(a))
	}
	return c, nil
}

// Len is the number of airfields.
func (c *Catalog) Len() int {
	return len(c.airfields)
}

// All returns every airfield in seed order.
func (c *Catalog) All() []core.Airfield {
	out := make([]core.Airfield, len(c.airfields))
	for i, a := range c.airfields {
		out[i] = clone(a)
	}
	return out
}

// Get looks an airfield up by identifier. Lookup is case-insensitive.
func (c *Catalog) Get(id string) (core.Airfield, bool) {
	i, ok := c.byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return core.Airfield{}, false
	}
	return clone(c.airfields[i]), true
}

// Search matches the trimmed query case-insensitively against name, ICAO and
// IATA codes. An empty query returns everything.
func (c *Catalog) Search(query string) []core.Airfield {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}

	var out []core.Airfield
	for _, a := range c.airfields {
		if Matches(a, q) {
			out = append(out, clone(a))
		}
	}
	return out
}

// Matches reports whether a lower-cased query is a substring of the
// airfield's name, ICAO or IATA code.
func Matches(a core.Airfield, q string) bool {
	return strings.Contains(strings.ToLower(a.Name), q) ||
		strings.Contains(strings.ToLower(a.ICAOCode), q) ||
		(a.IATACode != "" && strings.Contains(strings.ToLower(a.IATACode), q))
}

// clone copies the slices so callers cannot mutate the catalog.
func clone(a core.Airfield) core.Airfield {
	a.Runways = slices.Clone(a.Runways)
	for i := range a.Runways {
		a.Runways[i].ApproachTypes = slices.Clone(a.Runways[i].ApproachTypes)
	}
	if a.HasCurfew != nil {
		v := *a.HasCurfew
		a.HasCurfew = &v
	}
	return a
}
