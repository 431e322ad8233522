package catalog

import (
	"fmt"
	"sort"

	"github.com/aretw0/runways/pkg/core"
)

// OtherRegion groups airfields without a region.
const OtherRegion = "Other"

// RegionGroup is one section of the airfield list.
type RegionGroup struct {
	Region    string          `json:"region"`
	Airfields []core.Airfield `json:"airfields"`
}

// GroupByRegion sections a list by region, sorted by region name. Airfields
// keep their input order within a section.
func GroupByRegion(list []core.Airfield) []RegionGroup {
	index := make(map[string]int)
	var groups []RegionGroup
	for _, a := range list {
		region := a.Region
		if region == "" {
			region = OtherRegion
		}
		i, ok := index[region]
		if !ok {
			i = len(groups)
			index[region] = i
			groups = append(groups, RegionGroup{Region: region})
		}
		groups[i].Airfields = append(groups[i].Airfields, a)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Region < groups[j].Region
	})
	return groups
}

// ListMode selects which airfields the list shows.
type ListMode string

const (
	ModeAll        ListMode = "all"
	ModeFavourites ListMode = "favourites"
	ModeMyNotes    ListMode = "my-notes"
)

// ParseListMode accepts the mode names (and "myNotes"), defaulting an empty
// string to ModeAll.
func ParseListMode(s string) (ListMode, error) {
	switch m := ListMode(s); m {
	case "":
		return ModeAll, nil
	case "myNotes":
		return ModeMyNotes, nil
	case ModeAll, ModeFavourites, ModeMyNotes:
		return m, nil
	}
	return "", fmt.Errorf("unknown list mode %q", s)
}

// Membership reports whether an airfield identifier belongs to a set such as
// the favourites or the airfields with notes.
type Membership func(id string) bool

// Filter narrows a list to a mode. favourite and hasNotes may be nil when the
// mode does not need them.
func Filter(list []core.Airfield, mode ListMode, favourite, hasNotes Membership) []core.Airfield {
	var keep Membership
	switch mode {
	case ModeFavourites:
		keep = favourite
	case ModeMyNotes:
		keep = hasNotes
	default:
		return list
	}
	if keep == nil {
		return nil
	}

	var out []core.Airfield
	for _, a := range list {
		if keep(a.ID) {
			out = append(out, a)
		}
	}
	return out
}
