package visa

import (
	"sort"
	"strings"
)

// Options holds the distinct values offered in each form dropdown.
type Options struct {
	Nationalities []string `json:"nationalities"`
	Origins       []string `json:"origins"`
	Destinations  []string `json:"destinations"`
	Durations     []string `json:"durations"`
	StayTypes     []string `json:"stay_types"`
}

// OptionsFor collects the sorted distinct values of the five query columns.
// Blank cells are dropped.
func OptionsFor(t *Table) Options {
	var (
		nat  = newValueSet()
		orig = newValueSet()
		dest = newValueSet()
		dur  = newValueSet()
		typ  = newValueSet()
	)
	for i := 0; i < t.Len(); i++ {
		r := t.rules[i]
		nat.add(r.Nationality)
		orig.add(r.OriginCountry)
		dest.add(r.DestinationCountry)
		dur.add(r.StayDuration)
		typ.add(r.StayType)
	}
	return Options{
		Nationalities: nat.sorted(),
		Origins:       orig.sorted(),
		Destinations:  dest.sorted(),
		Durations:     dur.sorted(),
		StayTypes:     typ.sorted(),
	}
}

type valueSet map[string]struct{}

func newValueSet() valueSet { return make(valueSet) }

func (s valueSet) add(v string) {
	if strings.TrimSpace(v) == "" {
		return
	}
	s[v] = struct{}{}
}

func (s valueSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
