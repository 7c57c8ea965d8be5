package catalog

import (
	"sort"
	"strings"
)

// AllServices selects every service when passed to NewFilter.
const AllServices = "All"

// Filter selects catalog entries by service and region. The zero Filter
// matches every entry.
type Filter struct {
	services map[string]bool // nil means all services
	regions  map[string]bool // nil means any region
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(values []string) map[string]bool {
	var set map[string]bool
	for _, v := range values {
		v = normalize(v)
		if v == "" {
			continue
		}
		if set == nil {
			set = make(map[string]bool)
		}
		set[v] = true
	}
	return set
}

// NewFilter returns a filter for the given services and regions. Matching is
// case-insensitive. No services, or any service equal to AllServices, selects
// all services; no regions leaves regions unfiltered.
func NewFilter(services, regions []string) Filter {
	f := Filter{
		services: toSet(services),
		regions:  toSet(regions),
	}
	if f.services[normalize(AllServices)] {
		f.services = nil
	}
	return f
}

// MatchesAllServices reports whether f selects every service.
func (f Filter) MatchesAllServices() bool {
	return f.services == nil
}

// Match reports whether e is selected by f. Entries without a region only
// match when f has no regions.
func (f Filter) Match(e Entry) bool {
	if f.services != nil && !f.services[normalize(e.Service)] {
		return false
	}
	if f.regions == nil {
		return true
	}
	return e.Region != nil && f.regions[normalize(*e.Region)]
}

func (f Filter) String() string {
	services := AllServices
	if f.services != nil {
		services = strings.Join(sortedKeys(f.services), ",")
	}
	regions := "any"
	if f.regions != nil {
		regions = strings.Join(sortedKeys(f.regions), ",")
	}
	return "services=" + services + " regions=" + regions
}

// Matched returns the entries selected by f in catalog order.
func Matched(entries []Entry, f Filter) []Entry {
	var ret []Entry
	for _, e := range entries {
		if f.Match(e) {
			ret = append(ret, e)
		}
	}
	return ret
}

// Select returns the prefixes of all entries selected by f, flattened in
// catalog order.
func Select(entries []Entry, f Filter) []string {
	var prefixes []string
	for _, e := range Matched(entries, f) {
		prefixes = append(prefixes, e.Prefixes...)
	}
	return prefixes
}

// Services returns the distinct service names in entries, sorted.
func Services(entries []Entry) []string {
	set := make(map[string]bool)
	for _, e := range entries {
		set[e.Service] = true
	}
	return sortedKeys(set)
}

// Regions returns the distinct regions in entries, sorted. Regionless entries
// are not counted.
func Regions(entries []Entry) []string {
	set := make(map[string]bool)
	for _, e := range entries {
		if e.Region != nil {
			set[*e.Region] = true
		}
	}
	return sortedKeys(set)
}

func sortedKeys(m map[string]bool) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
