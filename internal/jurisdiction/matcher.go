package jurisdiction

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/UnknownOlympus/themis/internal/models"
)

// Matcher finds the governing court of free-text addresses by scanning them
// for known district names.
//
// The earliest district occurrence in the address wins. When several names
// start at that position (one is a prefix of another) the longest name wins,
// and names of equal length are ordered lexically. The alternation is emitted
// in that order and RE2 alternation is leftmost-first, so the result never
// depends on map iteration order.
type Matcher struct {
	courts    map[string]string // folded district -> court
	districts map[string]string // folded district -> district as written in the mapping
	pattern   *regexp.Regexp
}

// NewMatcher compiles a matcher for districts. An empty map yields a matcher
// that resolves nothing.
func NewMatcher(districts models.DistrictCourtMap) *Matcher {
	matcher := &Matcher{
		courts:    make(map[string]string, len(districts)),
		districts: make(map[string]string, len(districts)),
	}

	names := make([]string, 0, len(districts))
	for district := range districts {
		names = append(names, district)
	}
	slices.Sort(names)

	for _, district := range names {
		key := foldWidth(district)
		if key == "" {
			continue
		}
		matcher.courts[key] = districts[district]
		matcher.districts[key] = district
	}

	if len(matcher.courts) == 0 {
		return matcher
	}

	keys := make([]string, 0, len(matcher.courts))
	for key := range matcher.courts {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b); la != lb {
			return lb - la
		}
		return strings.Compare(a, b)
	})

	alternatives := make([]string, len(keys))
	for i, key := range keys {
		alternatives[i] = regexp.QuoteMeta(key)
	}
	matcher.pattern = regexp.MustCompile(strings.Join(alternatives, "|"))

	return matcher
}

// Len returns the number of districts the matcher knows.
func (m *Matcher) Len() int {
	return len(m.courts)
}

// Resolve returns the court and district found in address. ok is false when
// no district occurs in it.
func (m *Matcher) Resolve(address string) (string, string, bool) {
	if m.pattern == nil {
		return "", "", false
	}

	key := m.pattern.FindString(foldWidth(address))
	if key == "" {
		return "", "", false
	}

	return m.courts[key], m.districts[key], true
}

// Match resolves every address, keeping input order. Unmatched addresses get
// the Unresolved court.
func (m *Matcher) Match(addresses []string) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(addresses))
	for _, address := range addresses {
		result := models.MatchResult{Address: address, Court: models.Unresolved, Source: models.SourceNone}
		if court, district, ok := m.Resolve(address); ok {
			result.Court = court
			result.District = district
			result.Source = models.SourceDictionary
		}
		results = append(results, result)
	}

	return results
}

// MatchAddresses is a convenience wrapper building a Matcher for a single pass.
func MatchAddresses(addresses []string, districts models.DistrictCourtMap) []models.MatchResult {
	return NewMatcher(districts).Match(addresses)
}
