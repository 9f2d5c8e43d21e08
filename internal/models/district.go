package models

// Unresolved is the court value reported for an address whose district is unknown.
const Unresolved = "无"

// DistrictCourtMap maps a district name (e.g. "海淀区") to the court that governs it.
// It is built once per run and is not modified afterwards.
type DistrictCourtMap map[string]string

// MatchSource tells how the court of an address was obtained.
type MatchSource string

const (
	SourceDictionary MatchSource = "dictionary" // district found in the address text
	SourceGeocoder   MatchSource = "geocoder"   // district returned by a geocoding provider
	SourceNone       MatchSource = "none"       // unresolved
)

// MatchResult pairs an input address with the court it resolved to.
type MatchResult struct {
	Address  string      // Address is the input line, unchanged.
	Court    string      // Court is the court name, or Unresolved.
	District string      // District is the district that produced the match, empty when unresolved.
	Source   MatchSource // Source records how the court was found.
}

// Resolved reports whether the result carries a real court name.
func (r MatchResult) Resolved() bool {
	return r.Court != Unresolved
}
