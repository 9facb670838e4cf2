package matching

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
)

// Location is the set of tokens a property address is matched on.
type Location struct {
	Zip      string   `json:"zip"`
	State    string   `json:"state"`
	City     string   `json:"city"`
	Keywords []string `json:"keywords"`
}

// LocationMatcher scores a parsed property location against a buyer's preferred areas.
// It is only consulted when the buyer stated a preference.
type LocationMatcher interface {
	MatchLocation(loc Location, preferredAreas string) (points float64, reason string)
}

var (
	// a ZIP counts only after a state code or at the very end, never a house number
	stateZipRe = regexp.MustCompile(`(?i)\b([a-z]{2})\.?,?\s+(\d{5})(?:-\d{4})?\b`)
	tailZipRe  = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\s*$`)

	// "Austin TX 78701" as the last comma-separated part
	cityStateZipRe = regexp.MustCompile(`(?i)^([a-z][a-z .'-]*[a-z])\.?,?\s+[a-z]{2}\.?,?\s+\d{5}(?:-\d{4})?$`)
)

var addressNoise = map[string]struct{}{
	"street": {}, "avenue": {}, "road": {}, "drive": {}, "lane": {}, "court": {}, "place": {},
	"boulevard": {}, "blvd": {}, "circle": {}, "terrace": {}, "parkway": {}, "pkwy": {},
	"highway": {}, "trail": {}, "square": {}, "unit": {}, "suite": {}, "apartment": {},
	"north": {}, "south": {}, "east": {}, "west": {},
	"northeast": {}, "northwest": {}, "southeast": {}, "southwest": {},
}

// ParseLocation extracts location tokens from a property. Structured city/state/zip fields win
// over what can be read from the free-text address.
func ParseLocation(p domain.PropertyRecord) Location {
	addr := strings.TrimSpace(p.Address)
	loc := Location{
		Zip:   strings.TrimSpace(p.Zip),
		State: strings.ToUpper(strings.TrimSpace(p.State)),
		City:  strings.TrimSpace(p.City),
	}

	stateZip := stateZipRe.FindAllStringSubmatch(addr, -1)
	if loc.Zip == "" {
		if len(stateZip) > 0 {
			loc.Zip = stateZip[len(stateZip)-1][2]
		} else if m := tailZipRe.FindStringSubmatch(addr); m != nil {
			loc.Zip = m[1]
		}
	}
	if loc.State == "" && len(stateZip) > 0 {
		loc.State = strings.ToUpper(stateZip[len(stateZip)-1][1])
	}
	if loc.City == "" {
		loc.City = cityFromAddress(addr)
	}
	loc.Keywords = keywords(addr)
	return loc
}

// cityFromAddress reads "street, City ST 12345" and "street, city, ST 12345".
func cityFromAddress(addr string) string {
	parts := strings.Split(addr, ",")
	if len(parts) < 2 {
		return ""
	}
	if m := cityStateZipRe.FindStringSubmatch(strings.TrimSpace(parts[len(parts)-1])); m != nil {
		return strings.TrimSpace(m[1])
	}
	if len(parts) >= 3 {
		return strings.TrimSpace(parts[len(parts)-2])
	}
	return ""
}

func keywords(addr string) []string {
	words := strings.FieldsFunc(strings.ToLower(addr), func(r rune) bool { return !unicode.IsLetter(r) })
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 4 {
			continue
		}
		if _, ok := addressNoise[w]; ok {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// SubstringLocationMatcher searches the lowercased preference text for the location tokens in
// order ZIP, city, state, keyword and stops at the first hit.
type SubstringLocationMatcher struct {
	policy policy.MatchPolicy
}

func NewSubstringLocationMatcher(p policy.MatchPolicy) *SubstringLocationMatcher {
	return &SubstringLocationMatcher{policy: p}
}

func (m *SubstringLocationMatcher) MatchLocation(loc Location, preferredAreas string) (float64, string) {
	prefs := strings.ToLower(preferredAreas)

	if loc.Zip != "" && strings.Contains(prefs, loc.Zip) {
		return m.policy.LocationMax, fmt.Sprintf("ZIP %s is a preferred area", loc.Zip)
	}
	if city := strings.ToLower(loc.City); city != "" && strings.Contains(prefs, city) {
		return m.policy.LocationMax, fmt.Sprintf("city %s is a preferred area", loc.City)
	}
	if loc.State != "" && containsState(prefs, strings.ToLower(loc.State)) {
		return m.policy.StateScore, fmt.Sprintf("state %s is a preferred area", loc.State)
	}
	for _, kw := range loc.Keywords {
		if strings.Contains(prefs, kw) {
			return m.policy.KeywordScore, fmt.Sprintf("area keyword %q matches preferences", kw)
		}
	}
	return 0, ""
}

// containsState matches two-letter codes as whole words so "oh" does not hit "john".
func containsState(prefs, state string) bool {
	if len(state) > 2 {
		return strings.Contains(prefs, state)
	}
	for _, tok := range strings.FieldsFunc(prefs, func(r rune) bool { return !unicode.IsLetter(r) }) {
		if tok == state {
			return true
		}
	}
	return false
}
