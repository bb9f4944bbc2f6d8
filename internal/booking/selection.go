package booking

import (
	"sort"
	"strconv"
	"strings"
)

// CourtCandidates filters the court titles scraped from a results page down to
// those belonging to facility and orders them deterministically: the preferred
// court first when it matches, then ascending by trailing court number with a
// lexical fallback. The same inputs always produce the same order, so an
// unchanged slot grid yields the same pick across runs.
func CourtCandidates(courts []string, facility, preferred string) []string {
	fac := strings.ToLower(strings.TrimSpace(facility))

	var matched []string
	seen := make(map[string]bool, len(courts))
	for _, c := range courts {
		t := strings.TrimSpace(c)
		if t == "" || seen[t] {
			continue
		}
		if !strings.Contains(strings.ToLower(t), fac) {
			continue
		}
		seen[t] = true
		matched = append(matched, t)
	}

	sort.SliceStable(matched, func(i, j int) bool { return courtLess(matched[i], matched[j]) })

	if p := strings.TrimSpace(preferred); p != "" {
		for i, c := range matched {
			if isPreferredCourt(c, fac, p) {
				rest := make([]string, 0, len(matched)-1)
				rest = append(rest, matched[:i]...)
				rest = append(rest, matched[i+1:]...)
				return append([]string{c}, rest...)
			}
		}
	}
	return matched
}

func isPreferredCourt(title, facility, court string) bool {
	lt := strings.ToLower(title)
	lc := strings.ToLower(court)
	if strings.Contains(lt, facility+" "+lc) {
		return true
	}
	for _, f := range strings.Fields(lt) {
		if f == lc {
			return true
		}
	}
	return false
}

// courtLess orders titles by trailing court number when both carry one
// ("Badminton 2" < "Badminton 10"), otherwise lexically.
func courtLess(a, b string) bool {
	na, aok := trailingNumber(a)
	nb, bok := trailingNumber(b)
	if aok && bok && na != nb {
		return na < nb
	}
	return a < b
}

func trailingNumber(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	return n, err == nil
}
