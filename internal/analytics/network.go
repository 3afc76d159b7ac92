package analytics

import (
	"sort"
	"strings"
)

// UsernameConsistency filters the identifier set to username-shaped entries
// (anything without "@" or "http") and measures how much the remaining
// handles repeat. An empty filtered set yields the zero-value result, which
// callers must read as "no data" rather than a measured score of zero.
func UsernameConsistency(identifiers []string) ConsistencyResult {
	var usernames []string
	for _, id := range identifiers {
		if strings.Contains(id, "@") || strings.Contains(id, "http") {
			continue
		}
		usernames = append(usernames, id)
	}

	if len(usernames) == 0 {
		return ConsistencyResult{ConsistencyScore: 0, CommonPatterns: []string{}, TotalUsernames: 0}
	}

	counts := make(map[string]int)
	for _, u := range usernames {
		counts[u]++
	}

	// Most frequent handle; ties broken by the lexicographically smallest so
	// the result does not depend on map iteration order.
	var common string
	best := 0
	for u, n := range counts {
		if n > best || (n == best && u < common) {
			common = u
			best = n
		}
	}

	return ConsistencyResult{
		ConsistencyScore: float64(len(counts)) / float64(len(usernames)),
		CommonPatterns:   []string{common},
		TotalUsernames:   len(usernames),
	}
}

// PlatformConnections builds the co-occurrence completion graph: every
// platform observed for the target connects to every other observed
// platform. This models "seen for the same target", not a verified social
// graph; the coarseness is intentional.
func PlatformConnections(records []FindingRecord) map[string][]string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.Platform != "" {
			seen[rec.Platform] = struct{}{}
		}
	}

	platforms := make([]string, 0, len(seen))
	for p := range seen {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)

	connections := make(map[string][]string, len(platforms))
	for _, p := range platforms {
		others := make([]string, 0, len(platforms)-1)
		for _, q := range platforms {
			if q != p {
				others = append(others, q)
			}
		}
		connections[p] = others
	}
	return connections
}
