package analytics

import "sort"

// ClusterByDay groups timestamped findings by UTC calendar day. Records with
// unparseable timestamps are skipped. Clusters are returned sorted by date
// and platform lists sorted lexicographically so repeated calls on the same
// input produce identical output.
func ClusterByDay(records []FindingRecord) []ActivityCluster {
	type bucket struct {
		count     int
		platforms map[string]struct{}
	}
	days := make(map[string]*bucket)

	for _, rec := range records {
		t, ok := parseTimestamp(rec.Timestamp)
		if !ok {
			continue
		}
		key := t.Format("2006-01-02")
		b := days[key]
		if b == nil {
			b = &bucket{platforms: make(map[string]struct{})}
			days[key] = b
		}
		b.count++
		b.platforms[rec.Platform] = struct{}{}
	}

	clusters := make([]ActivityCluster, 0, len(days))
	for date, b := range days {
		platforms := make([]string, 0, len(b.platforms))
		for p := range b.platforms {
			platforms = append(platforms, p)
		}
		sort.Strings(platforms)
		clusters = append(clusters, ActivityCluster{
			Date:          date,
			ActivityCount: b.count,
			Platforms:     platforms,
		})
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Date < clusters[j].Date })
	return clusters
}

// correlationWindowSeconds is the co-occurrence window. The comparison is a
// strict less-than: two events exactly 24 hours apart do not correlate.
const correlationWindowSeconds = 86400

// CrossPlatformCorrelations computes a co-occurrence score for every
// unordered pair of platforms with timestamped findings. Pairs whose score
// is zero are omitted, which conflates "no evidence" with "measured zero";
// that matches the upstream contract and is deliberate.
func CrossPlatformCorrelations(records []FindingRecord) []CorrelationScore {
	byPlatform := make(map[string][]FindingRecord)
	for _, rec := range records {
		byPlatform[rec.Platform] = append(byPlatform[rec.Platform], rec)
	}

	platforms := make([]string, 0, len(byPlatform))
	for p := range byPlatform {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)

	var scores []CorrelationScore
	for i, p1 := range platforms {
		for _, p2 := range platforms[i+1:] {
			score := temporalCorrelation(byPlatform[p1], byPlatform[p2])
			if score > 0 {
				scores = append(scores, CorrelationScore{Platform1: p1, Platform2: p2, Score: score})
			}
		}
	}
	return scores
}

// temporalCorrelation is the fraction of cross-set event pairs that fall
// within the 24-hour window. A comparison where either timestamp fails to
// parse is dropped from both numerator and denominator.
func temporalCorrelation(a, b []FindingRecord) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	correlated := 0
	comparisons := 0
	for _, ra := range a {
		ta, ok := parseTimestamp(ra.Timestamp)
		if !ok {
			continue
		}
		for _, rb := range b {
			tb, ok := parseTimestamp(rb.Timestamp)
			if !ok {
				continue
			}
			comparisons++
			gap := ta.Sub(tb)
			if gap < 0 {
				gap = -gap
			}
			if gap.Seconds() < correlationWindowSeconds {
				correlated++
			}
		}
	}

	if comparisons == 0 {
		return 0.0
	}
	return float64(correlated) / float64(comparisons)
}
