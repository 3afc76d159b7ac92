package analytics

import (
	"strings"
	"time"
)

// FindingRecord is one normalized fact recovered from a raw source blob.
// Platform is an open string tag, not an enum: new sources appear through
// configuration and the engine must accept whatever tag they carry.
type FindingRecord struct {
	Platform    string `json:"platform"`
	Timestamp   string `json:"timestamp,omitempty"`
	ContentType string `json:"content_type"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	ProfileURL  string `json:"profile_url,omitempty"`
}

// RawBlob is one unstructured text payload from the collection layer,
// tagged with the path that produced it ("google" or "social").
type RawBlob struct {
	Source string
	Text   string
}

// ActivityCluster groups findings by the UTC calendar day they occurred.
type ActivityCluster struct {
	Date          string   `json:"date"`
	ActivityCount int      `json:"activity_count"`
	Platforms     []string `json:"platforms"`
}

// CorrelationScore is the temporal co-occurrence score for one unordered
// platform pair. Pairs with no co-occurring events are omitted entirely.
type CorrelationScore struct {
	Platform1 string  `json:"platform_1"`
	Platform2 string  `json:"platform_2"`
	Score     float64 `json:"correlation_score"`
}

// ConsistencyResult measures how repeated vs. scattered the target's
// usernames are across discovered identifiers.
type ConsistencyResult struct {
	ConsistencyScore float64  `json:"consistency_score"`
	CommonPatterns   []string `json:"common_patterns"`
	TotalUsernames   int      `json:"total_usernames"`
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseTimestamp parses an ISO-8601 timestamp, normalizing a trailing "Z"
// to an explicit +00:00 offset first. Returns false for anything that does
// not parse; scraped timestamps are noisy and must never abort a pipeline.
func parseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
