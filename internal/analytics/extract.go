package analytics

import (
	"regexp"
	"sort"
	"strings"
)

// The collection layer embeds "[finding]" marker lines in its text blobs so
// that structure survives the trip through free-form scraper output:
//
//	[finding] platform=github timestamp=2024-01-15T10:00:00Z type=repo_update username=johndoe
//
// Fields are space-separated key=value pairs. Anything else in a blob is
// treated as prose and only mined for loose identifiers.
var (
	findingLineRe = regexp.MustCompile(`(?m)^\s*\[finding\]\s+(.+)$`)
	findingKVRe   = regexp.MustCompile(`(\w+)=(\S+)`)

	emailRe      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	urlRe        = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	mentionRe    = regexp.MustCompile(`@([A-Za-z0-9_]+)`)
	githubUserRe = regexp.MustCompile(`github\.com/([A-Za-z0-9_-]+)`)
	redditUserRe = regexp.MustCompile(`reddit\.com/user/([A-Za-z0-9_-]+)`)
)

// Extract scans raw source blobs and returns the deduplicated identifier set
// plus the finding records that carry a timestamp field. Deduplication is
// case-sensitive exact match; case folding would merge handles that some
// platforms treat as distinct. Absence of any field is "unknown", never an
// error: the input is scraped, adversarial text.
func Extract(blobs []RawBlob) ([]string, []FindingRecord) {
	seen := make(map[string]struct{})
	var findings []FindingRecord

	for _, blob := range blobs {
		for _, m := range findingLineRe.FindAllStringSubmatch(blob.Text, -1) {
			rec := parseFindingLine(m[1], blob.Source)
			for _, id := range []string{rec.Username, rec.Email, rec.ProfileURL} {
				if id != "" {
					seen[id] = struct{}{}
				}
			}
			if rec.Timestamp != "" {
				findings = append(findings, rec)
			}
		}

		for _, email := range emailRe.FindAllString(blob.Text, -1) {
			seen[email] = struct{}{}
		}
		for _, url := range urlRe.FindAllString(blob.Text, -1) {
			seen[url] = struct{}{}
		}
		for _, m := range mentionRe.FindAllStringSubmatch(blob.Text, -1) {
			seen[m[1]] = struct{}{}
		}
		for _, m := range githubUserRe.FindAllStringSubmatch(blob.Text, -1) {
			seen[m[1]] = struct{}{}
		}
		for _, m := range redditUserRe.FindAllStringSubmatch(blob.Text, -1) {
			seen[m[1]] = struct{}{}
		}
	}

	identifiers := make([]string, 0, len(seen))
	for id := range seen {
		identifiers = append(identifiers, id)
	}
	sort.Strings(identifiers)

	return identifiers, findings
}

func parseFindingLine(fields, source string) FindingRecord {
	rec := FindingRecord{}
	for _, kv := range findingKVRe.FindAllStringSubmatch(fields, -1) {
		switch kv[1] {
		case "platform":
			rec.Platform = kv[2]
		case "timestamp":
			rec.Timestamp = kv[2]
		case "type":
			rec.ContentType = kv[2]
		case "username":
			rec.Username = kv[2]
		case "email":
			rec.Email = kv[2]
		case "profile_url":
			rec.ProfileURL = kv[2]
		}
	}
	if rec.Platform == "" {
		// Google result blobs carry no per-entry platform tag.
		if strings.EqualFold(source, "google") {
			rec.Platform = "google"
		} else {
			rec.Platform = "unknown"
		}
	}
	if rec.ContentType == "" {
		if rec.Platform == "google" {
			rec.ContentType = "search_result"
		} else {
			rec.ContentType = "post"
		}
	}
	return rec
}
