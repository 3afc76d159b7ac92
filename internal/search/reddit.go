package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type redditAbout struct {
	Data struct {
		Name       string  `json:"name"`
		TotalKarma int     `json:"total_karma"`
		CreatedUTC float64 `json:"created_utc"`
	} `json:"data"`
}

type redditComments struct {
	Data struct {
		Children []struct {
			Data struct {
				Subreddit  string  `json:"subreddit"`
				Body       string  `json:"body"`
				Score      int     `json:"score"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// redditSearch fetches the target's Reddit profile and recent comments via
// the public JSON endpoints.
func (s *Searcher) redditSearch(ctx context.Context, target string) string {
	username := usernameFor(target)

	var about redditAbout
	status, err := s.redditGet(ctx, "/user/"+username+"/about.json", &about)
	if err != nil {
		s.logger.Error("Reddit profile request failed", zap.Error(err))
		return fmt.Sprintf("Reddit search error: %v\n", err)
	}
	if status != http.StatusOK {
		return fmt.Sprintf("No Reddit profile found for: %s\n", username)
	}

	var sb strings.Builder
	sb.WriteString("[OK] Found Reddit profile:\n")
	fmt.Fprintf(&sb, "  Username: %s\n", about.Data.Name)
	fmt.Fprintf(&sb, "  Karma: %d\n", about.Data.TotalKarma)
	sb.WriteString(findingLine(map[string]string{
		"platform":    "reddit",
		"timestamp":   unixToISO(about.Data.CreatedUTC),
		"type":        "profile",
		"username":    about.Data.Name,
		"profile_url": "https://reddit.com/user/" + username,
	}))

	var comments redditComments
	status, err = s.redditGet(ctx, "/user/"+username+"/comments.json?limit=25", &comments)
	if err != nil || status != http.StatusOK {
		sb.WriteString("  Comment history: Access limited\n")
	} else {
		subreddits := make(map[string]struct{})
		count := 0
		for _, child := range comments.Data.Children {
			if count >= 10 {
				break
			}
			c := child.Data
			if c.Subreddit != "" {
				subreddits[c.Subreddit] = struct{}{}
			}
			if c.Body != "" && c.Body != "[deleted]" {
				count++
				sb.WriteString(findingLine(map[string]string{
					"platform":  "reddit",
					"timestamp": unixToISO(c.CreatedUTC),
					"type":      "comment",
					"username":  about.Data.Name,
				}))
			}
		}
		var subs []string
		for sub := range subreddits {
			subs = append(subs, sub)
		}
		fmt.Fprintf(&sb, "  Active Subreddits: %s\n", strings.Join(subs, ", "))
		fmt.Fprintf(&sb, "  Recent Comments: %d\n", count)
	}

	fmt.Fprintf(&sb, "  Profile: https://reddit.com/user/%s\n", username)
	return sb.String()
}

func (s *Searcher) redditGet(ctx context.Context, path string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.redditBaseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "DigitalFootprintInvestigator/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

func unixToISO(ts float64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02T15:04:05Z")
}
