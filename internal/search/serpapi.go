package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date,omitempty"`
	} `json:"organic_results"`
}

// serpAPISearch queries SerpAPI for the target. Without a key it returns a
// warning block instead of failing the pipeline.
func (s *Searcher) serpAPISearch(ctx context.Context, query string) string {
	if s.cfg.Search.SerpAPIKey == "" {
		s.logger.Warn("SerpAPI key not configured, skipping Google search")
		return fmt.Sprintf("[WARN] No Google search performed for: %s\n"+
			"Search Status: SKIPPED (serpapi_key not configured)\n", query)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", s.cfg.Search.SerpAPIKey)
	params.Set("num", fmt.Sprintf("%d", s.cfg.Search.ResultLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.serpAPIBaseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return fmt.Sprintf("Search error: %v\n", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("SerpAPI request failed", zap.Error(err))
		return fmt.Sprintf("[WARN] SerpAPI Rate Limit or Timeout\n\nQuery: %s\n"+
			"Note: SerpAPI may have rate-limited this request. Try again in a moment.\n", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("SerpAPI returned non-OK status", zap.Int("status", resp.StatusCode))
		return fmt.Sprintf("SerpAPI search error: status %d\nPlease check your serpapi_key and try again.\n", resp.StatusCode)
	}

	var parsed serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Sprintf("SerpAPI search error: %v\n", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Google Search Results for: %s\n\n", query)
	for i, result := range parsed.OrganicResults {
		if i >= s.cfg.Search.ResultLimit {
			break
		}
		fmt.Fprintf(&sb, "%d. %s\n   URL: %s\n   %s\n\n", i+1, result.Title, result.Link, result.Snippet)
		if result.Date != "" {
			sb.WriteString(findingLine(map[string]string{
				"platform":  "google",
				"timestamp": result.Date,
				"type":      "search_result",
			}))
		}
	}

	s.logger.Info("SerpAPI returned results",
		zap.Int("count", len(parsed.OrganicResults)),
		zap.String("query", query))
	return sb.String()
}
