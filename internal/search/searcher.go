// Package search is the collection layer: it queries public data sources for
// a target and produces the raw text blobs the analytics and LLM stages
// consume. Every source degrades to an explanatory text block when its API
// key is missing or the request fails; an investigation never aborts because
// one source is unavailable.
package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/config"
)

// Searcher aggregates all source clients.
type Searcher struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger

	// Overridable for tests.
	serpAPIBaseURL string
	githubBaseURL  string
	redditBaseURL  string
	hibpBaseURL    string
	hunterBaseURL  string
}

// NewSearcher creates the collection-layer client set.
func NewSearcher(cfg *config.Config, logger *zap.Logger) *Searcher {
	return &Searcher{
		cfg:            cfg,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		logger:         logger,
		serpAPIBaseURL: "https://serpapi.com",
		githubBaseURL:  "https://api.github.com",
		redditBaseURL:  "https://www.reddit.com",
		hibpBaseURL:    "https://haveibeenpwned.com",
		hunterBaseURL:  "https://api.hunter.io",
	}
}

// GoogleSearch runs the web-search path and returns one raw blob.
func (s *Searcher) GoogleSearch(ctx context.Context, target string) string {
	s.logger.Info("Google search initiated", zap.String("target", target))

	var sb strings.Builder
	sb.WriteString(s.serpAPISearch(ctx, target))
	sb.WriteString("\n")
	sb.WriteString(s.emailDiscovery(ctx, target))

	sb.WriteString("\n=== GOOGLE ANALYSIS METHOD ===\n")
	if s.cfg.Search.SerpAPIKey != "" {
		sb.WriteString("[OK] SerpAPI: Professional Google search with snippets\n")
	} else {
		sb.WriteString("[WARN] SerpAPI not configured: no web search performed\n")
		sb.WriteString("[TIP] Add serpapi_key to the search config section for best results\n")
	}
	sb.WriteString("\n=== EMAIL DISCOVERY METHODS ===\n")
	if s.cfg.Search.HIBPAPIKey != "" {
		sb.WriteString("[OK] Have I Been Pwned: Breach detection\n")
	} else {
		sb.WriteString("[ERROR] HIBP API not configured\n")
	}
	if s.cfg.Search.HunterAPIKey != "" {
		sb.WriteString("[OK] Hunter.io: Professional email discovery\n")
	} else {
		sb.WriteString("[ERROR] Hunter.io API not configured\n")
	}
	sb.WriteString("[OK] Pattern Generation: Common email formats\n")

	return sb.String()
}

// SocialSearch runs every enabled social platform and returns one raw blob.
func (s *Searcher) SocialSearch(ctx context.Context, target string) string {
	s.logger.Info("Social media search initiated", zap.String("target", target))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Social Media Search for: %s\n", target)
	sb.WriteString(strings.Repeat("=", 60) + "\n")

	for _, platform := range []string{"github", "reddit", "linkedin"} {
		if !s.platformEnabled(platform) {
			continue
		}
		fmt.Fprintf(&sb, "\n%s Search:\n", strings.ToUpper(platform))
		sb.WriteString(strings.Repeat("-", 40) + "\n")
		switch platform {
		case "github":
			sb.WriteString(s.githubSearch(ctx, target))
		case "reddit":
			sb.WriteString(s.redditSearch(ctx, target))
		case "linkedin":
			sb.WriteString(s.linkedinSearch(target))
		}
	}

	sb.WriteString("\n=== ANALYSIS METHODS USED ===\n")
	sb.WriteString("[OK] GitHub: REST API (profile + repositories)\n")
	sb.WriteString("[OK] Reddit: JSON API (profile + comments)\n")
	sb.WriteString("[WARN] LinkedIn: Google dorking only (no direct API)\n")

	return sb.String()
}

func (s *Searcher) platformEnabled(name string) bool {
	settings, ok := s.cfg.Platforms[name]
	if !ok {
		// Unknown platforms default to enabled; the set is open.
		return true
	}
	return settings.Enabled
}

// linkedinSearch has no API path; it emits the dorking query for manual
// follow-up.
func (s *Searcher) linkedinSearch(target string) string {
	return fmt.Sprintf("[WARN] LinkedIn: Google dorking only (no direct API)\n"+
		"Search query: site:linkedin.com/in \"%s\"\n"+
		"Manual verification required\n", target)
}

// usernameFor derives the handle most platforms would use for the target.
func usernameFor(target string) string {
	return strings.ToLower(strings.ReplaceAll(target, " ", ""))
}

// findingLine renders the structured marker line the analytics extractor
// recovers records from.
func findingLine(fields map[string]string) string {
	keys := []string{"platform", "timestamp", "type", "username", "email", "profile_url"}
	parts := []string{"[finding]"}
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != "" {
			parts = append(parts, k+"="+strings.ReplaceAll(v, " ", "_"))
		}
	}
	return strings.Join(parts, " ") + "\n"
}
