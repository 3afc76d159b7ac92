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

type hibpBreach struct {
	Name       string `json:"Name"`
	BreachDate string `json:"BreachDate"`
}

type hunterResponse struct {
	Data struct {
		Pattern string `json:"pattern"`
		Emails  []struct {
			Value     string `json:"value"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"emails"`
	} `json:"data"`
}

// emailDiscovery runs HIBP, Hunter.io and pattern generation against the
// target. Targets that already look like an email go straight to breach
// lookup; name-shaped targets get candidate addresses generated instead.
func (s *Searcher) emailDiscovery(ctx context.Context, target string) string {
	var sb strings.Builder

	if strings.Contains(target, "@") {
		sb.WriteString(s.hibpLookup(ctx, target))
		return sb.String()
	}

	if strings.Contains(target, " ") {
		candidates := generateEmailCandidates(target)
		sb.WriteString("Generated email candidates (common formats):\n")
		for _, email := range candidates {
			fmt.Fprintf(&sb, "  - %s\n", email)
		}
		sb.WriteString(s.hunterLookup(ctx, "gmail.com", target))
	}

	return sb.String()
}

// hibpLookup checks Have I Been Pwned for breaches involving the email.
func (s *Searcher) hibpLookup(ctx context.Context, email string) string {
	if s.cfg.Search.HIBPAPIKey == "" {
		return "[ERROR] HIBP API key not configured\n"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.hibpBaseURL+"/api/v3/breachedaccount/"+url.PathEscape(email), nil)
	if err != nil {
		return fmt.Sprintf("[ERROR] HIBP search error: %v\n", err)
	}
	req.Header.Set("hibp-api-key", s.cfg.Search.HIBPAPIKey)
	req.Header.Set("User-Agent", "DigitalFootprintInvestigator/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("HIBP request failed", zap.Error(err))
		return fmt.Sprintf("[ERROR] HIBP search error: %v\n", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Sprintf("[OK] No breaches found for: %s\n", email)
	case http.StatusOK:
		var breaches []hibpBreach
		if err := json.NewDecoder(resp.Body).Decode(&breaches); err != nil {
			return fmt.Sprintf("[ERROR] HIBP search error: %v\n", err)
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "[WARN] Found %d breaches for: %s\n", len(breaches), email)
		for i, breach := range breaches {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&sb, "  - %s (%s)\n", breach.Name, breach.BreachDate)
			sb.WriteString(findingLine(map[string]string{
				"platform":  "breach_db",
				"timestamp": breach.BreachDate,
				"type":      "breach",
				"email":     email,
			}))
		}
		return sb.String()
	default:
		return fmt.Sprintf("[ERROR] HIBP API error: %d\n", resp.StatusCode)
	}
}

// hunterLookup searches Hunter.io for addresses matching the target's name.
func (s *Searcher) hunterLookup(ctx context.Context, domain, targetName string) string {
	if s.cfg.Search.HunterAPIKey == "" {
		return "[ERROR] Hunter.io API key not configured\n"
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("api_key", s.cfg.Search.HunterAPIKey)
	params.Set("limit", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.hunterBaseURL+"/v2/domain-search?"+params.Encode(), nil)
	if err != nil {
		return fmt.Sprintf("[ERROR] Hunter.io search error: %v\n", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Hunter.io request failed", zap.Error(err))
		return fmt.Sprintf("[ERROR] Hunter.io search error: %v\n", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("[ERROR] Hunter.io API error: %d\n", resp.StatusCode)
	}

	var parsed hunterResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Sprintf("[ERROR] Hunter.io search error: %v\n", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hunter.io results for %s:\n", domain)

	nameParts := strings.Fields(strings.ToLower(targetName))
	var matches []string
	for _, entry := range parsed.Data.Emails {
		email := strings.ToLower(entry.Value)
		for _, part := range nameParts {
			if strings.Contains(email, part) {
				matches = append(matches, entry.Value)
				break
			}
		}
	}
	if len(matches) > 0 {
		fmt.Fprintf(&sb, "[OK] Potential matches: %s\n", strings.Join(matches, ", "))
	} else {
		fmt.Fprintf(&sb, "[ERROR] No matches for '%s' in %d emails\n", targetName, len(parsed.Data.Emails))
	}
	if parsed.Data.Pattern != "" {
		fmt.Fprintf(&sb, "  Email pattern: %s\n", parsed.Data.Pattern)
	}
	return sb.String()
}

// generateEmailCandidates builds common address formats from a full name.
func generateEmailCandidates(fullName string) []string {
	parts := strings.Fields(strings.ToLower(fullName))
	if len(parts) < 2 {
		return nil
	}
	first, last := parts[0], parts[len(parts)-1]

	formats := []string{
		first + "." + last,
		first + last,
		first[:1] + last,
		first + "_" + last,
	}
	var candidates []string
	for _, domain := range []string{"gmail.com", "outlook.com", "yahoo.com"} {
		for _, format := range formats {
			candidates = append(candidates, format+"@"+domain)
		}
	}
	return candidates
}
