package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type githubProfile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	HTMLURL     string `json:"html_url"`
	CreatedAt   string `json:"created_at"`
}

type githubRepo struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	StargazersCount int    `json:"stargazers_count"`
	UpdatedAt       string `json:"updated_at"`
}

// githubSearch fetches the target's GitHub profile and recent repositories.
// The GitHub REST API works without a token; a token only lifts rate limits.
func (s *Searcher) githubSearch(ctx context.Context, target string) string {
	username := usernameFor(target)

	var profile githubProfile
	status, err := s.githubGet(ctx, "/users/"+username, &profile)
	if err != nil {
		s.logger.Error("GitHub profile request failed", zap.Error(err))
		return fmt.Sprintf("GitHub search error: %v\n", err)
	}
	if status != http.StatusOK {
		return fmt.Sprintf("No GitHub profile found for: %s\n", username)
	}

	var sb strings.Builder
	sb.WriteString("[OK] Found GitHub profile:\n")
	fmt.Fprintf(&sb, "  Username: %s\n", profile.Login)
	fmt.Fprintf(&sb, "  Name: %s\n", orNA(profile.Name))
	fmt.Fprintf(&sb, "  Bio: %s\n", orNA(profile.Bio))
	fmt.Fprintf(&sb, "  Location: %s\n", orNA(profile.Location))
	fmt.Fprintf(&sb, "  Public Repos: %d\n", profile.PublicRepos)
	fmt.Fprintf(&sb, "  Followers: %d\n", profile.Followers)
	sb.WriteString(findingLine(map[string]string{
		"platform":    "github",
		"timestamp":   profile.CreatedAt,
		"type":        "profile",
		"username":    profile.Login,
		"profile_url": profile.HTMLURL,
	}))

	if profile.PublicRepos > 0 {
		var repos []githubRepo
		status, err := s.githubGet(ctx, "/users/"+username+"/repos?sort=updated&per_page=10", &repos)
		if err != nil || status != http.StatusOK {
			sb.WriteString("  Repository analysis: Limited access\n")
		} else {
			languages := make(map[string]struct{})
			sb.WriteString("  Recent Repositories:\n")
			for i, repo := range repos {
				if i >= 5 {
					break
				}
				if repo.Language != "" {
					languages[repo.Language] = struct{}{}
				}
				fmt.Fprintf(&sb, "    - %s: %s (%s, %d stars, %s)\n",
					repo.Name, truncate(orNA(repo.Description), 50),
					orNA(repo.Language), repo.StargazersCount, repo.UpdatedAt)
				sb.WriteString(findingLine(map[string]string{
					"platform":  "github",
					"timestamp": repo.UpdatedAt,
					"type":      "repo_update",
					"username":  profile.Login,
				}))
			}
			if len(languages) > 0 {
				var langs []string
				for l := range languages {
					langs = append(langs, l)
				}
				fmt.Fprintf(&sb, "  Languages: %s\n", strings.Join(langs, ", "))
			}
		}
	}

	fmt.Fprintf(&sb, "  Profile: %s\n", profile.HTMLURL)
	return sb.String()
}

func (s *Searcher) githubGet(ctx context.Context, path string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.githubBaseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "DigitalFootprintInvestigator/1.0")
	if s.cfg.Search.GitHubToken != "" {
		req.Header.Set("Authorization", "token "+s.cfg.Search.GitHubToken)
	}

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

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
