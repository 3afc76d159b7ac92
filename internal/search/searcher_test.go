package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Search = &config.SearchConfig{ResultLimit: 20}
	cfg.Platforms = map[string]config.PlatformConfig{
		"github":   {Enabled: true},
		"reddit":   {Enabled: true},
		"linkedin": {Enabled: true},
	}
	return cfg
}

func newTestSearcher(cfg *config.Config) *Searcher {
	return NewSearcher(cfg, zap.NewNop())
}

func TestGoogleSearchWithoutKey(t *testing.T) {
	s := newTestSearcher(testConfig())

	blob := s.GoogleSearch(context.Background(), "John Doe")
	if !strings.Contains(blob, "SKIPPED (serpapi_key not configured)") {
		t.Errorf("blob should explain the missing key:\n%s", blob)
	}
	if !strings.Contains(blob, "[WARN] SerpAPI not configured") {
		t.Errorf("method trailer should flag SerpAPI as unavailable:\n%s", blob)
	}
	// Name-shaped targets still get candidate emails without any keys.
	if !strings.Contains(blob, "john.doe@gmail.com") {
		t.Errorf("expected generated email candidates:\n%s", blob)
	}
}

func TestSerpAPISearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "John Doe" {
			t.Errorf("unexpected query %q", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`{"organic_results":[
			{"title":"John Doe | GitHub","link":"https://github.com/johndoe","snippet":"Developer profile","date":"2024-01-15"},
			{"title":"John Doe","link":"https://example.com","snippet":"no date"}
		]}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Search.SerpAPIKey = "test-key"
	s := newTestSearcher(cfg)
	s.serpAPIBaseURL = srv.URL

	blob := s.serpAPISearch(context.Background(), "John Doe")
	if !strings.Contains(blob, "1. John Doe | GitHub") {
		t.Errorf("missing formatted result:\n%s", blob)
	}
	if !strings.Contains(blob, "[finding] platform=google timestamp=2024-01-15 type=search_result") {
		t.Errorf("missing finding marker for dated result:\n%s", blob)
	}
	if strings.Count(blob, "[finding]") != 1 {
		t.Errorf("undated results must not emit finding lines:\n%s", blob)
	}
}

func TestGitHubSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/johndoe":
			w.Write([]byte(`{"login":"johndoe","name":"John Doe","public_repos":2,"followers":10,
				"html_url":"https://github.com/johndoe","created_at":"2020-05-01T12:00:00Z"}`))
		case "/users/johndoe/repos":
			w.Write([]byte(`[{"name":"proj","description":"a project","language":"Go",
				"stargazers_count":3,"updated_at":"2024-01-15T10:00:00Z"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := newTestSearcher(testConfig())
	s.githubBaseURL = srv.URL

	blob := s.githubSearch(context.Background(), "John Doe")
	if !strings.Contains(blob, "[OK] Found GitHub profile:") {
		t.Errorf("missing profile header:\n%s", blob)
	}
	if !strings.Contains(blob, "[finding] platform=github timestamp=2020-05-01T12:00:00Z type=profile username=johndoe") {
		t.Errorf("missing profile finding line:\n%s", blob)
	}
	if !strings.Contains(blob, "type=repo_update") {
		t.Errorf("missing repo finding line:\n%s", blob)
	}
}

func TestGitHubSearchNoProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := newTestSearcher(testConfig())
	s.githubBaseURL = srv.URL

	blob := s.githubSearch(context.Background(), "nobody")
	if !strings.Contains(blob, "No GitHub profile found for: nobody") {
		t.Errorf("unexpected blob:\n%s", blob)
	}
}

func TestRedditSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/about.json"):
			w.Write([]byte(`{"data":{"name":"johndoe","total_karma":1234,"created_utc":1588334400}}`))
		case strings.HasSuffix(r.URL.Path, "/comments.json"):
			w.Write([]byte(`{"data":{"children":[
				{"data":{"subreddit":"golang","body":"nice","score":5,"created_utc":1705312800}},
				{"data":{"subreddit":"osint","body":"[deleted]","score":1,"created_utc":1705312900}}
			]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := newTestSearcher(testConfig())
	s.redditBaseURL = srv.URL

	blob := s.redditSearch(context.Background(), "johndoe")
	if !strings.Contains(blob, "Karma: 1234") {
		t.Errorf("missing karma:\n%s", blob)
	}
	if !strings.Contains(blob, "type=comment") {
		t.Errorf("missing comment finding line:\n%s", blob)
	}
	if !strings.Contains(blob, "Recent Comments: 1") {
		t.Errorf("deleted comments must not count:\n%s", blob)
	}
}

func TestHIBPLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("hibp-api-key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if strings.Contains(r.URL.Path, "clean@example.com") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`[{"Name":"BigLeak","BreachDate":"2021-06-01"}]`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Search.HIBPAPIKey = "key"
	s := newTestSearcher(cfg)
	s.hibpBaseURL = srv.URL

	if got := s.hibpLookup(context.Background(), "clean@example.com"); !strings.Contains(got, "[OK] No breaches found") {
		t.Errorf("unexpected clean result:\n%s", got)
	}

	got := s.hibpLookup(context.Background(), "pwned@example.com")
	if !strings.Contains(got, "[WARN] Found 1 breaches") {
		t.Errorf("unexpected breach result:\n%s", got)
	}
	if !strings.Contains(got, "platform=breach_db timestamp=2021-06-01") {
		t.Errorf("missing breach finding line:\n%s", got)
	}
}

func TestHIBPWithoutKey(t *testing.T) {
	s := newTestSearcher(testConfig())
	if got := s.hibpLookup(context.Background(), "a@b.com"); !strings.Contains(got, "not configured") {
		t.Errorf("unexpected result:\n%s", got)
	}
}

func TestSocialSearchRespectsPlatformFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Platforms["github"] = config.PlatformConfig{Enabled: false}
	s := newTestSearcher(cfg)
	s.githubBaseURL = srv.URL
	s.redditBaseURL = srv.URL

	blob := s.SocialSearch(context.Background(), "johndoe")
	if strings.Contains(blob, "GITHUB Search:") {
		t.Errorf("disabled platform should be skipped:\n%s", blob)
	}
	if !strings.Contains(blob, "REDDIT Search:") {
		t.Errorf("enabled platform missing:\n%s", blob)
	}
}

func TestGenerateEmailCandidates(t *testing.T) {
	candidates := generateEmailCandidates("John Doe")
	want := []string{"john.doe@gmail.com", "jdoe@outlook.com", "john_doe@yahoo.com"}
	for _, w := range want {
		found := false
		for _, c := range candidates {
			if c == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("candidates %v missing %s", candidates, w)
		}
	}

	if got := generateEmailCandidates("mononym"); got != nil {
		t.Errorf("single-word names should yield no candidates, got %v", got)
	}
}

func TestFindingLine(t *testing.T) {
	line := findingLine(map[string]string{
		"platform":  "github",
		"timestamp": "2024-01-15T10:00:00Z",
		"username":  "john doe",
	})
	if line != "[finding] platform=github timestamp=2024-01-15T10:00:00Z username=john_doe\n" {
		t.Errorf("unexpected line %q", line)
	}
}
