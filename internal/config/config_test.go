package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
server:
  port: ":8080"
search:
  serpapi_key: ""
  result_limit: 10
platforms:
  github:
    enabled: true
  reddit:
    enabled: true
  linkedin:
    enabled: false
advanced_analysis:
  timeline_correlation: true
  network_analysis: false
report:
  output_dir: "out"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.AdvancedAnalysis.TimelineCorrelation {
		t.Error("timeline_correlation should be true")
	}
	if cfg.AdvancedAnalysis.NetworkAnalysis {
		t.Error("network_analysis should be false")
	}
	if cfg.Report.OutputDir != "out" {
		t.Errorf("output_dir = %q, want out", cfg.Report.OutputDir)
	}
	if cfg.Search.ResultLimit != 10 {
		t.Errorf("result_limit = %d, want 10", cfg.Search.ResultLimit)
	}
}

func TestLoadConfigMissingRequiredSection(t *testing.T) {
	for _, section := range requiredSections {
		t.Run(section, func(t *testing.T) {
			var lines []string
			for _, line := range strings.Split(validConfig, "\n") {
				lines = append(lines, line)
			}
			// Strip the section header and its indented body.
			var trimmed []string
			skipping := false
			for _, line := range lines {
				if strings.HasPrefix(line, section+":") {
					skipping = true
					continue
				}
				if skipping && strings.HasPrefix(line, "  ") {
					continue
				}
				skipping = false
				trimmed = append(trimmed, line)
			}

			_, err := LoadConfig(writeConfig(t, strings.Join(trimmed, "\n")))
			if err == nil {
				t.Fatalf("expected error for missing %s section", section)
			}
			if !strings.Contains(err.Error(), section) {
				t.Errorf("error %q does not name the missing section", err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
search: {}
platforms: {}
advanced_analysis: {}
report: {}
`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Report.OutputDir != "reports" {
		t.Errorf("output_dir = %q, want reports default", cfg.Report.OutputDir)
	}
	if cfg.Search.ResultLimit != 20 {
		t.Errorf("result_limit = %d, want 20 default", cfg.Search.ResultLimit)
	}
	if cfg.AdvancedAnalysis.TimelineCorrelation || cfg.AdvancedAnalysis.NetworkAnalysis {
		t.Error("analysis flags should default to false")
	}
}

func TestEnabledPlatforms(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	enabled := cfg.EnabledPlatforms()
	if len(enabled) != 2 {
		t.Fatalf("got %d enabled platforms, want 2: %v", len(enabled), enabled)
	}
	for _, p := range enabled {
		if p != "github" && p != "reddit" {
			t.Errorf("unexpected enabled platform %q", p)
		}
	}
}
