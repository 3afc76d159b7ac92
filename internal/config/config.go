package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
	} `yaml:"database"`
	Search *SearchConfig `yaml:"search"`
	// Platforms is an open set: new sources are enabled by configuration,
	// not by recompiling.
	Platforms map[string]PlatformConfig `yaml:"platforms"`
	LLM       struct {
		Providers []ProviderConfig `yaml:"providers"`
	} `yaml:"llm"`
	AdvancedAnalysis *AdvancedAnalysisConfig `yaml:"advanced_analysis"`
	Report           *ReportConfig           `yaml:"report"`
	Notifications    struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"notifications"`
}

// SearchConfig carries the API keys for the collection layer. Every key is
// optional; a missing key downgrades the corresponding source instead of
// failing the investigation.
type SearchConfig struct {
	SerpAPIKey   string `yaml:"serpapi_key"`
	GitHubToken  string `yaml:"github_token"`
	HIBPAPIKey   string `yaml:"hibp_api_key"`
	HunterAPIKey string `yaml:"hunter_api_key"`
	ResultLimit  int    `yaml:"result_limit"`
}

// PlatformConfig toggles one collection source.
type PlatformConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ProviderConfig configures one LLM provider instance.
type ProviderConfig struct {
	Type              string        `yaml:"type"` // "gemini", "groq" or "openrouter"
	APIKey            string        `yaml:"api_key"`
	ModelName         string        `yaml:"model_name"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// AdvancedAnalysisConfig gates the post-collection analytics engines.
type AdvancedAnalysisConfig struct {
	TimelineCorrelation bool `yaml:"timeline_correlation"`
	NetworkAnalysis     bool `yaml:"network_analysis"`
}

// ReportConfig controls where finished reports are written.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// requiredSections must be present in the file outright. A missing section
// is a caller contract violation and fails the load; missing individual
// fields inside a section just default.
var requiredSections = []string{"search", "platforms", "advanced_analysis", "report"}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	for _, section := range requiredSections {
		if _, ok := raw[section]; !ok {
			return nil, fmt.Errorf("missing required config section: %s", section)
		}
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	// A section written as an explicit null still counts as present.
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}
	if config.AdvancedAnalysis == nil {
		config.AdvancedAnalysis = &AdvancedAnalysisConfig{}
	}
	if config.Report == nil {
		config.Report = &ReportConfig{}
	}

	if config.Report.OutputDir == "" {
		config.Report.OutputDir = "reports"
	}
	if config.Search.ResultLimit == 0 {
		config.Search.ResultLimit = 20
	}

	return config, nil
}

// EnabledPlatforms returns the names of all enabled collection sources.
func (c *Config) EnabledPlatforms() []string {
	var enabled []string
	for name, settings := range c.Platforms {
		if settings.Enabled {
			enabled = append(enabled, name)
		}
	}
	return enabled
}
