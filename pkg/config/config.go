// Package config loads runtime configuration from a JSON file with
// environment-variable overrides.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/gridironlabs/pregame/pkg/ratelimit"
)

// StatsConfig configures the sports statistics API.
type StatsConfig struct {
	BaseURL string `json:"base_url" env:"PREGAME_STATS_BASE_URL"`
	APIKey  string `json:"api_key" env:"PREGAME_STATS_API_KEY"`
}

// WeatherConfig configures the weather forecast API.
type WeatherConfig struct {
	BaseURL string `json:"base_url" env:"PREGAME_WEATHER_BASE_URL"`
	APIKey  string `json:"api_key" env:"PREGAME_WEATHER_API_KEY"`
}

// LLMConfig configures the optional model-backed reasoner. With Enabled
// false runs use the deterministic heuristics only.
type LLMConfig struct {
	Enabled          bool    `json:"enabled" env:"PREGAME_LLM_ENABLED"`
	OpenAIAPIKey     string  `json:"openai_api_key" env:"PREGAME_LLM_OPENAI_API_KEY"`
	OpenAIBaseURL    string  `json:"openai_base_url" env:"PREGAME_LLM_OPENAI_BASE_URL"`
	OpenAIModel      string  `json:"openai_model" env:"PREGAME_LLM_OPENAI_MODEL"`
	AnthropicAPIKey  string  `json:"anthropic_api_key" env:"PREGAME_LLM_ANTHROPIC_API_KEY"`
	AnthropicBaseURL string  `json:"anthropic_base_url" env:"PREGAME_LLM_ANTHROPIC_BASE_URL"`
	AnthropicModel   string  `json:"anthropic_model" env:"PREGAME_LLM_ANTHROPIC_MODEL"`
	Temperature      float64 `json:"temperature" env:"PREGAME_LLM_TEMPERATURE"`
}

// RunConfig tunes the scheduler and executor.
type RunConfig struct {
	MaxConcurrency     int      `json:"max_concurrency" env:"PREGAME_RUN_MAX_CONCURRENCY"`
	PerTaskTimeoutSecs int      `json:"per_task_timeout_secs" env:"PREGAME_RUN_PER_TASK_TIMEOUT_SECS"`
	RequiredAgents     []string `json:"required_agents" env:"PREGAME_RUN_REQUIRED_AGENTS"`
}

// HistoryConfig configures the run archive database.
type HistoryConfig struct {
	Enabled bool   `json:"enabled" env:"PREGAME_HISTORY_ENABLED"`
	Path    string `json:"path" env:"PREGAME_HISTORY_PATH"`
}

// NotesConfig configures the scouting-note vector index.
type NotesConfig struct {
	Enabled bool   `json:"enabled" env:"PREGAME_NOTES_ENABLED"`
	Path    string `json:"path" env:"PREGAME_NOTES_PATH"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `json:"level" env:"PREGAME_LOG_LEVEL"`
	File  string `json:"file" env:"PREGAME_LOG_FILE"`
}

// Config is the full runtime configuration.
type Config struct {
	Stats     StatsConfig      `json:"stats"`
	Weather   WeatherConfig    `json:"weather"`
	LLM       LLMConfig        `json:"llm"`
	Run       RunConfig        `json:"run"`
	History   HistoryConfig    `json:"history"`
	Notes     NotesConfig      `json:"notes"`
	RateLimit ratelimit.Config `json:"rate_limit"`
	Log       LogConfig        `json:"log"`
}

// DefaultConfig returns the baseline configuration before file and
// environment overrides.
func DefaultConfig() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Stats: StatsConfig{
			BaseURL: "https://api.sportsdata.io",
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.weatherapi.com",
		},
		LLM: LLMConfig{
			Temperature: 0.2,
		},
		Run: RunConfig{
			MaxConcurrency:     4,
			PerTaskTimeoutSecs: 60,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(dataDir, "history.db"),
		},
		Notes: NotesConfig{
			Path: filepath.Join(dataDir, "notes.bin"),
		},
		RateLimit: ratelimit.DefaultConfig(),
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path, then applies environment overrides. A
// missing file is not an error; defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "config.json")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pregame"
	}
	return filepath.Join(home, ".pregame")
}
