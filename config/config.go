package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Recommender RecommenderConfig `yaml:"recommender"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CatalogConfig configures the external book catalog (Google Books) adapter.
type CatalogConfig struct {
	// BaseURL is the Google Books volumes API root.
	// Tests override this to point at a local httptest server.
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds every outbound catalog request. Defaults to 10.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// RecommenderConfig configures the recommendation model client.
type RecommenderConfig struct {
	// PrimaryModel is the preferred Gemini model. It produces better
	// recommendations but is less stable under load.
	PrimaryModel string `yaml:"primary_model"`

	// FallbackModel is the conservative model used when the primary fails.
	FallbackModel string `yaml:"fallback_model"`

	Quota ModelQuotaConfig `yaml:"quota"`
}

// ModelQuotaConfig defines rate/daily limits for recommendation LLM calls.
type ModelQuotaConfig struct {
	// RequestsPerMinute caps LLM calls per minute. 0 or less means unlimited.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// RequestsPerDay caps LLM calls per day. 0 or less means unlimited.
	RequestsPerDay int `yaml:"requests_per_day"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}
	applyDefaults(&c)
	config = &c
}

func applyDefaults(c *AppConfig) {
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = "https://www.googleapis.com/books/v1"
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		c.Catalog.TimeoutSeconds = 10
	}
	if c.Recommender.PrimaryModel == "" {
		c.Recommender.PrimaryModel = "gemini-2.5-flash"
	}
	if c.Recommender.FallbackModel == "" {
		c.Recommender.FallbackModel = "gemini-2.0-flash"
	}
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
