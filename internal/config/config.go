package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch" envconfig:"FETCH"`
	Cats    CatsConfig    `yaml:"cats" envconfig:"CATS"`
	Align   AlignConfig   `yaml:"align" envconfig:"ALIGN"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
}

// FetchConfig contains market-data source configuration
type FetchConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	APIKey         string        `yaml:"api_key" envconfig:"API_KEY" validate:"required"`
	Symbol         string        `yaml:"symbol" envconfig:"SYMBOL" validate:"required,min=1,max=10"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
	RequestsPerMin int           `yaml:"requests_per_min" envconfig:"REQUESTS_PER_MIN" validate:"gt=0"`
}

// CatsConfig controls where daily cat-name counts come from
type CatsConfig struct {
	// Simulate selects the deterministic synthetic source instead of
	// scraping a live registry page
	Simulate     bool   `yaml:"simulate" envconfig:"SIMULATE"`
	ScrapeURL    string `yaml:"scrape_url" envconfig:"SCRAPE_URL" validate:"omitempty,url"`
	Headless     bool   `yaml:"headless" envconfig:"HEADLESS"`
	NameSelector string `yaml:"name_selector" envconfig:"NAME_SELECTOR"`
}

// AlignConfig controls how the two series are merged
type AlignConfig struct {
	// Policy is "drop" (intersection of dates) or "fill_zero"
	// (every index date kept, missing cat counts become 0)
	Policy string `yaml:"policy" envconfig:"POLICY" validate:"oneof=drop fill_zero"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ExportConfig contains report output configuration
type ExportConfig struct {
	ReportXLSX string `yaml:"report_xlsx" envconfig:"REPORT_XLSX" validate:"required"`
	DataCSV    string `yaml:"data_csv" envconfig:"DATA_CSV" validate:"required"`
}

var validate = validator.New()

// Load loads configuration from an optional YAML config file and the
// environment. Precedence, lowest to highest: built-in defaults, file,
// environment variables.
func Load(configFile string) (*Config, error) {
	cfg := *Default()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("CATSTOCK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct-tag constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if !c.Cats.Simulate && c.Cats.ScrapeURL == "" {
		return fmt.Errorf("cats.scrape_url is required when simulation is disabled")
	}
	return nil
}

// findConfigFile checks common locations for a config file
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			BaseURL:        "https://www.alphavantage.co/query",
			APIKey:         "demo",
			Symbol:         "SPY",
			RequestTimeout: 30 * time.Second,
			RequestsPerMin: 5,
		},
		Cats: CatsConfig{
			Simulate:     true,
			Headless:     true,
			NameSelector: ".cat-name",
		},
		Align: AlignConfig{
			Policy: "drop",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/catstock.log",
		},
		Export: ExportConfig{
			ReportXLSX: "Cat_vs_Stock_Report.xlsx",
			DataCSV:    "Cat_vs_Stock_Data.csv",
		},
	}
}
