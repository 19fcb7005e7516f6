package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Defaults for the King County food-safety results page.
const (
	DefaultResultsURL      = "http://info.kingcounty.gov/health/ehs/foodsafety/inspections/Results.aspx"
	DefaultEncoding        = "utf-8"
	DefaultContentColumnID = "contentcol"
	DefaultLimit           = 10
	DefaultOutput          = "my_map.json"
	DefaultWaitSelector    = "td#contentcol"
)

// AppConfig holds infrastructure config from standard env vars
type AppConfig struct {
	DBPath       string
	ConfigPath   string // Path to the YAML config file
	GoogleAPIKey string
	LogLevel     string
	LogFormat    string // "console" or "json"
}

// SiteConfig holds all results-page specific settings (from YAML)
type SiteConfig struct {
	ResultsURL      string            `yaml:"results_url"`
	Params          map[string]string `yaml:"params"`
	Encoding        string            `yaml:"encoding"`
	ContentColumnID string            `yaml:"content_column_id"`
	Limit           int               `yaml:"limit"`
	CachedPage      string            `yaml:"cached_page"`
	Output          string            `yaml:"output"`
	Browser         bool              `yaml:"browser"`
	WaitSelector    string            `yaml:"wait_selector"`
}

// GetAppConfig reads basic infrastructure settings from environment variables.
func GetAppConfig() (AppConfig, error) {
	cfg := AppConfig{
		DBPath:       os.Getenv("DB_PATH"),
		ConfigPath:   os.Getenv("CONFIG_PATH"),
		GoogleAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogFormat:    os.Getenv("LOG_FORMAT"),
	}

	// Set defaults if not provided
	if cfg.DBPath == "" {
		cfg.DBPath = "./local-data/inspections.db"
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = "config.yaml"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}

	return cfg, nil
}

// DefaultSiteConfig returns the settings used when no YAML file exists.
// The date range and zip code are the ones the map was first built for.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		ResultsURL: DefaultResultsURL,
		Params: map[string]string{
			"Inspection_Start": "2/1/2013",
			"Inspection_End":   "2/1/2015",
			"Zip_Code":         "98101",
		},
		Encoding:        DefaultEncoding,
		ContentColumnID: DefaultContentColumnID,
		Limit:           DefaultLimit,
		Output:          DefaultOutput,
		WaitSelector:    DefaultWaitSelector,
	}
}

// LoadSiteConfig reads the YAML file to configure the scraper.
// A missing file is not an error: the defaults are returned instead.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	cfg := DefaultSiteConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Debug("site config not found, using defaults", zap.String("path", path))
		return cfg, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrap(err, "config: parse YAML")
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills empty values left by a partial YAML file. Limit is
// seeded before decoding, so an explicit 0 is kept.
func (c *SiteConfig) applyDefaults() {
	if c.ResultsURL == "" {
		c.ResultsURL = DefaultResultsURL
	}
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	if c.ContentColumnID == "" {
		c.ContentColumnID = DefaultContentColumnID
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.WaitSelector == "" {
		c.WaitSelector = DefaultWaitSelector
	}
	if c.Params == nil {
		c.Params = map[string]string{}
	}
}

// InitLogger initializes the global zap logger with the given level and format.
func InitLogger(level, format string) error {
	var zapCfg zap.Config
	if format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(lvl)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
