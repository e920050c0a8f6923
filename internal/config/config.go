package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. Every external credential
// lives here; an empty key disables the engine or provider that needs it.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Google  GoogleConfig  `yaml:"google" mapstructure:"google"`
	SerpAPI SerpAPIConfig `yaml:"serpapi" mapstructure:"serpapi"`
	Yelp    YelpConfig    `yaml:"yelp" mapstructure:"yelp"`
	Places  PlacesConfig  `yaml:"places" mapstructure:"places"`
	Verify  VerifyConfig  `yaml:"verify" mapstructure:"verify"`
	Enrich  EnrichConfig  `yaml:"enrich" mapstructure:"enrich"`
	Scrape  ScrapeConfig  `yaml:"scrape" mapstructure:"scrape"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// GoogleConfig holds Google Custom Search credentials.
type GoogleConfig struct {
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	EngineID string `yaml:"engine_id" mapstructure:"engine_id"`
}

// SerpAPIConfig holds the alternate search-API credential.
type SerpAPIConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// YelpConfig holds the Yelp Fusion API credential.
type YelpConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// PlacesConfig holds the Google Places API credential. Falls back to the
// Custom Search key when unset (the same key typically covers both).
type PlacesConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// VerifyConfig configures the email verification engine.
type VerifyConfig struct {
	SMTPEnabled     bool   `yaml:"smtp_enabled" mapstructure:"smtp_enabled"`
	HelloDomain     string `yaml:"hello_domain" mapstructure:"hello_domain"`
	FromAddress     string `yaml:"from_address" mapstructure:"from_address"`
	StepTimeoutSecs int    `yaml:"step_timeout_secs" mapstructure:"step_timeout_secs"`
	BatchSize       int    `yaml:"batch_size" mapstructure:"batch_size"`
	BatchPauseMs    int    `yaml:"batch_pause_ms" mapstructure:"batch_pause_ms"`
	HunterKey       string `yaml:"hunter_key" mapstructure:"hunter_key"`
	AbstractKey     string `yaml:"abstract_key" mapstructure:"abstract_key"`
}

// EnrichConfig configures contact-enrichment providers.
type EnrichConfig struct {
	HunterKey      string `yaml:"hunter_key" mapstructure:"hunter_key"`
	ClearbitKey    string `yaml:"clearbit_key" mapstructure:"clearbit_key"`
	RocketReachKey string `yaml:"rocketreach_key" mapstructure:"rocketreach_key"`
	MaxProfiles    int    `yaml:"max_profiles" mapstructure:"max_profiles"`
	Parallelism    int    `yaml:"parallelism" mapstructure:"parallelism"`
	PauseMs        int    `yaml:"pause_ms" mapstructure:"pause_ms"`
}

// ScrapeConfig configures the shared HTTP fetcher used by scrape engines.
type ScrapeConfig struct {
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	NavTimeoutSecs int     `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	Retries        int     `yaml:"retries" mapstructure:"retries"`
	RatePerHost    float64 `yaml:"rate_per_host" mapstructure:"rate_per_host"`
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig configures the resolution pipeline.
type SearchConfig struct {
	FreshnessDays int `yaml:"freshness_days" mapstructure:"freshness_days"`
	TopProfiles   int `yaml:"top_profiles" mapstructure:"top_profiles"`
	MaxResults    int `yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.sqlite_path", "leadgen.db")
	v.SetDefault("verify.smtp_enabled", true)
	v.SetDefault("verify.hello_domain", "verify-bot.com")
	v.SetDefault("verify.from_address", "check@verify-bot.com")
	v.SetDefault("verify.step_timeout_secs", 5)
	v.SetDefault("verify.batch_size", 3)
	v.SetDefault("verify.batch_pause_ms", 300)
	v.SetDefault("enrich.max_profiles", 5)
	v.SetDefault("enrich.parallelism", 3)
	v.SetDefault("enrich.pause_ms", 300)
	v.SetDefault("scrape.timeout_secs", 15)
	v.SetDefault("scrape.nav_timeout_secs", 30)
	v.SetDefault("scrape.retries", 1)
	v.SetDefault("scrape.rate_per_host", 1.0)
	v.SetDefault("scrape.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("search.freshness_days", 30)
	v.SetDefault("search.top_profiles", 5)
	v.SetDefault("search.max_results", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// PlacesKey returns the Places credential, falling back to the Custom Search
// key when no dedicated one is configured.
func (c *Config) PlacesKey() string {
	if c.Places.Key != "" {
		return c.Places.Key
	}
	return c.Google.APIKey
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
