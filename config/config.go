package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/mediarr/filter"
	"github.com/s0up4200/mediarr/seer"
	"github.com/s0up4200/mediarr/tmdb"
	"github.com/s0up4200/mediarr/trakt"
)

const (
	DefaultMaxItems    = 10
	DefaultDaysToCheck = 60
)

// Load loads the configuration from file. A .env file next to the config
// or in the working directory is loaded first so ${VAR} references resolve.
func Load(configPath string) (*Config, error) {
	loadDotEnv(configPath)

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix("MEDIARR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".mediarr"))
		}

		// Check /etc
		v.AddConfigPath("/etc/mediarr/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.expand()

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv(configPath string) {
	candidates := []string{".env"}
	if configPath != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(configPath), ".env"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			// Existing environment wins over the file
			_ = godotenv.Load(path)
		}
	}
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7979)

	v.SetDefault("poll.interval", "10m")
	v.SetDefault("poll.timeout", "30s")
	v.SetDefault("poll.concurrency", 4)

	v.SetDefault("state.path", "mediarr.db")

	v.SetDefault("library.refresh", "1h")
	v.SetDefault("library.fuzzy_threshold", 0.92)
	v.SetDefault("library.failure_backoff", "1m")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)

	v.SetDefault("update.repository", "s0up4200/mediarr")
}

// expand resolves ${VAR} references in credentials and URLs
func (c *Config) expand() {
	c.TMDBAPIKey = os.ExpandEnv(c.TMDBAPIKey)
	for name, p := range c.Sensors {
		p.URL = os.ExpandEnv(p.URL)
		p.APIKey = os.ExpandEnv(p.APIKey)
		p.Token = os.ExpandEnv(p.Token)
		p.UserID = os.ExpandEnv(p.UserID)
		p.ClientID = os.ExpandEnv(p.ClientID)
		p.TMDBAPIKey = os.ExpandEnv(p.TMDBAPIKey)
		c.Sensors[name] = p
	}
}

// validate checks the global sections. Sensor entries are checked by
// ResolveSensors so one bad entry does not stop the others.
func validate(cfg *Config) error {
	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", cfg.Server.Port)
	}
	if cfg.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive")
	}
	if cfg.Poll.Timeout <= 0 {
		return fmt.Errorf("poll.timeout must be positive")
	}
	if cfg.Library.FuzzyThreshold < 0 || cfg.Library.FuzzyThreshold > 1 {
		return fmt.Errorf("library.fuzzy_threshold must be between 0 and 1")
	}
	if len(cfg.Sensors) == 0 {
		return fmt.Errorf("at least one sensor must be configured")
	}

	return nil
}

var knownTypes = []string{TypePlex, TypeJellyfin, TypeSeer, TypeSonarr, TypeRadarr, TypeTrakt, TypeTMDB}

var trailingDigits = regexp.MustCompile(`\d+$`)

// InferType derives a provider type from a sensor name: "sonarr2" is a
// sonarr, "tmdb_trending" a tmdb, "overseerr" a seer.
func InferType(name string) string {
	base := strings.ToLower(trailingDigits.ReplaceAllString(name, ""))
	base = strings.TrimRight(base, "_-")
	if prefix, _, found := strings.Cut(base, "_"); found {
		base = prefix
	}
	switch base {
	case "overseerr", "jellyseerr":
		return TypeSeer
	}
	if slices.Contains(knownTypes, base) {
		return base
	}
	return ""
}

// ResolveSensors returns the valid sensor entries with types and defaults
// filled in, plus one *ConfigError per rejected entry. Names are sorted.
func (c *Config) ResolveSensors() ([]ProviderConfig, []error) {
	names := make([]string, 0, len(c.Sensors))
	for name := range c.Sensors {
		names = append(names, name)
	}
	slices.Sort(names)

	var (
		valid []ProviderConfig
		errs  []error
	)
	for _, name := range names {
		p, err := c.resolve(name, c.Sensors[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		valid = append(valid, p)
	}
	return valid, errs
}

func (c *Config) resolve(name string, p ProviderConfig) (ProviderConfig, error) {
	fail := func(key, reason string, err error) (ProviderConfig, error) {
		return ProviderConfig{}, &ConfigError{Sensor: name, Key: key, Reason: reason, Err: err}
	}

	p.Name = name
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	if p.Type == "" {
		p.Type = InferType(name)
	}
	if !slices.Contains(knownTypes, p.Type) {
		return fail("type", fmt.Sprintf("unknown provider type %q", p.Type), nil)
	}

	if p.MaxItems < 0 {
		return fail("max_items", "must not be negative", nil)
	}
	if p.MaxItems == 0 {
		p.MaxItems = DefaultMaxItems
	}
	if p.DaysToCheck < 0 {
		return fail("days_to_check", "must not be negative", nil)
	}
	if p.DaysToCheck == 0 {
		p.DaysToCheck = DefaultDaysToCheck
	}
	if p.TMDBAPIKey == "" {
		p.TMDBAPIKey = c.TMDBAPIKey
	}

	switch p.Type {
	case TypePlex, TypeJellyfin, TypeSeer, TypeSonarr, TypeRadarr:
		if p.URL == "" {
			return fail("url", "is required", nil)
		}
	}

	if p.Credential() == "" {
		switch p.Type {
		case TypeTMDB:
			if p.TMDBAPIKey == "" {
				return fail("api_key", "is required (or set tmdb_api_key)", nil)
			}
			p.APIKey = p.TMDBAPIKey
		case TypeTrakt:
			return fail("client_id", "is required", nil)
		case TypePlex, TypeJellyfin:
			return fail("token", "is required", nil)
		default:
			return fail("api_key", "is required", nil)
		}
	}

	switch p.Type {
	case TypeJellyfin:
		if p.UserID == "" {
			return fail("user_id", "is required", nil)
		}
	case TypeTMDB:
		if _, ok := tmdb.ParseListType(p.TrendingType); !ok {
			return fail("trending_type", fmt.Sprintf("unknown list %q", p.TrendingType), nil)
		}
	case TypeTrakt:
		if _, err := trakt.ParseListType(p.TrendingType); err != nil {
			return fail("trending_type", "invalid", err)
		}
		if _, err := trakt.ParseKind(p.MediaType); err != nil {
			return fail("media_type", "invalid", err)
		}
	case TypeSeer:
		if p.TrendingType != SeerRequests {
			if _, ok := seer.ListsFor(p.TrendingType); !ok {
				return fail("trending_type", fmt.Sprintf("unknown list %q", p.TrendingType), nil)
			}
		}
	}

	if p.Filters != nil && p.Filters.Expression != "" {
		if _, err := filter.NewExprCompiler().Compile(p.Filters.Expression); err != nil {
			return fail("filters.expression", "does not compile", err)
		}
	}

	return p, nil
}
