package config

import (
	"slices"
	"time"

	"github.com/s0up4200/mediarr/filter"
)

// Config represents the complete configuration structure
type Config struct {
	Server     ServerConfig              `mapstructure:"server"`
	Poll       PollConfig                `mapstructure:"poll"`
	State      StateConfig               `mapstructure:"state"`
	Library    LibraryConfig             `mapstructure:"library"`
	TMDBAPIKey string                    `mapstructure:"tmdb_api_key"`
	Logging    LoggingConfig             `mapstructure:"logging"`
	Update     UpdateConfig              `mapstructure:"update"`
	Sensors    map[string]ProviderConfig `mapstructure:"sensors"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// PublicURL prefixes image proxy links; empty keeps them relative
	PublicURL string `mapstructure:"public_url"`
}

// PollConfig controls the scheduler
type PollConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

// StateConfig locates the sensor state database
type StateConfig struct {
	Path string `mapstructure:"path"`
}

// LibraryConfig controls the hide_existing snapshot
type LibraryConfig struct {
	Refresh        time.Duration `mapstructure:"refresh"`
	FuzzyThreshold float64       `mapstructure:"fuzzy_threshold"`
	FailureBackoff time.Duration `mapstructure:"failure_backoff"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Color      bool   `mapstructure:"color"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// UpdateConfig names the release repository for self update
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}

// ProviderConfig is one sensor entry. Several entries may share a type.
type ProviderConfig struct {
	Name         string        `mapstructure:"-"`
	Type         string        `mapstructure:"type"`
	URL          string        `mapstructure:"url"`
	APIKey       string        `mapstructure:"api_key"`
	Token        string        `mapstructure:"token"`
	UserID       string        `mapstructure:"user_id"`
	ClientID     string        `mapstructure:"client_id"`
	MaxItems     int           `mapstructure:"max_items"`
	DaysToCheck  int           `mapstructure:"days_to_check"`
	TMDBAPIKey   string        `mapstructure:"tmdb_api_key"`
	TrendingType string        `mapstructure:"trending_type"`
	MediaType    string        `mapstructure:"media_type"`
	Interval     time.Duration `mapstructure:"interval"`
	Filters      *FilterConfig `mapstructure:"filters"`
}

// FilterConfig overrides the default filters of a sensor. Unset booleans
// keep the default for the sensor's type.
type FilterConfig struct {
	MinYear           int    `mapstructure:"min_year"`
	ExcludeGenres     []int  `mapstructure:"exclude_genres"`
	ExcludeTalkShows  *bool  `mapstructure:"exclude_talk_shows"`
	ExcludeNonEnglish *bool  `mapstructure:"exclude_non_english"`
	HideExisting      *bool  `mapstructure:"hide_existing"`
	Expression        string `mapstructure:"expression"`
	// Language is the TMDB language parameter for list requests, e.g. "en-US"
	Language string `mapstructure:"language"`
}

// Provider types
const (
	TypePlex     = "plex"
	TypeJellyfin = "jellyfin"
	TypeSeer     = "seer"
	TypeSonarr   = "sonarr"
	TypeRadarr   = "radarr"
	TypeTrakt    = "trakt"
	TypeTMDB     = "tmdb"
)

// SeerRequests selects the pending requests list instead of a discover list
const SeerRequests = "requests"

// IsDiscovery reports whether the sensor lists titles the user may not own
func (p ProviderConfig) IsDiscovery() bool {
	switch p.Type {
	case TypeTMDB, TypeTrakt:
		return true
	case TypeSeer:
		return p.TrendingType != SeerRequests
	default:
		return false
	}
}

// Credential returns the secret for the provider, accepting either key
func (p ProviderConfig) Credential() string {
	switch p.Type {
	case TypePlex, TypeJellyfin:
		if p.Token != "" {
			return p.Token
		}
		return p.APIKey
	case TypeTrakt:
		if p.ClientID != "" {
			return p.ClientID
		}
		return p.APIKey
	default:
		return p.APIKey
	}
}

// Language returns the configured list language, or "" for the provider default
func (p ProviderConfig) Language() string {
	if p.Filters == nil {
		return ""
	}
	return p.Filters.Language
}

// FilterSpec returns the filters for the sensor: discovery defaults for
// discovery sensors, nothing for library sensors, then the overrides.
func (p ProviderConfig) FilterSpec() filter.Spec {
	var spec filter.Spec
	if p.IsDiscovery() {
		spec = filter.DiscoverySpec()
	}

	f := p.Filters
	if f == nil {
		return spec
	}
	if f.MinYear > 0 {
		spec.MinYear = f.MinYear
	}
	if f.ExcludeGenres != nil {
		spec.ExcludeGenres = slices.Clone(f.ExcludeGenres)
	}
	if f.ExcludeTalkShows != nil {
		spec.ExcludeTalkShows = *f.ExcludeTalkShows
	}
	if f.ExcludeNonEnglish != nil {
		spec.ExcludeNonEnglish = *f.ExcludeNonEnglish
	}
	if f.HideExisting != nil {
		spec.HideExisting = *f.HideExisting
	}
	spec.Expression = f.Expression
	return spec
}
