package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	starrradarr "golift.io/starr/radarr"
	starrsonarr "golift.io/starr/sonarr"

	"github.com/s0up4200/mediarr/api"
	"github.com/s0up4200/mediarr/config"
	"github.com/s0up4200/mediarr/filter"
	"github.com/s0up4200/mediarr/jellyfin"
	"github.com/s0up4200/mediarr/library"
	"github.com/s0up4200/mediarr/plex"
	"github.com/s0up4200/mediarr/radarr"
	"github.com/s0up4200/mediarr/seer"
	"github.com/s0up4200/mediarr/sensor"
	"github.com/s0up4200/mediarr/sonarr"
	"github.com/s0up4200/mediarr/store"
	"github.com/s0up4200/mediarr/tmdb"
	"github.com/s0up4200/mediarr/trakt"
)

// connectionTester is implemented by every provider client that can ping
type connectionTester interface {
	TestConnection(ctx context.Context) error
}

// provider is one configured sensor before it is wrapped in a Sensor
type provider struct {
	cfg       config.ProviderConfig
	fetcher   sensor.Fetcher
	tester    connectionTester
	requester seer.Requester
	library   library.Fetcher
	images    api.ImageSource
}

// app holds everything built from the config
type app struct {
	scheduler *sensor.Scheduler
	library   *library.Library
	store     *store.Store
	providers map[string]*provider
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close state store")
		}
	}
}

type appOptions struct {
	withStore bool
	only      []string
}

// buildApp creates clients and sensors. Invalid sensors are logged and
// skipped; an error is returned only when nothing usable remains.
func buildApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	a := &app{
		scheduler: sensor.NewScheduler(cfg.Poll.Interval, cfg.Poll.Concurrency, logger),
		library: library.New(logger,
			library.WithRefresh(cfg.Library.Refresh),
			library.WithFuzzyThreshold(cfg.Library.FuzzyThreshold),
			library.WithFailureBackoff(cfg.Library.FailureBackoff),
		),
		providers: make(map[string]*provider),
	}

	if opts.withStore && cfg.State.Path != "" {
		st, err := store.Open(ctx, cfg.State.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		a.store = st
	}

	providerCfgs, errs := cfg.ResolveSensors()
	for _, err := range errs {
		var ce *config.ConfigError
		if errors.As(err, &ce) {
			logger.Error().Str("sensor", ce.Sensor).Str("key", ce.Key).Err(err).Msg("Skipping misconfigured sensor")
			continue
		}
		logger.Error().Err(err).Msg("Skipping misconfigured sensor")
	}

	for _, pc := range providerCfgs {
		p, err := newProvider(pc, logger.With().Str("sensor", pc.Name).Logger())
		if err != nil {
			logger.Error().Err(err).Str("sensor", pc.Name).Msg("Skipping sensor")
			continue
		}
		a.providers[pc.Name] = p
		// Every library-capable sensor feeds the hide_existing snapshot,
		// even when the command only runs a subset
		if p.library != nil {
			a.library.Add(pc.Name, p.library)
		}
	}

	posters := map[string]*tmdb.PosterResolver{}
	for _, pc := range providerCfgs {
		p, ok := a.providers[pc.Name]
		if !ok || !selected(pc.Name, opts.only) {
			continue
		}

		cycle, err := cycleOptions(pc, cfg.Server.PublicURL, a.library, posters)
		if err != nil {
			logger.Error().Err(err).Str("sensor", pc.Name).Msg("Skipping sensor")
			continue
		}

		sensorOpts := []sensor.Option{
			sensor.WithCycle(cycle),
			sensor.WithTimeout(cfg.Poll.Timeout),
			sensor.WithInterval(pc.Interval),
			sensor.WithLogger(logger),
		}
		if a.store != nil {
			sensorOpts = append(sensorOpts, sensor.WithStore(a.store))
		}
		if p.requester != nil {
			sensorOpts = append(sensorOpts, sensor.WithRequester(p.requester))
		}

		if err := a.scheduler.Add(sensor.New(pc.Name, pc.Type, p.fetcher, sensorOpts...)); err != nil {
			logger.Error().Err(err).Msg("Skipping sensor")
		}
	}

	for _, name := range opts.only {
		if _, ok := a.scheduler.Get(name); !ok {
			a.Close()
			return nil, fmt.Errorf("unknown or invalid sensor: %s", name)
		}
	}
	if len(a.scheduler.Sensors()) == 0 {
		a.Close()
		return nil, errors.New("no valid sensors configured")
	}

	return a, nil
}

// imageSources maps sensor names to the clients serving their artwork
func (a *app) imageSources() map[string]api.ImageSource {
	out := make(map[string]api.ImageSource)
	for name, p := range a.providers {
		if p.images != nil {
			out[name] = p.images
		}
	}
	return out
}

func selected(name string, only []string) bool {
	if len(only) == 0 {
		return true
	}
	for _, o := range only {
		if strings.EqualFold(o, name) {
			return true
		}
	}
	return false
}

func cycleOptions(pc config.ProviderConfig, publicURL string, lib *library.Library, posters map[string]*tmdb.PosterResolver) (sensor.CycleOptions, error) {
	opts := sensor.CycleOptions{MaxItems: pc.MaxItems}

	spec := pc.FilterSpec()
	if !spec.IsZero() {
		engineOpts := []filter.EngineOption{filter.WithLogger(logger.With().Str("sensor", pc.Name).Logger())}
		if spec.HideExisting && lib.Len() > 0 {
			engineOpts = append(engineOpts, filter.WithLibrary(lib))
		}
		engine, err := filter.NewEngine(spec, engineOpts...)
		if err != nil {
			return opts, &config.ConfigError{Sensor: pc.Name, Key: "filters.expression", Reason: "does not compile", Err: err}
		}
		opts.Filter = engine
	}

	var chain sensor.Posters
	if key := pc.TMDBAPIKey; key != "" {
		resolver, ok := posters[key]
		if !ok {
			resolver = tmdb.NewPosterResolver(key, logger)
			posters[key] = resolver
		}
		chain = append(chain, resolver)
	}
	// Plex artwork fills whatever TMDB could not
	if pc.Type == config.TypePlex {
		chain = append(chain, plex.ImageLinks{BaseURL: publicURL, Sensor: pc.Name})
	}
	if len(chain) > 0 {
		opts.Posters = chain
	}

	return opts, nil
}

func newProvider(pc config.ProviderConfig, log zerolog.Logger) (*provider, error) {
	p := &provider{cfg: pc}

	switch pc.Type {
	case config.TypePlex:
		client, err := plex.NewClient(pc.URL, pc.Credential(), log)
		if err != nil {
			return nil, err
		}
		p.fetcher = sensor.Normalized[plex.Entry](&plex.RecentlyAddedSource{Client: client, Label: pc.Name})
		p.tester, p.library, p.images = client, client, client

	case config.TypeJellyfin:
		client, err := jellyfin.NewClient(pc.URL, pc.Credential(), pc.UserID, log)
		if err != nil {
			return nil, err
		}
		p.fetcher = sensor.Normalized[jellyfin.Item](&jellyfin.LatestSource{Client: client, Limit: pc.MaxItems * 2, Label: pc.Name})
		p.tester, p.library = client, client

	case config.TypeSonarr:
		client, err := sonarr.NewClient(pc.URL, pc.APIKey, log)
		if err != nil {
			return nil, err
		}
		p.fetcher = sensor.Normalized[*starrsonarr.Episode](&sonarr.CalendarSource{Client: client, Days: pc.DaysToCheck, Label: pc.Name})
		p.tester, p.library = client, client

	case config.TypeRadarr:
		client, err := radarr.NewClient(pc.URL, pc.APIKey, log)
		if err != nil {
			return nil, err
		}
		p.fetcher = sensor.Normalized[*starrradarr.Movie](&radarr.CalendarSource{Client: client, Days: pc.DaysToCheck, Label: pc.Name})
		p.tester, p.library = client, client

	case config.TypeSeer:
		client, err := seer.NewClient(pc.URL, pc.APIKey, log)
		if err != nil {
			return nil, err
		}
		if pc.TrendingType == config.SeerRequests {
			p.fetcher = sensor.Normalized[seer.RequestEntry](&seer.RequestsSource{Client: client, Filter: "pending", Label: pc.Name})
		} else {
			lists, _ := seer.ListsFor(pc.TrendingType)
			p.fetcher = sensor.Normalized[seer.DiscoverResult](&seer.DiscoverSource{Client: client, Lists: lists, Label: pc.Name})
		}
		p.tester, p.requester = client, client

	case config.TypeTMDB:
		client, err := tmdb.NewClient(pc.APIKey, log, tmdb.WithLanguage(pc.Language()))
		if err != nil {
			return nil, err
		}
		list, _ := tmdb.ParseListType(pc.TrendingType)
		src := &tmdb.ListSource{Client: client, List: list, Label: pc.Name}
		p.fetcher = sensor.Normalized[tmdb.Result](src)
		p.tester = fetchTester{src: p.fetcher}

	case config.TypeTrakt:
		client, err := trakt.NewClient(pc.Credential(), log)
		if err != nil {
			return nil, err
		}
		kind, _ := trakt.ParseKind(pc.MediaType)
		list, _ := trakt.ParseListType(pc.TrendingType)
		p.fetcher = sensor.Normalized[trakt.Entry](&trakt.ListSource{Client: client, Kind: kind, List: list, Limit: pc.MaxItems * 3, Label: pc.Name})
		p.tester = fetchTester{src: p.fetcher}

	default:
		return nil, fmt.Errorf("unsupported provider type %q", pc.Type)
	}

	return p, nil
}

// fetchTester checks providers without a ping endpoint by fetching their list
type fetchTester struct {
	src sensor.Fetcher
}

func (f fetchTester) TestConnection(ctx context.Context) error {
	_, err := f.src.Fetch(ctx)
	return err
}
