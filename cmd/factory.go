package cmd

import (
	"context"
	"fmt"

	"github.com/cre8hub/persona-pipeline/internal/cache"
	"github.com/cre8hub/persona-pipeline/internal/config"
	"github.com/cre8hub/persona-pipeline/internal/repository/user"
	"github.com/cre8hub/persona-pipeline/internal/service/persona"
	"github.com/cre8hub/persona-pipeline/internal/service/transcript"
	"github.com/cre8hub/persona-pipeline/internal/service/warmer"
	"github.com/cre8hub/persona-pipeline/internal/service/youtube"
)

// newPersonaService assembles the full extraction pipeline from
// configuration: Redis cache, YouTube lister, transcript warmer,
// inference gateway and the user repository. The returned cleanup
// closes the database pool and the cache connection.
func newPersonaService(ctx context.Context) (persona.Service, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := cache.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to cache: %w", err)
	}

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	userRepo := user.NewRepository(dbPool)
	lister := youtube.NewLister(cfg.YouTubeAPIKey)

	fetcherOpts := transcript.DefaultOptions()
	if len(cfg.Pipeline.Languages) > 0 {
		fetcherOpts.Languages = cfg.Pipeline.Languages
	}
	if cfg.Pipeline.MaxTranscriptChars > 0 {
		fetcherOpts.MaxChars = cfg.Pipeline.MaxTranscriptChars
	}
	fetcher := transcript.NewFetcher(fetcherOpts)

	warmerOpts := warmer.DefaultOptions()
	if cfg.Pipeline.BatchSize > 0 {
		warmerOpts.BatchSize = cfg.Pipeline.BatchSize
	}
	if cfg.Pipeline.BatchDelay > 0 {
		warmerOpts.BatchDelay = cfg.Pipeline.BatchDelay
	}
	if cfg.Pipeline.CacheTTL > 0 {
		warmerOpts.TTL = cfg.Pipeline.CacheTTL
	}
	cacheWarmer := warmer.NewWarmer(store, fetcher, warmerOpts, nil)

	gateway := persona.NewGateway(cfg.AIGatewayURL, cfg.Pipeline.GatewayTimeout)

	service := persona.NewService(store, lister, cacheWarmer, gateway, userRepo, nil)

	cleanup := func() {
		config.CloseDatabasePool(dbPool)
	}

	return service, cleanup, nil
}
