package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/engine"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/resolver"
	"github.com/sells-group/leadgen-cli/internal/scrape"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/internal/verify"
	"github.com/sells-group/leadgen-cli/pkg/abstractapi"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

// env holds the wired pipeline for one command invocation.
type env struct {
	Store    store.Store
	Resolver *resolver.Resolver
	Verifier *verify.Verifier
}

func (e *env) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("store close", zap.Error(err))
	}
}

// initStore opens and migrates the configured backend.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initEnv wires the full resolution pipeline. Engines and providers
// missing credentials are constructed anyway; they report themselves
// unconfigured and the fallback chain skips them.
func initEnv(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	fetcher := scrape.NewFetcher(
		scrape.WithUserAgent(cfg.Scrape.UserAgent),
		scrape.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs)*time.Second),
		scrape.WithRetries(cfg.Scrape.Retries),
		scrape.WithHostRate(cfg.Scrape.RatePerHost),
	)

	maxResults := cfg.Search.MaxResults

	corp := engine.NewChain(
		engine.NewGoogleCSE(cfg.Google.APIKey, cfg.Google.EngineID, maxResults),
		engine.NewSerpAPI(cfg.SerpAPI.Key, maxResults),
		engine.NewStealthGoogle(fetcher),
		engine.NewBing(fetcher),
	)
	smb := engine.NewChain(
		engine.NewYelp(cfg.Yelp.Key, maxResults),
		engine.NewGooglePlaces(cfg.PlacesKey(), maxResults),
		engine.NewYellowPages(fetcher, maxResults),
		engine.NewBingLocal(fetcher, maxResults),
	)

	verifier := verify.New(cfg.Verify, verify.WithProviders(verifyProviders()...))
	enricher := enrich.New(cfg.Enrich)

	return &env{
		Store:    st,
		Resolver: resolver.New(st, corp, smb, verifier, enricher, cfg.Search),
		Verifier: verifier,
	}, nil
}

// verifyProviders builds the API fallback chain behind the SMTP
// handshake, in priority order.
func verifyProviders() []verify.Provider {
	var providers []verify.Provider
	if cfg.Verify.HunterKey != "" {
		providers = append(providers, verify.NewHunterProvider(hunter.NewClient(cfg.Verify.HunterKey)))
		zap.L().Debug("hunter verification enabled")
	}
	if cfg.Verify.AbstractKey != "" {
		providers = append(providers, verify.NewAbstractProvider(abstractapi.NewClient(cfg.Verify.AbstractKey)))
		zap.L().Debug("abstract verification enabled")
	}
	return providers
}
