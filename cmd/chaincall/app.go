package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/jonwraymond/chaincall/cache"
	"github.com/jonwraymond/chaincall/caller"
	"github.com/jonwraymond/chaincall/config"
	"github.com/jonwraymond/chaincall/erc20"
	"github.com/jonwraymond/chaincall/observe"
	"github.com/jonwraymond/chaincall/resilience"
)

// app holds what every command shares: one node connection, one gate and
// one set of dispatch guards, so reads from different tokens coalesce and
// count against the same limits.
type app struct {
	cfg     *config.Config
	obs     observe.Observer
	logger  observe.Logger
	client  *ethclient.Client
	gate    *cache.Gate[[]any]
	guard   []resilience.GuardOption
	breaker *resilience.CircuitBreaker
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	obs, err := observe.NewObserver(ctx, cfg.Observe.ToObserve(version))
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	url, err := cfg.ResolveNodeURL(ctx)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		_ = obs.Shutdown(ctx)
		// The URL may carry an API key; it stays out of the error.
		return nil, fmt.Errorf("dial node: %w", err)
	}

	gate, err := cache.NewGate[[]any](cfg.Cache.Capacity)
	if err != nil {
		client.Close()
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	guard, breaker := cfg.Dispatch.Guard(caller.IsNodeFailure)

	a := &app{
		cfg:     cfg,
		obs:     obs,
		logger:  obs.Logger(),
		client:  client,
		gate:    gate,
		guard:   guard,
		breaker: breaker,
	}
	a.logger.Debug(ctx, "chaincall started",
		observe.Field{Key: "rpc_url", Value: url},
		observe.Field{Key: "cache_capacity", Value: cfg.Cache.Capacity},
	)
	return a, nil
}

func (a *app) token(addr common.Address) (*erc20.Token, error) {
	return erc20.NewToken(addr, caller.NewContractTransport(a.client),
		caller.WithGate(a.gate),
		caller.WithObserver(a.obs),
		caller.WithGuard(a.guard...),
	)
}

// pin resolves a latest tag to the current head so state reads are
// cacheable. Explicit heights pass through.
func (a *app) pin(ctx context.Context, tag *cache.BlockTag) (*cache.BlockTag, error) {
	if tag != nil && tag.Kind != cache.TagLatest {
		return tag, nil
	}
	head, err := a.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("read head block: %w", err)
	}
	return cache.AtBlock(head), nil
}

func (a *app) Close(ctx context.Context) error {
	a.client.Close()
	return a.obs.Shutdown(ctx)
}
