package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/chaincall/caller"
	"github.com/jonwraymond/chaincall/erc20"
	"github.com/jonwraymond/chaincall/health"
	"github.com/jonwraymond/chaincall/observe"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "serve [token]...",
		Short: "Serve health and metrics, polling token supplies at each new head",
		Long: `Starts an HTTP server with /healthz, /readyz, /health and /metrics.
Each token argument has its total supply read at the head block every
--interval. Polls that land on the same head are served from cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := parseAddresses(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, root)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.WithoutCancel(ctx)) }()

			readers := make([]*erc20.Token, 0, len(tokens))
			for _, addr := range tokens {
				tok, err := a.token(addr)
				if err != nil {
					return err
				}
				readers = append(readers, tok)
			}

			srv := &http.Server{
				Addr:              a.cfg.Health.Addr,
				Handler:           a.mux(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.logger.Info(ctx, "serving", observe.Field{Key: "addr", Value: srv.Addr})
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			if len(readers) > 0 {
				g.Go(func() error {
					a.poll(ctx, readers, interval)
					return nil
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 15*time.Second, "poll interval for token supplies")
	return cmd
}

func (a *app) mux() *http.ServeMux {
	agg := health.NewAggregator()
	agg.Register("node", health.NewNodeChecker(a.client, health.NodeCheckerConfig{
		StaleAfter: a.cfg.Health.NodeStaleAfter,
	}))
	agg.Register("gate", health.NewGateChecker(a.gate, health.GateCheckerConfig{
		StallThreshold: a.cfg.Health.StallThreshold,
	}))
	if a.breaker != nil {
		agg.Register("breaker", health.NewBreakerChecker(a.breaker))
	}

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, agg)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// poll reads every token's total supply at the head block until ctx ends.
func (a *app) poll(ctx context.Context, tokens []*erc20.Token, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		a.pollOnce(ctx, tokens)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *app) pollOnce(ctx context.Context, tokens []*erc20.Token) {
	tag, err := a.pin(ctx, nil)
	if err != nil {
		a.logger.Warn(ctx, "poll skipped", observe.Field{Key: "error", Value: err.Error()})
		return
	}

	var g errgroup.Group
	for _, tok := range tokens {
		g.Go(func() error {
			supply, err := tok.TotalSupply(ctx, caller.CallOpts{BlockTag: tag})
			if err != nil {
				a.logger.Warn(ctx, "total supply read failed",
					observe.Field{Key: "token", Value: tok.Address().Hex()},
					observe.Field{Key: "error", Value: err.Error()},
				)
				return nil
			}
			a.logger.Info(ctx, "total supply",
				observe.Field{Key: "token", Value: tok.Address().Hex()},
				observe.Field{Key: "block", Value: tag.String()},
				observe.Field{Key: "supply", Value: supply.String()},
			)
			return nil
		})
	}
	_ = g.Wait()
}
