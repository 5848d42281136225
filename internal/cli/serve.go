package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/schemline/schemline/internal/server"
	"github.com/schemline/schemline/pkg/cache"
	"github.com/schemline/schemline/pkg/pipeline"
)

// serveCommand creates the serve command exposing the solver over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		noCache     bool
		redisAddr   string
		redisPass   string
		redisDB     int
		cachePrefix string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver as an HTTP API",
		Long: `Serve the solver as an HTTP API.

POST a TOML constraint document to /api/v1/solve to receive the solved
placement as JSON, or pass ?format=dot|svg|png for a rendered diagram.

By default results are cached in the local file cache. With --redis the
cache is shared through a Redis instance, so multiple server replicas
reuse each other's solves. --cache-prefix namespaces the keys when the
Redis instance is shared with other deployments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.newServeCache(cmd.Context(), noCache, redisAddr, redisPass, redisDB)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}

			var keyer cache.Keyer
			if cachePrefix != "" {
				keyer = cache.NewScopedKeyer(nil, cachePrefix)
			}

			runner := pipeline.NewRunner(cc, keyer, c.Logger)
			defer runner.Close()

			return c.runServer(cmd.Context(), addr, runner)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for a shared cache (e.g. localhost:6379)")
	cmd.Flags().StringVar(&redisPass, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&cachePrefix, "cache-prefix", "", "prefix for cache keys on shared backends")

	return cmd
}

func (c *CLI) newServeCache(ctx context.Context, noCache bool, redisAddr, redisPass string, redisDB int) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisOpts{
			Addr:     redisAddr,
			Password: redisPass,
			DB:       redisDB,
		})
	}
	return newCache(false)
}

// runServer starts the HTTP server and shuts it down gracefully when the
// context is cancelled.
func (c *CLI) runServer(ctx context.Context, addr string, runner *pipeline.Runner) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(runner, c.Logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	}
}
