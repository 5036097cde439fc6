package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"rentab/internal/cache"
	"rentab/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve evaluations over HTTP",
		Long: `Start the HTTP API.

  POST /evaluate  body: scenario JSON, merged onto the configured defaults
  GET  /health

Results are cached in Redis when server.redis_addr is set, in memory
otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config.Server
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Addr = addr
			}
			if redisAddr, _ := cmd.Flags().GetString("redis"); redisAddr != "" {
				cfg.RedisAddr = redisAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repo, err := openCache(ctx, app, cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer repo.Close()

			srv := server.New(server.Options{
				Addr:              cfg.Addr,
				NotaryFeesPercent: app.Config.Assumptions.NotaryFeesPercent,
				Defaults:          app.Config.Defaults,
				CacheTTL:          cfg.CacheTTL,
				RateLimit:         cfg.RateLimit,
				RateBurst:         cfg.RateBurst,
			}, repo, app.Logger)

			err = srv.ListenAndServe(ctx)
			logCacheStats(app.Logger, repo)
			return err
		},
	}

	cmd.Flags().String("addr", "", "listen address (default: server.addr)")
	cmd.Flags().String("redis", "", "Redis address for the result cache (default: server.redis_addr)")
	return cmd
}

func openCache(ctx context.Context, app *App, redisAddr string) (cache.Repository, error) {
	if redisAddr == "" {
		app.Logger.Info().Msg("Using in-memory result cache")
		return cache.NewMemoryCache(), nil
	}

	repo, err := cache.NewRedisCache(ctx, redisAddr)
	if err != nil {
		return nil, err
	}
	app.Logger.Info().Str("addr", redisAddr).Msg("Using Redis result cache")
	return cache.NewGuardedCache(repo, cache.DefaultBreakerConfig()), nil
}

// logCacheStats reports the cache state at shutdown.
func logCacheStats(logger zerolog.Logger, repo cache.Repository) {
	switch c := repo.(type) {
	case *cache.GuardedCache:
		logger.Info().
			Str("circuit", string(c.State())).
			Int64("rejected", c.Rejected()).
			Msg("Redis cache summary")
	case *cache.MemoryCache:
		logger.Info().Int("entries", c.Len()).Msg("In-memory cache summary")
	}
}
