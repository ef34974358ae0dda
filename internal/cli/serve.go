package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cladeviz/clade/internal/server"
	"github.com/cladeviz/clade/pkg/cache"
	"github.com/cladeviz/clade/pkg/config"
	"github.com/cladeviz/clade/pkg/pipeline"
	"github.com/cladeviz/clade/pkg/store"
)

// newServeCmd creates the serve command, which runs the HTTP API.
// configPath points at the root command's --config flag value.
func newServeCmd(configPath *string) *cobra.Command {
	var (
		addr      string
		withStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the tree pipeline over HTTP: parse, render, and compare endpoints,
plus optional MongoDB-backed tree persistence with --store. The cache
backend, listen address, and store connection come from the config file and
can be overridden by flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			c, err := newServerCache(cfg.Cache)
			if err != nil {
				logger.Warn("cache unavailable, continuing without", "error", err)
				c = cache.NewNullCache()
			}

			var st *store.Store
			if withStore {
				st, err = store.Connect(ctx, store.Config{
					URI:      cfg.Store.URI,
					Database: cfg.Store.Database,
				})
				if err != nil {
					return err
				}
				logger.Info("connected tree store", "uri", cfg.Store.URI)
			}

			runner := pipeline.NewRunner(c, logger)
			defer runner.Close()

			srv := server.New(runner, st, logger)
			return srv.ListenAndServe(cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&withStore, "store", false, "enable MongoDB tree persistence")
	return cmd
}

// newServerCache builds the cache backend selected by the config.
func newServerCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(context.Background(), cache.RedisConfig{Addr: cfg.Addr})
	default:
		return cache.NewFileCache(cfg.Dir)
	}
}
