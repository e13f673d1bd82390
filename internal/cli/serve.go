package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knotworks/forcemap/internal/server"
	"github.com/knotworks/forcemap/pkg/cache"
	"github.com/knotworks/forcemap/pkg/pipeline"
	"github.com/knotworks/forcemap/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the forcemap HTTP API",
		Long: `Run the forcemap HTTP API.

The server accepts entity sets via POST /v1/layouts, computes layouts with
the same pipeline as the CLI, and stores results for retrieval by ID.

By default layouts are kept in memory and pipeline results are cached on
disk. Point --mongo-uri at a MongoDB instance for durable storage and
--redis at a Redis instance for shared caching across replicas.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for shared caching (host:port)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "mongodb connection string for durable storage")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable pipeline caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisAddr, mongoURI string, noCache bool) error {
	var (
		cacheBackend cache.Cache
		err          error
	)
	if redisAddr != "" {
		cacheBackend, err = cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
		if err != nil {
			return fmt.Errorf("connect redis %s: %w", redisAddr, err)
		}
		c.Logger.Info("using redis cache", "addr", redisAddr)
	} else {
		cacheBackend, err = newCache(noCache)
		if err != nil {
			return fmt.Errorf("initialize cache: %w", err)
		}
	}

	var layoutStore store.Store
	if mongoURI != "" {
		layoutStore, err = store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		c.Logger.Info("using mongodb store")
	} else {
		layoutStore = store.NewMemoryStore()
		c.Logger.Warn("using in-memory store, layouts will not survive restarts")
	}
	defer layoutStore.Close(context.Background())

	runner := pipeline.NewRunner(cacheBackend, nil, c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:   addr,
		Runner: runner,
		Store:  layoutStore,
		Logger: c.Logger,
	})
	return srv.Run(ctx)
}
