package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeviz/internal/server"
	"github.com/matzehuels/pipeviz/pkg/cache"
	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/pipeline"
)

// Cache backends accepted by serve --cache.
const (
	cacheBackendNone  = "none"
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	backend  string
	redisURL string
	ttl      time.Duration
	prefix   string // key prefix, lets several servers share one redis
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered examples over HTTP",
		Long: `Serve the example catalog over HTTP.

Routes:
  GET /healthz
  GET /examples
  GET /examples/{name}.{format}?routing=&theme=&label_stride=&tick_stride=&refresh=`,
		Example: `  pipeviz serve
  pipeviz serve --addr :9000 --cache redis --redis-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.backend, "cache", cacheBackendFile, "cache backend: none, file, redis")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "redis://localhost:6379/0", "redis URL for --cache redis")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", time.Hour, "artifact cache TTL")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "cache key prefix")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	if opts.ttl <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "--ttl must be positive, got %s", opts.ttl)
	}
	store, err := openCache(ctx, opts.backend, opts.redisURL)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if opts.prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), opts.prefix)
	}
	runner := pipeline.NewRunner(store, keyer, logger)
	runner.TTL = opts.ttl
	defer runner.Close()

	printSuccess("Serving examples at %s", StyleLink.Render(serveURL(opts.addr)))
	printKeyValue("cache", opts.backend)
	printKeyValue("ttl", opts.ttl.String())
	if opts.backend == cacheBackendNone {
		printWarning("caching disabled, every request re-renders")
	}

	return server.New(runner, logger).ListenAndServe(ctx, opts.addr)
}

// openCache opens the named cache backend.
func openCache(ctx context.Context, backend, redisURL string) (cache.Cache, error) {
	switch backend {
	case cacheBackendNone:
		return cache.NewNullCache(), nil
	case cacheBackendFile:
		return newCache(false)
	case cacheBackendRedis:
		return cache.NewRedisCache(ctx, redisURL)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig,
		"invalid cache backend %q (must be one of: %s, %s, %s)", backend, cacheBackendNone, cacheBackendFile, cacheBackendRedis)
}

// serveURL turns a listen address into a browsable URL.
func serveURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/examples"
}
