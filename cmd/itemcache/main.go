package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sternrassler/item-cache/pkg/cache"
	"github.com/Sternrassler/item-cache/pkg/config"
	"github.com/Sternrassler/item-cache/pkg/httpapi"
	"github.com/Sternrassler/item-cache/pkg/items"
	"github.com/Sternrassler/item-cache/pkg/logging"
	"github.com/Sternrassler/item-cache/pkg/repository"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "itemcache",
		Short:        "Serve entities over HTTP with a cache-aside TTL cache",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "Config file path (default: ./configs/config.yaml or ./config.yaml)")
	flags.String("addr", ":8080", "HTTP listen address")
	flags.Int("list-ttl", 30, "Listing TTL in seconds (0 = no expiry)")
	flags.Int("item-ttl", 60, "Entity TTL in seconds (0 = no expiry)")
	flags.Int("cleanup-interval", 0, "Expired-entry sweep period in seconds (0 = off)")
	flags.Bool("coalesce", false, "Share one repository load between concurrent misses")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Bool("log-pretty", false, "Human-readable console logs")

	bindFlags(v, cmd, map[string]string{
		config.KeyServerAddr:      "addr",
		config.KeyListTTL:         "list-ttl",
		config.KeyItemTTL:         "item-ttl",
		config.KeyCleanupInterval: "cleanup-interval",
		config.KeyCoalesce:        "coalesce",
		config.KeyLogLevel:        "log-level",
		config.KeyLogPretty:       "log-pretty",
	})

	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// app is the wired service graph.
type app struct {
	handler http.Handler
	cache   *cache.Cache[items.Value]
}

func newApp(cfg config.Config) (*app, error) {
	repo := repository.New(repository.Config{})

	c := items.NewCache(cache.Config[items.Value]{
		CleanupInterval: cfg.CleanupInterval(),
	})

	svc, err := items.NewService(repo, c, cfg.Policy())
	if err != nil {
		c.Close()
		return nil, err
	}

	return &app{
		handler: httpapi.NewRouter(svc),
		cache:   c,
	}, nil
}

func (a *app) Close() error {
	return a.cache.Close()
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := logging.Setup(cfg.Logging())

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Int("list_ttl_s", cfg.Cache.ListTTL).
			Int("item_ttl_s", cfg.Cache.ItemTTL).
			Bool("coalesce", cfg.Cache.Coalesce).
			Msg("Starting item-cache server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
		return err
	}
	return nil
}
