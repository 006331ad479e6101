package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/UkralStul/orion-graphql/graph"
	"github.com/UkralStul/orion-graphql/internal/config"
	"github.com/UkralStul/orion-graphql/internal/logger"
	"github.com/UkralStul/orion-graphql/internal/reqmeta"
	"github.com/UkralStul/orion-graphql/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	hub := graph.NewHub()
	store, err := openStore(cfg, log, hub)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(cfg, log, store, hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Bool("playground", cfg.PlaygroundEnabled).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(cfg config.Config, log zerolog.Logger, store storage.Storage, hub *graph.Hub) http.Handler {
	es := graph.NewExecutableSchema(graph.Config{
		Resolvers: &graph.Resolver{Storage: store, Hub: hub},
		Logger:    log,
	})
	gql := graph.NewServer(es, graph.ServerOptions{
		KeepAlive:      cfg.WebsocketKeepAlive,
		CheckOrigin:    graph.OriginChecker(cfg.CORSOrigin),
		Introspection:  cfg.PlaygroundEnabled,
		DataloaderWait: cfg.DataloaderWait,
	})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(logger.Middleware(log))
	router.Use(reqmeta.Middleware)

	if cfg.PlaygroundEnabled {
		router.Handle("/", playground.Handler("Orion GraphQL playground", "/query"))
	}
	router.Handle("/query", gql)
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return router
}
