package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/UkralStul/orion-graphql/graph"
	"github.com/UkralStul/orion-graphql/internal/config"
	"github.com/UkralStul/orion-graphql/internal/logger"
	"github.com/UkralStul/orion-graphql/internal/storage/inmemory"
)

const serviceName = "orion"

var (
	rootCmd = &cobra.Command{
		Use:   "orion",
		Short: "In-memory GraphQL API for a blogging platform",
		Long: `Orion serves a GraphQL API over an in-memory store of users, posts,
comments, taxonomy and social data. Without a subcommand it starts the server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the GraphQL HTTP server",
		RunE:  runServe,
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Load the seed data and print platform statistics as JSON",
		RunE:  runStats,
	}
)

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(serveCmd, statsCmd)
}

// setup читает конфигурацию и собирает логгер.
func setup(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: serviceName})
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	return cfg, log, nil
}

// openStore создаёт хранилище и загружает начальные данные.
func openStore(cfg config.Config, log zerolog.Logger, listener *graph.Hub) (*inmemory.Store, error) {
	opts := []inmemory.Option{inmemory.WithLogger(log)}
	if listener != nil {
		opts = append(opts, inmemory.WithListener(listener))
	}
	store := inmemory.New(opts...)

	switch {
	case cfg.SeedPath != "":
		f, err := os.Open(cfg.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("open seed: %w", err)
		}
		defer f.Close()
		if err := store.Load(f); err != nil {
			return nil, fmt.Errorf("load seed %s: %w", cfg.SeedPath, err)
		}
		log.Info().Str("path", cfg.SeedPath).Msg("seed data loaded")
	case cfg.SeedEnabled:
		if err := store.LoadSeed(); err != nil {
			return nil, fmt.Errorf("load embedded seed: %w", err)
		}
		log.Info().Msg("embedded seed data loaded")
	}
	return store, nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cfg, log, nil)
	if err != nil {
		return err
	}
	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
