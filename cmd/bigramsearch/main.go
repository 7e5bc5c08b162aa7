package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	dataset := flag.String("dataset", "", "corpus directory (overrides config)")
	queries := flag.String("queries", "", "query file (overrides config)")
	output := flag.String("output", "", `answer file, "-" for stdout (overrides config)`)
	flushCache := flag.Bool("flush-cache", false, "delete cached answers before running")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataset != "" {
		cfg.Corpus.Dir = *dataset
	}
	if *queries != "" {
		cfg.Query.File = *queries
	}
	if *output != "" {
		cfg.Query.Output = *output
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRunID(ctx, uuid.NewString())

	slog.Info("starting bigram search run",
		"run_id", logger.RunID(ctx),
		"dataset", cfg.Corpus.Dir,
		"queries", cfg.Query.File,
		"output", cfg.Query.Output,
	)
	if _, err := run(ctx, cfg, runOptions{flushCache: *flushCache, stdout: os.Stdout}); err != nil {
		slog.Error("run failed", "run_id", logger.RunID(ctx), "error", err)
		stop()
		os.Exit(1)
	}
}
