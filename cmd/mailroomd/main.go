// Mailroomd is the email triage daemon.
//
// It loads the knowledge corpus, builds the analysis pipeline, and serves
// the triage HTTP API.
//
// Usage:
//
//	# Start with defaults
//	mailroomd
//
//	# Start with a config file and corpus directory
//	mailroomd -config /etc/mailroom/config.yaml
//	CORPUS_DIR=/var/lib/mailroom/corpus mailroomd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailroom/internal/analysis"
	"github.com/fyrsmithlabs/mailroom/internal/confidence"
	"github.com/fyrsmithlabs/mailroom/internal/config"
	"github.com/fyrsmithlabs/mailroom/internal/corpus"
	"github.com/fyrsmithlabs/mailroom/internal/entity"
	"github.com/fyrsmithlabs/mailroom/internal/feedback"
	"github.com/fyrsmithlabs/mailroom/internal/intent"
	"github.com/fyrsmithlabs/mailroom/internal/learning"
	"github.com/fyrsmithlabs/mailroom/internal/logging"
	"github.com/fyrsmithlabs/mailroom/internal/patterns"
	"github.com/fyrsmithlabs/mailroom/internal/routing"
	"github.com/fyrsmithlabs/mailroom/internal/server"
	"github.com/fyrsmithlabs/mailroom/internal/triage"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  mailroomd           Start the mailroom daemon\n")
			fmt.Fprintf(os.Stderr, "  mailroomd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("mailroomd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run wires the pipeline and serves HTTP until ctx is cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	library := patterns.NewDefaultLibrary()
	jargon := patterns.NewDictionary(patterns.DefaultJargon())
	index := corpus.NewIndex()

	if cfg.Corpus.Dir != "" {
		loaded, err := corpus.LoadDir(index, cfg.Corpus.Dir)
		if err != nil {
			return fmt.Errorf("failed to load corpus: %w", err)
		}
		logger.Info("corpus loaded",
			zap.String("dir", cfg.Corpus.Dir),
			zap.Int("chunks", loaded),
		)

		if cfg.Corpus.Watch {
			watcher := corpus.NewWatcher(index, cfg.Corpus.Dir, logger)
			go func() {
				if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("corpus watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	orchestrator := analysis.NewOrchestrator(
		analysis.Config{StageDelay: cfg.Analysis.StageDelay},
		intent.NewClassifier(nil, jargon),
		entity.NewExtractor(library, jargon),
		index,
		routing.NewTagger(cfg.Routing, library),
		confidence.NewScorer(cfg.Analysis.Confidence),
		logger,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	svc, err := triage.NewService(
		triage.Config{SearchTopK: cfg.Triage.SearchTopK},
		orchestrator,
		analysis.NewStore(),
		index,
		feedback.NewApplier(feedback.ApplierConfig{ConfidenceDelta: cfg.Feedback.ConfidenceDelta}, logger),
		learning.NewAggregator(registry),
		jargon,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create triage service: %w", err)
	}

	srv, err := server.NewServer(svc, logger, cfg.Server, registry)
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
