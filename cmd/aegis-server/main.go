package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samijaber1/aegis-reliability/internal/api"
	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/config"
	"github.com/samijaber1/aegis-reliability/internal/logging"
	"github.com/samijaber1/aegis-reliability/internal/observability"
	"github.com/samijaber1/aegis-reliability/internal/storage"
	"github.com/samijaber1/aegis-reliability/internal/storage/memory"
	"github.com/samijaber1/aegis-reliability/internal/storage/sqlite"
)

func main() {
	// Parse flags
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log, err := logging.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Errorf("Server failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.SugaredLogger) error {
	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.Infow("Starting aegis calculator server",
		"port", cfg.Port,
		"db", cfg.DBPath,
		"locale", cfg.Locale,
		"debounce", cfg.DebounceWindow)

	printer, err := calculator.NewPrinter(cfg.Locale)
	if err != nil {
		return err
	}

	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	recorder := observability.NewRecorder()

	session := calculator.NewSession(calculator.SessionOptions{
		Printer: printer,
		Window:  cfg.DebounceWindow,
		Logger:  log,
		OnChange: func(snap calculator.Snapshot, outs calculator.Outputs) {
			recorder.RecordOutputs(outs)
			err := store.SaveSnapshot(cfg.SnapshotKey, &snap)
			recorder.RecordSnapshotSave(err)
			if err != nil {
				log.Warnw("Failed to save snapshot", "key", cfg.SnapshotKey, "error", err)
			}
		},
	})
	defer session.Close()

	restoreSession(session, store, cfg.SnapshotKey, log)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	apiServer := api.NewServer(api.Options{
		Session:  session,
		Store:    store,
		Recorder: recorder,
		Printer:  printer,
		Logger:   log,
		Audit:    cfg.Audit,
	}, addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(apiServer.Start)

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("Shutdown complete")
	return nil
}

// openStore picks SQLite when a database path is configured and memory
// otherwise
func openStore(cfg config.Config, log *zap.SugaredLogger) (storage.Store, error) {
	if cfg.DBPath == "" {
		log.Info("Using in-memory store (no --db given)")
		return memory.NewStore(), nil
	}

	store, err := sqlite.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	log.Infof("Using SQLite store: %s", cfg.DBPath)
	return store, nil
}

// restoreSession loads the saved snapshot, if any. A failed load starts from
// the defaults.
func restoreSession(session *calculator.Session, store storage.Store, key string, log *zap.SugaredLogger) {
	snap, err := store.LoadSnapshot(key)
	if err != nil {
		log.Warnw("Ignoring unreadable snapshot", "key", key, "error", err)
		return
	}
	if snap == nil {
		return
	}

	session.Restore(*snap)
	log.Infow("Restored session", "key", key, "tab", snap.ActiveTab)
}

func parseFlags(args []string) (config.Config, error) {
	fs := flag.NewFlagSet("aegis-server", flag.ContinueOnError)

	defaults := config.DefaultConfig()
	configFile := fs.String("config", "", "YAML config file")
	port := fs.Int("port", defaults.Port, "HTTP server port")
	host := fs.String("host", defaults.Host, "HTTP server host")
	dbPath := fs.String("db", defaults.DBPath, "SQLite database path (empty keeps state in memory)")
	snapshotKey := fs.String("snapshot-key", defaults.SnapshotKey, "Key the session snapshot is saved under")
	audit := fs.Bool("audit", defaults.Audit, "Record stateless calculations in the store")
	locale := fs.String("locale", defaults.Locale, "Locale for number formatting")
	debounce := fs.Duration("debounce", defaults.DebounceWindow, "Debounce window for session recalculation")
	shutdown := fs.Duration("shutdown-timeout", defaults.GracefulShutdownTimeout, "Graceful shutdown timeout")
	debug := fs.Bool("debug", defaults.Debug, "Turn on debugging output")

	if err := fs.Parse(args); err != nil {
		return defaults, err
	}

	cfg := defaults
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			return defaults, err
		}
		cfg = loaded
	}

	// Flags given on the command line win over the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "host":
			cfg.Host = *host
		case "db":
			cfg.DBPath = *dbPath
		case "snapshot-key":
			cfg.SnapshotKey = *snapshotKey
		case "audit":
			cfg.Audit = *audit
		case "locale":
			cfg.Locale = *locale
		case "debounce":
			cfg.DebounceWindow = *debounce
		case "shutdown-timeout":
			cfg.GracefulShutdownTimeout = *shutdown
		case "debug":
			cfg.Debug = *debug
		}
	})

	return cfg, nil
}
