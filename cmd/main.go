// Command folio runs one daily portfolio valuation: it loads the
// holdings file, fetches current prices, computes P&L, diffs against
// the previous persisted day for threshold alerts, persists today's
// snapshot and renders the report.
//
// Usage:
//
//	folio -config config.yaml
//	folio -setup                 (interactive first-run wizard)
//	folio -config config.yaml -serve   (serve snapshot history over HTTP)
//
// Email delivery reads the SMTP password from the environment variable
// named by email.password_env in the config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/folio/config"
	"github.com/vadiminshakov/folio/internal"
	"github.com/vadiminshakov/folio/internal/entity"
	"github.com/vadiminshakov/folio/internal/services/render"
	"github.com/vadiminshakov/folio/internal/setup"
	"github.com/vadiminshakov/folio/internal/storage/snapshots"
	"github.com/vadiminshakov/folio/internal/web"
)

func main() {
	flag.Bool("setup", false, "launch the interactive setup wizard")
	serve := flag.Bool("serve", false, "serve snapshot history over HTTP instead of running the tracker")

	// config.Get calls flag.Parse; the wizard must run before that so a
	// missing config file is not an error on first launch.
	if hasFlag("-setup") {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		if err := serveHistory(ctx, cfg, logger); err != nil {
			logger.Fatal("web server failed", zap.Error(err))
		}
		return
	}

	tracker, closeStore, err := internal.NewTracker(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create tracker", zap.Error(err))
	}
	defer closeStore()

	model, err := tracker.Run(ctx, logger)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidHolding) {
			logger.Fatal("portfolio file is invalid, fix it before running again", zap.Error(err))
		}
		logger.Fatal("run failed", zap.Error(err))
	}

	fmt.Println(render.Console(model))
}

func serveHistory(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	store, err := snapshots.NewWALStore(cfg.WALDir)
	if err != nil {
		return errors.Wrap(err, "open snapshot store")
	}
	defer store.Close()

	addr := cfg.WebAddr
	if addr == "" {
		addr = ":8080"
	}
	server := web.NewServer(addr, store, cfg.TrendDays, cfg.SMAPeriod)
	if len(cfg.TLSDomains) > 0 {
		logger.Info("serving snapshot history with automatic TLS",
			zap.String("addr", addr), zap.Strings("domains", cfg.TLSDomains))
		return server.StartWithAutoTLS(ctx, cfg.TLSDomains, cfg.TLSCacheDir)
	}
	logger.Info("serving snapshot history", zap.String("addr", addr))
	return server.Start(ctx)
}

// hasFlag reports whether the raw argument list contains the flag. The
// -setup path must not fall through to config.Get, which defines its
// own flags and parses the command line.
func hasFlag(name string) bool {
	for _, arg := range os.Args[1:] {
		if arg == name || arg == name+"=true" || arg == "-"+name {
			return true
		}
	}
	return false
}
