package internal

import (
	"context"
	"fmt"
	"os"
	"time"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	hyperliquid "github.com/sonirico/go-hyperliquid"
	"go.uber.org/zap"

	"github.com/vadiminshakov/folio/config"
	"github.com/vadiminshakov/folio/internal/entity"
	"github.com/vadiminshakov/folio/internal/services/alerting"
	"github.com/vadiminshakov/folio/internal/services/holdings"
	"github.com/vadiminshakov/folio/internal/services/notify"
	"github.com/vadiminshakov/folio/internal/services/pricer"
	"github.com/vadiminshakov/folio/internal/services/render"
	"github.com/vadiminshakov/folio/internal/services/report"
	"github.com/vadiminshakov/folio/internal/services/valuation"
	"github.com/vadiminshakov/folio/internal/storage/snapshots"
)

const hyperliquidMainnetURL = "https://api.hyperliquid.xyz"

// SnapshotStore is what the tracker needs from snapshot persistence.
type SnapshotStore interface {
	Save(snapshot entity.PortfolioSnapshot) error
	LatestBefore(date string) (*entity.PortfolioSnapshot, error)
}

// Notifier delivers the rendered report.
type Notifier interface {
	Send(subject, htmlBody string) error
}

// HoldingsLoader supplies the validated portfolio for a run.
type HoldingsLoader func(path string) ([]entity.Holding, error)

// Clock supplies the run timestamp; overridable in tests.
type Clock func() time.Time

// Tracker wires one daily valuation run: load holdings, fetch prices,
// value, diff against history, assemble the report, persist and deliver.
type Tracker struct {
	Config   config.Config
	Pricer   pricer.Pricer
	Store    SnapshotStore
	Notifier Notifier
	Load     HoldingsLoader
	Now      Clock
}

// NewTracker builds a tracker from configuration, dispatching to the
// configured price provider. The returned closer shuts the snapshot
// store down.
func NewTracker(cfg config.Config, logger *zap.Logger) (*Tracker, func() error, error) {
	p, err := newPricer(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create price provider")
	}

	store, err := snapshots.NewWALStore(cfg.WALDir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open snapshot store")
	}

	t := &Tracker{
		Config: cfg,
		Pricer: p,
		Store:  store,
		Load:   holdings.Load,
		Now:    time.Now,
	}
	if cfg.Email.Enabled() {
		t.Notifier = notify.NewEmailNotifier(notify.EmailConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: os.Getenv(cfg.Email.PasswordEnv),
			From:     cfg.Email.From,
			To:       cfg.Email.To,
		})
	} else {
		logger.Info("email not configured, report will not be mailed")
	}

	return t, store.Close, nil
}

func newPricer(cfg config.Config) (pricer.Pricer, error) {
	switch cfg.Provider {
	case config.ProviderStooq:
		return pricer.NewStooqPricer(cfg.SymbolSuffix), nil
	case config.ProviderBinance:
		// ticker prices need no credentials
		return pricer.NewBinancePricer(binance.NewClient("", "")), nil
	case config.ProviderBybit:
		return pricer.NewBybitPricer(bybit.NewClient()), nil
	case config.ProviderHyperliquid:
		info := hyperliquid.NewInfo(context.Background(), hyperliquidMainnetURL, true, nil, nil)
		return pricer.NewHyperliquidPricer(info), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// Run executes one tracking run and returns the assembled report.
//
// Failure policy mirrors the data model: invalid holdings abort before
// any computation; per-symbol fetch failures degrade to unpriced rows;
// a history read failure suppresses alerts for this run with a report
// warning; a persistence failure is logged after the report is already
// assembled and does not discard it.
func (t *Tracker) Run(ctx context.Context, logger *zap.Logger) (entity.ReportModel, error) {
	held, err := t.Load(t.Config.HoldingsFile)
	if err != nil {
		return entity.ReportModel{}, errors.Wrap(err, "load holdings")
	}
	logger.Info("portfolio loaded", zap.Int("holdings", len(held)), zap.String("file", t.Config.HoldingsFile))

	symbols := make([]string, len(held))
	for i, h := range held {
		symbols[i] = h.Symbol
	}
	prices, failures := pricer.Fetch(ctx, t.Pricer, symbols, t.Config.FetchConcurrency, t.Config.FetchTimeout, logger)
	logger.Info("prices fetched", zap.Int("resolved", len(prices)), zap.Int("failed", len(failures)))

	snap, err := valuation.Compute(held, prices, t.Now())
	if err != nil {
		return entity.ReportModel{}, errors.Wrap(err, "compute valuation")
	}

	var warnings []string
	yesterday, err := t.Store.LatestBefore(snap.Date)
	if err != nil {
		// degraded run: no reference point, alerts suppressed
		logger.Warn("history unavailable, alerts suppressed", zap.Error(err))
		warnings = append(warnings, "history unavailable: day-change alerts suppressed for this run")
		yesterday = nil
	}

	alerts := alerting.Detect(snap, yesterday, t.Config.AlertThreshold)
	for _, a := range alerts {
		logger.Info("alert",
			zap.String("symbol", a.Symbol),
			zap.String("direction", string(a.Direction)),
			zap.String("day_change_percent", a.DayChangePercent.StringFixed(2)))
	}

	model := report.Assemble(snap, alerts, warnings)

	if err := t.Store.Save(snap); err != nil {
		// the report is already assembled; a write failure must not erase it
		logger.Error("failed to persist snapshot, history will have a gap", zap.Error(err))
	}

	if t.Notifier != nil {
		body, err := render.HTML(model)
		if err != nil {
			logger.Error("failed to render HTML report", zap.Error(err))
		} else if err := t.Notifier.Send("Daily Portfolio Report - "+model.Date, body); err != nil {
			logger.Error("failed to send report email", zap.Error(err))
		} else {
			logger.Info("report email sent", zap.Int("recipients", len(t.Config.Email.To)))
		}
	}

	logger.Info("run complete",
		zap.String("date", model.Date),
		zap.String("total_value", model.TotalValue.StringFixed(2)),
		zap.String("total_pnl", model.TotalPnL.StringFixed(2)),
		zap.Int("alerts", len(model.Alerts)),
		zap.Int("unpriced", len(model.UnpricedSymbols)))

	return model, nil
}
