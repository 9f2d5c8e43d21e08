package main

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/themis/internal/config"
	"github.com/UnknownOlympus/themis/internal/incident"
	"github.com/UnknownOlympus/themis/internal/metrics"
	"github.com/UnknownOlympus/themis/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// app carries what every command needs once the configuration is loaded.
type app struct {
	configPath string

	cfg      *config.Config
	log      *slog.Logger
	reg      *prometheus.Registry
	metrics  *metrics.Metrics
	reporter *incident.Reporter
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = setupLogger(cfg.Env, cmd.ErrOrStderr())

	// Create a separate registry so the textfile only holds our collectors.
	a.reg = prometheus.NewRegistry()
	a.reg.MustRegister(collectors.NewGoCollector())
	a.reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.NewMetrics(a.reg)

	a.reporter = incident.NewReporter(a.log, cfg.LogDir)

	return nil
}

// guard runs fn as a user action and dumps the metrics afterwards.
func (a *app) guard(cmd *cobra.Command, action string, fn func(ctx context.Context) error) error {
	ctx := cmd.Context()
	defer a.flushMetrics(ctx)

	return a.reporter.Guard(ctx, action, fn)
}

func (a *app) flushMetrics(ctx context.Context) {
	if a.cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(a.cfg.MetricsFile, a.reg); err != nil {
		a.log.WarnContext(ctx, "Failed to write metrics", "path", a.cfg.MetricsFile, "error", err)
	}
}

// openRepository connects to PostgreSQL when it is configured. The returned
// repository is nil otherwise; close must always be called.
func (a *app) openRepository(ctx context.Context) (repository.Interface, func(), error) {
	db := a.cfg.Database
	if !db.Enabled() {
		return nil, func() {}, nil
	}

	pool, err := repository.NewDatabase(ctx, db.Host, db.Port, db.User, db.Password, db.Name)
	if err != nil {
		return nil, func() {}, err
	}
	a.log.DebugContext(ctx, "Connected to database", "host", db.Host, "name", db.Name)

	return repository.NewRepository(pool, a.log), pool.Close, nil
}
