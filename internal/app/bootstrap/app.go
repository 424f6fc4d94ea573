package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/settlo/backend/internal/api/router"
	appconfig "github.com/settlo/backend/internal/config"
	"github.com/settlo/backend/internal/leads"
	"github.com/settlo/backend/internal/notify"
	"github.com/settlo/backend/internal/observability/metrics"
	"github.com/settlo/backend/pkg/logging"
)

// App bundles the shared runtime both deployment targets use: the router,
// the long-lived database pool, and the notifier whose in-flight sends are
// drained on shutdown.
type App struct {
	Handler  http.Handler
	Notifier *notify.LeadNotifier

	pool *pgxpool.Pool
}

// Options vary per deployment target.
type Options struct {
	// RootHealth serves the health payload on GET / as well; the
	// self-hosted listener wants this, the gateway-invoked variant does
	// not.
	RootHealth bool
}

// Build wires config into a ready App. The pgx pool is the only
// process-wide shared resource; it is created here once and released by
// Close.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var repo leads.Repository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: parse database url: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.DatabaseMaxConns)
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: connect database: %w", err)
		}
		repo = leads.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory lead store")
		repo = leads.NewInMemoryRepository()
	}

	registry := prometheus.NewRegistry()
	leadMetrics := metrics.NewLeadMetrics(registry)

	sender := BuildEmailSender(ctx, cfg, logger)
	notifier := notify.NewLeadNotifier(sender, cfg.NotifyRecipient, cfg.NotifyTimeout, leadMetrics, logger)

	handler := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(repo, notifier, leadMetrics, logger),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RootHealth:         opts.RootHealth,
	})

	return &App{
		Handler:  handler,
		Notifier: notifier,
		pool:     pool,
	}, nil
}

// Close drains in-flight notification sends and releases the database pool.
func (a *App) Close() {
	if a.Notifier != nil {
		a.Notifier.Drain()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
