package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	resolutionengine "admiral/contexts/community-governance/resolution-engine"
	resolutionpostgres "admiral/contexts/community-governance/resolution-engine/adapters/postgres"
	workerapp "admiral/contexts/community-governance/resolution-engine/application/workers"
	principalresolver "admiral/contexts/identity-access/principal-resolver"
	principalpostgres "admiral/contexts/identity-access/principal-resolver/adapters/postgres"
	"admiral/contexts/identity-access/principal-resolver/adapters/token"
	"admiral/internal/platform/config"
	"admiral/internal/platform/db"
	"admiral/internal/platform/httpserver"
	"admiral/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	tallyAuditor workerapp.TallyAuditor
	relayEnabled bool
	auditEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := resolutionpostgres.NewRepository(pg.DB, logger)
	module := resolutionengine.NewModule(resolutionengine.Dependencies{
		Votes:    repo,
		Disputes: repo,
		Users:    repo,
		Outbox:   repo,
		Clock:    resolutionpostgres.SystemClock{},
		IDGen:    resolutionpostgres.UUIDGenerator{},
		Logger:   logger,
	})

	principalRepo := principalpostgres.NewRepository(pg.DB, logger)
	principalModule := principalresolver.NewModule(principalresolver.Dependencies{
		Tokens: token.NewHMACVerifier(cfg.TokenSecret),
		Users:  principalRepo,
		Logger: logger,
	})

	server := httpserver.New(module, principalModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := resolutionpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     resolutionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		tallyAuditor: workerapp.TallyAuditor{
			Votes:    repo,
			Disputes: repo,
			Logger:   logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		auditEnabled: cfg.EnableTallyAuditor,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.auditEnabled {
			if err := w.tallyAuditor.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
