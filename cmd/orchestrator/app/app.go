package app

import (
	"github.com/joho/godotenv"
	"github.com/vestafn/vesta/cmd/orchestrator/config"
	"github.com/vestafn/vesta/internal/app/orchestrator"
	"github.com/vestafn/vesta/pkg/concurrency/runner"
	"github.com/vestafn/vesta/pkg/logger"
	"github.com/vestafn/vesta/pkg/signals"
)

var log = logger.NewLogger("vesta.orchestrator")

// Run starts the orchestrator.
func Run() {
	// Load environment variables from .env file for local development.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log.Infof("starting vesta orchestrator -- version %s", logger.VestaVersion)
	log.Infof("log level set to: %s", log.LogLevel())

	ctx := signals.Context()
	orchestrator, err := orchestrator.NewOrchestrator(
		ctx,
		orchestrator.Options{
			ApiPort:                   cfg.ApiPort,
			MessagingBootstrapServers: cfg.MessagingBootstrapServers,
			MessagingWorkerCount:      cfg.MessagingWorkerCount,
			CacheAddress:              cfg.CacheAddress,
			CacheUsername:             cfg.CacheUsername,
			CachePassword:             cfg.CachePassword,
			CacheDatabase:             cfg.CacheDatabase,
			DatabaseHost:              cfg.DatabaseHost,
			DatabasePort:              cfg.DatabasePort,
			DatabaseUsername:          cfg.DatabaseUsername,
			DatabasePassword:          cfg.DatabasePassword,
			DatabaseDb:                cfg.DatabaseDb,
			HistoryHost:               cfg.HistoryHost,
			HistoryPort:               cfg.HistoryPort,
			HistoryUsername:           cfg.HistoryUsername,
			HistoryPassword:           cfg.HistoryPassword,
			HistoryDb:                 cfg.HistoryDb,
			HistoryAuthDb:             cfg.HistoryAuthDb,
		},
	)
	if err != nil {
		log.Fatalf("error while creating orchestrator: %v", err)
	}

	err = runner.NewRunnerManager(
		orchestrator.Run,
	).Run(ctx)
	if err != nil {
		log.Fatalf("error while running orchestrator: %v", err)
	}

	log.Info("orchestrator shut down gracefully")
}
