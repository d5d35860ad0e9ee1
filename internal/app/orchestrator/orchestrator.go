package orchestrator

import (
	"context"
	"fmt"

	"github.com/vestafn/vesta/internal/app/orchestrator/db"
	"github.com/vestafn/vesta/internal/app/orchestrator/heartbeat"
	"github.com/vestafn/vesta/internal/app/orchestrator/history"
	"github.com/vestafn/vesta/internal/app/orchestrator/invoker"
	"github.com/vestafn/vesta/internal/app/orchestrator/messaging"
	"github.com/vestafn/vesta/internal/app/orchestrator/operator"
	"github.com/vestafn/vesta/internal/app/orchestrator/registry"
	"github.com/vestafn/vesta/internal/app/orchestrator/rest"
	"github.com/vestafn/vesta/internal/app/orchestrator/scan"
	"github.com/vestafn/vesta/internal/pkg/naming"
	"github.com/vestafn/vesta/pkg/cache"
	"github.com/vestafn/vesta/pkg/concurrency/runner"
	"github.com/vestafn/vesta/pkg/health"
	"github.com/vestafn/vesta/pkg/logger"
	"github.com/vestafn/vesta/pkg/messaging/consumer"
	"github.com/vestafn/vesta/pkg/messaging/producer"
)

var log = logger.NewLogger("vesta.orchestrator")

type Options struct {
	ApiPort                   int
	MessagingBootstrapServers string
	MessagingWorkerCount      int
	CacheAddress              string
	CacheUsername             string
	CachePassword             string
	CacheDatabase             int
	DatabaseHost              string
	DatabasePort              int
	DatabaseUsername          string
	DatabasePassword          string
	DatabaseDb                string
	HistoryHost               string
	HistoryPort               int
	HistoryUsername           string
	HistoryPassword           string
	HistoryDb                 string
	HistoryAuthDb             string
}

type Orchestrator interface {
	Run(ctx context.Context) error
}

type orchestrator struct {
	databaseClient       db.DatabaseClient
	historyClient        history.HistoryClient
	cacheClient          cache.CacheClient
	messagingProducer    producer.MessagingProducer
	messagingConsumer    consumer.MessagingConsumer
	orchestratorOperator operator.OrchestratorOperator
	restServer           rest.RestServer
	healthStatusProvider health.Provider
}

// NewOrchestrator creates a new Orchestrator instance with all its components
// wired together. Persistence and history are optional; without a configured
// host the orchestrator runs with in-memory state only.
func NewOrchestrator(ctx context.Context, opts Options) (Orchestrator, error) {
	var databaseClient db.DatabaseClient
	if opts.DatabaseHost != "" {
		client, err := db.NewDatabaseClient(
			db.Options{
				Host:     opts.DatabaseHost,
				Port:     opts.DatabasePort,
				Username: opts.DatabaseUsername,
				Password: opts.DatabasePassword,
				Database: opts.DatabaseDb,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create database client: %w", err)
		}
		databaseClient = client
	}

	var historyClient history.HistoryClient
	if opts.HistoryHost != "" {
		client, err := history.NewHistoryClient(
			ctx,
			history.Options{
				Host:         opts.HistoryHost,
				Port:         opts.HistoryPort,
				Username:     opts.HistoryUsername,
				Password:     opts.HistoryPassword,
				Database:     opts.HistoryDb,
				AuthDatabase: opts.HistoryAuthDb,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create history client: %w", err)
		}
		historyClient = client
	}

	// Heartbeats live in the shared cache when one is configured, so that
	// multiple orchestrator instances answer liveness queries consistently.
	var cacheClient cache.CacheClient
	var tracker heartbeat.Tracker
	if opts.CacheAddress != "" {
		cacheClient = cache.NewCacheClient(cache.Options{
			Address:  opts.CacheAddress,
			Username: opts.CacheUsername,
			Password: opts.CachePassword,
			Database: opts.CacheDatabase,
		})
		tracker = heartbeat.NewRedisTracker(cacheClient)
	} else {
		tracker = heartbeat.NewTracker()
	}

	messagingProducer, err := producer.NewMessagingProducer(
		ctx,
		producer.Options{
			BootstrapServers: opts.MessagingBootstrapServers,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("error while creating messaging producer: %v", err)
	}

	functionRegistry := registry.NewFunctionRegistry()
	accountResolver := scan.NewAccountResolver(nil)
	scanner := scan.NewScanner(functionRegistry)
	functionInvoker := invoker.NewInvoker(invoker.Options{})

	orchestratorOperator := operator.NewOrchestratorOperator(
		functionRegistry,
		scanner,
		accountResolver,
		tracker,
		functionInvoker,
		databaseClient,
		historyClient,
		messagingProducer,
	)

	messagingHandler := messaging.NewMessagingHandler(
		tracker,
		messaging.Options{},
	)
	messagingHandler.RegisterAll()

	messagingConsumer, err := consumer.NewMessagingConsumer(
		messagingHandler.Handlers(),
		consumer.Options{
			GroupId: "vesta_orchestrator",
			Topics: []string{
				naming.MessagingHostHeartbeatTopic,
			},
			BootstrapServers: opts.MessagingBootstrapServers,
			WorkerCount:      opts.MessagingWorkerCount,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("error while creating messaging consumer: %v", err)
	}

	healthStatusProvider := health.NewHealthStatusProvider(health.ProviderOptions{
		Targets: 2,
	})

	restServer := rest.NewRestServer(
		orchestratorOperator,
		healthStatusProvider,
		rest.Options{
			ApiPort: opts.ApiPort,
		},
	)

	return &orchestrator{
		databaseClient:       databaseClient,
		historyClient:        historyClient,
		cacheClient:          cacheClient,
		messagingProducer:    messagingProducer,
		messagingConsumer:    messagingConsumer,
		orchestratorOperator: orchestratorOperator,
		restServer:           restServer,
		healthStatusProvider: healthStatusProvider,
	}, nil
}

func (o *orchestrator) Run(ctx context.Context) error {
	log.Info("vesta orchestrator is starting")

	runner := runner.NewRunnerManager(
		func(ctx context.Context) error {
			if o.databaseClient != nil {
				if err := o.databaseClient.Migrate(); err != nil {
					log.Errorf("failed to migrate database: %v", err)
					return err
				}
			}
			if err := o.orchestratorOperator.Rehydrate(ctx); err != nil {
				log.Errorf("failed to rehydrate function registry: %v", err)
				return err
			}

			o.healthStatusProvider.Ready()

			// Wait for the main context to be done.
			<-ctx.Done()

			if o.databaseClient != nil {
				if err := o.databaseClient.Close(); err != nil {
					log.Errorf("failed to close database client: %v", err)
					return err
				}
			}
			if o.historyClient != nil {
				if err := o.historyClient.Close(); err != nil {
					log.Errorf("failed to close history client: %v", err)
					return err
				}
			}
			if o.cacheClient != nil {
				if err := o.cacheClient.Close(); err != nil {
					log.Errorf("failed to close cache client: %v", err)
					return err
				}
			}
			return nil
		},
		func(ctx context.Context) error {
			log.Info("starting rest server")
			if err := o.restServer.Run(); err != nil {
				log.Errorf("failed to start rest server: %v", err)
				return err
			}
			return nil
		},
		func(ctx context.Context) error {
			o.healthStatusProvider.Ready()
			log.Info("rest server started")

			// Wait for the main context to be done.
			<-ctx.Done()

			return o.restServer.Shutdown()
		},
		func(ctx context.Context) error {
			// Signalize that the messaging setup is done.
			o.messagingConsumer.SetupDone()

			log.Info("starting messaging consumer")
			if err := o.messagingConsumer.Start(ctx); err != nil {
				log.Error("failed to start messaging consumer")
				return err
			}
			return nil
		},
		func(ctx context.Context) error {
			// Wait for the main context to be done.
			<-ctx.Done()

			if err := o.messagingProducer.Close(); err != nil {
				log.Errorf("failed to close messaging producer: %v", err)
			}
			return nil
		},
	)
	return runner.Run(ctx)
}
