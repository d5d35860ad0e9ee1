package beacon

import (
	"context"
	"time"

	"github.com/vestafn/vesta/internal/app/orchestrator/models"
	"github.com/vestafn/vesta/internal/pkg/naming"
	"github.com/vestafn/vesta/pkg/logger"
	"github.com/vestafn/vesta/pkg/messaging/producer"
	"github.com/vestafn/vesta/pkg/metrics"
)

var log = logger.NewLogger("vesta.beacon")

type Options struct {
	AssemblyFullName  string
	HeartbeatInterval time.Duration
}

// HeartbeatBeacon periodically announces that the host executing the given
// assembly is alive. A function host runs one beacon for its own identity.
type HeartbeatBeacon interface {
	Run(ctx context.Context) error
}

type heartbeatBeacon struct {
	assemblyFullName  string
	heartbeatInterval time.Duration
	metricsService    metrics.MetricsService
	messagingProducer producer.MessagingProducer
}

// NewHeartbeatBeacon creates a new HeartbeatBeacon instance.
func NewHeartbeatBeacon(metricsService metrics.MetricsService, messagingProducer producer.MessagingProducer, opts Options) HeartbeatBeacon {
	return &heartbeatBeacon{
		assemblyFullName:  opts.AssemblyFullName,
		heartbeatInterval: opts.HeartbeatInterval,
		metricsService:    metricsService,
		messagingProducer: messagingProducer,
	}
}

// Run publishes a heartbeat message in the specified interval via messaging.
func (b *heartbeatBeacon) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.heartbeatInterval)
	defer ticker.Stop()

	log.Infof("emitting heartbeats for assembly %s every %s", b.assemblyFullName, b.heartbeatInterval)
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down heartbeat beacon")
			return nil
		case <-ticker.C:
			b.messagingProducer.Publish(ctx, naming.MessagingHostHeartbeatTopic, &models.HostHeartbeatMessage{
				AssemblyFullName: b.assemblyFullName,
				Metrics:          b.metricsService.HostMetrics(),
				Timestamp:        time.Now().UTC(),
			})
		}
	}
}
