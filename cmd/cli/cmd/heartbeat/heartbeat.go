package heartbeat

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vestafn/vesta/internal/pkg/beacon"
	"github.com/vestafn/vesta/pkg/logger"
	"github.com/vestafn/vesta/pkg/messaging/producer"
	"github.com/vestafn/vesta/pkg/metrics"
	"github.com/vestafn/vesta/pkg/signals"
)

var log = logger.NewLogger("vesta.cli.heartbeat")

var Command = &cobra.Command{
	Use:   "heartbeat",
	Short: "Emit heartbeats for an assembly until interrupted",
	Long:  "",
	Run:   run,
}

var cmdFlags = ParseFlags()

func initFlags() {
	Command.Flags().AddFlagSet(cmdFlags.FlagSet())
	Command.MarkFlagRequired("assembly")
}

func init() {
	initFlags()
}

func run(cobraCommand *cobra.Command, args []string) {
	logger.ReadAndApply(cobraCommand, log)
	os.Exit(processCommand())
}

func processCommand() int {
	var bootstrapServers string
	if cmdFlags.CommandFlags().BootstrapServers != "host:port" {
		bootstrapServers = cmdFlags.CommandFlags().BootstrapServers
	} else if os.Getenv("VESTA_MESSAGING_BOOTSTRAP_SERVERS") != "" {
		bootstrapServers = os.Getenv("VESTA_MESSAGING_BOOTSTRAP_SERVERS")
	}
	if bootstrapServers == "" {
		log.Fatalf("neither bootstrap servers flag nor env variable VESTA_MESSAGING_BOOTSTRAP_SERVERS is set")
	}

	ctx := signals.Context()
	messagingProducer, err := producer.NewMessagingProducer(
		ctx,
		producer.Options{
			BootstrapServers: bootstrapServers,
		},
	)
	if err != nil {
		log.Fatalf("failed to create messaging producer: %v", err)
	}

	heartbeatBeacon := beacon.NewHeartbeatBeacon(
		metrics.NewMetricsService(),
		messagingProducer,
		beacon.Options{
			AssemblyFullName:  cmdFlags.CommandFlags().AssemblyFullName,
			HeartbeatInterval: time.Duration(cmdFlags.CommandFlags().Interval) * time.Second,
		},
	)
	if err := heartbeatBeacon.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("failed to run heartbeat beacon: %v", err)
	}

	if err := messagingProducer.Close(); err != nil {
		log.Warnf("failed to close messaging producer: %v", err)
	}
	return 0
}
