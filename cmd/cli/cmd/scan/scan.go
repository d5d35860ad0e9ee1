package scan

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/vestafn/vesta/internal/app/orchestrator/models"
	"github.com/vestafn/vesta/internal/pkg/apiclient"
	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.cli.scan")

var Command = &cobra.Command{
	Use:   "scan",
	Short: "Scan a storage container and index the discovered functions",
	Long:  "",
	Run:   run,
}

var cmdFlags = ParseFlags()

func initFlags() {
	Command.Flags().AddFlagSet(cmdFlags.FlagSet())
	Command.MarkFlagRequired("container-path")
}

func init() {
	initFlags()
}

func run(cobraCommand *cobra.Command, args []string) {
	logger.ReadAndApply(cobraCommand, log)
	os.Exit(processCommand(cobraCommand.Context()))
}

func processCommand(ctx context.Context) int {
	address := cmdFlags.CommandFlags().Address
	if os.Getenv("VESTA_ORCHESTRATOR_ADDRESS") != "" {
		address = os.Getenv("VESTA_ORCHESTRATOR_ADDRESS")
	}
	if cmdFlags.CommandFlags().ConnectionString == "" && cmdFlags.CommandFlags().AccountName == "" {
		log.Fatal("either connection-string or account must be set")
	}

	client := apiclient.NewClient(address)
	result, err := client.Index(ctx, models.IndexOperation{
		Kind:             models.IndexOperationRegister,
		ConnectionString: cmdFlags.CommandFlags().ConnectionString,
		AccountName:      cmdFlags.CommandFlags().AccountName,
		ContainerPath:    cmdFlags.CommandFlags().ContainerPath,
	})
	if err != nil {
		log.Fatalf("failed to scan container: %v", err)
	}

	log.Infof("scan completed - %d entries examined", result.Scanned)
	return 0
}
