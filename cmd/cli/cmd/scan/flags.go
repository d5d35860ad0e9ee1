package scan

import "github.com/spf13/pflag"

type commandFlags struct {
	Address          string
	ConnectionString string
	AccountName      string
	ContainerPath    string
}

type parsedFlags struct {
	cmdFlags *commandFlags
	flagSet  *pflag.FlagSet
}

func ParseFlags() *parsedFlags {
	var f commandFlags

	fs := pflag.NewFlagSet("scan", pflag.ExitOnError)
	fs.SortFlags = true

	fs.StringVar(&f.Address, "address", "http://localhost:80", "Address of the orchestrator api - optional with VESTA_ORCHESTRATOR_ADDRESS set")
	fs.StringVar(&f.ConnectionString, "connection-string", "", "Connection string of the storage account holding the function blobs")
	fs.StringVar(&f.AccountName, "account", "", "Name of an already registered storage account")
	fs.StringVar(&f.ContainerPath, "container-path", "", "Path of the container to scan for function blobs")

	return &parsedFlags{
		cmdFlags: &f,
		flagSet:  fs,
	}
}

func (p *parsedFlags) CommandFlags() *commandFlags {
	return p.cmdFlags
}

func (p *parsedFlags) FlagSet() *pflag.FlagSet {
	return p.flagSet
}
