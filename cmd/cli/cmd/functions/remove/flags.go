package remove

import "github.com/spf13/pflag"

type commandFlags struct {
	Address    string
	FunctionId string
}

type parsedFlags struct {
	cmdFlags *commandFlags
	flagSet  *pflag.FlagSet
}

func ParseFlags() *parsedFlags {
	var f commandFlags

	fs := pflag.NewFlagSet("functions-remove", pflag.ExitOnError)
	fs.SortFlags = true

	fs.StringVar(&f.Address, "address", "http://localhost:80", "Address of the orchestrator api - optional with VESTA_ORCHESTRATOR_ADDRESS set")
	fs.StringVar(&f.FunctionId, "function-id", "", "Identifier of the function to remove from the index")

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
