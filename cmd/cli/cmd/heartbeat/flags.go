package heartbeat

import "github.com/spf13/pflag"

type commandFlags struct {
	BootstrapServers string
	AssemblyFullName string
	Interval         int
}

type parsedFlags struct {
	cmdFlags *commandFlags
	flagSet  *pflag.FlagSet
}

func ParseFlags() *parsedFlags {
	var f commandFlags

	fs := pflag.NewFlagSet("heartbeat", pflag.ExitOnError)
	fs.SortFlags = true

	fs.StringVar(&f.BootstrapServers, "bootstrap-servers", "host:port", "Kafka bootstrap servers to connect to - optional with VESTA_MESSAGING_BOOTSTRAP_SERVERS set")
	fs.StringVar(&f.AssemblyFullName, "assembly", "", "Full name of the assembly to emit heartbeats for")
	fs.IntVar(&f.Interval, "interval", 10, "Heartbeat interval in seconds")

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
