package configuration

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// LoadOrDefault binds a config variable to its environment variable and
// applies the default value. A nil default marks the variable as required.
func LoadOrDefault(configVar string, envVar string, defaultVal any) {
	if defaultVal != nil {
		viper.SetDefault(configVar, defaultVal)
	}
	viper.BindEnv(configVar, envVar)
	if defaultVal == nil {
		if !viper.IsSet(configVar) {
			fmt.Printf("required environment variable %s is not set\n", envVar)
			os.Exit(1)
		}
	}
}
