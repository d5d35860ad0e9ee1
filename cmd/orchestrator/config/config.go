package config

import (
	"github.com/spf13/viper"
	"github.com/vestafn/vesta/pkg/configuration"
	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.config")

type Config struct {
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

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	var config Config

	// automatically load environment variables that match
	viper.AutomaticEnv()
	viper.SetEnvPrefix("VESTA")

	// loading the values from the environment or use default values
	configuration.LoadOrDefault("ApiPort", "VESTA_API_PORT", 80)

	configuration.LoadOrDefault("MessagingBootstrapServers", "VESTA_MESSAGING_BOOTSTRAP_SERVERS", nil)
	configuration.LoadOrDefault("MessagingWorkerCount", "VESTA_MESSAGING_WORKER_COUNT", 10)

	configuration.LoadOrDefault("CacheAddress", "VESTA_CACHE_ADDRESS", "")
	configuration.LoadOrDefault("CacheUsername", "VESTA_CACHE_USERNAME", "")
	configuration.LoadOrDefault("CachePassword", "VESTA_CACHE_PASSWORD", "")
	configuration.LoadOrDefault("CacheDatabase", "VESTA_CACHE_DATABASE", 0)

	configuration.LoadOrDefault("DatabaseHost", "VESTA_DATABASE_HOST", "")
	configuration.LoadOrDefault("DatabasePort", "VESTA_DATABASE_PORT", 5432)
	configuration.LoadOrDefault("DatabaseUsername", "VESTA_DATABASE_USERNAME", "")
	configuration.LoadOrDefault("DatabasePassword", "VESTA_DATABASE_PASSWORD", "")
	configuration.LoadOrDefault("DatabaseDb", "VESTA_DATABASE_DB", "vesta")

	configuration.LoadOrDefault("HistoryHost", "VESTA_HISTORY_HOST", "")
	configuration.LoadOrDefault("HistoryPort", "VESTA_HISTORY_PORT", 27017)
	configuration.LoadOrDefault("HistoryUsername", "VESTA_HISTORY_USERNAME", "")
	configuration.LoadOrDefault("HistoryPassword", "VESTA_HISTORY_PASSWORD", "")
	configuration.LoadOrDefault("HistoryDb", "VESTA_HISTORY_DB", "vesta")
	configuration.LoadOrDefault("HistoryAuthDb", "VESTA_HISTORY_AUTH_DB", "admin")

	// unmarshalling the Config struct
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("unable to unmarshal config: %v", err)
		return nil, err
	}

	return &config, nil
}
