package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "CUSTODY"

// Config is the custodyctl configuration. Every field can be set in the YAML
// file, overridden by CUSTODY_<SECTION>_<KEY> environment variable and then
// by command line flag.
type Config struct {
	RPC      RPCConfig     `mapstructure:"rpc"`
	Wallet   WalletConfig  `mapstructure:"wallet"`
	Contract string        `mapstructure:"contract"`
	Log      LogConfig     `mapstructure:"log"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
}

type RPCConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type WalletConfig struct {
	Path     string `mapstructure:"path"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Env   string `mapstructure:"env"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc.endpoint", "http://localhost:30333")
	v.SetDefault("rpc.timeout", 15*time.Second)

	v.SetDefault("wallet.path", "wallet.json")
	v.SetDefault("wallet.address", "")
	v.SetDefault("wallet.password", "")

	v.SetDefault("contract", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "production")

	v.SetDefault("metrics.address", ":9090")
}

// loadConfig reads the configuration file if path is set, applies
// environment and returns the resulting Config.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	var cfg Config

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		err := v.ReadInConfig()
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	}

	err := v.Unmarshal(&cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.RPC.Endpoint == "":
		return errors.New("missing RPC endpoint")
	case c.RPC.Timeout <= 0:
		return fmt.Errorf("invalid RPC timeout %s", c.RPC.Timeout)
	}

	switch c.Log.Env {
	case "production", "development":
	default:
		return fmt.Errorf("unknown log environment %q", c.Log.Env)
	}

	return nil
}
