// Package config loads remtool's runtime settings.
//
// Sources, later ones winning: built-in defaults, a remtool.yaml config file
// (current directory, then $HOME/.config/remtool/), REMTOOL_* environment
// variables, and command-line flags bound by the CLI layer.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings for a single remtool invocation.
type Config struct {
	// Host is the tablet's address (IP, hostname, or ssh alias). Passed
	// through to the transport untouched.
	Host string `mapstructure:"host"`

	// User is the remote login. The stock reMarkable image only has root.
	User string `mapstructure:"user"`

	// Port is the SSH port on the device.
	Port int `mapstructure:"port"`

	// Transport selects the remote-execution backend: "openssh" shells out
	// to the ssh/scp binaries, "ssh" dials with the built-in client.
	Transport string `mapstructure:"transport"`

	// StorePath is the xochitl document store, relative to the remote home.
	StorePath string `mapstructure:"store_path"`

	// IdentityFile is a private key for the built-in ssh transport.
	// Empty means try the usual ~/.ssh keys and the agent.
	IdentityFile string `mapstructure:"identity_file"`

	// CommandTimeout bounds each remote command.
	CommandTimeout time.Duration `mapstructure:"command_timeout"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig configures the diagnostic log.
type LogConfig struct {
	// File, when set, sends log records to a rotating file instead of stderr.
	File string `mapstructure:"file"`

	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// DefaultStorePath is where xochitl keeps the document store, relative to the
// remote user's home directory.
const DefaultStorePath = ".local/share/remarkable/xochitl"

// Load reads configuration from all sources. configFile, when non-empty,
// names an explicit config file and missing-file errors become fatal;
// otherwise the default search paths are tried and a missing file is fine.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "remarkable")
	v.SetDefault("user", "root")
	v.SetDefault("port", 22)
	v.SetDefault("transport", "openssh")
	v.SetDefault("store_path", DefaultStorePath)
	v.SetDefault("command_timeout", 30*time.Second)
	v.SetDefault("log.level", "warn")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("remtool")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/remtool")
	}

	v.SetEnvPrefix("REMTOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Host == "" {
		return fmt.Errorf("config: host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	switch c.Transport {
	case "openssh", "ssh":
	default:
		return fmt.Errorf("config: unknown transport %q (want openssh or ssh)", c.Transport)
	}
	if c.StorePath == "" {
		return fmt.Errorf("config: store_path must not be empty")
	}
	return nil
}
