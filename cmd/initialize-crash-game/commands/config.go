package commands

import (
	"os"

	"github.com/crashgame/sdk-go/client/common"
	log "github.com/InjectiveLabs/suplog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defaultKeypairPath = "~/.config/solana/id.json"
	defaultNetwork     = "devnet"
	defaultLogLevel    = "error"
)

type Config struct {
	Keypair  string `yaml:"keypair"`
	URL      string `yaml:"url"`
	IDL      string `yaml:"idl"`
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Keypair:  defaultKeypairPath,
		URL:      common.LoadNetwork(defaultNetwork).RPCEndpoint,
		LogLevel: defaultLogLevel,
	}
}

// LoadConfigFile overlays the keys present in a YAML file onto cfg.
func LoadConfigFile(path string, cfg *Config) error {
	resolved, err := common.ExpandHome(path)
	if err != nil {
		return errors.Wrap(err, "failed to resolve home directory")
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", resolved)
	}

	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", resolved)
	}
	return nil
}

func logLevel(s string) (log.Level, error) {
	switch s {
	case "1", "error":
		return log.ErrorLevel, nil
	case "2", "warn":
		return log.WarnLevel, nil
	case "3", "info":
		return log.InfoLevel, nil
	case "4", "debug":
		return log.DebugLevel, nil
	}
	return log.FatalLevel, errors.Errorf("unknown log level: %q", s)
}
