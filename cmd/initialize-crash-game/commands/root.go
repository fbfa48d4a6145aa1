package commands

import (
	"context"
	"fmt"
	"io"

	chainclient "github.com/crashgame/sdk-go/client/chain"
	log "github.com/InjectiveLabs/suplog"
	"github.com/spf13/cobra"
)

// newChainClient is swapped out in tests.
var newChainClient = chainclient.NewChainClient

// Execute runs the command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		cfg        = DefaultConfig()
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "initialize-crash-game",
		Short:         "Initialize the Crash Game on Solana (run once)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveConfig(cmd, cfg, configPath)
			if err != nil {
				return err
			}
			if verbose {
				resolved.LogLevel = "debug"
			}

			level, err := logLevel(resolved.LogLevel)
			if err != nil {
				return err
			}
			log.DefaultLogger.SetLevel(level)

			return runInitialize(cmd.Context(), resolved, verbose, cmd.OutOrStdout())
		},
	}

	flags := root.Flags()
	flags.StringVarP(&cfg.Keypair, "keypair", "k", cfg.Keypair, "Path to wallet keypair")
	flags.StringVarP(&cfg.URL, "url", "u", cfg.URL, "RPC URL")
	flags.StringVar(&cfg.IDL, "idl", "", "Path to an IDL file overriding the bundled one")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: error, warn, info or debug")
	flags.StringVarP(&configPath, "config", "c", "", "YAML file with keypair, url, idl and log_level")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print the instruction before sending it")

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "FAILED:", err.Error())
		for _, line := range chainclient.LogsFromError(err) {
			fmt.Fprintln(stderr, line)
		}
		return 1
	}
	return 0
}

// resolveConfig layers defaults, the optional config file and the flags the
// operator set explicitly, in that order.
func resolveConfig(cmd *cobra.Command, fromFlags Config, configPath string) (Config, error) {
	if configPath == "" {
		return fromFlags, nil
	}

	cfg := DefaultConfig()
	if err := LoadConfigFile(configPath, &cfg); err != nil {
		return Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("keypair") {
		cfg.Keypair = fromFlags.Keypair
	}
	if flags.Changed("url") {
		cfg.URL = fromFlags.URL
	}
	if flags.Changed("idl") {
		cfg.IDL = fromFlags.IDL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = fromFlags.LogLevel
	}
	return cfg, nil
}
