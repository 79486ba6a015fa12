package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yousuf/jstrace/internal/config"
)

// globalOptions are shared by every subcommand
type globalOptions struct {
	configPath string
	logLevel   string
	runtime    string

	cfg *config.Config
}

func main() {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "jstrace",
		Short: "Parse and fingerprint JavaScript stack traces",
		Long: `Parse stack traces printed by V8 based runtimes (Node.js), compute crash
fingerprints for deduplication and remap frames through source maps.

Configuration is read from --config or the CONFIG_PATH environment variable.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&opts.runtime, "runtime", "r", "", "runtime that produced the traces (default from config: Node.js)")

	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newHashCmd(opts))
	rootCmd.AddCommand(newRemapCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// load reads the configuration, applies flag overrides and sets up logging
func (o *globalOptions) load() error {
	if o.configPath == "" {
		o.configPath = os.Getenv("CONFIG_PATH")
	}

	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.runtime != "" {
		cfg.Runtime = o.runtime
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	o.cfg = cfg
	return nil
}

// readInput returns the contents of the named file, or of the command's stdin
// without one
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}
