// Package commands implements the dynstore command line tool.
package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ajiwo/dynstore"
	"github.com/ajiwo/dynstore/config"
	"github.com/ajiwo/dynstore/internal/logging"
	"github.com/ajiwo/dynstore/internal/observability"
)

const defaultEnvFile = ".env"

// app holds state shared by the subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	envFile    string

	config    *config.Config
	resolver  *dynstore.Resolver
	logger    zerolog.Logger
	logCloser io.Closer
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "dynstore",
		Short: "Resolve storage backends by name",
		Long: `dynstore resolves storage names against the patterns of a configuration
file and runs simple key/value operations on the resulting backend.

Examples:
  dynstore --config dynstore.yaml patterns
  dynstore --config dynstore.yaml resolve cache_users
  dynstore --config dynstore.yaml set cache_users alice online --ttl 1m`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logCloser != nil {
				return a.logCloser.Close()
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to the YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (json, console)")
	flags.StringVar(&a.envFile, "env-file", defaultEnvFile, "Environment file loaded before the configuration")

	cmd.AddCommand(newResolveCommand(a))
	cmd.AddCommand(newPatternsCommand(a))
	cmd.AddCommand(newGetCommand(a))
	cmd.AddCommand(newSetCommand(a))
	cmd.AddCommand(newDeleteCommand(a))

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := a.loadEnv(cmd); err != nil {
		return err
	}

	a.config = &config.Config{}
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.config = cfg
	}

	logCfg := logging.Config{
		Level:  a.config.Logging.Level,
		Format: a.config.Logging.Format,
		Output: a.config.Logging.Output,
	}
	if a.logLevel != "" {
		logCfg.Level = a.logLevel
	}
	if a.logFormat != "" {
		logCfg.Format = a.logFormat
	}

	var err error
	if logCfg.Output == "" {
		if logCfg.Format == "" && isTerminal(cmd.ErrOrStderr()) {
			logCfg.Format = "console"
		}
		a.logger, err = logging.NewWithWriter(logCfg, cmd.ErrOrStderr())
	} else {
		a.logger, a.logCloser, err = logging.New(logCfg)
	}
	if err != nil {
		return err
	}

	a.resolver, err = a.config.NewResolver(
		dynstore.WithLogger(a.logger),
		dynstore.WithMetrics(observability.Default()),
		dynstore.WithSealOnFirstResolve(),
	)
	return err
}

// loadEnv loads the env file. A missing default file is ignored.
func (a *app) loadEnv(cmd *cobra.Command) error {
	if a.envFile == "" {
		return nil
	}
	err := godotenv.Load(a.envFile)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
		return nil
	}
	return fmt.Errorf("failed to load env file '%s': %w", a.envFile, err)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
