// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/sdw-news/internal/config"
	"fjacquet/sdw-news/internal/container"
	"fjacquet/sdw-news/internal/logging"
)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig holds the configuration resolved before any subcommand runs
	AppConfig *config.Config

	// ConfigFile is an explicit configuration file given with --config
	ConfigFile string

	// Offline forces fallback templates regardless of credentials
	Offline bool

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "sdw-news",
		Short: "A CLI tool that segments bank customers and attaches personalized investment news.",
		Long: `sdw-news reads a customer dataset, classifies every customer by balance,
drafts one marketing template per segment with a hosted language model (or fixed
fallback copy when none is available) and writes the customers with their
personalized news to a JSON file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			cfg, err := config.LoadConfig(ConfigFile)
			if err != nil {
				return err
			}
			if Offline {
				cfg.AI.Offline = true
			}
			AppConfig = cfg
			Log, _ = container.NewLogger(logConfigForStderr(cfg.Log))
			return nil
		},
	}
)

func init() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Configuration file (default: config.yaml in $HOME/.sdw-news, .sdw-news or the working directory)")
	Cmd.PersistentFlags().BoolVar(&Offline, "offline", false, "Skip remote generation and use the fallback templates")
}

// NewContainer wires the application from AppConfig. Callers must Close it.
func NewContainer(ctx context.Context) (*container.Container, error) {
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	c, err := container.NewContainer(ctx, AppConfig)
	if err != nil {
		return nil, err
	}
	Log = c.GetLogger()
	return c, nil
}

// logConfigForStderr drops the log file so command-level messages printed
// before the container exists never open it twice.
func logConfigForStderr(cfg config.LogConfig) config.LogConfig {
	cfg.File = ""
	return cfg
}
