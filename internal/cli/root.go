// Package cli provides the command-line interface for the evaluator.
package cli

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"rentab/internal/config"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-18"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "rentab",
		Short: "Rental investment evaluator",
		Long: `rentab estimates the profitability of a rental property purchase.

From the borrower's finances, the loan terms and the property's costs and
income it computes loan affordability, monthly cash flow, gross and net
yield and the internal rate of return.

Inputs start from the [defaults] section of config.toml, can be loaded from
a YAML scenario file with --scenario and are overridden by flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dir, _ := cmd.Flags().GetString("config"); dir != "" {
				app.ConfigDir = dir
			}
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/rentab)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addEvaluationCommands(rootCmd, app)
	rootCmd.AddCommand(newServeCmd(app))

	return rootCmd
}

// ConfigDirFromArgs finds the --config value before cobra parses the
// command line, so configuration can be loaded ahead of building commands.
func ConfigDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
}

func addEvaluationCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newEvaluateCmd(app))
	rootCmd.AddCommand(newSweepCmd(app))
	rootCmd.AddCommand(newReportCmd(app))
	rootCmd.AddCommand(newProfileCmd(app))
	rootCmd.AddCommand(newLoanCmd(app))
	rootCmd.AddCommand(newScenarioCmd(app))
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("rentab v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func (app *App) configDir() string {
	if app.ConfigDir != "" {
		return app.ConfigDir
	}
	return config.DefaultConfigDir()
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			path := filepath.Join(app.configDir(), "config.toml")
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Assumptions")
	output.Printf("  Notary fees:      %.2f%%\n", cfg.Assumptions.NotaryFeesPercent)
	output.Println()

	d := cfg.Defaults
	output.Bold("Scenario Defaults")
	output.Printf("  Age:              %d\n", d.Age)
	output.Printf("  Monthly revenue:  %.2f\n", d.MonthlyRevenue)
	output.Printf("  Down payment:     %.2f\n", d.DownPayment)
	output.Printf("  Rate / duration:  %.2f%% / %d years\n", d.AnnualRate, d.Duration)
	output.Printf("  Purchase price:   %.2f (notary included: %v)\n", d.PurchasePrice, d.NotaryFeesIncluded)
	output.Printf("  Works:            %.2f\n", d.WorksCost)
	output.Printf("  Monthly rent:     %.2f\n", d.MonthlyRent)
	output.Printf("  Property tax:     %.2f\n", d.PropertyTax)
	output.Printf("  Condo fees:       %.2f\n", d.CondoFees)
	output.Printf("  Management:       %.2f%%\n", d.ManagementFeePercent)
	output.Println()

	output.Bold("Server")
	output.Printf("  Address:          %s\n", cfg.Server.Addr)
	redis := cfg.Server.RedisAddr
	if redis == "" {
		redis = "(in-memory cache)"
	}
	output.Printf("  Redis:            %s\n", redis)
	output.Printf("  Cache TTL:        %s\n", cfg.Server.CacheTTL)
	if cfg.Server.RateLimit > 0 {
		output.Printf("  Rate limit:       %.2f req/s (burst %d)\n", cfg.Server.RateLimit, cfg.Server.RateBurst)
	}
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:            %s\n", cfg.Log.Level)
	output.Printf("  File:             %v\n", cfg.Log.File)
	if cfg.Log.File {
		output.Printf("  Path:             %s\n", cfg.Log.FilePath)
	}
}
