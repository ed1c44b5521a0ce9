// Package main implements retenetctl, the command-line front end over
// a retenet engine: fact loading and saving, template setup, the developer
// diagnostic commands (show-fpn, show-fht, validate-fact-integrity,
// primitives-info/usage), a Datalog query surface over the Mangle
// overlay, fact-file hot reload, and the bubbletea inspector. Adapted
// from the teacher's cmd/nerd/main.go (rootCmd, global flags, the
// PersistentPreRunE logger bring-up) trimmed of everything specific to
// an LLM-driven coding agent — there is no chat mode, no shard system,
// no campaign/auth/browser surface here.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"retenet/internal/config"
	"retenet/internal/logging"
)

var (
	configPath    string
	factsPath     string
	templatesPath string
	auditPath     string
	verbose       bool
	timeout       time.Duration

	settings *config.Settings
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "retenetctl",
	Short: "retenetctl - fact working memory and rule-matching engine CLI",
	Long: `retenetctl drives a retenet engine from the command line: load
templates, load and save facts, run the developer diagnostics
(show-fpn, show-fht, validate-fact-integrity, primitives-info/usage),
query the Datalog overlay, watch a fact file for hot reload, or launch
the bubbletea inspector.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		logging.Init(logger)

		settings, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if verbose {
			settings.Logging.Level = "debug"
		}
		return settings.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "retenet.yaml", "Path to the engine's YAML settings file")
	rootCmd.PersistentFlags().StringVarP(&factsPath, "facts", "f", "", "Path to a fact literal file to load at startup")
	rootCmd.PersistentFlags().StringVarP(&templatesPath, "templates", "t", "", "Path to a YAML template-definitions file to register at startup")
	rootCmd.PersistentFlags().StringVar(&auditPath, "audit-db", "", "Path to a SQLite audit log to attach (empty disables auditing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Query timeout")

	rootCmd.AddCommand(
		loadCmd,
		saveFactsCmd,
		loadTemplatesCmd,
		showFPNCmd,
		showFHTCmd,
		validateIntegrityCmd,
		primitivesInfoCmd,
		primitivesUsageCmd,
		queryCmd,
		watchCmd,
		inspectCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
