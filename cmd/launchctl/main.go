package main

import (
	"fmt"
	"os"

	"github.com/okian/launchdash/internal/config"
	"github.com/okian/launchdash/pkg/logger"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dataPath   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "launchctl",
		Short: "Offline tools for the SpaceX launch records dashboard",
		Long: "launchctl reads the launch records CSV without starting the server:\n" +
			"it lists the selector options, summarizes the table, renders the charts\n" +
			"to files, and probes a running dashboard.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithLevel(g.logLevel))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", os.Getenv(config.EnvConfig), "YAML config file")
	pf.StringVar(&g.dataPath, "data", "", "launch records CSV (overrides data_path)")
	pf.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newOptionsCmd(g))
	root.AddCommand(newSummaryCmd(g))
	root.AddCommand(newRenderCmd(g))
	root.AddCommand(newProbeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
