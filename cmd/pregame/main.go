package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gridironlabs/pregame/pkg/config"
	"github.com/gridironlabs/pregame/pkg/logger"
)

var (
	version   = "dev"
	gitCommit string
)

var (
	cfgPath string
	cfg     *config.Config
)

func main() {
	root := &cobra.Command{
		Use:   "pregame",
		Short: "Multi-agent NFL matchup analysis",
		Long: "pregame runs a set of specialist agents over a task graph to " +
			"estimate the win probability of an upcoming matchup.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
			if cfg.Log.File != "" {
				if err := logger.EnableFileSink(cfg.Log.File); err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "Config file path")

	root.AddCommand(
		newAnalyzeCmd(),
		newHistoryCmd(),
		newNotesCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			v := version
			if gitCommit != "" {
				v += fmt.Sprintf(" (git: %s)", gitCommit)
			}
			fmt.Printf("pregame %s\n  Go: %s\n", v, runtime.Version())
		},
	}
}
