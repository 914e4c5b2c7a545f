package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"game-pulse/catalog"
	"game-pulse/config"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	verbose bool
	envFile string
	cfg     config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "game-pulse",
		Short: "Release guide for the most anticipated games of 2026",
		Long: `game-pulse renders the 2026 release guide: a hype-ranked explorer with
genre, quarter and keyword filters, a quarterly roadmap, platform balance and
trend commentary.

The catalog is bundled into the binary; every command works offline.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if a.envFile != "" {
				files = append(files, a.envFile)
			}
			if err := config.LoadDotEnv(files...); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			// the explorer owns the terminal
			if cmd.Name() == "explore" && !a.verbose {
				a.logger = zap.NewNop()
				return nil
			}

			zc := zap.NewProductionConfig()
			if a.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load settings from this file instead of ./.env")

	root.AddCommand(
		a.buildCmd(),
		a.serveCmd(),
		a.exploreCmd(),
		a.exportCmd(),
		a.digestCmd(),
		a.verifyCmd(),
	)
	return root
}

func (a *app) catalog() (*catalog.Catalog, error) {
	c, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	a.logger.Debug("Catalog loaded", zap.Int("games", c.Len()))
	return c, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
