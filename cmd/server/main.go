// Command server runs the item catalog API gateway.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/config"
	"github.com/ayush/item-catalog/backend/internal/logger"
)

// configFile is set by the --config flag.
var configFile string

// app is what every command runs with. setup builds it once and stores it
// on the command context.
type app struct {
	cfg config.Config
	log *zap.Logger
}

type appKey struct{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Item catalog API gateway",
	Long: `Serves the item catalog API: filtered listings, item creation,
user profiles and signed storage URLs.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a := appFrom(cmd); a != nil {
			_ = a.log.Sync()
		}
	},
	RunE: serve,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (environment variables take precedence)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(migrateCmd)
}

// setup loads the configuration and builds the logger for every command.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a := &app{cfg: cfg, log: logger.New(cfg.LogLevel, cfg.LogFormat)}
	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
	return nil
}

// appFrom returns the app stored by setup, or nil before setup ran.
func appFrom(cmd *cobra.Command) *app {
	ctx := cmd.Context()
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(appKey{}).(*app)
	return a
}
