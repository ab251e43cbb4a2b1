package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"podbot-be/internal/bootstrap"
	"podbot-be/internal/config"
	"podbot-be/internal/pkg/logger"
	"podbot-be/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	jsonOutput bool

	headerColor = color.New(color.FgCyan, color.Bold)
	userColor   = color.New(color.FgGreen, color.Bold)
	botColor    = color.New(color.FgMagenta, color.Bold)
	dimColor    = color.New(color.Faint)
	okColor     = color.New(color.FgGreen)
)

var rootCmd = &cobra.Command{
	Use:   "podbotctl",
	Short: "Inspect and repair PodBot sessions",
	Long: `Maintenance CLI for the PodBot session store.

It talks to the same Redis, memory server and model provider as the API,
configured through the same environment variables (.env is honoured).

Examples:
  podbotctl sessions list alice
  podbotctl history alice 01HZX3...
  podbotctl rebuild alice 01HZX3...
  podbotctl events tail`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to the console as well as the log file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON instead of formatted output")

	rootCmd.AddCommand(sessionsCmd, historyCmd, sendCmd, clearCmd, rebuildCmd, memoriesCmd, eventsCmd)
}

// withService builds the orchestrator for a single command and tears it down after.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc service.ISessionService) error) error {
	cfg := config.Load()

	var sysLogger logger.ILogger = logger.NewIsolatedLogger(cfg.App.LogFilePath)
	if verbose {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, false)
	}
	defer sysLogger.Sync()

	infra, err := bootstrap.NewInfrastructure(cfg, sysLogger)
	if err != nil {
		return err
	}
	defer infra.Close()

	svc, err := bootstrap.BuildSessionService(cfg, infra)
	if err != nil {
		return err
	}

	return fn(cmd.Context(), svc)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDone(w io.Writer, format string, args ...interface{}) {
	okColor.Fprintf(w, "✓ ")
	fmt.Fprintf(w, format+"\n", args...)
}
