// Package main provides the achados terminal client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configDirFlag string
	dataDirFlag   string
	backendFlag   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "achados",
	Short: "Achados e Perdidos da UESC no terminal",
	Long: `achados is a terminal client for the UESC lost and found service.
Register lost or found objects, follow matches, talk to whoever found
your belongings and, as an administrator, moderate reports.`,
	SilenceUsage: true,
	RunE:         runUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "config directory (default: $XDG_CONFIG_HOME/achados)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory for logs, the sqlite file and exports")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "memory, sqlite or postgres (overrides the config file)")
	rootCmd.Flags().StringVar(&screenFlag, "screen", "", "screen to open first, e.g. dashboard or /admin-reports")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(screensCmd)
}
