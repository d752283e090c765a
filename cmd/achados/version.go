package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leeozaka/achados/internal/paths"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "achados %s\n", version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Config prints the configuration after the config file and ACHADOS_*
environment variables are applied. Secrets are left out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := paths.ResolveConfigDir(configDirFlag)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(dir)
		if err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return fmt.Errorf("render config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", dir, out)
		return nil
	},
}
